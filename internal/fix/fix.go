package fix

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"

	"github.com/jehanzaib084/nextjs-payload-pipeline-v1/internal/config"
	"github.com/jehanzaib084/nextjs-payload-pipeline-v1/internal/github"
	"github.com/jehanzaib084/nextjs-payload-pipeline-v1/internal/patch"
	"github.com/jehanzaib084/nextjs-payload-pipeline-v1/internal/repoctx"
)

// CommitMessage is the subject used when committing applied fixes.
const CommitMessage = "Auto-fix code quality issues"

// PRClient is the GitHub surface the pipeline needs.
type PRClient interface {
	GetPR(ctx context.Context, number int) (*github.PullRequest, error)
	GetChangedFiles(ctx context.Context, number int) ([]github.ChangedFile, error)
}

// Completer produces the model's fix response for a prompt.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Deps are the pipeline's collaborators, injectable for tests. The git
// fields default to the real repository operations in the cli layer.
type Deps struct {
	GitHub     PRClient
	Model      Completer
	HasChanges func(ctx context.Context) (bool, error)
	StageAll   func(ctx context.Context) error
	Commit     func(ctx context.Context, message string) error
	Push       func(ctx context.Context) error
}

// Options control a single run.
type Options struct {
	PRNumber int
	Root     string
	DryRun   bool
	Out      io.Writer
}

// Run executes the fix pipeline for one pull request: snapshot the PR's
// changed files from the working tree, ask the model for corrected
// versions, patch the files, and commit and push whatever changed. Every
// failure past argument validation degrades to a printed message and a
// nil return.
func Run(ctx context.Context, deps Deps, cfg config.Config, opts Options) error {
	out := opts.Out
	if out == nil {
		out = os.Stdout
	}
	root := opts.Root
	if root == "" {
		root = "."
	}
	log := zerolog.Ctx(ctx)

	pr, err := deps.GitHub.GetPR(ctx, opts.PRNumber)
	if err != nil {
		log.Warn().Err(err).Int("pr", opts.PRNumber).Msg("fetching PR failed")
		fmt.Fprintln(out, "Failed to fetch PR")
		return nil
	}
	log.Info().Int("pr", pr.Number).Str("title", pr.Title).Msg("fixing pull request")

	var paths []string
	files, err := deps.GitHub.GetChangedFiles(ctx, opts.PRNumber)
	if err != nil {
		log.Warn().Err(err).Int("pr", opts.PRNumber).Msg("fetching changed files failed")
		fmt.Fprintln(out, "Failed to fetch files")
	} else {
		for _, f := range files {
			paths = append(paths, f.Path)
		}
	}

	snapshots := repoctx.ReadChangedFiles(root, paths, cfg.MaxFiles, cfg.MaxFileChars)
	if len(snapshots) == 0 {
		fmt.Fprintln(out, "No files to fix")
		return nil
	}

	text, err := deps.Model.Complete(ctx, BuildPrompt(snapshots))
	if err != nil {
		log.Warn().Err(err).Msg("generating fixes failed")
		fmt.Fprintln(out, "Failed to generate fixes")
		return nil
	}

	patches := patch.Parse(text)
	if len(patches) == 0 {
		fmt.Fprintln(out, "No fixes to apply")
		return nil
	}

	if opts.DryRun {
		for _, p := range patches {
			fmt.Fprintf(out, "Would fix %s (%d bytes)\n", p.Path, len(p.Content))
		}
		return nil
	}

	applier := patch.NewApplier(root)
	applied := 0
	for _, p := range patches {
		if err := applier.Apply(ctx, p); err != nil {
			log.Warn().Err(err).Str("path", p.Path).Msg("applying fix failed")
			fmt.Fprintf(out, "Failed to fix %s\n", p.Path)
			continue
		}
		fmt.Fprintf(out, "Fixed %s\n", p.Path)
		applied++
	}
	if applied == 0 {
		fmt.Fprintln(out, "No fixes applied")
		return nil
	}

	changed, err := deps.HasChanges(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("checking worktree failed")
		fmt.Fprintln(out, "Failed to commit")
		return nil
	}
	if !changed {
		fmt.Fprintln(out, "No changes to commit")
		return nil
	}

	if err := commitAndPush(ctx, deps); err != nil {
		log.Warn().Err(err).Msg("committing fixes failed")
		fmt.Fprintln(out, "Failed to commit")
		return nil
	}
	fmt.Fprintln(out, "Fixes committed and pushed")
	return nil
}

func commitAndPush(ctx context.Context, deps Deps) error {
	if err := deps.StageAll(ctx); err != nil {
		return err
	}
	if err := deps.Commit(ctx, CommitMessage); err != nil {
		return err
	}
	return deps.Push(ctx)
}
