package review

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"

	"github.com/jehanzaib084/nextjs-payload-pipeline-v1/internal/config"
	"github.com/jehanzaib084/nextjs-payload-pipeline-v1/internal/github"
	"github.com/jehanzaib084/nextjs-payload-pipeline-v1/internal/redact"
	"github.com/jehanzaib084/nextjs-payload-pipeline-v1/internal/repoctx"
)

// Banner prefixes every posted review comment.
const Banner = "🤖 **Gemini AI Code Review**\n\n"

// commitsFallback replaces the commit history when git is unavailable.
const commitsFallback = "Unable to fetch recent commits."

// PRClient is the GitHub surface the pipeline needs.
type PRClient interface {
	GetPR(ctx context.Context, number int) (*github.PullRequest, error)
	GetDiff(ctx context.Context, number int) (string, error)
	GetChangedFiles(ctx context.Context, number int) ([]github.ChangedFile, error)
	PostComment(ctx context.Context, number int, body string) error
}

// Completer produces the model's review text for a prompt.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Deps are the pipeline's collaborators, injectable for tests.
type Deps struct {
	GitHub        PRClient
	Model         Completer
	RecentCommits func(ctx context.Context, n int) (string, error)
}

// Options control a single run.
type Options struct {
	PRNumber int
	Root     string
	DryRun   bool
	Out      io.Writer
}

// Run executes the review pipeline for one pull request: fetch the diff
// and codebase context, ask the model for a review, and post it as a PR
// comment. Every failure past argument validation degrades to a printed
// message and a nil return.
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
	log.Info().Int("pr", pr.Number).Str("title", pr.Title).Str("url", pr.URL).Msg("reviewing pull request")

	diff, err := deps.GitHub.GetDiff(ctx, opts.PRNumber)
	if err != nil {
		log.Warn().Err(err).Int("pr", opts.PRNumber).Msg("fetching diff failed")
		fmt.Fprintln(out, "Failed to fetch diff")
		return nil
	}
	if strings.TrimSpace(diff) == "" {
		fmt.Fprintln(out, "PR has no diff, nothing to review")
		return nil
	}

	var changed []string
	files, err := deps.GitHub.GetChangedFiles(ctx, opts.PRNumber)
	if err != nil {
		log.Warn().Err(err).Int("pr", opts.PRNumber).Msg("fetching changed files failed, related context skipped")
	} else {
		for _, f := range files {
			changed = append(changed, f.Path)
		}
	}
	if len(changed) > cfg.MaxFiles {
		changed = changed[:cfg.MaxFiles]
	}

	commits := commitsFallback
	if deps.RecentCommits != nil {
		if got, err := deps.RecentCommits(ctx, cfg.RecentCommits); err != nil {
			log.Warn().Err(err).Msg("reading commit history failed")
		} else {
			commits = got
		}
	}

	keyFiles := repoctx.ReadKeyFiles(root, cfg.KeyFiles, cfg.MaxKeyFileChars)
	related := repoctx.RelatedFiles(root, changed, cfg.MaxRelatedFiles, cfg.MaxRelatedChars)
	next, react := repoctx.FrameworkVersions(root)

	diff = repoctx.Truncate(diff, cfg.MaxDiffChars)
	if cfg.Privacy.RedactSecrets {
		diff = redact.Secrets(diff)
		for i := range keyFiles {
			keyFiles[i].Content = redact.Content(keyFiles[i].Content, keyFiles[i].Path, cfg.Privacy.RedactPaths)
		}
		for i := range related {
			related[i].Content = redact.Content(related[i].Content, related[i].Path, cfg.Privacy.RedactPaths)
		}
	}

	prompt := BuildPrompt(PromptContext{
		NextVersion:   next,
		ReactVersion:  react,
		CommitCount:   cfg.RecentCommits,
		RecentCommits: commits,
		KeyFiles:      keyFiles,
		RelatedFiles:  related,
		Diff:          diff,
	})

	text, err := deps.Model.Complete(ctx, prompt)
	if err != nil {
		log.Warn().Err(err).Msg("generating review failed")
		fmt.Fprintln(out, "Failed to generate review")
		return nil
	}

	comment := Banner + text
	if opts.DryRun {
		fmt.Fprintln(out, comment)
		return nil
	}

	if err := deps.GitHub.PostComment(ctx, opts.PRNumber, comment); err != nil {
		log.Warn().Err(err).Int("pr", opts.PRNumber).Msg("posting comment failed")
		fmt.Fprintln(out, "Failed to post comment")
		return nil
	}
	fmt.Fprintln(out, "Review comment posted")
	return nil
}
