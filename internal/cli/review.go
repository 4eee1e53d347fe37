package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/jehanzaib084/nextjs-payload-pipeline-v1/internal/config"
	"github.com/jehanzaib084/nextjs-payload-pipeline-v1/internal/gemini"
	"github.com/jehanzaib084/nextjs-payload-pipeline-v1/internal/github"
	"github.com/jehanzaib084/nextjs-payload-pipeline-v1/internal/gitctx"
	"github.com/jehanzaib084/nextjs-payload-pipeline-v1/internal/review"
	"github.com/spf13/cobra"
)

// Shared pipeline flags
var (
	flagModel       string
	flagMaxFiles    int
	flagMaxDiff     int
	flagMaxAttempts int
	flagDryRun      bool
	flagNoRedact    bool
)

func addPipelineFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&flagModel, "model", "", "Gemini model name")
	cmd.Flags().IntVar(&flagMaxFiles, "max-files", 0, "Maximum changed files to read for context")
	cmd.Flags().IntVar(&flagMaxDiff, "max-diff-chars", 0, "Maximum diff size in characters")
	cmd.Flags().IntVar(&flagMaxAttempts, "max-attempts", 0, "Maximum Gemini request attempts")
	cmd.Flags().BoolVar(&flagDryRun, "dry-run", false, "Print the result instead of posting or writing")
}

func buildOverrides() map[string]string {
	m := make(map[string]string)
	if flagModel != "" {
		m["model"] = flagModel
	}
	if flagMaxDiff > 0 {
		m["maxDiffChars"] = fmt.Sprintf("%d", flagMaxDiff)
	}
	if flagMaxFiles > 0 {
		m["maxFiles"] = fmt.Sprintf("%d", flagMaxFiles)
	}
	if flagMaxAttempts > 0 {
		m["maxAttempts"] = fmt.Sprintf("%d", flagMaxAttempts)
	}
	return m
}

// parsePipelineArgs validates the two positional arguments shared by the
// review and fix commands: the Gemini API key and the pull request number.
func parsePipelineArgs(args []string) (string, int, error) {
	apiKey := strings.TrimSpace(args[0])
	if apiKey == "" {
		return "", 0, fmt.Errorf("api key is empty")
	}
	number, err := strconv.Atoi(strings.TrimSpace(args[1]))
	if err != nil {
		return "", 0, fmt.Errorf("invalid PR number %q", args[1])
	}
	if number <= 0 {
		return "", 0, fmt.Errorf("PR number must be positive, got %d", number)
	}
	return apiKey, number, nil
}

// newClients builds the GitHub and Gemini clients. Failures here are
// credential or environment problems, the only class that exits nonzero.
func newClients(ctx context.Context, apiKey string, cfg config.Config) (*github.Client, *gemini.Client, error) {
	owner, repo, err := github.ResolveRepo()
	if err != nil {
		return nil, nil, err
	}
	token, err := github.Token()
	if err != nil {
		return nil, nil, err
	}
	gh, err := github.NewClient(owner, repo, token)
	if err != nil {
		return nil, nil, err
	}
	model, err := gemini.NewClient(ctx, apiKey, cfg.Model, cfg.Retry.Policy())
	if err != nil {
		return nil, nil, err
	}
	return gh, model, nil
}

var reviewCmd = &cobra.Command{
	Use:   "review <api-key> <pr-number>",
	Short: "Post an AI review comment on a pull request",
	Long: "Review fetches the pull request diff along with repository context\n" +
		"(key config files, related sources, recent commits), asks Gemini for a\n" +
		"code review, and posts the result as a PR comment.",
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		apiKey, prNumber, err := parsePipelineArgs(args)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitCode = ExitUsageError
			return nil
		}

		cfg, err := config.Load(buildOverrides())
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitCode = ExitUsageError
			return nil
		}
		if flagNoRedact {
			cfg.Privacy.RedactSecrets = false
			fmt.Fprintln(os.Stderr, "WARNING: secret redaction is disabled")
		}

		ctx := newContext()
		gh, model, err := newClients(ctx, apiKey, cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitCode = ExitUsageError
			return nil
		}
		defer model.Close()

		deps := review.Deps{
			GitHub:        gh,
			Model:         model,
			RecentCommits: gitctx.RecentCommits,
		}
		return review.Run(ctx, deps, cfg, review.Options{
			PRNumber: prNumber,
			DryRun:   flagDryRun,
		})
	},
}

func init() {
	addPipelineFlags(reviewCmd)
	reviewCmd.Flags().BoolVar(&flagNoRedact, "no-redact", false, "Disable secret redaction (use with caution)")
}
