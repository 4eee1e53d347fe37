package cli

import (
	"fmt"
	"os"

	"github.com/jehanzaib084/nextjs-payload-pipeline-v1/internal/config"
	"github.com/jehanzaib084/nextjs-payload-pipeline-v1/internal/fix"
	"github.com/jehanzaib084/nextjs-payload-pipeline-v1/internal/gitctx"
	"github.com/spf13/cobra"
)

var fixCmd = &cobra.Command{
	Use:   "fix <api-key> <pr-number>",
	Short: "Apply AI-generated code quality fixes to the working tree",
	Long: "Fix snapshots the pull request's changed files from the working tree,\n" +
		"asks Gemini for corrected versions, patches the files (keeping .backup\n" +
		"copies), and commits and pushes whatever changed.",
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

		ctx := newContext()
		gh, model, err := newClients(ctx, apiKey, cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitCode = ExitUsageError
			return nil
		}
		defer model.Close()

		deps := fix.Deps{
			GitHub:     gh,
			Model:      model,
			HasChanges: gitctx.HasChanges,
			StageAll:   gitctx.StageAll,
			Commit:     gitctx.Commit,
			Push:       gitctx.Push,
		}
		return fix.Run(ctx, deps, cfg, fix.Options{
			PRNumber: prNumber,
			DryRun:   flagDryRun,
		})
	},
}

func init() {
	addPipelineFlags(fixCmd)
}
