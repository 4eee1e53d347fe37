package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

const version = "1.2.0"

// Exit codes. Pipeline failures past argument and credential checks
// degrade to ExitSuccess so a broken review never blocks a merge.
const (
	ExitSuccess    = 0
	ExitUsageError = 1
)

var rootCmd = &cobra.Command{
	Use:   "gemini-ci",
	Short: "Gemini-backed CI automation for pull requests",
	Long: "gemini-ci reviews pull requests and applies AI-generated code quality fixes.\n" +
		"It is built to run inside CI: failures degrade to status messages and a zero\n" +
		"exit code, so only bad arguments or missing credentials fail the job.",
}

// Run executes the root command and returns an exit code.
func Run() int {
	rootCmd.AddCommand(reviewCmd)
	rootCmd.AddCommand(fixCmd)
	rootCmd.AddCommand(versionCmd)

	if err := rootCmd.Execute(); err != nil {
		// Cobra already prints the error
		return ExitUsageError
	}

	return exitCode
}

// exitCode is set by command handlers to control the process exit code.
var exitCode = ExitSuccess

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print gemini-ci version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(os.Stdout, "gemini-ci version %s\n", version)
	},
}

var flagVerbose bool

func init() {
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable debug logging")
}

// newContext returns a context carrying the process logger. Log output
// goes to stderr so stdout stays clean for pipeline status lines.
func newContext() context.Context {
	level := zerolog.InfoLevel
	if flagVerbose {
		level = zerolog.DebugLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().Timestamp().Logger()
	return logger.WithContext(context.Background())
}
