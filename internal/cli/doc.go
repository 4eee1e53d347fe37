// Package cli wires together the Cobra command tree for the gemini-ci binary.
//
// It defines the root command and its subcommands (review, fix, version),
// binds flags, validates arguments and credentials, constructs the GitHub
// and Gemini clients, and hands off to the pipeline packages. Only argument
// and credential errors produce a nonzero exit code.
package cli
