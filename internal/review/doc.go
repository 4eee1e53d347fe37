// Package review runs the PR review pipeline.
//
// It fetches the pull request's diff and changed-file list, gathers
// codebase context (recent commits, key configuration files, files
// related to the change, framework versions), asks Gemini for a review,
// and posts the result verbatim as an issue comment under a fixed banner.
//
// The pipeline only degrades: any fetch, completion, or posting failure
// prints a short status line and the run still exits cleanly.
package review
