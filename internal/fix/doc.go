// Package fix runs the auto-fix pipeline.
//
// It snapshots the pull request's changed files from the local checkout,
// asks Gemini for corrected file contents, parses the response's
// "**File: path**" sections, patches the files with backups, and commits
// and pushes the result when the working tree actually changed.
//
// Like the review pipeline, every failure degrades to a status line; the
// run never fails CI.
package fix
