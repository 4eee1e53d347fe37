// Package patch turns a fix-style completion response into working-tree
// edits.
//
// [Parse] extracts (path, content) pairs from "**File: <path>**" markers and
// their fenced code blocks. [Applier.Apply] overwrites one existing file
// after validating the path and writing a .backup sibling, restoring the
// original content when the write fails.
package patch
