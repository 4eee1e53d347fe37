// Package gitctx shells out to git for the operations the pipelines need:
// recent-commit history for prompt context, and the status/add/commit/push
// sequence that lands auto-fixes.
//
// Every operation runs under its own timeout via exec.CommandContext, and
// git stderr is folded into returned errors so callers can log what the
// subprocess actually said.
package gitctx
