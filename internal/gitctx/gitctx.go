package gitctx

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

// Per-operation subprocess timeouts. Pushing crosses the network and gets
// the longest budget.
const (
	logTimeout    = 10 * time.Second
	statusTimeout = 10 * time.Second
	addTimeout    = 30 * time.Second
	commitTimeout = 30 * time.Second
	pushTimeout   = 60 * time.Second
)

// RecentCommits returns the last n commit subjects, one per line, newest
// first, as emitted by git log --oneline.
func RecentCommits(ctx context.Context, n int) (string, error) {
	out, err := gitOutput(ctx, logTimeout, "log", "--oneline", "-"+strconv.Itoa(n))
	if err != nil {
		return "", fmt.Errorf("git log: %w", err)
	}
	return strings.TrimSpace(out), nil
}

// HasChanges reports whether the working tree differs from HEAD or the
// index, per git status --porcelain.
func HasChanges(ctx context.Context) (bool, error) {
	out, err := gitOutput(ctx, statusTimeout, "status", "--porcelain")
	if err != nil {
		return false, fmt.Errorf("git status: %w", err)
	}
	return strings.TrimSpace(out) != "", nil
}

// StageAll stages every working-tree change.
func StageAll(ctx context.Context) error {
	if _, err := gitOutput(ctx, addTimeout, "add", "-A"); err != nil {
		return fmt.Errorf("git add: %w", err)
	}
	return nil
}

// Commit records the staged changes with the given message.
func Commit(ctx context.Context, message string) error {
	if _, err := gitOutput(ctx, commitTimeout, "commit", "-m", message); err != nil {
		return fmt.Errorf("git commit: %w", err)
	}
	return nil
}

// Push sends the current branch to its upstream.
func Push(ctx context.Context) error {
	if _, err := gitOutput(ctx, pushTimeout, "push"); err != nil {
		return fmt.Errorf("git push: %w", err)
	}
	return nil
}

func gitOutput(ctx context.Context, timeout time.Duration, args ...string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "git", args...)
	out, err := cmd.Output()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return string(out), fmt.Errorf("%s: %s", err, string(exitErr.Stderr))
		}
		return "", err
	}
	return string(out), nil
}
