package patch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
)

// BackupSuffix names the sibling file holding the pre-patch content.
const BackupSuffix = ".backup"

// ErrUnsafePath marks paths rejected before any filesystem access.
var ErrUnsafePath = errors.New("unsafe path")

// Applier overwrites files in a working tree with patch content. It only
// patches files that already exist under the root; it never creates them.
type Applier struct {
	root string

	// writeFile is swapped by tests to exercise write-failure recovery.
	writeFile func(name string, data []byte, perm fs.FileMode) error
}

// NewApplier returns an Applier rooted at dir.
func NewApplier(dir string) *Applier {
	return &Applier{root: dir, writeFile: os.WriteFile}
}

// Apply backs up and overwrites the file named by p. The backup write is
// best-effort; a failed content write restores the original bytes. Returns
// nil only when the new content landed.
func (a *Applier) Apply(ctx context.Context, p FilePatch) error {
	if err := checkPath(p.Path); err != nil {
		return err
	}

	target := filepath.Join(a.root, filepath.FromSlash(p.Path))
	info, err := os.Stat(target)
	if err != nil {
		return fmt.Errorf("not patching %s: %w", p.Path, err)
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("not patching %s: not a regular file", p.Path)
	}

	original, err := os.ReadFile(target)
	if err != nil {
		return fmt.Errorf("reading %s: %w", p.Path, err)
	}

	perm := info.Mode().Perm()
	if err := a.writeFile(target+BackupSuffix, original, perm); err != nil {
		zerolog.Ctx(ctx).Warn().Str("file", p.Path).Err(err).Msg("backup failed, patching anyway")
	}

	if err := a.writeFile(target, []byte(p.Content), perm); err != nil {
		if rerr := a.writeFile(target, original, perm); rerr != nil {
			zerolog.Ctx(ctx).Error().Str("file", p.Path).Err(rerr).Msg("restore after failed write also failed")
		}
		return fmt.Errorf("writing %s: %w", p.Path, err)
	}
	return nil
}

// checkPath rejects empty, absolute, and parent-traversing paths.
func checkPath(path string) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("%w: empty", ErrUnsafePath)
	}
	if filepath.IsAbs(path) || strings.HasPrefix(path, "/") || strings.HasPrefix(path, "\\") {
		return fmt.Errorf("%w: %q is absolute", ErrUnsafePath, path)
	}
	for _, seg := range strings.Split(filepath.ToSlash(path), "/") {
		if seg == ".." {
			return fmt.Errorf("%w: %q traverses parent directories", ErrUnsafePath, path)
		}
	}
	return nil
}
