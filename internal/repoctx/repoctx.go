package repoctx

import (
	"encoding/json"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// MissingFilePlaceholder stands in for key files that cannot be read, so
// the prompt keeps a stable shape.
const MissingFilePlaceholder = "File not found or unreadable."

// Fallback versions when package.json does not pin them.
const (
	DefaultNextVersion  = "15"
	DefaultReactVersion = "19"
)

// relatedPerDir caps how many sibling files are taken from each directory.
const relatedPerDir = 3

// relatedExts are the file types considered related to a change.
var relatedExts = []string{".ts", ".tsx", ".js", ".jsx"}

// FileSnapshot is a capped copy of one file's content, keyed by its
// repo-relative path.
type FileSnapshot struct {
	Path    string
	Content string
}

// Truncate caps s at max bytes. Non-positive max means no cap.
func Truncate(s string, max int) string {
	if max > 0 && len(s) > max {
		return s[:max]
	}
	return s
}

// ReadKeyFiles reads the configured project files from root, capping each
// at maxChars. Unreadable files get MissingFilePlaceholder instead of
// being dropped.
func ReadKeyFiles(root string, paths []string, maxChars int) []FileSnapshot {
	out := make([]FileSnapshot, 0, len(paths))
	for _, p := range paths {
		data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(p)))
		if err != nil {
			out = append(out, FileSnapshot{Path: p, Content: MissingFilePlaceholder})
			continue
		}
		out = append(out, FileSnapshot{Path: p, Content: Truncate(string(data), maxChars)})
	}
	return out
}

// ReadChangedFiles reads the first max changed files from root, capping
// each at maxChars. Unreadable files are skipped silently.
func ReadChangedFiles(root string, paths []string, max, maxChars int) []FileSnapshot {
	if max > 0 && len(paths) > max {
		paths = paths[:max]
	}
	var out []FileSnapshot
	for _, p := range paths {
		data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(p)))
		if err != nil {
			continue
		}
		out = append(out, FileSnapshot{Path: p, Content: Truncate(string(data), maxChars)})
	}
	return out
}

// RelatedFiles finds code files that share a directory with the changed
// files: up to relatedPerDir candidates per directory, max overall, each
// capped at maxChars. The changed file itself and duplicates are skipped;
// top-level changes contribute nothing.
func RelatedFiles(root string, changed []string, max, maxChars int) []FileSnapshot {
	seen := make(map[string]bool)
	var out []FileSnapshot
	for _, changedPath := range changed {
		if max > 0 && len(out) >= max {
			break
		}
		dir := path.Dir(changedPath)
		if dir == "." || dir == "" || dir == "/" {
			continue
		}
		entries, err := os.ReadDir(filepath.Join(root, filepath.FromSlash(dir)))
		if err != nil {
			continue
		}
		count := 0
		for _, e := range entries {
			if count >= relatedPerDir {
				break
			}
			if e.IsDir() || !hasRelatedExt(e.Name()) {
				continue
			}
			count++
			relPath := path.Join(dir, e.Name())
			if relPath == changedPath || seen[relPath] {
				continue
			}
			data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(relPath)))
			if err != nil {
				continue
			}
			seen[relPath] = true
			out = append(out, FileSnapshot{Path: relPath, Content: Truncate(string(data), maxChars)})
			if max > 0 && len(out) >= max {
				break
			}
		}
	}
	return out
}

func hasRelatedExt(name string) bool {
	for _, ext := range relatedExts {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}

// FrameworkVersions reads the next and react versions from package.json
// under root, falling back to the defaults when the file or the entries
// are missing.
func FrameworkVersions(root string) (next, react string) {
	next, react = DefaultNextVersion, DefaultReactVersion

	data, err := os.ReadFile(filepath.Join(root, "package.json"))
	if err != nil {
		return next, react
	}
	var pkg struct {
		Dependencies    map[string]string `json:"dependencies"`
		DevDependencies map[string]string `json:"devDependencies"`
	}
	if err := json.Unmarshal(data, &pkg); err != nil {
		return next, react
	}

	if v := lookupDep(pkg.Dependencies, pkg.DevDependencies, "next"); v != "" {
		next = v
	}
	if v := lookupDep(pkg.Dependencies, pkg.DevDependencies, "react"); v != "" {
		react = v
	}
	return next, react
}

func lookupDep(deps, devDeps map[string]string, name string) string {
	if v, ok := deps[name]; ok {
		return cleanVersion(v)
	}
	if v, ok := devDeps[name]; ok {
		return cleanVersion(v)
	}
	return ""
}

// cleanVersion strips range operators so "^15.1.2" reads as "15.1.2".
func cleanVersion(v string) string {
	return strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(v), "^~><=v"))
}
