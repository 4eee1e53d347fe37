package patch

import (
	"strings"
)

const markerPrefix = "**File: "

// FilePatch is one file replacement extracted from a completion response.
type FilePatch struct {
	Path    string
	Content string
}

// Parse extracts file patches from completion text shaped as a sequence of
// "**File: <path>**" marker lines, each followed by a fenced code block.
//
// A marker line flushes any in-progress patch, starts a new one, and resets
// the fence state. A line whose trimmed text starts with a triple backtick
// toggles the inside-a-block state and is never content. Lines accumulate
// only inside a block while a file is current. An unterminated trailing
// block is still flushed at end of input.
//
// This is a best-effort heuristic: markers with empty paths start nothing,
// and content outside the expected shape is dropped silently. Malformed
// input yields zero patches, never an error.
func Parse(text string) []FilePatch {
	var (
		patches []FilePatch
		current string
		lines   []string
		inBlock bool
	)

	flush := func() {
		if current != "" && len(lines) > 0 {
			patches = append(patches, FilePatch{Path: current, Content: strings.Join(lines, "\n")})
		}
		lines = nil
	}

	for _, line := range strings.Split(strings.TrimSuffix(text, "\n"), "\n") {
		switch {
		case strings.HasPrefix(line, markerPrefix):
			flush()
			current = markerPath(line)
			inBlock = false
		case strings.HasPrefix(strings.TrimSpace(line), "```"):
			inBlock = !inBlock
		case inBlock && current != "":
			lines = append(lines, line)
		}
	}
	flush()

	return patches
}

// markerPath returns the path between the marker prefix and the next "**",
// or the rest of the line when the closing stars are missing.
func markerPath(line string) string {
	rest := strings.TrimPrefix(line, markerPrefix)
	if i := strings.Index(rest, "**"); i >= 0 {
		rest = rest[:i]
	}
	return strings.TrimSpace(rest)
}
