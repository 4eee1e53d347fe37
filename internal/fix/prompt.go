package fix

import (
	"strings"

	"github.com/jehanzaib084/nextjs-payload-pipeline-v1/internal/repoctx"
)

const fixPromptHeader = `The following files have code quality issues (linting, formatting, TypeScript errors). Please fix them according to best practices.

Changed Files:
`

const fixPromptFooter = `
Provide the fixed code for each file. Focus on:
- Fixing syntax errors
- Removing unused variables
- Fixing formatting issues
- Ensuring TypeScript compliance
- Following React/Next.js best practices

Output the fixes in the format:
**File: filename**
` + "```code\nfixed code\n```\n"

// BuildPrompt assembles the fix prompt from the changed-file snapshots.
// The footer spells out the marker format the response parser expects.
func BuildPrompt(files []repoctx.FileSnapshot) string {
	var b strings.Builder
	b.WriteString(fixPromptHeader)
	for _, f := range files {
		b.WriteString("\n**")
		b.WriteString(f.Path)
		b.WriteString(":**\n```\n")
		b.WriteString(f.Content)
		b.WriteString("\n```\n")
	}
	b.WriteString(fixPromptFooter)
	return b.String()
}
