package review

import (
	"fmt"
	"strings"

	"github.com/jehanzaib084/nextjs-payload-pipeline-v1/internal/repoctx"
)

const reviewPromptFocus = `Identify any issues, bugs, security vulnerabilities, or improvements.
Focus on:
- Code quality and adherence to SDLC (Software Development Life Cycle) principles
- DRY (Don't Repeat Yourself) - avoid code duplication
- Use of latest React hooks and features where appropriate
- Next.js best practices (e.g., proper use of SSR, ISR, API routes)
- Potential bugs and security issues
- Performance optimizations
- TypeScript usage (if applicable)
- Accessibility and maintainability

For minor issues, suggest specific fixes. For major issues, flag them as critical.
Encourage modern React patterns like hooks over class components, and Next.js 13+ app directory features if applicable.`

// PromptContext carries everything the review prompt embeds.
type PromptContext struct {
	NextVersion   string
	ReactVersion  string
	CommitCount   int
	RecentCommits string
	KeyFiles      []repoctx.FileSnapshot
	RelatedFiles  []repoctx.FileSnapshot
	Diff          string
}

// BuildPrompt assembles the review prompt: project framing, codebase
// context, the focus list, and the diff last.
func BuildPrompt(pc PromptContext) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Review the following code changes from a GitHub PR for a Next.js project. The project uses Next.js version %s and React version %s.\n\n", pc.NextVersion, pc.ReactVersion)
	fmt.Fprintf(&b, "Refer to the official Next.js documentation for version %s best practices: https://nextjs.org/docs\n", pc.NextVersion)
	fmt.Fprintf(&b, "Refer to React documentation for version %s: https://react.dev\n\n", pc.ReactVersion)

	b.WriteString("**Additional Context from Codebase:**\n\n")
	fmt.Fprintf(&b, "**Recent Commit History (last %d commits):**\n%s\n\n", pc.CommitCount, pc.RecentCommits)

	b.WriteString("**Key Configuration Files:**\n")
	for _, f := range pc.KeyFiles {
		writeFileSection(&b, f)
	}

	b.WriteString("\n**Related Files (top similar files to changed ones):**\n")
	for _, f := range pc.RelatedFiles {
		writeFileSection(&b, f)
	}

	b.WriteString("\n")
	b.WriteString(reviewPromptFocus)
	b.WriteString("\n\nPR Diff:\n")
	b.WriteString(pc.Diff)
	b.WriteString("\n")

	return b.String()
}

func writeFileSection(b *strings.Builder, f repoctx.FileSnapshot) {
	fmt.Fprintf(b, "\n**%s:**\n```\n%s\n```\n", f.Path, f.Content)
}
