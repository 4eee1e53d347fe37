package fix

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jehanzaib084/nextjs-payload-pipeline-v1/internal/config"
	"github.com/jehanzaib084/nextjs-payload-pipeline-v1/internal/github"
)

type fakeGitHub struct {
	prErr    error
	files    []github.ChangedFile
	filesErr error
}

func (f *fakeGitHub) GetPR(ctx context.Context, number int) (*github.PullRequest, error) {
	if f.prErr != nil {
		return nil, f.prErr
	}
	return &github.PullRequest{Number: number, Title: "Test PR"}, nil
}

func (f *fakeGitHub) GetChangedFiles(ctx context.Context, number int) ([]github.ChangedFile, error) {
	return f.files, f.filesErr
}

type fakeModel struct {
	text    string
	err     error
	prompts []string
}

func (f *fakeModel) Complete(ctx context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	return f.text, f.err
}

// gitSpy records which git operations ran and in what order.
type gitSpy struct {
	hasChanges bool
	hasErr     error
	stageErr   error
	commitErr  error
	pushErr    error
	calls      []string
	message    string
}

func (g *gitSpy) wire(deps *Deps) {
	deps.HasChanges = func(ctx context.Context) (bool, error) {
		g.calls = append(g.calls, "status")
		return g.hasChanges, g.hasErr
	}
	deps.StageAll = func(ctx context.Context) error {
		g.calls = append(g.calls, "add")
		return g.stageErr
	}
	deps.Commit = func(ctx context.Context, message string) error {
		g.calls = append(g.calls, "commit")
		g.message = message
		return g.commitErr
	}
	deps.Push = func(ctx context.Context) error {
		g.calls = append(g.calls, "push")
		return g.pushErr
	}
}

func testDeps(gh *fakeGitHub, model *fakeModel, git *gitSpy) Deps {
	deps := Deps{GitHub: gh, Model: model}
	git.wire(&deps)
	return deps
}

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	full := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func readFile(t *testing.T, root, rel string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(rel)))
	if err != nil {
		t.Fatalf("read %s: %v", rel, err)
	}
	return string(data)
}

const fixResponse = "Here are the fixes:\n\n" +
	"**File: src/a.ts**\n```code\nconst a = 1;\n```\n\n" +
	"**File: src/b.ts**\n```\nconst b = 2;\n```\n"

func TestRun_AppliesFixesAndCommits(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "src/a.ts", "let a=1")
	writeFile(t, root, "src/b.ts", "let b=2")

	gh := &fakeGitHub{files: []github.ChangedFile{
		{Path: "src/a.ts", Status: "modified"},
		{Path: "src/b.ts", Status: "modified"},
	}}
	model := &fakeModel{text: fixResponse}
	git := &gitSpy{hasChanges: true}
	var out bytes.Buffer

	err := Run(context.Background(), testDeps(gh, model, git), config.Default(), Options{
		PRNumber: 7,
		Root:     root,
		Out:      &out,
	})
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}

	if got := readFile(t, root, "src/a.ts"); got != "const a = 1;" {
		t.Errorf("a.ts = %q", got)
	}
	if got := readFile(t, root, "src/b.ts"); got != "const b = 2;" {
		t.Errorf("b.ts = %q", got)
	}
	if got := readFile(t, root, "src/a.ts.backup"); got != "let a=1" {
		t.Errorf("a.ts.backup = %q", got)
	}

	wantCalls := []string{"status", "add", "commit", "push"}
	if len(git.calls) != len(wantCalls) {
		t.Fatalf("git calls = %v, want %v", git.calls, wantCalls)
	}
	for i, c := range wantCalls {
		if git.calls[i] != c {
			t.Errorf("git calls[%d] = %q, want %q", i, git.calls[i], c)
		}
	}
	if git.message != "Auto-fix code quality issues" {
		t.Errorf("commit message = %q", git.message)
	}

	for _, want := range []string{"Fixed src/a.ts", "Fixed src/b.ts", "Fixes committed and pushed"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("out missing %q:\n%s", want, out.String())
		}
	}
}

func TestRun_NoChangesNoCommit(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "src/a.ts", "const a = 1;")

	gh := &fakeGitHub{files: []github.ChangedFile{{Path: "src/a.ts"}}}
	model := &fakeModel{text: "**File: src/a.ts**\n```\nconst a = 1;\n```\n"}
	git := &gitSpy{hasChanges: false}
	var out bytes.Buffer

	if err := Run(context.Background(), testDeps(gh, model, git), config.Default(), Options{
		PRNumber: 7,
		Root:     root,
		Out:      &out,
	}); err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if !strings.Contains(out.String(), "No changes to commit") {
		t.Errorf("out = %q", out.String())
	}
	for _, c := range git.calls {
		if c == "add" || c == "commit" || c == "push" {
			t.Errorf("unexpected git call %q", c)
		}
	}
}

func TestRun_NoFilesToFix(t *testing.T) {
	gh := &fakeGitHub{}
	model := &fakeModel{text: "unused"}
	git := &gitSpy{}
	var out bytes.Buffer

	if err := Run(context.Background(), testDeps(gh, model, git), config.Default(), Options{
		PRNumber: 7,
		Root:     t.TempDir(),
		Out:      &out,
	}); err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if !strings.Contains(out.String(), "No files to fix") {
		t.Errorf("out = %q", out.String())
	}
	if len(model.prompts) != 0 {
		t.Errorf("model called %d times, want 0", len(model.prompts))
	}
}

func TestRun_FetchPRFails(t *testing.T) {
	gh := &fakeGitHub{prErr: fmt.Errorf("boom")}
	model := &fakeModel{text: "unused"}
	git := &gitSpy{}
	var out bytes.Buffer

	if err := Run(context.Background(), testDeps(gh, model, git), config.Default(), Options{
		PRNumber: 7,
		Root:     t.TempDir(),
		Out:      &out,
	}); err != nil {
		t.Fatalf("Run should degrade, got %v", err)
	}
	if !strings.Contains(out.String(), "Failed to fetch PR") {
		t.Errorf("out = %q", out.String())
	}
}

func TestRun_FilesFetchFails(t *testing.T) {
	gh := &fakeGitHub{filesErr: fmt.Errorf("500")}
	model := &fakeModel{text: "unused"}
	git := &gitSpy{}
	var out bytes.Buffer

	if err := Run(context.Background(), testDeps(gh, model, git), config.Default(), Options{
		PRNumber: 7,
		Root:     t.TempDir(),
		Out:      &out,
	}); err != nil {
		t.Fatalf("Run should degrade, got %v", err)
	}
	if !strings.Contains(out.String(), "Failed to fetch files") {
		t.Errorf("out = %q", out.String())
	}
	if !strings.Contains(out.String(), "No files to fix") {
		t.Errorf("out = %q", out.String())
	}
}

func TestRun_CompleteFails(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.ts", "x")

	gh := &fakeGitHub{files: []github.ChangedFile{{Path: "a.ts"}}}
	model := &fakeModel{err: fmt.Errorf("quota")}
	git := &gitSpy{}
	var out bytes.Buffer

	if err := Run(context.Background(), testDeps(gh, model, git), config.Default(), Options{
		PRNumber: 7,
		Root:     root,
		Out:      &out,
	}); err != nil {
		t.Fatalf("Run should degrade, got %v", err)
	}
	if !strings.Contains(out.String(), "Failed to generate fixes") {
		t.Errorf("out = %q", out.String())
	}
}

func TestRun_NoParsablePatches(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.ts", "x")

	gh := &fakeGitHub{files: []github.ChangedFile{{Path: "a.ts"}}}
	model := &fakeModel{text: "Everything looks fine, nothing to change."}
	git := &gitSpy{}
	var out bytes.Buffer

	if err := Run(context.Background(), testDeps(gh, model, git), config.Default(), Options{
		PRNumber: 7,
		Root:     root,
		Out:      &out,
	}); err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if !strings.Contains(out.String(), "No fixes to apply") {
		t.Errorf("out = %q", out.String())
	}
	if len(git.calls) != 0 {
		t.Errorf("git calls = %v, want none", git.calls)
	}
}

func TestRun_UnsafePathSkipped(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "ok.ts", "old")

	response := "**File: ../evil.ts**\n```\npwned\n```\n" +
		"**File: ok.ts**\n```\nnew\n```\n"
	gh := &fakeGitHub{files: []github.ChangedFile{{Path: "ok.ts"}}}
	model := &fakeModel{text: response}
	git := &gitSpy{hasChanges: true}
	var out bytes.Buffer

	if err := Run(context.Background(), testDeps(gh, model, git), config.Default(), Options{
		PRNumber: 7,
		Root:     root,
		Out:      &out,
	}); err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if !strings.Contains(out.String(), "Failed to fix ../evil.ts") {
		t.Errorf("out = %q", out.String())
	}
	if !strings.Contains(out.String(), "Fixed ok.ts") {
		t.Errorf("out = %q", out.String())
	}
	if got := readFile(t, root, "ok.ts"); got != "new" {
		t.Errorf("ok.ts = %q", got)
	}
	if _, err := os.Stat(filepath.Join(filepath.Dir(root), "evil.ts")); !os.IsNotExist(err) {
		t.Errorf("file escaped the root")
	}
}

func TestRun_AllAppliesFailNoCommit(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "present.ts", "x")

	gh := &fakeGitHub{files: []github.ChangedFile{{Path: "present.ts"}}}
	model := &fakeModel{text: "**File: missing.ts**\n```\ny\n```\n"}
	git := &gitSpy{hasChanges: true}
	var out bytes.Buffer

	if err := Run(context.Background(), testDeps(gh, model, git), config.Default(), Options{
		PRNumber: 7,
		Root:     root,
		Out:      &out,
	}); err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if !strings.Contains(out.String(), "No fixes applied") {
		t.Errorf("out = %q", out.String())
	}
	if len(git.calls) != 0 {
		t.Errorf("git calls = %v, want none", git.calls)
	}
}

func TestRun_DryRun(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "src/a.ts", "let a=1")

	gh := &fakeGitHub{files: []github.ChangedFile{{Path: "src/a.ts"}}}
	model := &fakeModel{text: "**File: src/a.ts**\n```\nconst a = 1;\n```\n"}
	git := &gitSpy{hasChanges: true}
	var out bytes.Buffer

	if err := Run(context.Background(), testDeps(gh, model, git), config.Default(), Options{
		PRNumber: 7,
		Root:     root,
		DryRun:   true,
		Out:      &out,
	}); err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if !strings.Contains(out.String(), "Would fix src/a.ts (12 bytes)") {
		t.Errorf("out = %q", out.String())
	}
	if got := readFile(t, root, "src/a.ts"); got != "let a=1" {
		t.Errorf("dry run modified the file: %q", got)
	}
	if len(git.calls) != 0 {
		t.Errorf("git calls = %v, want none", git.calls)
	}
}

func TestRun_CommitFails(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.ts", "old")

	gh := &fakeGitHub{files: []github.ChangedFile{{Path: "a.ts"}}}
	model := &fakeModel{text: "**File: a.ts**\n```\nnew\n```\n"}
	git := &gitSpy{hasChanges: true, commitErr: fmt.Errorf("hook rejected")}
	var out bytes.Buffer

	if err := Run(context.Background(), testDeps(gh, model, git), config.Default(), Options{
		PRNumber: 7,
		Root:     root,
		Out:      &out,
	}); err != nil {
		t.Fatalf("Run should degrade, got %v", err)
	}
	if !strings.Contains(out.String(), "Failed to commit") {
		t.Errorf("out = %q", out.String())
	}
}

func TestRun_PromptFormat(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "src/a.ts", "let a=1")

	gh := &fakeGitHub{files: []github.ChangedFile{{Path: "src/a.ts"}}}
	model := &fakeModel{text: "no patches"}
	git := &gitSpy{}
	var out bytes.Buffer

	if err := Run(context.Background(), testDeps(gh, model, git), config.Default(), Options{
		PRNumber: 7,
		Root:     root,
		Out:      &out,
	}); err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if len(model.prompts) != 1 {
		t.Fatalf("model called %d times, want 1", len(model.prompts))
	}
	prompt := model.prompts[0]
	for _, want := range []string{
		"code quality issues (linting, formatting, TypeScript errors)",
		"**src/a.ts:**\n```\nlet a=1\n```",
		"- Removing unused variables",
		"**File: filename**",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q:\n%s", want, prompt)
		}
	}
}
