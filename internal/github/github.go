package github

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"

	"github.com/google/go-github/v68/github"
	"golang.org/x/oauth2"
)

// DefaultRepository is used when GITHUB_REPOSITORY is not set.
const DefaultRepository = "jehanzaib084/nextjs-payload-pipeline-v1"

// Client provides access to the GitHub REST API for a single repository.
type Client struct {
	gh    *github.Client
	owner string
	repo  string
}

// Token returns the GitHub token from the environment. A missing token is
// the one failure the pipelines do not degrade on.
func Token() (string, error) {
	token := os.Getenv("GITHUB_TOKEN")
	if token == "" {
		return "", fmt.Errorf("GITHUB_TOKEN environment variable is not set")
	}
	return token, nil
}

// ResolveRepo determines the target repository from GITHUB_REPOSITORY,
// falling back to DefaultRepository.
func ResolveRepo() (owner, name string, err error) {
	full := os.Getenv("GITHUB_REPOSITORY")
	if full == "" {
		full = DefaultRepository
	}
	return SplitRepo(full)
}

// SplitRepo parses an "owner/name" repository identifier.
func SplitRepo(full string) (owner, name string, err error) {
	parts := strings.Split(full, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid repository %q, want owner/name", full)
	}
	return parts[0], parts[1], nil
}

// NewClient creates a client bound to owner/repo. GITHUB_API_URL overrides
// the API base for GitHub Enterprise.
func NewClient(owner, repo, token string) (*Client, error) {
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	httpClient := oauth2.NewClient(context.Background(), ts)
	gh := github.NewClient(httpClient)

	if apiURL := os.Getenv("GITHUB_API_URL"); apiURL != "" {
		base, err := url.Parse(strings.TrimRight(apiURL, "/") + "/")
		if err != nil {
			return nil, fmt.Errorf("parsing GITHUB_API_URL: %w", err)
		}
		gh.BaseURL = base
	}

	return &Client{gh: gh, owner: owner, repo: repo}, nil
}

// Repo returns the bound repository as "owner/name".
func (c *Client) Repo() string {
	return c.owner + "/" + c.repo
}

// PullRequest holds the PR metadata the pipelines need.
type PullRequest struct {
	Number int
	Title  string
	Body   string
	URL    string
}

// ChangedFile describes one file touched by a pull request.
type ChangedFile struct {
	Path      string
	Status    string
	Additions int
	Deletions int
}

// GetPR fetches pull request metadata.
func (c *Client) GetPR(ctx context.Context, number int) (*PullRequest, error) {
	pr, resp, err := c.gh.PullRequests.Get(ctx, c.owner, c.repo, number)
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusNotFound {
			return nil, fmt.Errorf("PR #%d not found in %s/%s", number, c.owner, c.repo)
		}
		return nil, fmt.Errorf("fetching PR #%d: %w", number, err)
	}
	return &PullRequest{
		Number: pr.GetNumber(),
		Title:  pr.GetTitle(),
		Body:   pr.GetBody(),
		URL:    pr.GetHTMLURL(),
	}, nil
}

// GetDiff fetches the unified diff for a pull request.
func (c *Client) GetDiff(ctx context.Context, number int) (string, error) {
	diff, resp, err := c.gh.PullRequests.GetRaw(ctx, c.owner, c.repo, number, github.RawOptions{Type: github.Diff})
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusNotFound {
			return "", fmt.Errorf("PR #%d not found in %s/%s", number, c.owner, c.repo)
		}
		return "", fmt.Errorf("fetching diff for PR #%d: %w", number, err)
	}
	return diff, nil
}

// GetChangedFiles lists the files touched by a pull request.
func (c *Client) GetChangedFiles(ctx context.Context, number int) ([]ChangedFile, error) {
	opts := &github.ListOptions{PerPage: 100}
	files, _, err := c.gh.PullRequests.ListFiles(ctx, c.owner, c.repo, number, opts)
	if err != nil {
		return nil, fmt.Errorf("fetching files for PR #%d: %w", number, err)
	}

	changed := make([]ChangedFile, 0, len(files))
	for _, f := range files {
		changed = append(changed, ChangedFile{
			Path:      f.GetFilename(),
			Status:    f.GetStatus(),
			Additions: f.GetAdditions(),
			Deletions: f.GetDeletions(),
		})
	}
	return changed, nil
}

// PostComment posts an issue comment on a pull request. Anything other
// than a 201 response is an error.
func (c *Client) PostComment(ctx context.Context, number int, body string) error {
	comment := &github.IssueComment{Body: github.Ptr(body)}
	_, resp, err := c.gh.Issues.CreateComment(ctx, c.owner, c.repo, number, comment)
	if err != nil {
		return fmt.Errorf("posting comment on PR #%d: %w", number, err)
	}
	if resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("posting comment on PR #%d: unexpected status %d", number, resp.StatusCode)
	}
	return nil
}
