// Package github wraps the go-github client with the small surface the
// pipelines need: PR metadata, the unified diff, the changed-file list,
// and posting issue comments.
//
// The target repository comes from GITHUB_REPOSITORY (owner/name) and
// authentication from GITHUB_TOKEN. GITHUB_API_URL points the client at a
// GitHub Enterprise instance.
package github
