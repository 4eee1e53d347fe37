// Gemini-ci runs Gemini-backed automation for pull requests in CI.
//
// It posts AI review comments on pull requests and applies AI-generated
// code quality fixes, committing and pushing the result. Pipeline failures
// degrade to status messages and a zero exit code so a flaky model or API
// never blocks a merge; only bad arguments or missing credentials exit
// nonzero.
//
// Usage:
//
//	gemini-ci review <api-key> <pr-number>   # post an AI review comment
//	gemini-ci fix <api-key> <pr-number>      # fix, commit, and push
//	gemini-ci version                        # print the version
//
// The GitHub token is read from GITHUB_TOKEN and the repository from
// GITHUB_REPOSITORY.
package main
