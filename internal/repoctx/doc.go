// Package repoctx gathers prompt context from the local checkout: key
// project files, the contents of changed files, sibling files related to
// a change, and the framework versions pinned in package.json.
//
// Everything degrades instead of failing: unreadable files are skipped or
// replaced with a placeholder, and version lookups fall back to defaults.
package repoctx
