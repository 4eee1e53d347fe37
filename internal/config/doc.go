// Package config loads and merges gemini-ci configuration from multiple sources.
//
// Precedence (highest to lowest):
//  1. CLI flags
//  2. Environment variables (GEMINI_CI_MODEL, GEMINI_CI_MAX_ATTEMPTS, etc.)
//  3. Config file (.gemini-ci.json in the working directory)
//  4. Built-in defaults
//
// Use [Load] to obtain a merged [Config].
package config
