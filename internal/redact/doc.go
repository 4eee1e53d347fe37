// Package redact removes secrets from text before it is embedded in a
// completion prompt.
//
// Detection uses regex heuristics covering the secret shapes common in a
// Next.js/Payload working tree: API keys, Payload and generic env secrets,
// database connection strings with inline credentials, Google API keys,
// GitHub and Vercel tokens, JWTs, bearer tokens, and private key blocks.
//
// Path-based redaction is also supported: files whose paths match configured
// glob patterns have their entire content replaced with [REDACTED] rather
// than being scanned.
package redact
