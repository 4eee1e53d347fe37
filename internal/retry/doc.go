// Package retry implements the backoff policy shared by the completion
// pipelines.
//
// Generic failures and empty responses wait BaseDelay * 2^attempt between
// calls. Rate-limited failures wait the delay recovered from the error text
// when one is present, or a fixed fallback otherwise, plus a small buffer.
// Exhausting the attempt budget returns the last error to the caller, which
// treats it as a non-fatal outcome.
package retry
