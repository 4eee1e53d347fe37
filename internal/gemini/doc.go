// Package gemini is a thin completion client over the official Gemini SDK.
//
// It sends a single prompt, flattens the candidate parts into one string,
// and retries failed attempts according to a [retry.Policy]. Rate-limited
// requests honor the delay the API suggests in its error text.
package gemini
