// Package sources defines the price source contract and shared helpers.
package sources

import "errors"

var (
	// ErrUnexpectedStatus indicates an unexpected HTTP status code.
	ErrUnexpectedStatus = errors.New("unexpected HTTP status code")
	// ErrInvalidResponse indicates a malformed response from the source.
	ErrInvalidResponse = errors.New("invalid response")
	// ErrMissingCredentials indicates that required credentials are not configured.
	ErrMissingCredentials = errors.New("credentials not configured")
	// ErrAuthFailed indicates that authentication against the source failed.
	ErrAuthFailed = errors.New("authentication failed")
	// ErrScriptFailed indicates that a scraper subprocess exited non-zero.
	ErrScriptFailed = errors.New("scraper script failed")
	// ErrEmptyOutput indicates that a scraper subprocess produced no output.
	ErrEmptyOutput = errors.New("scraper produced no output")
)
