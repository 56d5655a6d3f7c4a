package sources

import (
	"regexp"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"gc.dev/game-prices/pkg/version"
)

// NewHTTPClient returns a resty client configured for storefront APIs.
// Every API-backed source shares this setup; per-source headers are added
// on individual requests.
func NewHTTPClient(timeout time.Duration) *resty.Client {
	return resty.New().
		SetTimeout(timeout).
		SetHeader("User-Agent", version.AgentString()).
		SetRetryCount(1).
		SetRetryWaitTime(500 * time.Millisecond)
}

var nonSearchChars = regexp.MustCompile(`[^a-zA-Z0-9\s]`)

// SanitizeTitle strips characters that confuse storefront search endpoints
// and scraper argument handling. Keeps letters, digits and spaces.
func SanitizeTitle(title string) string {
	return strings.TrimSpace(nonSearchChars.ReplaceAllString(title, ""))
}
