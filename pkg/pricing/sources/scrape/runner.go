// Package scrape implements the price sources backed by headless-browser
// scraper subprocesses.
package scrape

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"time"

	"github.com/shopspring/decimal"

	"gc.dev/game-prices/pkg/logging"
	"gc.dev/game-prices/pkg/pricing/sources"
)

// Item is one scraped listing. Scripts may emit a single object or an
// array of them as one line of JSON on stdout.
type Item struct {
	Title    string          `json:"title"`
	Price    decimal.Decimal `json:"price"`
	URL      string          `json:"url,omitempty"`
	Category string          `json:"category,omitempty"`
}

// Runner invokes a scraper script and enforces the JSON-on-stdout
// protocol: one JSON document, exit code 0. Anything else is an error the
// caller treats like a failed network call.
type Runner struct {
	nodeBin string
	timeout time.Duration
	logger  *logging.Logger
}

// NewRunner creates a scraper runner.
func NewRunner(nodeBin string, timeout time.Duration, logger *logging.Logger) *Runner {
	return &Runner{
		nodeBin: nodeBin,
		timeout: timeout,
		logger:  logger,
	}
}

// Run executes the script with the sanitized title and platform as
// positional arguments and parses its stdout.
func (r *Runner) Run(ctx context.Context, script, title, platform string) ([]Item, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, r.nodeBin, script, title, platform)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		r.logger.Debug("Scraper stderr", "script", script, "stderr", truncate(stderr.String(), 500))
		return nil, fmt.Errorf("%w: %s: %v", sources.ErrScriptFailed, script, err)
	}

	out := bytes.TrimSpace(stdout.Bytes())
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: %s", sources.ErrEmptyOutput, script)
	}

	return parseItems(out)
}

// parseItems accepts either a single item object or an array of items.
func parseItems(out []byte) ([]Item, error) {
	if bytes.HasPrefix(out, []byte("[")) {
		var items []Item
		if err := json.Unmarshal(out, &items); err != nil {
			return nil, fmt.Errorf("%w: %v", sources.ErrInvalidResponse, err)
		}
		return items, nil
	}

	var item Item
	if err := json.Unmarshal(out, &item); err != nil {
		return nil, fmt.Errorf("%w: %v", sources.ErrInvalidResponse, err)
	}
	if item.Title == "" {
		return nil, fmt.Errorf("%w: object without title", sources.ErrInvalidResponse)
	}
	return []Item{item}, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
