// Package feed is the HTTP client for the live prediction service,
// the preferred data source when it is reachable.
package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/fortuna/augur/internal/derive"
)

// DefaultTimeout bounds every feed request. The fetcher treats a
// timeout exactly like any other failure.
const DefaultTimeout = 4 * time.Second

// Client handles live feed API requests.
type Client struct {
	baseURL string
	timeout time.Duration
	http    *http.Client
}

// New creates a feed client with a custom base URL and timeout. A
// zero timeout selects DefaultTimeout.
func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: timeout,
		http:    &http.Client{},
	}
}

// CurrentPredictions fetches the feed's current prediction set along
// with the timestamp the model generated it.
func (c *Client) CurrentPredictions(ctx context.Context) ([]derive.RawRecord, string, error) {
	var resp predictionsResponse
	if err := c.get(ctx, "/api/predictions/current", &resp); err != nil {
		return nil, "", err
	}
	if !resp.Success {
		return nil, "", fmt.Errorf("feed reported failure for current predictions")
	}
	return toRecords(resp.Data.Predictions), resp.Data.GeneratedAt, nil
}

// CurrentResults fetches the settled-bet cover analysis records.
func (c *Client) CurrentResults(ctx context.Context) ([]derive.RawRecord, error) {
	var resp resultsResponse
	if err := c.get(ctx, "/api/results/current", &resp); err != nil {
		return nil, err
	}
	return toRecords(resp.Data.CoverAnalysis), nil
}

// Health checks the feed's health endpoint; any non-2xx is an error.
func (c *Client) Health(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("feed health check: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("feed unhealthy: status %d", resp.StatusCode)
	}
	return nil
}

// PerformanceSummary fetches the feed's own performance summary. The
// shape is not stable across feed versions, so it is passed through
// as-is.
func (c *Client) PerformanceSummary(ctx context.Context) (map[string]any, error) {
	var out map[string]any
	if err := c.get(ctx, "/api/performance/summary", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// get performs a bounded GET and decodes the JSON body into out.
func (c *Client) get(ctx context.Context, path string, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("creating request for %s: %w", path, err)
	}
	req.Header.Set("User-Agent", "augur/1.0")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("feed request %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("feed returned status %d for %s", resp.StatusCode, path)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding %s response: %w", path, err)
	}
	return nil
}

// toRecords flattens decoded JSON rows into string-keyed raw records.
func toRecords(rows []map[string]any) []derive.RawRecord {
	out := make([]derive.RawRecord, 0, len(rows))
	for _, row := range rows {
		rec := make(derive.RawRecord, len(row))
		for k, v := range row {
			rec[k] = toString(v)
		}
		out = append(out, rec)
	}
	return out
}

// toString renders any decoded JSON value as the string form the
// derivation engine consumes. Numbers keep their minimal decimal
// representation.
func toString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		b, _ := json.Marshal(t)
		return string(b)
	}
}
