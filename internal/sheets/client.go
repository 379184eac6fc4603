// Package sheets reads the fallback spreadsheet through the Google
// Sheets v4 values API and realigns its row-major grids into keyed
// records.
package sheets

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// BaseURL is the Sheets values API root.
const BaseURL = "https://sheets.googleapis.com/v4/spreadsheets"

// requestTimeout bounds every spreadsheet request.
const requestTimeout = 4 * time.Second

// Client reads named ranges from one spreadsheet.
type Client struct {
	baseURL       string
	spreadsheetID string
	creds         *Credentials
	http          *http.Client
}

// New creates a sheets client with a custom base URL.
func New(baseURL, spreadsheetID string, creds *Credentials) *Client {
	if baseURL == "" {
		baseURL = BaseURL
	}
	return &Client{
		baseURL:       baseURL,
		spreadsheetID: spreadsheetID,
		creds:         creds,
		http:          &http.Client{},
	}
}

// NewClient creates a sheets client against the real API.
func NewClient(spreadsheetID string, creds *Credentials) *Client {
	return New(BaseURL, spreadsheetID, creds)
}

// valuesResponse mirrors the values.get API response.
type valuesResponse struct {
	Range  string  `json:"range"`
	Values [][]any `json:"values"`
}

// Values fetches one named range as a row-major grid of strings.
func (c *Client) Values(ctx context.Context, rangeName string) ([][]string, error) {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	u := fmt.Sprintf("%s/%s/values/%s?key=%s",
		c.baseURL,
		url.PathEscape(c.spreadsheetID),
		url.PathEscape(rangeName),
		url.QueryEscape(c.creds.APIKey))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request for range %q: %w", rangeName, err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sheets request for range %q: %w", rangeName, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("sheets returned status %d for range %q", resp.StatusCode, rangeName)
	}

	var vr valuesResponse
	if err := json.NewDecoder(resp.Body).Decode(&vr); err != nil {
		return nil, fmt.Errorf("decoding values for range %q: %w", rangeName, err)
	}

	grid := make([][]string, 0, len(vr.Values))
	for _, row := range vr.Values {
		cells := make([]string, len(row))
		for i, cell := range row {
			cells[i] = cellString(cell)
		}
		grid = append(grid, cells)
	}
	return grid, nil
}

// cellString renders a cell value as a string. Unformatted sheets can
// return numbers and bools instead of strings.
func cellString(v any) string {
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
