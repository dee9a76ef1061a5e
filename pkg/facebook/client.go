// Package facebook is a thin client for the Facebook Marketing insights
// endpoint. The report core treats its output as a pass-through table.
package facebook

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rotisserie/eris"
)

const defaultBaseURL = "https://graph.facebook.com/v18.0"

const insightFields = "campaign_name,spend,impressions,clicks,ctr,cpm"

// Presets enumerates the accepted date range presets.
var Presets = []string{"today", "yesterday", "last_7d", "this_month", "last_month"}

// ValidPreset reports whether the preset is one of the accepted values.
func ValidPreset(preset string) bool {
	for _, p := range Presets {
		if p == preset {
			return true
		}
	}
	return false
}

// Insight is one campaign's spend metrics. The API returns every numeric
// field as a string; values pass through unparsed.
type Insight struct {
	CampaignName string `json:"campaign_name"`
	Spend        string `json:"spend"`
	Impressions  string `json:"impressions"`
	Clicks       string `json:"clicks"`
	CTR          string `json:"ctr"`
	CPM          string `json:"cpm"`
}

// Client fetches campaign insights.
type Client interface {
	CampaignInsights(ctx context.Context, adAccountID, datePreset string) ([]Insight, error)
}

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL overrides the default Graph API base URL.
func WithBaseURL(u string) Option {
	return func(c *httpClient) {
		c.baseURL = u
	}
}

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

type httpClient struct {
	accessToken string
	baseURL     string
	http        *http.Client
}

// NewClient creates a Facebook Marketing API client.
func NewClient(accessToken string, opts ...Option) Client {
	c := &httpClient{
		accessToken: accessToken,
		baseURL:     defaultBaseURL,
		http: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// CampaignInsights fetches the spend table for one ad account over a preset
// date range. A non-success response is reported as a recoverable error;
// other report views are unaffected by the failure.
func (c *httpClient) CampaignInsights(ctx context.Context, adAccountID, datePreset string) ([]Insight, error) {
	if !ValidPreset(datePreset) {
		return nil, eris.Errorf("facebook: unknown date preset %q", datePreset)
	}

	params := url.Values{}
	params.Set("access_token", c.accessToken)
	params.Set("fields", insightFields)
	params.Set("date_preset", datePreset)
	params.Set("limit", "1000")

	endpoint := fmt.Sprintf("%s/%s/insights?%s", c.baseURL, adAccountID, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, eris.Wrap(err, "facebook: create request")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "facebook: send request")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, eris.Wrap(err, "facebook: read response")
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, eris.Errorf("facebook: insights request failed with status %d: %s", resp.StatusCode, truncate(string(body), 200))
	}

	var payload struct {
		Data []Insight `json:"data"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, eris.Wrap(err, "facebook: decode response")
	}
	return payload.Data, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
