// Package snapsave is the HTTP transport to the SnapSave resolver
// service. It fetches the obfuscated scripted payload for a post URL and
// performs the secondary progress-API request that descriptors flagged
// shouldRender require.
package snapsave

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"snapgrab/internal/httputil"
)

const defaultBase = "snapsave.app"

// Client talks to the resolver. It is safe for concurrent use.
type Client struct {
	base   string
	client *http.Client
}

// New creates a Client against the default resolver host.
func New() *Client {
	return NewWithBase(defaultBase)
}

// NewWithBase creates a Client against a custom resolver host.
func NewWithBase(base string) *Client {
	return &Client{
		base:   strings.TrimSuffix(base, "/"),
		client: httputil.NewClient(),
	}
}

func (c *Client) baseURL() string {
	return "https://" + c.base
}

// Fetch posts the target URL to the resolver's action endpoint and
// returns the raw scripted response body. Implements workflow.Fetcher.
func (c *Client) Fetch(ctx context.Context, postURL string) (string, error) {
	if err := httputil.ValidateURL(postURL); err != nil {
		return "", fmt.Errorf("invalid post URL: %w", err)
	}

	form := url.Values{"url": {postURL}}
	endpoint := c.baseURL() + "/action.php?lang=en"

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	c.setHeaders(req)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("X-Requested-With", "XMLHttpRequest")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("resolver request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("resolver returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 10*1024*1024))
	if err != nil {
		return "", fmt.Errorf("reading resolver response: %w", err)
	}
	return string(body), nil
}

// Render performs the extra resolution step for a shouldRender
// descriptor: the progress API returns the final file URL as JSON.
func (c *Client) Render(ctx context.Context, progressURL string) (string, error) {
	if err := httputil.ValidateURL(progressURL); err != nil {
		return "", fmt.Errorf("invalid progress URL: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, progressURL, nil)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	c.setHeaders(req)
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("progress request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("progress API returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1024*1024))
	if err != nil {
		return "", fmt.Errorf("reading progress response: %w", err)
	}

	return parseRenderResponse(body)
}

// parseRenderResponse extracts the file URL from a progress-API body.
func parseRenderResponse(body []byte) (string, error) {
	var result struct {
		Data string `json:"data"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("parsing progress response: %w", err)
	}
	if result.Data == "" {
		return "", fmt.Errorf("progress response carried no file URL")
	}
	return result.Data, nil
}

// setHeaders applies the browser-like headers the resolver expects.
func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("User-Agent", "Mozilla/5.0 (X11; Linux x86_64; rv:109.0) Gecko/20100101 Firefox/121.0")
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")
	req.Header.Set("Origin", c.baseURL())
	req.Header.Set("Referer", c.baseURL()+"/")
}
