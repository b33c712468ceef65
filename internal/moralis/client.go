package moralis

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// NetworkFunc reports the wallet's current network id. It is consulted on
// every call, never cached, so a network switch takes effect on the next
// request.
type NetworkFunc func() string

type Client struct {
	BaseURL string
	APIKey  string
	HTTP    *http.Client
	Network NetworkFunc
}

func NewClient(baseURL, apiKey string, network NetworkFunc) *Client {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = "https://deep-index.moralis.io/api/v2.2"
	}
	return &Client{
		BaseURL: baseURL,
		APIKey:  strings.TrimSpace(apiKey),
		HTTP: &http.Client{
			Timeout: 12 * time.Second,
		},
		Network: network,
	}
}

type HTTPError struct {
	StatusCode int
	Body       []byte
}

func (e *HTTPError) Error() string {
	b := strings.TrimSpace(string(e.Body))
	if b == "" {
		return fmt.Sprintf("moralis http %d", e.StatusCode)
	}
	return fmt.Sprintf("moralis http %d: %s", e.StatusCode, b)
}

// chain maps the wallet's network id to the chain identifier Moralis
// expects: "base" for mainnet ids, "base sepolia" for everything else.
func (c *Client) chain() string {
	id := ""
	if c.Network != nil {
		id = c.Network()
	}
	if id == "base" || id == "base-mainnet" {
		return "base"
	}
	return "base sepolia"
}

func (c *Client) get(ctx context.Context, path string, q url.Values) ([]byte, error) {
	u := c.BaseURL + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("accept", "application/json")
	req.Header.Set("X-API-Key", c.APIKey)

	res, err := c.HTTP.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	body, _ := io.ReadAll(res.Body)
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return nil, &HTTPError{StatusCode: res.StatusCode, Body: body}
	}
	return body, nil
}
