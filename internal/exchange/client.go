package exchange

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

var _ Service = (*Client)(nil)

// Client is an HTTP Service implementation against the exchange API.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// NewClient builds a client for the given exchange base URL. The token,
// when non-empty, is sent as a bearer credential.
func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

// accountPayload mirrors the exchange's account document; only the
// deposit address is consumed here.
type accountPayload struct {
	Address string `json:"address"`
}

func (c *Client) DepositAddress(ctx context.Context, organizationID string) (string, error) {
	var acc accountPayload
	err := c.getJSON(ctx, "/accounts/"+url.PathEscape(organizationID), &acc)
	if err != nil {
		if isNotFound(err) {
			// No account yet means no deposit address, not a failure.
			return "", nil
		}
		return "", err
	}
	return acc.Address, nil
}

func (c *Client) Trades(ctx context.Context, organizationID string) ([]Trade, error) {
	var trades []Trade
	q := url.Values{"organizationId": {organizationID}}
	if err := c.getJSON(ctx, "/trades?"+q.Encode(), &trades); err != nil {
		return nil, err
	}
	return trades, nil
}

type statusError struct {
	status int
	path   string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("exchange: %s returned %d", e.path, e.status)
}

func isNotFound(err error) bool {
	se, ok := err.(*statusError)
	return ok && se.status == http.StatusNotFound
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("exchange: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("exchange: %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &statusError{status: resp.StatusCode, path: path}
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("exchange: decode %s: %w", path, err)
	}
	return nil
}
