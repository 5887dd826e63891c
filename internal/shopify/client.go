package shopify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"upload-relay-api/internal/config"
)

// Client calls the Shopify Admin GraphQL API for one store. Endpoint and
// HTTPClient are exported so tests can point the client at a fake server.
type Client struct {
	Endpoint   string
	Token      string
	HTTPClient *http.Client
}

// NewClient creates an Admin API client from store credentials. The API
// version default lives in config.Load; it is not re-applied here.
func NewClient(cfg *config.ShopifyConfig) *Client {
	endpoint := ""
	if cfg.StoreDomain != "" {
		endpoint = fmt.Sprintf("https://%s/admin/api/%s/graphql.json", cfg.StoreDomain, cfg.APIVersion)
	}

	return &Client{
		Endpoint:   endpoint,
		Token:      cfg.AdminToken,
		HTTPClient: http.DefaultClient,
	}
}

// mutate posts one GraphQL mutation and decodes the data payload into out
func (c *Client) mutate(ctx context.Context, query string, variables map[string]any, out any) error {
	if c.Endpoint == "" || c.Token == "" {
		return fmt.Errorf("shopify store credentials are not configured")
	}

	body, err := json.Marshal(graphQLRequest{Query: query, Variables: variables})
	if err != nil {
		return fmt.Errorf("failed to encode mutation: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build mutation request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Shopify-Access-Token", c.Token)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("admin API request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("failed to read admin API response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("admin API returned status %d: %s", resp.StatusCode, raw)
	}

	var envelope graphQLResponse
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return fmt.Errorf("failed to decode admin API response: %w", err)
	}
	if len(envelope.Errors) > 0 {
		return fmt.Errorf("admin API error: %s", envelope.Errors[0].Message)
	}

	if err := json.Unmarshal(envelope.Data, out); err != nil {
		return fmt.Errorf("failed to decode mutation payload: %w", err)
	}
	return nil
}
