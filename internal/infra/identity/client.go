package identity

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Ramcharan1706/BlockEstate/internal/domain"
)

// Client exchanges client credentials for a bearer token. A single attempt
// per run; retry policy belongs to the caller.
type Client struct {
	tokenURL   string
	httpClient *http.Client
}

func New(tokenURL string) *Client {
	return &Client{
		tokenURL:   tokenURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *Client) AccessToken(ctx context.Context) (string, error) {
	if c == nil || c.tokenURL == "" {
		return "", fmt.Errorf("%w: token url missing", domain.ErrAuthentication)
	}
	form := url.Values{"grant_type": {"client_credentials"}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrAuthentication, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrAuthentication, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrAuthentication, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("%w: token endpoint returned status %d", domain.ErrAuthentication, resp.StatusCode)
	}

	var payload struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrAuthentication, err)
	}
	if payload.AccessToken == "" {
		return "", fmt.Errorf("%w: access_token missing in response", domain.ErrAuthentication)
	}
	return payload.AccessToken, nil
}
