package locker

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/Ramcharan1706/BlockEstate/internal/domain"
)

// Client retrieves ownership-supporting documents from the locker API.
// The server's ordering is preserved.
type Client struct {
	apiURL     string
	httpClient *http.Client
}

func New(apiURL string) *Client {
	return &Client{
		apiURL:     apiURL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

func (c *Client) FetchDocuments(ctx context.Context, token string) ([]domain.Document, error) {
	if c == nil || c.apiURL == "" {
		return nil, fmt.Errorf("%w: api url missing", domain.ErrDocumentRetrieval)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrDocumentRetrieval, err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrDocumentRetrieval, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrDocumentRetrieval, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: document endpoint returned status %d", domain.ErrDocumentRetrieval, resp.StatusCode)
	}

	var documents []domain.Document
	if err := json.Unmarshal(body, &documents); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrDocumentRetrieval, err)
	}
	return documents, nil
}
