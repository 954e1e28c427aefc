package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
	"vex-storefront/internal/config"
	"vex-storefront/internal/model"
)

// CatalogClient fetches the static catalog source. The document wraps the
// product list in a "components" field.
type CatalogClient interface {
	FetchCatalog(ctx context.Context) ([]model.Product, error)
}

type catalogClientImpl struct {
	httpClient *http.Client
	sourceURL  string
}

type catalogDocument struct {
	Components []model.Product `json:"components"`
}

func NewCatalogClient(catalogCfg *config.Catalog) CatalogClient {
	timeout := catalogCfg.FetchTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &catalogClientImpl{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		sourceURL: catalogCfg.SourceURL,
	}
}

func (c *catalogClientImpl) FetchCatalog(ctx context.Context) ([]model.Product, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.sourceURL, nil)
	if err != nil {
		return nil, fmt.Errorf("http new request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch catalog source: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("catalog source error %d: %s", resp.StatusCode, string(b))
	}

	var doc catalogDocument
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode catalog source: %w", err)
	}

	// the working set is always an array, even when the source holds none
	if doc.Components == nil {
		return []model.Product{}, nil
	}

	return doc.Components, nil
}
