package source

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"

	"micropantry-api/internal/model"
)

// CatalogSource provides the full pantry catalog.
type CatalogSource interface {
	Pantries(ctx context.Context) ([]model.Pantry, error)
}

// HTTPCatalog reads the catalog from a JSON endpoint.
type HTTPCatalog struct {
	client *Client
	url    string
}

// NewHTTPCatalog creates a catalog source for url.
func NewHTTPCatalog(client *Client, url string) *HTTPCatalog {
	return &HTTPCatalog{client: client, url: url}
}

// Pantries fetches and decodes the catalog.
func (c *HTTPCatalog) Pantries(ctx context.Context) ([]model.Pantry, error) {
	body, err := c.client.Get(ctx, c.url)
	if err != nil {
		return nil, err
	}
	return DecodeCatalog(body)
}

// FileCatalog reads the catalog from a local JSON file.
type FileCatalog struct {
	path string
}

// NewFileCatalog creates a catalog source for path.
func NewFileCatalog(path string) *FileCatalog {
	return &FileCatalog{path: path}
}

// Pantries reads and decodes the catalog file.
func (c *FileCatalog) Pantries(ctx context.Context) ([]model.Pantry, error) {
	body, err := os.ReadFile(c.path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return DecodeCatalog(body)
}

// DecodeCatalog accepts either a bare JSON array of pantries or an object
// with a "pantries" array. Records that do not decode as a pantry are dropped.
func DecodeCatalog(body []byte) ([]model.Pantry, error) {
	trimmed := bytes.TrimSpace(body)

	var raw []json.RawMessage
	if len(trimmed) > 0 && trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &raw); err != nil {
			return nil, fmt.Errorf("%w: malformed catalog: %v", ErrUnavailable, err)
		}
	} else {
		var wrapped struct {
			Pantries []json.RawMessage `json:"pantries"`
		}
		if err := json.Unmarshal(trimmed, &wrapped); err != nil {
			return nil, fmt.Errorf("%w: malformed catalog: %v", ErrUnavailable, err)
		}
		raw = wrapped.Pantries
	}

	pantries := make([]model.Pantry, 0, len(raw))
	for _, r := range raw {
		var p model.Pantry
		if err := json.Unmarshal(r, &p); err != nil {
			continue
		}
		pantries = append(pantries, p)
	}
	return pantries, nil
}
