package source

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"micropantry-api/internal/model"
	"micropantry-api/internal/repository"
)

// TelemetrySource provides the raw telemetry history of one pantry.
type TelemetrySource interface {
	History(ctx context.Context, pantryID string) ([]model.RawTelemetry, error)
}

// HTTPTelemetry reads history from the upstream telemetry API.
type HTTPTelemetry struct {
	client  *Client
	baseURL string
	path    string
}

// NewHTTPTelemetry creates a telemetry source for baseURL + path.
func NewHTTPTelemetry(client *Client, baseURL, path string) *HTTPTelemetry {
	return &HTTPTelemetry{
		client:  client,
		baseURL: strings.TrimRight(baseURL, "/"),
		path:    "/" + strings.TrimLeft(path, "/"),
	}
}

// History fetches {base}{path}?pantryId=<id>.
func (t *HTTPTelemetry) History(ctx context.Context, pantryID string) ([]model.RawTelemetry, error) {
	u := t.baseURL + t.path + "?pantryId=" + url.QueryEscape(pantryID)
	body, err := t.client.Get(ctx, u)
	if err != nil {
		return nil, err
	}
	return DecodeTelemetry(body)
}

// DecodeTelemetry accepts either a bare JSON array of readings or an object
// with an "items" array. Individual readings are validated later.
func DecodeTelemetry(body []byte) ([]model.RawTelemetry, error) {
	trimmed := bytes.TrimSpace(body)
	var raw []json.RawMessage
	if len(trimmed) > 0 && trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &raw); err != nil {
			return nil, fmt.Errorf("%w: malformed telemetry: %v", ErrUnavailable, err)
		}
	} else {
		var wrapped struct {
			Items []json.RawMessage `json:"items"`
		}
		if err := json.Unmarshal(trimmed, &wrapped); err != nil {
			return nil, fmt.Errorf("%w: malformed telemetry: %v", ErrUnavailable, err)
		}
		raw = wrapped.Items
	}

	// Records that do not have the reading shape are dropped, not fatal.
	out := make([]model.RawTelemetry, 0, len(raw))
	for _, r := range raw {
		var rec model.RawTelemetry
		if err := json.Unmarshal(r, &rec); err != nil {
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}

// StoreTelemetry reads history from the local telemetry repository.
type StoreTelemetry struct {
	repo  repository.TelemetryRepository
	limit int
}

// NewStoreTelemetry creates a telemetry source over repo.
func NewStoreTelemetry(repo repository.TelemetryRepository, limit int) *StoreTelemetry {
	return &StoreTelemetry{repo: repo, limit: limit}
}

// History loads the stored readings in their wire shape.
func (t *StoreTelemetry) History(ctx context.Context, pantryID string) ([]model.RawTelemetry, error) {
	records, err := t.repo.History(ctx, pantryID, t.limit)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	out := make([]model.RawTelemetry, len(records))
	for i, rec := range records {
		out[i] = rec.Raw()
	}
	return out, nil
}
