// internal/engine/client.go
package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/lunchtable/ltcg-service/internal/models"
	"github.com/lunchtable/ltcg-service/internal/spectator"
)

// Client talks to the external match engine service. The engine owns all game
// rules; this service only creates, joins and starts matches and reads
// per-seat views for spectator sanitization.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient points at the engine service, e.g. from the ENGINE_URL env var.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (c *Client) post(ctx context.Context, path string, body, out interface{}) error {
	raw, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(raw))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("engine returned %d: %s", resp.StatusCode, bytes.TrimSpace(msg))
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// CreateMatch asks the engine for a fresh match hosted by hostID.
func (c *Client) CreateMatch(ctx context.Context, hostID uuid.UUID) (string, error) {
	var created struct {
		MatchID string `json:"matchId"`
	}
	err := c.post(ctx, "/matches", map[string]string{"hostId": hostID.String()}, &created)
	if err != nil {
		return "", err
	}
	return created.MatchID, nil
}

// JoinMatch seats awayID in an existing match.
func (c *Client) JoinMatch(ctx context.Context, matchID string, awayID uuid.UUID) error {
	path := fmt.Sprintf("/matches/%s/join", url.PathEscape(matchID))
	return c.post(ctx, path, map[string]string{"awayId": awayID.String()}, nil)
}

// StartMatch begins play once both seats are filled.
func (c *Client) StartMatch(ctx context.Context, matchID string) error {
	path := fmt.Sprintf("/matches/%s/start", url.PathEscape(matchID))
	return c.post(ctx, path, nil, nil)
}

// AuthenticatedView fetches the host seat's full view for spectator
// sanitization. The raw view never leaves this service unsanitized.
func (c *Client) AuthenticatedView(ctx context.Context, matchID string) (spectator.ViewInput, error) {
	var view spectator.ViewInput
	path := fmt.Sprintf("%s/matches/%s/view", c.baseURL, url.PathEscape(matchID))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, path, nil)
	if err != nil {
		return view, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return view, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return view, fmt.Errorf("engine returned %d: %s", resp.StatusCode, bytes.TrimSpace(msg))
	}
	err = json.NewDecoder(resp.Body).Decode(&view)
	return view, err
}

// CommandBatches fetches the persisted batches for a match, ascending by
// version, for log formatting and the public timeline.
func (c *Client) CommandBatches(ctx context.Context, matchID string) ([]models.CommandBatch, error) {
	path := fmt.Sprintf("%s/matches/%s/batches", c.baseURL, url.PathEscape(matchID))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("engine returned %d: %s", resp.StatusCode, bytes.TrimSpace(msg))
	}

	var batches []models.CommandBatch
	if err := json.NewDecoder(resp.Body).Decode(&batches); err != nil {
		return nil, err
	}
	sort.Slice(batches, func(i, j int) bool { return batches[i].Version < batches[j].Version })
	return batches, nil
}
