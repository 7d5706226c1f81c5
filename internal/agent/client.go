// internal/agent/client.go
package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/lunchtable/ltcg-service/internal/models"
	"github.com/lunchtable/ltcg-service/internal/streamaudio"
)

// Client is the HTTP implementation of BackendClient. One instance per agent;
// it carries the agent's session token and the currently pinned match.
type Client struct {
	baseURL    string
	authToken  string
	httpClient *http.Client

	mu      sync.Mutex
	matchID string
}

// NewClient builds a backend client for one agent session.
func NewClient(baseURL, authToken string) *Client {
	return &Client{
		baseURL:   baseURL,
		authToken: authToken,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.authToken != "" {
		req.Header.Set("Cookie", "auth_token="+c.authToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		var apiErr struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(raw, &apiErr) == nil && apiErr.Error != "" {
			return fmt.Errorf("%s", apiErr.Error)
		}
		return fmt.Errorf("backend returned %d: %s", resp.StatusCode, bytes.TrimSpace(raw))
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *Client) CreatePvpLobby(ctx context.Context) (*models.PvpLobby, error) {
	var lobby models.PvpLobby
	payload := map[string]string{"visibility": string(models.LobbyPublic)}
	if err := c.do(ctx, http.MethodPost, "/pvp/create", payload, &lobby); err != nil {
		return nil, err
	}
	return &lobby, nil
}

func (c *Client) CancelPvpLobby(ctx context.Context, matchID string) (*models.PvpLobby, error) {
	var lobby models.PvpLobby
	payload := map[string]string{"matchId": matchID}
	if err := c.do(ctx, http.MethodPost, "/pvp/cancel", payload, &lobby); err != nil {
		return nil, err
	}
	return &lobby, nil
}

func (c *Client) GetLobbySnapshot(ctx context.Context, limit int) (*LobbySnapshot, error) {
	var snapshot LobbySnapshot
	path := "/pvp/snapshot?limit=" + strconv.Itoa(limit)
	if err := c.do(ctx, http.MethodGet, path, nil, &snapshot); err != nil {
		return nil, err
	}
	return &snapshot, nil
}

func (c *Client) PostLobbyChat(ctx context.Context, text string, source models.MessageSource) (*models.LobbyMessage, error) {
	var msg models.LobbyMessage
	payload := map[string]string{"text": text, "source": string(source)}
	if err := c.do(ctx, http.MethodPost, "/lobby/chat", payload, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

func (c *Client) UpsertStreamAudio(ctx context.Context, patch streamaudio.Patch) (*models.StreamAudioControl, error) {
	var control models.StreamAudioControl
	if err := c.do(ctx, http.MethodPost, "/stream-audio", patch, &control); err != nil {
		return nil, err
	}
	return &control, nil
}

// SetMatchWithSeat pins the match this agent plays in.
func (c *Client) SetMatchWithSeat(matchID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.matchID = matchID
}

// SetMatch replaces the pinned match; empty clears it.
func (c *Client) SetMatch(matchID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.matchID = matchID
}

func (c *Client) HasActiveMatch() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.matchID != ""
}

func (c *Client) CurrentMatchID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.matchID
}
