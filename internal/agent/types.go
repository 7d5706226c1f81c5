// internal/agent/types.go
package agent

import (
	"context"

	"github.com/lunchtable/ltcg-service/internal/models"
	"github.com/lunchtable/ltcg-service/internal/streamaudio"
)

// Result is what every agent action returns to the runtime.
type Result struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// Message is a chat-style display payload delivered through a callback.
type Message struct {
	Text   string `json:"text"`
	Action string `json:"action,omitempty"`
}

// Callback delivers a Message to whatever surface invoked the action.
// Actions treat a nil callback as "no display requested".
type Callback func(Message)

// Action is one capability exposed to the agent runtime. The backend client
// is injected at construction; there is no process-wide client singleton.
type Action struct {
	Name        string
	Similes     []string
	Description string
	Validate    func(ctx context.Context) bool
	Handler     func(ctx context.Context, message string, options map[string]interface{}, callback Callback) Result
}

// LobbySnapshot is the coordination view served to agents: open lobbies,
// running matches and the recent chat window.
type LobbySnapshot struct {
	OpenLobbies   []models.PvpLobby     `json:"openLobbies"`
	ActiveMatches []models.PvpLobby     `json:"activeMatches"`
	Messages      []models.LobbyMessage `json:"messages"`
}

// BackendClient is the surface agent actions need from the game backend.
// Match-pin state (which match this agent currently plays) lives on the client.
type BackendClient interface {
	CreatePvpLobby(ctx context.Context) (*models.PvpLobby, error)
	CancelPvpLobby(ctx context.Context, matchID string) (*models.PvpLobby, error)
	GetLobbySnapshot(ctx context.Context, limit int) (*LobbySnapshot, error)
	PostLobbyChat(ctx context.Context, text string, source models.MessageSource) (*models.LobbyMessage, error)
	UpsertStreamAudio(ctx context.Context, patch streamaudio.Patch) (*models.StreamAudioControl, error)

	SetMatchWithSeat(matchID string)
	SetMatch(matchID string)
	HasActiveMatch() bool
	CurrentMatchID() string
}

func emit(callback Callback, msg Message) {
	if callback != nil {
		callback(msg)
	}
}

func failure(callback Callback, text, errMsg string) Result {
	emit(callback, Message{Text: text})
	return Result{Success: false, Error: errMsg}
}
