// internal/agent/cancel_lobby.go
package agent

import (
	"context"
	"fmt"
	"regexp"
	"strings"
)

// Match ids are long opaque tokens; anything shorter is lobby chatter.
var matchIDPattern = regexp.MustCompile(`[A-Za-z0-9_-]{20,}`)

// resolveMatchID pulls a match id from an explicit option, then from free
// text, then falls back to the client's pinned match.
func resolveMatchID(client BackendClient, options map[string]interface{}, message string) string {
	if raw, ok := options["matchId"]; ok {
		if s, ok := raw.(string); ok && strings.TrimSpace(s) != "" {
			return strings.TrimSpace(s)
		}
	}
	if found := matchIDPattern.FindString(message); found != "" {
		return found
	}
	return client.CurrentMatchID()
}

// NewCancelPvpLobbyAction cancels a waiting lobby owned by this agent and
// unpins it from the client.
func NewCancelPvpLobbyAction(client BackendClient) Action {
	return Action{
		Name:        "CANCEL_LTCG_PVP_LOBBY",
		Similes:     []string{"CANCEL_PVP_LOBBY", "CLOSE_LTCG_LOBBY", "ABORT_AGENT_MATCH"},
		Description: "Cancel a waiting PvP lobby owned by this agent.",
		Validate:    func(context.Context) bool { return true },
		Handler: func(ctx context.Context, message string, options map[string]interface{}, callback Callback) Result {
			matchID := resolveMatchID(client, options, message)
			if matchID == "" {
				return failure(callback,
					"Cancel lobby failed: provide matchId as option (matchId), include it in the message, or set currentMatchId.",
					"matchId is required.")
			}

			lobby, err := client.CancelPvpLobby(ctx, matchID)
			if err != nil {
				return failure(callback,
					fmt.Sprintf("Failed to cancel lobby: %v", err),
					err.Error())
			}

			if client.CurrentMatchID() == matchID {
				client.SetMatch("")
			}
			emit(callback, Message{
				Text:   fmt.Sprintf("Canceled waiting lobby %s.", matchID),
				Action: "CANCEL_LTCG_PVP_LOBBY",
			})
			return Result{Success: true, Data: lobby}
		},
	}
}
