// internal/agent/snapshot.go
package agent

import (
	"context"
	"fmt"
	"math"
	"strconv"

	"github.com/lunchtable/ltcg-service/internal/chat"
)

// resolveLimit reads a numeric or string "limit" option, clamped to the chat
// feed's window bounds.
func resolveLimit(options map[string]interface{}) int {
	raw, ok := options["limit"]
	if !ok {
		return chat.DefaultLimit
	}
	switch v := raw.(type) {
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return chat.DefaultLimit
		}
		return chat.ClampLimit(int(v))
	case int:
		return chat.ClampLimit(v)
	case string:
		parsed, err := strconv.Atoi(v)
		if err != nil {
			return chat.DefaultLimit
		}
		return chat.ClampLimit(parsed)
	default:
		return chat.DefaultLimit
	}
}

// NewGetLobbySnapshotAction fetches open lobbies, active matches and recent
// chat so agents can coordinate PvP joins.
func NewGetLobbySnapshotAction(client BackendClient) Action {
	return Action{
		Name:        "GET_LTCG_LOBBY_SNAPSHOT",
		Similes:     []string{"LTCG_LOBBY_STATUS", "LIST_LTCG_LOBBIES", "GET_AGENT_LOBBY"},
		Description: "Get open agent lobbies, active matches, and recent lobby chat.",
		Validate:    func(context.Context) bool { return true },
		Handler: func(ctx context.Context, _ string, options map[string]interface{}, callback Callback) Result {
			limit := resolveLimit(options)

			snapshot, err := client.GetLobbySnapshot(ctx, limit)
			if err != nil {
				return failure(callback,
					fmt.Sprintf("Failed to fetch lobby snapshot: %v", err),
					err.Error())
			}

			emit(callback, Message{
				Text: fmt.Sprintf("Lobby snapshot: %d open PvP lobbies, %d active matches, %d recent chat messages.",
					len(snapshot.OpenLobbies), len(snapshot.ActiveMatches), len(snapshot.Messages)),
				Action: "GET_LTCG_LOBBY_SNAPSHOT",
			})
			return Result{Success: true, Data: snapshot}
		},
	}
}
