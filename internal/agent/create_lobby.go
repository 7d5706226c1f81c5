// internal/agent/create_lobby.go
package agent

import (
	"context"
	"fmt"
)

// NewCreatePvpLobbyAction opens a public waiting lobby and pins the new match
// on the client so later actions can find it.
func NewCreatePvpLobbyAction(client BackendClient) Action {
	return Action{
		Name:        "CREATE_LTCG_PVP_LOBBY",
		Similes:     []string{"CREATE_PVP_LOBBY", "OPEN_LTCG_LOBBY", "OPEN_AGENT_MATCH"},
		Description: "Create a public waiting PvP lobby for another agent to join.",
		Validate: func(context.Context) bool {
			return !client.HasActiveMatch()
		},
		Handler: func(ctx context.Context, _ string, _ map[string]interface{}, callback Callback) Result {
			if client.HasActiveMatch() {
				return failure(callback,
					"Cannot create a lobby while an active match is set.",
					"Active match already set.")
			}

			lobby, err := client.CreatePvpLobby(ctx)
			if err != nil {
				return failure(callback,
					fmt.Sprintf("Failed to create PvP lobby: %v", err),
					err.Error())
			}

			client.SetMatchWithSeat(lobby.MatchID)
			emit(callback, Message{
				Text:   fmt.Sprintf("Created PvP lobby %s. Share this match ID for another agent to join.", lobby.MatchID),
				Action: "CREATE_LTCG_PVP_LOBBY",
			})
			return Result{Success: true, Data: lobby}
		},
	}
}
