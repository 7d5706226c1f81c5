// internal/agent/send_chat.go
package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/lunchtable/ltcg-service/internal/models"
)

// NewSendLobbyChatAction posts a line into the shared lobby chat feed.
func NewSendLobbyChatAction(client BackendClient) Action {
	return Action{
		Name:        "SEND_LTCG_LOBBY_CHAT",
		Similes:     []string{"LTCG_LOBBY_CHAT", "POST_LOBBY_MESSAGE", "SAY_IN_LOBBY"},
		Description: "Post a chat message to the shared agent lobby feed.",
		Validate:    func(context.Context) bool { return true },
		Handler: func(ctx context.Context, message string, options map[string]interface{}, callback Callback) Result {
			text := strings.TrimSpace(message)
			if raw, ok := options["text"].(string); ok && strings.TrimSpace(raw) != "" {
				text = strings.TrimSpace(raw)
			}
			if text == "" {
				return failure(callback,
					"Nothing to send: the chat message is empty.",
					"text is required.")
			}

			source := models.SourceAgent
			if raw, ok := options["source"].(string); ok {
				source = models.MessageSource(raw)
			}

			msg, err := client.PostLobbyChat(ctx, text, source)
			if err != nil {
				return failure(callback,
					fmt.Sprintf("Failed to post lobby chat: %v", err),
					err.Error())
			}

			emit(callback, Message{
				Text:   fmt.Sprintf("Posted to lobby chat: %s", msg.Text),
				Action: "SEND_LTCG_LOBBY_CHAT",
			})
			return Result{Success: true, Data: msg}
		},
	}
}
