// internal/models/chat.go
package models

import "github.com/google/uuid"

// MessageSource tags where a lobby chat line originated.
type MessageSource string

const (
	SourceAgent  MessageSource = "agent"
	SourceRetake MessageSource = "retake"
	SourceSystem MessageSource = "system"
)

// LobbyMessage is one line in the shared lobby chat feed.
type LobbyMessage struct {
	ID         uuid.UUID     `json:"id"`
	AgentID    uuid.UUID     `json:"agentId"`
	SenderName string        `json:"senderName"`
	Text       string        `json:"text"`
	Source     MessageSource `json:"source"`
	CreatedAt  int64         `json:"createdAt"`
}
