// internal/chat/store.go
package chat

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/lunchtable/ltcg-service/internal/models"
)

const (
	// DefaultLimit is the message window served when no limit is requested.
	DefaultLimit = 80
	// MaxLimit caps how many messages a single request can pull.
	MaxLimit = 150
	// MaxMessageLength caps a single chat line.
	MaxMessageLength = 280

	feedKey = "lobby_chat"
	// Keep a bounded backlog; the feed is a rolling window, not an archive.
	backlogSize = 500
)

// ErrEmptyMessage rejects blank chat lines.
var ErrEmptyMessage = errors.New("message text is required")

// Store is the shared lobby chat feed, a capped Redis list of JSON messages.
type Store struct {
	rdb *redis.Client
}

// NewStore wraps a connected Redis client.
func NewStore(rdb *redis.Client) *Store {
	return &Store{rdb: rdb}
}

// ClampLimit normalizes a requested window size into [1, MaxLimit], with
// DefaultLimit for zero or negative input.
func ClampLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}

// truncateText caps a chat line at MaxMessageLength characters. Truncation
// happens on rune boundaries so a multi-byte character is never split.
func truncateText(text string) string {
	if len(text) <= MaxMessageLength {
		return text
	}
	runes := []rune(text)
	if len(runes) <= MaxMessageLength {
		return text
	}
	return string(runes[:MaxMessageLength])
}

// Post appends one chat line to the feed, truncating oversized text and
// trimming the backlog.
func (s *Store) Post(ctx context.Context, agentID uuid.UUID, senderName, text string, source models.MessageSource) (*models.LobbyMessage, error) {
	text = truncateText(strings.TrimSpace(text))
	if text == "" {
		return nil, ErrEmptyMessage
	}
	switch source {
	case models.SourceAgent, models.SourceRetake, models.SourceSystem:
	default:
		source = models.SourceAgent
	}

	msg := models.LobbyMessage{
		ID:         uuid.New(),
		AgentID:    agentID,
		SenderName: senderName,
		Text:       text,
		Source:     source,
		CreatedAt:  time.Now().UnixMilli(),
	}

	raw, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal lobby message: %w", err)
	}

	pipe := s.rdb.TxPipeline()
	pipe.RPush(ctx, feedKey, raw)
	pipe.LTrim(ctx, feedKey, -backlogSize, -1)
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("failed to append lobby message: %w", err)
	}
	return &msg, nil
}

// Recent returns up to limit messages, oldest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]models.LobbyMessage, error) {
	limit = ClampLimit(limit)

	raws, err := s.rdb.LRange(ctx, feedKey, int64(-limit), -1).Result()
	if err != nil {
		return nil, err
	}

	out := make([]models.LobbyMessage, 0, len(raws))
	for _, raw := range raws {
		var msg models.LobbyMessage
		if err := json.Unmarshal([]byte(raw), &msg); err != nil {
			// Skip lines another version wrote in a shape we no longer read.
			continue
		}
		out = append(out, msg)
	}
	return out, nil
}
