// internal/streamaudio/store.go
package streamaudio

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/lunchtable/ltcg-service/internal/models"
)

// Store keeps per-agent audio controls in Redis, one JSON value per agent.
type Store struct {
	rdb *redis.Client
}

// NewStore wraps a connected Redis client.
func NewStore(rdb *redis.Client) *Store {
	return &Store{rdb: rdb}
}

func controlKey(agentID uuid.UUID) string {
	return fmt.Sprintf("stream_audio:%s", agentID)
}

// GetByAgentID returns the stored control, or the defaults when the agent has
// never stored one. Stored values are re-normalized on read so legacy rows can
// never hand out-of-range volumes to an overlay.
func (s *Store) GetByAgentID(ctx context.Context, agentID uuid.UUID) (models.StreamAudioControl, error) {
	raw, err := s.rdb.Get(ctx, controlKey(agentID)).Bytes()
	if errors.Is(err, redis.Nil) {
		control := Defaults
		control.AgentID = agentID
		return control, nil
	}
	if err != nil {
		return models.StreamAudioControl{}, err
	}

	var stored models.StreamAudioControl
	if err := json.Unmarshal(raw, &stored); err != nil {
		return models.StreamAudioControl{}, fmt.Errorf("corrupt stream audio control for %s: %w", agentID, err)
	}

	return models.StreamAudioControl{
		AgentID:     agentID,
		Intent:      NormalizeIntent(string(stored.Intent)),
		MusicVolume: NormalizeVolume(stored.MusicVolume, Defaults.MusicVolume),
		SfxVolume:   NormalizeVolume(stored.SfxVolume, Defaults.SfxVolume),
		MusicMuted:  stored.MusicMuted,
		SfxMuted:    stored.SfxMuted,
		UpdatedAt:   stored.UpdatedAt,
	}, nil
}

// UpsertForAgent folds the patch into the agent's control and persists the
// normalized result.
func (s *Store) UpsertForAgent(ctx context.Context, agentID uuid.UUID, patch Patch) (models.StreamAudioControl, error) {
	existing, err := s.GetByAgentID(ctx, agentID)
	if err != nil {
		return models.StreamAudioControl{}, err
	}

	next := Apply(agentID, &existing, patch, time.Now().UnixMilli())

	raw, err := json.Marshal(next)
	if err != nil {
		return models.StreamAudioControl{}, err
	}
	if err := s.rdb.Set(ctx, controlKey(agentID), raw, 0).Err(); err != nil {
		return models.StreamAudioControl{}, err
	}
	return next, nil
}
