// internal/models/audio.go
package models

import "github.com/google/uuid"

// PlaybackIntent is the desired soundtrack state for a stream overlay.
type PlaybackIntent string

const (
	PlaybackPlaying PlaybackIntent = "playing"
	PlaybackPaused  PlaybackIntent = "paused"
	PlaybackStopped PlaybackIntent = "stopped"
)

// StreamAudioControl is the authoritative per-agent soundtrack state consumed
// by stream overlays. Volumes are normalized to [0,1] before persistence.
type StreamAudioControl struct {
	AgentID     uuid.UUID      `json:"agentId"`
	Intent      PlaybackIntent `json:"playbackIntent"`
	MusicVolume float64        `json:"musicVolume"`
	SfxVolume   float64        `json:"sfxVolume"`
	MusicMuted  bool           `json:"musicMuted"`
	SfxMuted    bool           `json:"sfxMuted"`
	UpdatedAt   int64          `json:"updatedAt"`
}
