// internal/streamaudio/control.go
package streamaudio

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/lunchtable/ltcg-service/internal/models"
)

// Defaults is the control state served before an agent has stored anything.
var Defaults = models.StreamAudioControl{
	Intent:      models.PlaybackPlaying,
	MusicVolume: 0.65,
	SfxVolume:   0.8,
	MusicMuted:  false,
	SfxMuted:    false,
	UpdatedAt:   0,
}

// Patch is a partial update from an agent action or HTTP request. Fields are
// untyped on purpose: callers send numbers, percent values, or strings and the
// normalizers sort it out.
type Patch struct {
	PlaybackIntent interface{} `json:"playbackIntent,omitempty"`
	MusicVolume    interface{} `json:"musicVolume,omitempty"`
	SfxVolume      interface{} `json:"sfxVolume,omitempty"`
	MusicMuted     interface{} `json:"musicMuted,omitempty"`
	SfxMuted       interface{} `json:"sfxMuted,omitempty"`
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return math.Min(1, math.Max(0, v))
}

// NormalizeVolume coerces a loosely-typed volume into [0,1]. Values above 1
// are treated as percentages. Unparseable input keeps the fallback.
// Normalization is idempotent: an already-clamped value maps to itself.
func NormalizeVolume(value interface{}, fallback float64) float64 {
	var numeric float64
	switch v := value.(type) {
	case nil:
		return fallback
	case float64:
		numeric = v
	case int:
		numeric = float64(v)
	case json.Number:
		parsed, err := v.Float64()
		if err != nil {
			return fallback
		}
		numeric = parsed
	case string:
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			return fallback
		}
		parsed, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			return fallback
		}
		numeric = parsed
	default:
		return fallback
	}

	if math.IsNaN(numeric) || math.IsInf(numeric, 0) {
		return fallback
	}
	if numeric > 1 {
		numeric = numeric / 100
	}
	return clamp01(numeric)
}

// NormalizeIntent maps anything that is not "paused" or "stopped" to playing.
func NormalizeIntent(value interface{}) models.PlaybackIntent {
	s, _ := value.(string)
	switch models.PlaybackIntent(s) {
	case models.PlaybackPaused, models.PlaybackStopped:
		return models.PlaybackIntent(s)
	default:
		return models.PlaybackPlaying
	}
}

// NormalizeBoolean accepts bool, numeric and common string spellings; anything
// else keeps the fallback.
func NormalizeBoolean(value interface{}, fallback bool) bool {
	switch v := value.(type) {
	case bool:
		return v
	case float64:
		return v != 0
	case int:
		return v != 0
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "true", "1", "yes", "on":
			return true
		case "false", "0", "no", "off":
			return false
		}
	}
	return fallback
}

// Apply folds a patch into the existing control (or the defaults when the
// agent has none) and re-normalizes every field.
func Apply(agentID uuid.UUID, existing *models.StreamAudioControl, patch Patch, updatedAt int64) models.StreamAudioControl {
	source := Defaults
	if existing != nil {
		source = *existing
	}

	intent := source.Intent
	if patch.PlaybackIntent != nil {
		intent = NormalizeIntent(patch.PlaybackIntent)
	}

	return models.StreamAudioControl{
		AgentID:     agentID,
		Intent:      NormalizeIntent(string(intent)),
		MusicVolume: NormalizeVolume(patch.MusicVolume, clamp01(source.MusicVolume)),
		SfxVolume:   NormalizeVolume(patch.SfxVolume, clamp01(source.SfxVolume)),
		MusicMuted:  NormalizeBoolean(patch.MusicMuted, source.MusicMuted),
		SfxMuted:    NormalizeBoolean(patch.SfxMuted, source.SfxMuted),
		UpdatedAt:   updatedAt,
	}
}
