// internal/streamaudio/control_test.go
package streamaudio

import (
	"math"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/lunchtable/ltcg-service/internal/models"
)

func TestNormalizeVolumeClampsOutOfRange(t *testing.T) {
	// Values above 1 are percents; the result always lands in [0,1].
	assert.InDelta(t, 1.0, NormalizeVolume(150.0, 0.5), 1e-9)
	assert.InDelta(t, 0.0, NormalizeVolume(-0.25, 0.5), 1e-9)
	assert.InDelta(t, 0.8, NormalizeVolume(80.0, 0.5), 1e-9)
	assert.InDelta(t, 0.4, NormalizeVolume(0.4, 0.5), 1e-9)
}

func TestNormalizeVolumeIdempotent(t *testing.T) {
	once := NormalizeVolume(150.0, 0.5)
	twice := NormalizeVolume(once, 0.5)
	assert.InDelta(t, once, twice, 1e-9)

	zero := NormalizeVolume(-0.25, 0.5)
	assert.InDelta(t, zero, NormalizeVolume(zero, 0.5), 1e-9)
}

func TestNormalizeVolumeFallbacks(t *testing.T) {
	assert.InDelta(t, 0.65, NormalizeVolume(nil, 0.65), 1e-9)
	assert.InDelta(t, 0.65, NormalizeVolume("", 0.65), 1e-9)
	assert.InDelta(t, 0.65, NormalizeVolume("loud", 0.65), 1e-9)
	assert.InDelta(t, 0.65, NormalizeVolume(math.NaN(), 0.65), 1e-9)
	assert.InDelta(t, 0.3, NormalizeVolume("30", 0.65), 1e-9)
}

func TestNormalizeIntent(t *testing.T) {
	assert.Equal(t, models.PlaybackPaused, NormalizeIntent("paused"))
	assert.Equal(t, models.PlaybackStopped, NormalizeIntent("stopped"))
	assert.Equal(t, models.PlaybackPlaying, NormalizeIntent("playing"))
	assert.Equal(t, models.PlaybackPlaying, NormalizeIntent("other"))
	assert.Equal(t, models.PlaybackPlaying, NormalizeIntent(nil))
}

func TestNormalizeBoolean(t *testing.T) {
	assert.True(t, NormalizeBoolean(true, false))
	assert.True(t, NormalizeBoolean("yes", false))
	assert.True(t, NormalizeBoolean(1.0, false))
	assert.False(t, NormalizeBoolean("off", true))
	assert.True(t, NormalizeBoolean("mumble", true))
}

func TestApplyPatchOverDefaults(t *testing.T) {
	agentID := uuid.New()

	control := Apply(agentID, nil, Patch{
		PlaybackIntent: "paused",
		MusicVolume:    150.0,
		SfxVolume:      -0.25,
		MusicMuted:     "true",
	}, 42)

	assert.Equal(t, agentID, control.AgentID)
	assert.Equal(t, models.PlaybackPaused, control.Intent)
	assert.InDelta(t, 1.0, control.MusicVolume, 1e-9)
	assert.InDelta(t, 0.0, control.SfxVolume, 1e-9)
	assert.True(t, control.MusicMuted)
	assert.False(t, control.SfxMuted)
	assert.Equal(t, int64(42), control.UpdatedAt)
}

func TestApplyEmptyPatchKeepsExisting(t *testing.T) {
	agentID := uuid.New()
	existing := models.StreamAudioControl{
		AgentID:     agentID,
		Intent:      models.PlaybackStopped,
		MusicVolume: 0.25,
		SfxVolume:   0.75,
		MusicMuted:  true,
		SfxMuted:    true,
	}

	control := Apply(agentID, &existing, Patch{}, 99)

	assert.Equal(t, models.PlaybackStopped, control.Intent)
	assert.InDelta(t, 0.25, control.MusicVolume, 1e-9)
	assert.InDelta(t, 0.75, control.SfxVolume, 1e-9)
	assert.True(t, control.MusicMuted)
	assert.True(t, control.SfxMuted)
}

func TestDefaults(t *testing.T) {
	assert.Equal(t, models.PlaybackPlaying, Defaults.Intent)
	assert.InDelta(t, 0.65, Defaults.MusicVolume, 1e-9)
	assert.InDelta(t, 0.8, Defaults.SfxVolume, 1e-9)
	assert.False(t, Defaults.MusicMuted)
	assert.False(t, Defaults.SfxMuted)
}
