// internal/agent/control_audio.go
package agent

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/lunchtable/ltcg-service/internal/models"
	"github.com/lunchtable/ltcg-service/internal/streamaudio"
)

var (
	pausePattern  = regexp.MustCompile(`\b(pause|paused)\b`)
	stopPattern   = regexp.MustCompile(`\b(stop|stopped)\b`)
	playPattern   = regexp.MustCompile(`\b(play|resume|unpause|start)\b`)
	musicVolumeRe = regexp.MustCompile(`music(?:\s+volume)?\s*(?:to|=)?\s*(\d{1,3}(?:\.\d+)?)`)
	sfxVolumeRe   = regexp.MustCompile(`sfx(?:\s+volume)?\s*(?:to|=)?\s*(\d{1,3}(?:\.\d+)?)`)

	muteAllRe     = regexp.MustCompile(`\bmute all\b`)
	unmuteAllRe   = regexp.MustCompile(`\bunmute all\b`)
	muteMusicRe   = regexp.MustCompile(`\bmute music\b`)
	unmuteMusicRe = regexp.MustCompile(`\bunmute music\b`)
	muteSfxRe     = regexp.MustCompile(`\bmute sfx\b`)
	unmuteSfxRe   = regexp.MustCompile(`\bunmute sfx\b`)
)

// parseAudioPatch extracts playback and volume directives from free text.
// Volumes are left raw; the backend normalizes percents and clamps.
func parseAudioPatch(text string) streamaudio.Patch {
	lowered := strings.ToLower(text)
	var patch streamaudio.Patch

	switch {
	case pausePattern.MatchString(lowered):
		patch.PlaybackIntent = string(models.PlaybackPaused)
	case stopPattern.MatchString(lowered):
		patch.PlaybackIntent = string(models.PlaybackStopped)
	case playPattern.MatchString(lowered):
		patch.PlaybackIntent = string(models.PlaybackPlaying)
	}

	if m := musicVolumeRe.FindStringSubmatch(lowered); m != nil {
		patch.MusicVolume = m[1]
	}
	if m := sfxVolumeRe.FindStringSubmatch(lowered); m != nil {
		patch.SfxVolume = m[1]
	}

	if muteAllRe.MatchString(lowered) {
		patch.MusicMuted = true
		patch.SfxMuted = true
	} else if unmuteAllRe.MatchString(lowered) {
		patch.MusicMuted = false
		patch.SfxMuted = false
	} else {
		if muteMusicRe.MatchString(lowered) {
			patch.MusicMuted = true
		}
		if unmuteMusicRe.MatchString(lowered) {
			patch.MusicMuted = false
		}
		if muteSfxRe.MatchString(lowered) {
			patch.SfxMuted = true
		}
		if unmuteSfxRe.MatchString(lowered) {
			patch.SfxMuted = false
		}
	}

	return patch
}

func patchIsEmpty(patch streamaudio.Patch) bool {
	return patch.PlaybackIntent == nil &&
		patch.MusicVolume == nil &&
		patch.SfxVolume == nil &&
		patch.MusicMuted == nil &&
		patch.SfxMuted == nil
}

func describeControl(control *models.StreamAudioControl) string {
	return fmt.Sprintf("intent=%s, musicVolume=%d%%, sfxVolume=%d%%, musicMuted=%t, sfxMuted=%t",
		control.Intent,
		int(control.MusicVolume*100+0.5),
		int(control.SfxVolume*100+0.5),
		control.MusicMuted,
		control.SfxMuted)
}

// NewControlStreamAudioAction updates the authoritative per-agent soundtrack
// state used by stream overlays.
func NewControlStreamAudioAction(client BackendClient) Action {
	return Action{
		Name: "CONTROL_LTCG_STREAM_AUDIO",
		Similes: []string{
			"SET_LTCG_AUDIO",
			"SET_STREAM_AUDIO",
			"CONTROL_STREAM_SOUNDTRACK",
			"LTCG_AUDIO_CONTROL",
		},
		Description: "Control stream soundtrack state (play/pause/stop, music+sfx volume, mute toggles).",
		Validate:    func(context.Context) bool { return true },
		Handler: func(ctx context.Context, message string, options map[string]interface{}, callback Callback) Result {
			patch := parseAudioPatch(message)
			// Explicit options win over anything parsed from text.
			if raw, ok := options["playbackIntent"]; ok {
				patch.PlaybackIntent = raw
			}
			if raw, ok := options["musicVolume"]; ok {
				patch.MusicVolume = raw
			}
			if raw, ok := options["sfxVolume"]; ok {
				patch.SfxVolume = raw
			}
			if raw, ok := options["musicMuted"]; ok {
				patch.MusicMuted = raw
			}
			if raw, ok := options["sfxMuted"]; ok {
				patch.SfxMuted = raw
			}

			if patchIsEmpty(patch) {
				return failure(callback,
					"No audio change recognized. Try: play, pause, stop, music 80, sfx 40, mute music, unmute all.",
					"no audio directives found.")
			}

			control, err := client.UpsertStreamAudio(ctx, patch)
			if err != nil {
				return failure(callback,
					fmt.Sprintf("Failed to update stream audio: %v", err),
					err.Error())
			}

			emit(callback, Message{
				Text:   fmt.Sprintf("Stream audio updated: %s", describeControl(control)),
				Action: "CONTROL_LTCG_STREAM_AUDIO",
			})
			return Result{Success: true, Data: control}
		},
	}
}
