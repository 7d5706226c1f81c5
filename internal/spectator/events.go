// internal/spectator/events.go
package spectator

import (
	"encoding/json"

	"github.com/lunchtable/ltcg-service/internal/models"
)

// PublicTimelineEvent is one sanitized entry in the public match timeline.
// It carries only the fixed template output; raw card and target identifiers
// from the source event must never appear here.
type PublicTimelineEvent struct {
	Actor     string `json:"actor"` // "agent", "opponent" or "system"
	EventType string `json:"eventType"`
	Summary   string `json:"summary"`
	Rationale string `json:"rationale"`
}

// EventLogInput identifies which seat belongs to the broadcasting agent.
type EventLogInput struct {
	AgentSeat models.Seat           `json:"agentSeat"`
	Batches   []models.CommandBatch `json:"batches"`
}

type eventTemplate struct {
	summary   string
	rationale string
}

// Every surfaced event type must be classified here first. Unknown types are
// dropped, never passed through.
var eventTemplates = map[string]eventTemplate{
	"MONSTER_SUMMONED": {
		summary:   "summoned a stereotype to the field",
		rationale: "building board presence for the next battle phase",
	},
	"MONSTER_SET": {
		summary:   "set a card face-down",
		rationale: "keeping information hidden until the right moment",
	},
	"SPELL_ACTIVATED": {
		summary:   "activated a spell",
		rationale: "spending resources to swing the game state",
	},
	"TRAP_TRIGGERED": {
		summary:   "triggered a trap",
		rationale: "punishing the opponent's committed play",
	},
	"ATTACK_DECLARED": {
		summary:   "declared an attack",
		rationale: "pressing for battle damage",
	},
	"MONSTER_DESTROYED": {
		summary:   "lost a stereotype in battle",
		rationale: "the exchange went against the defender",
	},
	"LIFE_POINTS_CHANGED": {
		summary:   "life points changed",
		rationale: "damage or healing resolved",
	},
	"PHASE_CHANGED": {
		summary:   "moved to the next phase",
		rationale: "advancing the turn structure",
	},
	"TURN_ENDED": {
		summary:   "ended the turn",
		rationale: "passing priority to the other seat",
	},
	"MATCH_ENDED": {
		summary:   "the match ended",
		rationale: "a win condition was met",
	},
}

// System-attributed events are not tied to either seat.
var systemEventTypes = map[string]bool{
	"PHASE_CHANGED": true,
	"MATCH_ENDED":   true,
}

// BuildPublicEventLog expands raw per-turn event batches into a sanitized
// timeline. One batch may yield several entries; malformed event payloads and
// unclassified types yield none.
func BuildPublicEventLog(input EventLogInput) []PublicTimelineEvent {
	out := make([]PublicTimelineEvent, 0, len(input.Batches))
	for _, batch := range input.Batches {
		var events []struct {
			Type string `json:"type"`
		}
		if err := json.Unmarshal([]byte(batch.Events), &events); err != nil {
			continue
		}

		var actor string
		switch batch.Seat {
		case input.AgentSeat:
			actor = "agent"
		case input.AgentSeat.Opposite():
			actor = "opponent"
		default:
			// A batch from an unrecognized seat cannot be attributed safely.
			continue
		}

		for _, ev := range events {
			tmpl, ok := eventTemplates[ev.Type]
			if !ok {
				continue
			}
			entryActor := actor
			if systemEventTypes[ev.Type] {
				entryActor = "system"
			}
			out = append(out, PublicTimelineEvent{
				Actor:     entryActor,
				EventType: ev.Type,
				Summary:   tmpl.summary,
				Rationale: tmpl.rationale,
			})
		}
	}
	return out
}
