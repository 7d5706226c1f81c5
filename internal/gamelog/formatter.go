// internal/gamelog/formatter.go
package gamelog

import (
	"encoding/json"
	"fmt"

	"github.com/lunchtable/ltcg-service/internal/models"
)

// DisplayLogEntry is one rendered line of the match log. Derived per render,
// never persisted.
type DisplayLogEntry struct {
	Text  string `json:"text"`
	Actor string `json:"actor"` // "you" or "opponent"
}

// command is the tagged payload inside CommandBatch.Command. Only the fields
// the templates need are decoded; everything else is ignored.
type command struct {
	Type     string `json:"type"`
	CardName string `json:"cardName"`
	Position string `json:"position"`
}

// template renders one recognized command type. hidden marks setup actions
// whose card identity must be redacted from the opposing viewer.
type template struct {
	render func(cmd command) string
	hidden bool
	// redacted replaces render when the viewer does not own the hidden info.
	redacted string
}

var commandTemplates = map[string]template{
	"END_TURN": {render: func(command) string { return "END TURN" }},
	"DRAW_CARD": {
		render: func(command) string { return "DRAW" },
	},
	"NORMAL_SUMMON": {
		render: func(cmd command) string {
			if cmd.CardName != "" {
				return fmt.Sprintf("SUMMON %s", cmd.CardName)
			}
			return "SUMMON A STEREOTYPE"
		},
	},
	"DECLARE_ATTACK": {
		render: func(command) string { return "DECLARE AN ATTACK" },
	},
	"CHANGE_POSITION": {
		render: func(cmd command) string {
			if cmd.Position != "" {
				return fmt.Sprintf("SWITCH TO %s POSITION", cmd.Position)
			}
			return "CHANGE BATTLE POSITION"
		},
	},
	"ACTIVATE_SPELL": {
		render: func(cmd command) string {
			if cmd.CardName != "" {
				return fmt.Sprintf("ACTIVATE %s", cmd.CardName)
			}
			return "ACTIVATE A SPELL"
		},
	},
	"SET_MONSTER": {
		render: func(cmd command) string {
			if cmd.CardName != "" {
				return fmt.Sprintf("SET %s", cmd.CardName)
			}
			return "SET A STEREOTYPE"
		},
		hidden:   true,
		redacted: "SET A STEREOTYPE",
	},
	"SET_SPELL_TRAP": {
		render: func(cmd command) string {
			if cmd.CardName != "" {
				return fmt.Sprintf("SET %s", cmd.CardName)
			}
			return "SET A CARD FACE-DOWN"
		},
		hidden:   true,
		redacted: "SET A CARD FACE-DOWN",
	},
}

// Format converts persisted command batches into display entries from the
// viewer's perspective. Malformed or unrecognized commands are skipped, never
// surfaced as errors; a batch yields at most one entry and input order is
// preserved.
func Format(batches []models.CommandBatch, viewerSeat models.Seat) []DisplayLogEntry {
	entries := make([]DisplayLogEntry, 0, len(batches))
	for _, batch := range batches {
		var cmd command
		if err := json.Unmarshal([]byte(batch.Command), &cmd); err != nil {
			continue
		}
		tmpl, ok := commandTemplates[cmd.Type]
		if !ok {
			continue
		}

		actor := "you"
		text := tmpl.render(cmd)
		if batch.Seat != viewerSeat {
			actor = "opponent"
			if tmpl.hidden {
				// The viewer does not own this hidden information.
				text = tmpl.redacted
			}
		}

		entries = append(entries, DisplayLogEntry{Text: text, Actor: actor})
	}
	return entries
}
