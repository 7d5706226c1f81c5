// internal/spectator/view.go
package spectator

import "github.com/lunchtable/ltcg-service/internal/models"

// ViewInput is the authenticated per-seat match view plus the context needed
// to project it for an unauthenticated audience.
type ViewInput struct {
	MatchID     string                     `json:"matchId"`
	Seat        models.Seat                `json:"seat"`
	Status      string                     `json:"status"`
	Mode        string                     `json:"mode"`
	ChapterID   *string                    `json:"chapterId"`
	StageNumber *int                       `json:"stageNumber"`
	CardLookup  map[string]models.CardInfo `json:"cardLookup"`
	View        PlayerView                 `json:"view"`
}

// PlayerView is the acting player's full authenticated view. Hand contents and
// face-down identities in here must never reach spectator output.
type PlayerView struct {
	Hand                  []string           `json:"hand"`
	OpponentHandCount     int                `json:"opponentHandCount"`
	Board                 []models.BoardSlot `json:"board"`
	OpponentBoard         []models.BoardSlot `json:"opponentBoard"`
	SpellTrapZone         []models.BoardSlot `json:"spellTrapZone"`
	OpponentSpellTrapZone []models.BoardSlot `json:"opponentSpellTrapZone"`
	LifePoints            int                `json:"lifePoints"`
	OpponentLifePoints    int                `json:"opponentLifePoints"`
}

// PublicCardSlot is one sanitized zone slot. Identity fields are nil whenever
// the card is face-down; the slot itself always remains visible so the board
// shape is not hidden.
type PublicCardSlot struct {
	Name     *string `json:"name"`
	CardType *string `json:"cardType,omitempty"`
	Attack   *int    `json:"attack"`
	Defense  *int    `json:"defense"`
	FaceDown bool    `json:"faceDown"`
	Position string  `json:"position,omitempty"`
}

// PublicPlayer deliberately has no hand field: only the count crosses the
// sanitization boundary.
type PublicPlayer struct {
	HandCount  int `json:"handCount"`
	LifePoints int `json:"lifePoints"`
}

// PublicField is one side's visible zones.
type PublicField struct {
	Monsters   []PublicCardSlot `json:"monsters"`
	SpellTraps []PublicCardSlot `json:"spellTraps"`
}

// PublicSpectatorView is the broadcast-safe projection of a match. Recomputed
// per request, never persisted.
type PublicSpectatorView struct {
	MatchID     string  `json:"matchId"`
	Status      string  `json:"status"`
	Mode        string  `json:"mode"`
	ChapterID   *string `json:"chapterId"`
	StageNumber *int    `json:"stageNumber"`
	Players     struct {
		Agent    PublicPlayer `json:"agent"`
		Opponent PublicPlayer `json:"opponent"`
	} `json:"players"`
	Fields struct {
		Agent    PublicField `json:"agent"`
		Opponent PublicField `json:"opponent"`
	} `json:"fields"`
}

// BuildPublicSpectatorView projects an authenticated view into a form safe to
// broadcast to a stream audience. Face-down is the sole gate on card identity,
// on both sides; hands are reduced to counts.
func BuildPublicSpectatorView(input ViewInput) PublicSpectatorView {
	var out PublicSpectatorView
	out.MatchID = input.MatchID
	out.Status = input.Status
	out.Mode = input.Mode
	out.ChapterID = input.ChapterID
	out.StageNumber = input.StageNumber

	out.Players.Agent = PublicPlayer{
		HandCount:  len(input.View.Hand),
		LifePoints: input.View.LifePoints,
	}
	out.Players.Opponent = PublicPlayer{
		HandCount:  input.View.OpponentHandCount,
		LifePoints: input.View.OpponentLifePoints,
	}

	out.Fields.Agent = PublicField{
		Monsters:   sanitizeSlots(input.View.Board, input.CardLookup),
		SpellTraps: sanitizeSlots(input.View.SpellTrapZone, input.CardLookup),
	}
	out.Fields.Opponent = PublicField{
		Monsters:   sanitizeSlots(input.View.OpponentBoard, input.CardLookup),
		SpellTraps: sanitizeSlots(input.View.OpponentSpellTrapZone, input.CardLookup),
	}
	return out
}

func sanitizeSlots(slots []models.BoardSlot, lookup map[string]models.CardInfo) []PublicCardSlot {
	out := make([]PublicCardSlot, 0, len(slots))
	for _, slot := range slots {
		if slot.FaceDown {
			out = append(out, PublicCardSlot{
				FaceDown: true,
				Position: slot.Position,
			})
			continue
		}

		sanitized := PublicCardSlot{Position: slot.Position}
		if info, ok := lookup[slot.DefinitionID]; ok {
			name := info.Name
			cardType := info.CardType
			sanitized.Name = &name
			sanitized.CardType = &cardType
			sanitized.Attack = info.Attack
			sanitized.Defense = info.Defense
		}
		out = append(out, sanitized)
	}
	return out
}
