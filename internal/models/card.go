// internal/models/card.go
package models

// CardInfo is the display identity of a card definition. Attack/Defense are
// nil for spells and traps.
type CardInfo struct {
	Name     string `json:"name"`
	CardType string `json:"cardType"`
	Attack   *int   `json:"attack,omitempty"`
	Defense  *int   `json:"defense,omitempty"`
}

// BoardSlot is one occupied zone slot in a player's authenticated view.
type BoardSlot struct {
	DefinitionID string `json:"definitionId"`
	FaceDown     bool   `json:"faceDown"`
	Position     string `json:"position,omitempty"`
}
