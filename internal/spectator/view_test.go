// internal/spectator/view_test.go
package spectator

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lunchtable/ltcg-service/internal/models"
)

func intPtr(v int) *int { return &v }

func sampleInput() ViewInput {
	return ViewInput{
		MatchID: "m_1",
		Seat:    models.SeatHost,
		Status:  "active",
		Mode:    "pvp",
		CardLookup: map[string]models.CardInfo{
			"c1": {Name: "Alpha", CardType: "stereotype", Attack: intPtr(1800), Defense: intPtr(1200)},
			"c2": {Name: "Trap Hole", CardType: "trap"},
		},
		View: PlayerView{
			Hand:                  []string{"c1", "c2"},
			OpponentHandCount:     4,
			Board:                 []models.BoardSlot{{DefinitionID: "c1", FaceDown: false, Position: "attack"}},
			OpponentBoard:         []models.BoardSlot{{DefinitionID: "c1", FaceDown: true, Position: "defense"}},
			SpellTrapZone:         []models.BoardSlot{{DefinitionID: "c2", FaceDown: false}},
			OpponentSpellTrapZone: []models.BoardSlot{{DefinitionID: "c2", FaceDown: true}},
			LifePoints:            7600,
			OpponentLifePoints:    6500,
		},
	}
}

func TestBuildPublicSpectatorViewHidesHand(t *testing.T) {
	view := BuildPublicSpectatorView(sampleInput())

	assert.Equal(t, 2, view.Players.Agent.HandCount)
	assert.Equal(t, 4, view.Players.Opponent.HandCount)

	// Structural check: the serialized agent projection carries no hand key,
	// not merely an emptied one.
	raw, err := json.Marshal(view.Players.Agent)
	require.NoError(t, err)
	var fields map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw, &fields))
	_, hasHand := fields["hand"]
	assert.False(t, hasHand)
}

func TestBuildPublicSpectatorViewNullsFaceDownIdentity(t *testing.T) {
	view := BuildPublicSpectatorView(sampleInput())

	require.Len(t, view.Fields.Opponent.Monsters, 1)
	facedown := view.Fields.Opponent.Monsters[0]
	assert.Nil(t, facedown.Name)
	assert.Nil(t, facedown.Attack)
	assert.Nil(t, facedown.Defense)
	assert.Nil(t, facedown.CardType)
	assert.True(t, facedown.FaceDown)

	require.Len(t, view.Fields.Opponent.SpellTraps, 1)
	assert.Nil(t, view.Fields.Opponent.SpellTraps[0].Name)
}

func TestBuildPublicSpectatorViewResolvesFaceUpCards(t *testing.T) {
	view := BuildPublicSpectatorView(sampleInput())

	require.Len(t, view.Fields.Agent.Monsters, 1)
	faceup := view.Fields.Agent.Monsters[0]
	require.NotNil(t, faceup.Name)
	assert.Equal(t, "Alpha", *faceup.Name)
	require.NotNil(t, faceup.Attack)
	assert.Equal(t, 1800, *faceup.Attack)
	require.NotNil(t, faceup.Defense)
	assert.Equal(t, 1200, *faceup.Defense)

	require.Len(t, view.Fields.Agent.SpellTraps, 1)
	trap := view.Fields.Agent.SpellTraps[0]
	require.NotNil(t, trap.Name)
	assert.Equal(t, "Trap Hole", *trap.Name)
	assert.Nil(t, trap.Attack)
}

func TestBuildPublicSpectatorViewFaceDownGateIgnoresOwnership(t *testing.T) {
	input := sampleInput()
	input.View.Board = []models.BoardSlot{{DefinitionID: "c1", FaceDown: true, Position: "defense"}}

	view := BuildPublicSpectatorView(input)

	// The agent's own face-down card is just as hidden as the opponent's.
	require.Len(t, view.Fields.Agent.Monsters, 1)
	assert.Nil(t, view.Fields.Agent.Monsters[0].Name)
}

func TestBuildPublicSpectatorViewIsDeterministic(t *testing.T) {
	first := BuildPublicSpectatorView(sampleInput())
	second := BuildPublicSpectatorView(sampleInput())
	assert.Equal(t, first, second)
}
