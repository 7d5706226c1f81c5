// internal/spectator/events_test.go
package spectator

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lunchtable/ltcg-service/internal/models"
)

func eventsBatch(t *testing.T, seat models.Seat, version int64, events []map[string]interface{}) models.CommandBatch {
	t.Helper()
	raw, err := json.Marshal(events)
	require.NoError(t, err)
	return models.CommandBatch{
		Command: "{}",
		Events:  string(raw),
		Seat:    seat,
		Version: version,
	}
}

func TestBuildPublicEventLogDoesNotLeakIdentifiers(t *testing.T) {
	batch := eventsBatch(t, models.SeatAway, 3, []map[string]interface{}{
		{"type": "MONSTER_SUMMONED", "cardId": "secret-id", "targetId": "x1"},
	})

	events := BuildPublicEventLog(EventLogInput{
		AgentSeat: models.SeatAway,
		Batches:   []models.CommandBatch{batch},
	})

	require.Len(t, events, 1)
	assert.Equal(t, "agent", events[0].Actor)
	assert.Equal(t, "MONSTER_SUMMONED", events[0].EventType)
	assert.Contains(t, events[0].Summary, "summoned")
	assert.NotEmpty(t, events[0].Rationale)

	serialized, err := json.Marshal(events[0])
	require.NoError(t, err)
	assert.NotContains(t, string(serialized), "secret-id")
	assert.NotContains(t, string(serialized), "targetId")
	assert.NotContains(t, string(serialized), "x1")
}

func TestBuildPublicEventLogExpandsBatches(t *testing.T) {
	batch := eventsBatch(t, models.SeatHost, 1, []map[string]interface{}{
		{"type": "SPELL_ACTIVATED", "cardId": "a"},
		{"type": "MONSTER_DESTROYED", "cardId": "b"},
		{"type": "TURN_ENDED"},
	})

	events := BuildPublicEventLog(EventLogInput{
		AgentSeat: models.SeatAway,
		Batches:   []models.CommandBatch{batch},
	})

	require.Len(t, events, 3)
	for _, ev := range events {
		assert.Equal(t, "opponent", ev.Actor)
		assert.NotEmpty(t, ev.Summary)
		assert.NotEmpty(t, ev.Rationale)
	}
}

func TestBuildPublicEventLogDropsUnclassifiedTypes(t *testing.T) {
	batch := eventsBatch(t, models.SeatHost, 1, []map[string]interface{}{
		{"type": "FUTURE_EVENT", "payload": "raw"},
		{"type": "ATTACK_DECLARED"},
	})

	events := BuildPublicEventLog(EventLogInput{
		AgentSeat: models.SeatHost,
		Batches:   []models.CommandBatch{batch},
	})

	require.Len(t, events, 1)
	assert.Equal(t, "ATTACK_DECLARED", events[0].EventType)
}

func TestBuildPublicEventLogSkipsMalformedEvents(t *testing.T) {
	batches := []models.CommandBatch{
		{Command: "{}", Events: "not json", Seat: models.SeatHost, Version: 1},
		eventsBatch(t, models.SeatHost, 2, []map[string]interface{}{{"type": "TURN_ENDED"}}),
	}

	var events []PublicTimelineEvent
	require.NotPanics(t, func() {
		events = BuildPublicEventLog(EventLogInput{AgentSeat: models.SeatHost, Batches: batches})
	})
	require.Len(t, events, 1)
}

func TestBuildPublicEventLogDropsUnknownSeats(t *testing.T) {
	batches := []models.CommandBatch{
		eventsBatch(t, models.Seat("observer"), 1, []map[string]interface{}{{"type": "TURN_ENDED"}}),
		eventsBatch(t, models.SeatAway, 2, []map[string]interface{}{{"type": "TURN_ENDED"}}),
	}

	events := BuildPublicEventLog(EventLogInput{AgentSeat: models.SeatHost, Batches: batches})

	require.Len(t, events, 1)
	assert.Equal(t, "opponent", events[0].Actor)
}

func TestBuildPublicEventLogSystemAttribution(t *testing.T) {
	batch := eventsBatch(t, models.SeatHost, 1, []map[string]interface{}{
		{"type": "MATCH_ENDED"},
	})

	events := BuildPublicEventLog(EventLogInput{AgentSeat: models.SeatHost, Batches: []models.CommandBatch{batch}})

	require.Len(t, events, 1)
	assert.Equal(t, "system", events[0].Actor)
}
