// internal/lobby/service_test.go
package lobby

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lunchtable/ltcg-service/internal/models"
)

// fakeEngine records engine calls instead of running a real match.
type fakeEngine struct {
	created []string
	joined  []string
	started []string
	nextID  int

	joinErr error
}

func (f *fakeEngine) CreateMatch(_ context.Context, _ uuid.UUID) (string, error) {
	f.nextID++
	id := fmt.Sprintf("match_%020d", f.nextID)
	f.created = append(f.created, id)
	return id, nil
}

func (f *fakeEngine) JoinMatch(_ context.Context, matchID string, _ uuid.UUID) error {
	if f.joinErr != nil {
		return f.joinErr
	}
	f.joined = append(f.joined, matchID)
	return nil
}

func (f *fakeEngine) StartMatch(_ context.Context, matchID string) error {
	f.started = append(f.started, matchID)
	return nil
}

func newTestService() (*Service, *fakeEngine) {
	engine := &fakeEngine{}
	return NewService(NewMemoryStore(), engine, nil), engine
}

func TestCreatePvpLobbyRejectsDuplicateWaiting(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()
	host := uuid.New()

	first, err := svc.CreatePvpLobby(ctx, host, models.LobbyPublic)
	require.NoError(t, err)
	assert.Equal(t, models.LobbyWaiting, first.Status)
	assert.Nil(t, first.AwayID)

	_, err = svc.CreatePvpLobby(ctx, host, models.LobbyPublic)
	require.Error(t, err)
	assert.EqualError(t, err, "You already have a waiting PvP lobby")
}

func TestCreatePvpLobbyAllowsNewAfterCancel(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()
	host := uuid.New()

	first, err := svc.CreatePvpLobby(ctx, host, models.LobbyPublic)
	require.NoError(t, err)
	_, err = svc.CancelPvpLobby(ctx, host, first.MatchID)
	require.NoError(t, err)

	_, err = svc.CreatePvpLobby(ctx, host, models.LobbyPublic)
	assert.NoError(t, err)
}

func TestJoinPvpLobbyRejectsSelfJoin(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()
	host := uuid.New()

	lobby, err := svc.CreatePvpLobby(ctx, host, models.LobbyPublic)
	require.NoError(t, err)

	_, err = svc.JoinPvpLobby(ctx, host, lobby.MatchID)
	require.Error(t, err)
	assert.EqualError(t, err, "Cannot join your own lobby.")
}

func TestJoinPvpLobbyActivatesAndStartsMatch(t *testing.T) {
	ctx := context.Background()
	svc, engine := newTestService()
	host, away := uuid.New(), uuid.New()

	lobby, err := svc.CreatePvpLobby(ctx, host, models.LobbyPublic)
	require.NoError(t, err)

	joined, err := svc.JoinPvpLobby(ctx, away, lobby.MatchID)
	require.NoError(t, err)
	assert.Equal(t, models.LobbyActive, joined.Status)
	require.NotNil(t, joined.AwayID)
	assert.Equal(t, away, *joined.AwayID)
	assert.Equal(t, []string{lobby.MatchID}, engine.joined)
	assert.Equal(t, []string{lobby.MatchID}, engine.started)

	// Terminal state: a third player cannot join.
	_, err = svc.JoinPvpLobby(ctx, uuid.New(), lobby.MatchID)
	assert.ErrorIs(t, err, models.ErrLobbyNotWaiting)
}

// rendezvousEngine holds every JoinMatch call at a barrier so two joiners can
// both observe the lobby as waiting before either one writes.
type rendezvousEngine struct {
	fakeEngine
	gate *sync.WaitGroup
}

func (e *rendezvousEngine) JoinMatch(_ context.Context, _ string, _ uuid.UUID) error {
	e.gate.Done()
	e.gate.Wait()
	return nil
}

func (e *rendezvousEngine) StartMatch(_ context.Context, _ string) error { return nil }

func TestJoinPvpLobbyConcurrentJoinActivatesOnce(t *testing.T) {
	ctx := context.Background()
	var gate sync.WaitGroup
	gate.Add(2)
	store := NewMemoryStore()
	svc := NewService(store, &rendezvousEngine{gate: &gate}, nil)
	host := uuid.New()

	created, err := svc.CreatePvpLobby(ctx, host, models.LobbyPublic)
	require.NoError(t, err)

	errs := make(chan error, 2)
	for i := 0; i < 2; i++ {
		go func() {
			_, err := svc.JoinPvpLobby(ctx, uuid.New(), created.MatchID)
			errs <- err
		}()
	}

	failures := 0
	for i := 0; i < 2; i++ {
		if err := <-errs; err != nil {
			assert.ErrorIs(t, err, models.ErrLobbyNotWaiting)
			failures++
		}
	}
	assert.Equal(t, 1, failures)

	final, err := store.GetByMatchID(ctx, created.MatchID)
	require.NoError(t, err)
	assert.Equal(t, models.LobbyActive, final.Status)
	require.NotNil(t, final.AwayID)
}

func TestMemoryStoreRejectsSecondWaitingInsert(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	host := uuid.New()

	first := &models.PvpLobby{MatchID: "match_a", HostID: host, Status: models.LobbyWaiting}
	require.NoError(t, store.InsertLobby(ctx, first))

	second := &models.PvpLobby{MatchID: "match_b", HostID: host, Status: models.LobbyWaiting}
	assert.ErrorIs(t, store.InsertLobby(ctx, second), ErrDuplicateWaitingLobby)

	// A canceled first lobby frees the slot.
	first.Status = models.LobbyCanceled
	require.NoError(t, store.UpdateLobby(ctx, first, models.LobbyWaiting))
	assert.NoError(t, store.InsertLobby(ctx, second))
}

func TestJoinPvpLobbyByCode(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()
	host, away := uuid.New(), uuid.New()

	lobby, err := svc.CreatePvpLobby(ctx, host, models.LobbyPrivate)
	require.NoError(t, err)
	require.NotNil(t, lobby.JoinCode)

	joined, err := svc.JoinPvpLobbyByCode(ctx, away, *lobby.JoinCode)
	require.NoError(t, err)
	assert.Equal(t, lobby.MatchID, joined.MatchID)
	assert.Equal(t, models.LobbyActive, joined.Status)
}

func TestJoinPvpLobbyEngineFailureLeavesLobbyWaiting(t *testing.T) {
	ctx := context.Background()
	svc, engine := newTestService()
	host, away := uuid.New(), uuid.New()

	lobby, err := svc.CreatePvpLobby(ctx, host, models.LobbyPublic)
	require.NoError(t, err)

	engine.joinErr = fmt.Errorf("engine unavailable")
	_, err = svc.JoinPvpLobby(ctx, away, lobby.MatchID)
	require.Error(t, err)

	current, err := svc.GetMyPvpLobby(ctx, host)
	require.NoError(t, err)
	require.NotNil(t, current)
	assert.Equal(t, models.LobbyWaiting, current.Status)
}

func TestCancelPvpLobbyGuards(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()
	host, away := uuid.New(), uuid.New()

	lobby, err := svc.CreatePvpLobby(ctx, host, models.LobbyPublic)
	require.NoError(t, err)

	_, err = svc.CancelPvpLobby(ctx, away, lobby.MatchID)
	assert.ErrorIs(t, err, ErrNotHost)

	_, err = svc.JoinPvpLobby(ctx, away, lobby.MatchID)
	require.NoError(t, err)

	_, err = svc.CancelPvpLobby(ctx, host, lobby.MatchID)
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrLobbyNotWaiting)
}

func TestCancelAfterJoinMessage(t *testing.T) {
	// Exercise the transition guard directly: a waiting lobby whose away seat
	// was filled out of band refuses to cancel with the join-specific error.
	now := int64(0)
	away := uuid.New()
	lobby := &models.PvpLobby{Status: models.LobbyWaiting, AwayID: &away, CreatedAt: now}

	err := lobby.Cancel()
	require.Error(t, err)
	assert.EqualError(t, err, "Cannot cancel after an away player has joined.")
}

func TestListPublicPvpLobbiesFiltersAndSorts(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	hostA, hostB, hostC, away := uuid.New(), uuid.New(), uuid.New(), uuid.New()
	a, err := svc.CreatePvpLobby(ctx, hostA, models.LobbyPublic)
	require.NoError(t, err)
	_, err = svc.CreatePvpLobby(ctx, hostB, models.LobbyPrivate)
	require.NoError(t, err)
	c, err := svc.CreatePvpLobby(ctx, hostC, models.LobbyPublic)
	require.NoError(t, err)

	_, err = svc.JoinPvpLobby(ctx, away, c.MatchID)
	require.NoError(t, err)

	open, err := svc.ListOpenPvpLobbies(ctx)
	require.NoError(t, err)
	require.Len(t, open, 1)
	assert.Equal(t, a.MatchID, open[0].MatchID)

	withActive, err := svc.ListPublicPvpLobbies(ctx, true)
	require.NoError(t, err)
	require.Len(t, withActive, 2)
	for _, row := range withActive {
		assert.Equal(t, models.LobbyPublic, row.Visibility)
		assert.Nil(t, row.JoinCode)
	}
}

func TestGetMyPvpLobby(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()
	host := uuid.New()

	missing, err := svc.GetMyPvpLobby(ctx, host)
	require.NoError(t, err)
	assert.Nil(t, missing)

	created, err := svc.CreatePvpLobby(ctx, host, models.LobbyPublic)
	require.NoError(t, err)

	mine, err := svc.GetMyPvpLobby(ctx, host)
	require.NoError(t, err)
	require.NotNil(t, mine)
	assert.Equal(t, created.MatchID, mine.MatchID)
}
