// internal/lobby/service.go
package lobby

import (
	"context"
	"errors"
	"math/rand"
	"sort"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/lunchtable/ltcg-service/internal/models"
)

var (
	// ErrDuplicateWaitingLobby enforces the one-waiting-lobby-per-host invariant.
	ErrDuplicateWaitingLobby = errors.New("You already have a waiting PvP lobby")
	// ErrSelfJoin rejects a host joining their own lobby.
	ErrSelfJoin = errors.New("Cannot join your own lobby.")
	// ErrLobbyNotFound is returned when no lobby matches the given id or code.
	ErrLobbyNotFound = errors.New("lobby not found")
	// ErrNotHost rejects a cancel request from anyone but the lobby host.
	ErrNotHost = errors.New("Only the host can cancel this lobby.")
)

// Store persists lobby rows. Implementations enforce the lifecycle invariants
// at the write itself, not just at the service's read: InsertLobby rejects a
// second waiting lobby for the same host with ErrDuplicateWaitingLobby, and
// UpdateLobby writes only if the stored row is still in the expected status,
// returning models.ErrLobbyNotWaiting otherwise. The service's own checks are
// a fast path; concurrent mutations are decided here.
type Store interface {
	InsertLobby(ctx context.Context, lobby *models.PvpLobby) error
	GetByMatchID(ctx context.Context, matchID string) (*models.PvpLobby, error)
	GetByJoinCode(ctx context.Context, code string) (*models.PvpLobby, error)
	GetWaitingByHost(ctx context.Context, hostID uuid.UUID) (*models.PvpLobby, error)
	UpdateLobby(ctx context.Context, lobby *models.PvpLobby, expect models.LobbyStatus) error
	ListByStatus(ctx context.Context, statuses ...models.LobbyStatus) ([]models.PvpLobby, error)
}

// MatchEngine is the external game engine. Lobby code never touches match
// rules; it only asks the engine to create, join and start matches.
type MatchEngine interface {
	CreateMatch(ctx context.Context, hostID uuid.UUID) (string, error)
	JoinMatch(ctx context.Context, matchID string, awayID uuid.UUID) error
	StartMatch(ctx context.Context, matchID string) error
}

// Service runs the PvP lobby lifecycle: waiting on create, active on join,
// canceled on host cancel.
type Service struct {
	store  Store
	engine MatchEngine
	logger *log.Logger

	now func() int64
}

// NewService wires a lobby service over a store and a match engine.
func NewService(store Store, engine MatchEngine, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.StandardLogger()
	}
	return &Service{
		store:  store,
		engine: engine,
		logger: logger,
		now:    func() int64 { return time.Now().UnixMilli() },
	}
}

const joinCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

func newJoinCode() string {
	code := make([]byte, 6)
	for i := range code {
		code[i] = joinCodeAlphabet[rand.Intn(len(joinCodeAlphabet))]
	}
	return string(code)
}

// CreatePvpLobby creates a match in the engine and a waiting lobby row for it.
// A host may have at most one waiting lobby at a time. Private lobbies get a
// join code.
func (s *Service) CreatePvpLobby(ctx context.Context, hostID uuid.UUID, visibility models.LobbyVisibility) (*models.PvpLobby, error) {
	existing, err := s.store.GetWaitingByHost(ctx, hostID)
	if err != nil && !errors.Is(err, ErrLobbyNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, ErrDuplicateWaitingLobby
	}

	if visibility != models.LobbyPrivate {
		visibility = models.LobbyPublic
	}

	matchID, err := s.engine.CreateMatch(ctx, hostID)
	if err != nil {
		return nil, err
	}

	lobby := &models.PvpLobby{
		MatchID:    matchID,
		HostID:     hostID,
		Visibility: visibility,
		Status:     models.LobbyWaiting,
		CreatedAt:  s.now(),
	}
	if visibility == models.LobbyPrivate {
		code := newJoinCode()
		lobby.JoinCode = &code
	}

	if err := s.store.InsertLobby(ctx, lobby); err != nil {
		return nil, err
	}

	s.logger.WithFields(log.Fields{
		"matchId":    lobby.MatchID,
		"hostId":     hostID,
		"visibility": visibility,
	}).Info("pvp lobby created")
	return lobby, nil
}

// JoinPvpLobby seats awayID in the lobby for matchID, starts the match in the
// engine and flips the lobby to active.
func (s *Service) JoinPvpLobby(ctx context.Context, awayID uuid.UUID, matchID string) (*models.PvpLobby, error) {
	lobby, err := s.store.GetByMatchID(ctx, matchID)
	if err != nil {
		return nil, err
	}
	return s.join(ctx, awayID, lobby)
}

// JoinPvpLobbyByCode is JoinPvpLobby addressed by a private lobby's join code.
func (s *Service) JoinPvpLobbyByCode(ctx context.Context, awayID uuid.UUID, code string) (*models.PvpLobby, error) {
	lobby, err := s.store.GetByJoinCode(ctx, code)
	if err != nil {
		return nil, err
	}
	return s.join(ctx, awayID, lobby)
}

func (s *Service) join(ctx context.Context, awayID uuid.UUID, lobby *models.PvpLobby) (*models.PvpLobby, error) {
	if lobby.HostID == awayID {
		return nil, ErrSelfJoin
	}
	if lobby.Status != models.LobbyWaiting {
		return nil, models.ErrLobbyNotWaiting
	}

	if err := s.engine.JoinMatch(ctx, lobby.MatchID, awayID); err != nil {
		return nil, err
	}
	if err := s.engine.StartMatch(ctx, lobby.MatchID); err != nil {
		return nil, err
	}

	if err := lobby.Activate(awayID, s.now()); err != nil {
		return nil, err
	}
	// Conditional write: if another join flipped the lobby first, this one
	// loses with ErrLobbyNotWaiting instead of overwriting the away seat.
	if err := s.store.UpdateLobby(ctx, lobby, models.LobbyWaiting); err != nil {
		return nil, err
	}

	s.logger.WithFields(log.Fields{
		"matchId": lobby.MatchID,
		"awayId":  awayID,
	}).Info("pvp lobby activated")
	return lobby, nil
}

// CancelPvpLobby cancels a waiting, unjoined lobby. Only its host may cancel.
func (s *Service) CancelPvpLobby(ctx context.Context, requesterID uuid.UUID, matchID string) (*models.PvpLobby, error) {
	lobby, err := s.store.GetByMatchID(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if lobby.HostID != requesterID {
		return nil, ErrNotHost
	}
	if err := lobby.Cancel(); err != nil {
		return nil, err
	}
	if err := s.store.UpdateLobby(ctx, lobby, models.LobbyWaiting); err != nil {
		return nil, err
	}

	s.logger.WithField("matchId", matchID).Info("pvp lobby canceled")
	return lobby, nil
}

// ListOpenPvpLobbies returns public waiting lobbies, newest first.
func (s *Service) ListOpenPvpLobbies(ctx context.Context) ([]models.PvpLobby, error) {
	return s.ListPublicPvpLobbies(ctx, false)
}

// ListPublicPvpLobbies returns public lobbies, optionally including active
// ones, newest first. Safe to call without authentication.
func (s *Service) ListPublicPvpLobbies(ctx context.Context, includeActive bool) ([]models.PvpLobby, error) {
	statuses := []models.LobbyStatus{models.LobbyWaiting}
	if includeActive {
		statuses = append(statuses, models.LobbyActive)
	}
	rows, err := s.store.ListByStatus(ctx, statuses...)
	if err != nil {
		return nil, err
	}

	out := make([]models.PvpLobby, 0, len(rows))
	for _, row := range rows {
		if row.Visibility != models.LobbyPublic {
			continue
		}
		// Join codes are for invited players, not the public listing.
		row.JoinCode = nil
		out = append(out, row)
	}
	sortNewestFirst(out)
	return out, nil
}

// GetMyPvpLobby returns the host's current waiting or active lobby, or nil.
func (s *Service) GetMyPvpLobby(ctx context.Context, hostID uuid.UUID) (*models.PvpLobby, error) {
	rows, err := s.store.ListByStatus(ctx, models.LobbyWaiting, models.LobbyActive)
	if err != nil {
		return nil, err
	}
	sortNewestFirst(rows)
	for i := range rows {
		if rows[i].HostID == hostID {
			return &rows[i], nil
		}
	}
	return nil, nil
}

func sortNewestFirst(rows []models.PvpLobby) {
	sort.Slice(rows, func(i, j int) bool {
		return rows[i].CreatedAt > rows[j].CreatedAt
	})
}
