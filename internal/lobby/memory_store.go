// internal/lobby/memory_store.go
package lobby

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/lunchtable/ltcg-service/internal/models"
)

// MemoryStore keeps lobby rows in memory. Used by tests and by deployments
// that run without Postgres; each write checks and applies under one lock so
// the lifecycle guards hold even across concurrent callers.
type MemoryStore struct {
	mu      sync.Mutex
	lobbies map[string]*models.PvpLobby
}

// NewMemoryStore returns an empty in-memory lobby store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		lobbies: make(map[string]*models.PvpLobby),
	}
}

func (s *MemoryStore) InsertLobby(_ context.Context, lobby *models.PvpLobby) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if lobby.Status == models.LobbyWaiting {
		for _, existing := range s.lobbies {
			if existing.HostID == lobby.HostID && existing.Status == models.LobbyWaiting {
				return ErrDuplicateWaitingLobby
			}
		}
	}
	cloned := *lobby
	s.lobbies[lobby.MatchID] = &cloned
	return nil
}

func (s *MemoryStore) GetByMatchID(_ context.Context, matchID string) (*models.PvpLobby, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	lobby, ok := s.lobbies[matchID]
	if !ok {
		return nil, ErrLobbyNotFound
	}
	cloned := *lobby
	return &cloned, nil
}

func (s *MemoryStore) GetByJoinCode(_ context.Context, code string) (*models.PvpLobby, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, lobby := range s.lobbies {
		if lobby.JoinCode != nil && *lobby.JoinCode == code {
			cloned := *lobby
			return &cloned, nil
		}
	}
	return nil, ErrLobbyNotFound
}

func (s *MemoryStore) GetWaitingByHost(_ context.Context, hostID uuid.UUID) (*models.PvpLobby, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, lobby := range s.lobbies {
		if lobby.HostID == hostID && lobby.Status == models.LobbyWaiting {
			cloned := *lobby
			return &cloned, nil
		}
	}
	return nil, ErrLobbyNotFound
}

// UpdateLobby applies a transition only if the stored row is still in the
// expected status. Concurrent transitions race on this compare-and-swap.
func (s *MemoryStore) UpdateLobby(_ context.Context, lobby *models.PvpLobby, expect models.LobbyStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.lobbies[lobby.MatchID]
	if !ok {
		return ErrLobbyNotFound
	}
	if current.Status != expect {
		return models.ErrLobbyNotWaiting
	}
	cloned := *lobby
	s.lobbies[lobby.MatchID] = &cloned
	return nil
}

func (s *MemoryStore) ListByStatus(_ context.Context, statuses ...models.LobbyStatus) ([]models.PvpLobby, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	wanted := make(map[models.LobbyStatus]bool, len(statuses))
	for _, st := range statuses {
		wanted[st] = true
	}
	var out []models.PvpLobby
	for _, lobby := range s.lobbies {
		if wanted[lobby.Status] {
			out = append(out, *lobby)
		}
	}
	return out, nil
}
