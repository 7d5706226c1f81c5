// internal/models/lobby.go
package models

import (
	"errors"

	"github.com/google/uuid"
)

// LobbyStatus is the lifecycle state of a PvP lobby. waiting is the only
// non-terminal state; active and canceled are terminal.
type LobbyStatus string

const (
	LobbyWaiting  LobbyStatus = "waiting"
	LobbyActive   LobbyStatus = "active"
	LobbyCanceled LobbyStatus = "canceled"
)

// LobbyVisibility controls whether a lobby appears in the public listing.
type LobbyVisibility string

const (
	LobbyPublic  LobbyVisibility = "public"
	LobbyPrivate LobbyVisibility = "private"
)

var (
	// ErrLobbyNotWaiting is returned for any transition attempted on a terminal lobby.
	ErrLobbyNotWaiting = errors.New("lobby is not waiting")
	// ErrLobbyJoined is returned when canceling a lobby whose away seat is taken.
	ErrLobbyJoined = errors.New("Cannot cancel after an away player has joined.")
)

// PvpLobby is a matchmaking row: a host waiting for (or matched with) an opponent.
// The match object itself lives in the external match engine; MatchID is the join key.
type PvpLobby struct {
	MatchID     string          `json:"matchId"`
	HostID      uuid.UUID       `json:"hostId"`
	AwayID      *uuid.UUID      `json:"awayId"`
	Visibility  LobbyVisibility `json:"visibility"`
	JoinCode    *string         `json:"joinCode"`
	Status      LobbyStatus     `json:"status"`
	CreatedAt   int64           `json:"createdAt"`
	ActivatedAt *int64          `json:"activatedAt"`
}

// Activate moves the lobby to active with the given away player. Legal only
// from waiting; terminal states reject the transition.
func (l *PvpLobby) Activate(awayID uuid.UUID, now int64) error {
	if l.Status != LobbyWaiting {
		return ErrLobbyNotWaiting
	}
	l.AwayID = &awayID
	l.Status = LobbyActive
	l.ActivatedAt = &now
	return nil
}

// Cancel moves the lobby to canceled. Legal only while waiting and before any
// away player has joined.
func (l *PvpLobby) Cancel() error {
	if l.Status != LobbyWaiting {
		return ErrLobbyNotWaiting
	}
	if l.AwayID != nil {
		return ErrLobbyJoined
	}
	l.Status = LobbyCanceled
	return nil
}
