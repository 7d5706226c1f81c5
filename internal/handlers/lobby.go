// internal/handlers/lobby.go
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/lunchtable/ltcg-service/internal/agent"
	"github.com/lunchtable/ltcg-service/internal/chat"
	"github.com/lunchtable/ltcg-service/internal/lobby"
	"github.com/lunchtable/ltcg-service/internal/models"
)

// lobbyErrorStatus maps lifecycle guard failures onto HTTP statuses. Guard
// messages pass through verbatim; the client shows them as-is.
func lobbyErrorStatus(err error) int {
	switch {
	case errors.Is(err, lobby.ErrLobbyNotFound):
		return http.StatusNotFound
	case errors.Is(err, lobby.ErrDuplicateWaitingLobby),
		errors.Is(err, lobby.ErrSelfJoin),
		errors.Is(err, lobby.ErrNotHost),
		errors.Is(err, models.ErrLobbyNotWaiting),
		errors.Is(err, models.ErrLobbyJoined):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// CreatePvpLobbyHandler opens a waiting lobby for the authenticated host.
func CreatePvpLobbyHandler(s *Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		hostID, err := authenticate(r)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid token")
			return
		}

		var body struct {
			Visibility models.LobbyVisibility `json:"visibility"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil && err.Error() != "EOF" {
			writeError(w, http.StatusBadRequest, "bad lobby request payload")
			return
		}

		created, err := s.Lobbies.CreatePvpLobby(r.Context(), hostID, body.Visibility)
		if err != nil {
			writeError(w, lobbyErrorStatus(err), err.Error())
			return
		}
		writeJSON(w, http.StatusOK, created)
	}
}

// JoinPvpLobbyHandler seats the authenticated user as the away player.
func JoinPvpLobbyHandler(s *Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		awayID, err := authenticate(r)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid token")
			return
		}

		var body struct {
			MatchID string `json:"matchId"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.MatchID == "" {
			writeError(w, http.StatusBadRequest, "matchId is required")
			return
		}

		joined, err := s.Lobbies.JoinPvpLobby(r.Context(), awayID, body.MatchID)
		if err != nil {
			writeError(w, lobbyErrorStatus(err), err.Error())
			return
		}
		writeJSON(w, http.StatusOK, joined)
	}
}

// JoinPvpLobbyByCodeHandler joins a private lobby by its join code.
func JoinPvpLobbyByCodeHandler(s *Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		awayID, err := authenticate(r)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid token")
			return
		}

		var body struct {
			Code string `json:"code"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Code == "" {
			writeError(w, http.StatusBadRequest, "code is required")
			return
		}

		joined, err := s.Lobbies.JoinPvpLobbyByCode(r.Context(), awayID, body.Code)
		if err != nil {
			writeError(w, lobbyErrorStatus(err), err.Error())
			return
		}
		writeJSON(w, http.StatusOK, joined)
	}
}

// CancelPvpLobbyHandler cancels the host's waiting lobby.
func CancelPvpLobbyHandler(s *Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		requesterID, err := authenticate(r)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid token")
			return
		}

		var body struct {
			MatchID string `json:"matchId"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.MatchID == "" {
			writeError(w, http.StatusBadRequest, "matchId is required")
			return
		}

		canceled, err := s.Lobbies.CancelPvpLobby(r.Context(), requesterID, body.MatchID)
		if err != nil {
			writeError(w, lobbyErrorStatus(err), err.Error())
			return
		}
		writeJSON(w, http.StatusOK, canceled)
	}
}

// ListOpenPvpLobbiesHandler lists public waiting lobbies. No auth required.
func ListOpenPvpLobbiesHandler(s *Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		lobbies, err := s.Lobbies.ListOpenPvpLobbies(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, lobbies)
	}
}

// ListPublicPvpLobbiesHandler lists public lobbies, optionally including
// active ones (?includeActive=true). No auth required.
func ListPublicPvpLobbiesHandler(s *Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		includeActive, _ := strconv.ParseBool(r.URL.Query().Get("includeActive"))
		lobbies, err := s.Lobbies.ListPublicPvpLobbies(r.Context(), includeActive)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, lobbies)
	}
}

// GetMyPvpLobbyHandler returns the host's current lobby, or null.
func GetMyPvpLobbyHandler(s *Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		hostID, err := authenticate(r)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid token")
			return
		}

		mine, err := s.Lobbies.GetMyPvpLobby(r.Context(), hostID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, mine)
	}
}

// LobbySnapshotHandler assembles the agent coordination view: open lobbies,
// active matches and the recent chat window.
func LobbySnapshotHandler(s *Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, err := authenticate(r); err != nil {
			writeError(w, http.StatusUnauthorized, "invalid token")
			return
		}

		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		limit = chat.ClampLimit(limit)

		open, err := s.Lobbies.ListOpenPvpLobbies(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		withActive, err := s.Lobbies.ListPublicPvpLobbies(r.Context(), true)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		active := make([]models.PvpLobby, 0, len(withActive))
		for _, row := range withActive {
			if row.Status == models.LobbyActive {
				active = append(active, row)
			}
		}

		messages, err := s.Chat.Recent(r.Context(), limit)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}

		writeJSON(w, http.StatusOK, agent.LobbySnapshot{
			OpenLobbies:   open,
			ActiveMatches: active,
			Messages:      messages,
		})
	}
}
