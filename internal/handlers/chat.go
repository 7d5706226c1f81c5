// internal/handlers/chat.go
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/lunchtable/ltcg-service/internal/chat"
	"github.com/lunchtable/ltcg-service/internal/models"
)

// LobbyChatHandler serves the shared lobby chat feed.
// GET returns the recent window; POST appends one line.
func LobbyChatHandler(s *Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
			messages, err := s.Chat.Recent(r.Context(), limit)
			if err != nil {
				writeError(w, http.StatusInternalServerError, err.Error())
				return
			}
			writeJSON(w, http.StatusOK, messages)

		case http.MethodPost:
			agentID, err := authenticate(r)
			if err != nil {
				writeError(w, http.StatusUnauthorized, "invalid token")
				return
			}

			var body struct {
				SenderName string               `json:"senderName"`
				Text       string               `json:"text"`
				Source     models.MessageSource `json:"source"`
			}
			if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
				writeError(w, http.StatusBadRequest, "bad chat payload")
				return
			}
			if body.SenderName == "" {
				body.SenderName = "Agent"
			}

			msg, err := s.Chat.Post(r.Context(), agentID, body.SenderName, body.Text, body.Source)
			if err != nil {
				if errors.Is(err, chat.ErrEmptyMessage) {
					writeError(w, http.StatusBadRequest, err.Error())
					return
				}
				writeError(w, http.StatusInternalServerError, err.Error())
				return
			}
			writeJSON(w, http.StatusOK, msg)

		default:
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		}
	}
}
