// internal/handlers/audio.go
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/lunchtable/ltcg-service/internal/streamaudio"
)

// StreamAudioHandler serves the per-agent soundtrack control state.
// GET returns the current (or default) control; POST applies a patch.
// The agent id is the authenticated user; overlays read through GET.
func StreamAudioHandler(s *Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		agentID, err := authenticate(r)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid token")
			return
		}

		switch r.Method {
		case http.MethodGet:
			control, err := s.Audio.GetByAgentID(r.Context(), agentID)
			if err != nil {
				writeError(w, http.StatusInternalServerError, err.Error())
				return
			}
			writeJSON(w, http.StatusOK, control)

		case http.MethodPost:
			var patch streamaudio.Patch
			if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
				writeError(w, http.StatusBadRequest, "bad audio patch payload")
				return
			}
			control, err := s.Audio.UpsertForAgent(r.Context(), agentID, patch)
			if err != nil {
				writeError(w, http.StatusInternalServerError, err.Error())
				return
			}
			writeJSON(w, http.StatusOK, control)

		default:
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		}
	}
}
