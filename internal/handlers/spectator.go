// internal/handlers/spectator.go
package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/lunchtable/ltcg-service/internal/gamelog"
	"github.com/lunchtable/ltcg-service/internal/middleware"
	"github.com/lunchtable/ltcg-service/internal/spectator"
)

// spectatorPayload is one broadcast frame: sanitized board plus sanitized
// timeline. Nothing in here comes straight from the raw engine view.
type spectatorPayload struct {
	View   spectator.PublicSpectatorView   `json:"view"`
	Events []spectator.PublicTimelineEvent `json:"events"`
}

func matchIDFromPath(path, prefix string) string {
	return strings.SplitN(strings.TrimPrefix(path, prefix), "/", 2)[0]
}

func (s *Server) buildSpectatorPayload(r *http.Request, matchID string) (spectatorPayload, error) {
	var payload spectatorPayload

	view, err := s.Views.AuthenticatedView(r.Context(), matchID)
	if err != nil {
		return payload, err
	}
	payload.View = spectator.BuildPublicSpectatorView(view)

	batches, err := s.Views.CommandBatches(r.Context(), matchID)
	if err != nil {
		return payload, err
	}
	payload.Events = spectator.BuildPublicEventLog(spectator.EventLogInput{
		AgentSeat: view.Seat,
		Batches:   batches,
	})
	return payload, nil
}

// PublicSpectatorViewHandler serves a one-shot sanitized view of a match.
// No auth: the output is safe for any audience by construction.
func PublicSpectatorViewHandler(s *Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		matchID := matchIDFromPath(r.URL.Path, "/spectate/")
		if matchID == "" {
			writeError(w, http.StatusBadRequest, "missing match id")
			return
		}

		payload, err := s.buildSpectatorPayload(r, matchID)
		if err != nil {
			writeError(w, http.StatusBadGateway, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, payload)
	}
}

// spectatorRefreshInterval paces the broadcast loop; the engine view is
// fetched fresh each tick.
const spectatorRefreshInterval = 2 * time.Second

// SpectatorWSHandler streams the sanitized view to an unauthenticated
// websocket audience until the client goes away.
func SpectatorWSHandler(s *Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		matchID := matchIDFromPath(r.URL.Path, "/spectate-ws/")
		if matchID == "" {
			writeError(w, http.StatusBadRequest, "missing match id")
			return
		}

		c, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			Subprotocols:   []string{"spectator"},
			OriginPatterns: []string{"*"},
		})
		if err != nil {
			s.Logger.Warnf("websocket accept error: %v", err)
			return
		}
		defer c.Close(websocket.StatusInternalError, "handler finished")

		middleware.LogWebSocketConnect(s.Logger, r.RemoteAddr, r.URL.Path)

		ctx := r.Context()
		ticker := time.NewTicker(spectatorRefreshInterval)
		defer ticker.Stop()

		for {
			payload, err := s.buildSpectatorPayload(r, matchID)
			if err != nil {
				// Engine hiccups should not kill the stream; skip the frame.
				s.Logger.Warnf("spectator frame for %s failed: %v", matchID, err)
			} else if err := wsjson.Write(ctx, c, payload); err != nil {
				middleware.LogWebSocketDisconnect(s.Logger, r.RemoteAddr, r.URL.Path, err)
				return
			}

			select {
			case <-ctx.Done():
				c.Close(websocket.StatusNormalClosure, "context done")
				middleware.LogWebSocketDisconnect(s.Logger, r.RemoteAddr, r.URL.Path, nil)
				return
			case <-ticker.C:
			}
		}
	}
}

// MatchLogHandler renders the perspective-aware command log for a seat.
// ?seat=host|away selects the viewer; defaults to host.
func MatchLogHandler(s *Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		matchID := matchIDFromPath(r.URL.Path, "/match-log/")
		if matchID == "" {
			writeError(w, http.StatusBadRequest, "missing match id")
			return
		}

		seat := seatFromQuery(r.URL.Query().Get("seat"))

		batches, err := s.Views.CommandBatches(r.Context(), matchID)
		if err != nil {
			writeError(w, http.StatusBadGateway, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, gamelog.Format(batches, seat))
	}
}
