// internal/handlers/server.go
package handlers

import (
	"context"
	"net/http"

	"github.com/rs/cors"
	"github.com/sirupsen/logrus"

	"github.com/lunchtable/ltcg-service/internal/chat"
	"github.com/lunchtable/ltcg-service/internal/lobby"
	"github.com/lunchtable/ltcg-service/internal/middleware"
	"github.com/lunchtable/ltcg-service/internal/models"
	"github.com/lunchtable/ltcg-service/internal/spectator"
	"github.com/lunchtable/ltcg-service/internal/streamaudio"
)

// ViewSource provides raw match state from the engine for spectator
// sanitization. The raw view must never be served directly.
type ViewSource interface {
	AuthenticatedView(ctx context.Context, matchID string) (spectator.ViewInput, error)
	CommandBatches(ctx context.Context, matchID string) ([]models.CommandBatch, error)
}

// Server holds the service dependencies behind the HTTP surface.
type Server struct {
	Lobbies     *lobby.Service
	Audio       *streamaudio.Store
	Chat        *chat.Store
	Views       ViewSource
	Credentials CredentialStore
	Logger      *logrus.Logger
}

// NewServer wires the HTTP surface.
func NewServer(lobbies *lobby.Service, audio *streamaudio.Store, chatStore *chat.Store, views ViewSource, creds CredentialStore, logger *logrus.Logger) *Server {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Server{
		Lobbies:     lobbies,
		Audio:       audio,
		Chat:        chatStore,
		Views:       views,
		Credentials: creds,
		Logger:      logger,
	}
}

// Routes builds the full handler chain: mux, request logging, CORS.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/", PingHandler)

	mux.HandleFunc("/agent/register", RegisterAgentHandler(s))
	mux.HandleFunc("/agent/login", AgentLoginHandler(s))

	mux.HandleFunc("/pvp/create", CreatePvpLobbyHandler(s))
	mux.HandleFunc("/pvp/join", JoinPvpLobbyHandler(s))
	mux.HandleFunc("/pvp/join-by-code", JoinPvpLobbyByCodeHandler(s))
	mux.HandleFunc("/pvp/cancel", CancelPvpLobbyHandler(s))
	mux.HandleFunc("/pvp/open", ListOpenPvpLobbiesHandler(s))
	mux.HandleFunc("/pvp/public", ListPublicPvpLobbiesHandler(s))
	mux.HandleFunc("/pvp/my", GetMyPvpLobbyHandler(s))
	mux.HandleFunc("/pvp/snapshot", LobbySnapshotHandler(s))

	mux.HandleFunc("/stream-audio", StreamAudioHandler(s))

	mux.HandleFunc("/lobby/chat", LobbyChatHandler(s))

	mux.HandleFunc("/spectate/", PublicSpectatorViewHandler(s))
	mux.HandleFunc("/spectate-ws/", SpectatorWSHandler(s))
	mux.HandleFunc("/match-log/", MatchLogHandler(s))

	handler := middleware.LogMiddleware(s.Logger)(mux)
	return cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{http.MethodGet, http.MethodPost},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: false,
	}).Handler(handler)
}

// PingHandler is a trivial liveness check.
func PingHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.Write([]byte("pong"))
}
