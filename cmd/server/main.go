// cmd/server/main.go
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/sirupsen/logrus"

	"github.com/lunchtable/ltcg-service/internal/auth"
	"github.com/lunchtable/ltcg-service/internal/cache"
	"github.com/lunchtable/ltcg-service/internal/chat"
	"github.com/lunchtable/ltcg-service/internal/database"
	"github.com/lunchtable/ltcg-service/internal/engine"
	"github.com/lunchtable/ltcg-service/internal/handlers"
	"github.com/lunchtable/ltcg-service/internal/lobby"
	"github.com/lunchtable/ltcg-service/internal/streamaudio"
)

func main() {
	auth.Init()
	database.ConnectDB()

	logger := logrus.New()
	logger.SetLevel(logrus.DebugLevel)

	if err := cache.ConnectRedis(); err != nil {
		log.Fatalf("redis connect failed: %v", err)
	}

	engineURL := os.Getenv("ENGINE_URL")
	if engineURL == "" {
		engineURL = "http://localhost:9090"
	}
	eng := engine.NewClient(engineURL)

	lobbies := lobby.NewService(database.NewPgLobbyStore(database.DB), eng, logger)
	audio := streamaudio.NewStore(cache.Rdb)
	chatStore := chat.NewStore(cache.Rdb)
	creds := database.NewPgAgentCredentialStore(database.DB)

	srv := handlers.NewServer(lobbies, audio, chatStore, eng, creds, logger)

	addr := ":8080"
	if port := os.Getenv("PORT"); port != "" {
		addr = ":" + port
	}

	httpServer := &http.Server{
		Addr:    addr,
		Handler: srv.Routes(),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Infof("Running on %s", addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server exited: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Warnf("shutdown error: %v", err)
	}
	database.DB.Close()
}
