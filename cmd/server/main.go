// cmd/server/main.go
package main

import (
	"log"
	"net/http"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/sirupsen/logrus"

	"github.com/kennynokoo/uno/internal/auth"
	"github.com/kennynokoo/uno/internal/cache"
	"github.com/kennynokoo/uno/internal/handlers"
	"github.com/kennynokoo/uno/internal/middleware"
)

func main() {
	auth.Init()

	logger := logrus.New()
	logger.SetLevel(logrus.DebugLevel)

	if err := cache.ConnectRedis(); err != nil {
		// Move recording is best-effort; the game runs fine without it.
		logger.Warnf("Redis unavailable, move recording disabled: %v", err)
	}

	srv := handlers.NewGameServer(logger)

	mux := http.NewServeMux()
	mux.HandleFunc("/health", srv.HealthHandler)
	mux.Handle("/ws", middleware.LogMiddleware(logger)(http.HandlerFunc(
		handlers.WSHandler(logger, srv),
	)))

	addr := ":8080"
	if port := os.Getenv("PORT"); port != "" {
		addr = ":" + port
	}
	logger.Infof("Running on %s", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatalf("server exited: %v", err)
	}
}
