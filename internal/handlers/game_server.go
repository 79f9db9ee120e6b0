// internal/handlers/game_server.go
package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/kennynokoo/uno/internal/game"
)

// GameServer holds the room registry shared by every WebSocket connection.
type GameServer struct {
	Rooms  *game.RoomStore
	Logger *logrus.Logger
}

func NewGameServer(logger *logrus.Logger) *GameServer {
	if logger == nil {
		logger = logrus.New()
	}
	return &GameServer{
		Rooms:  game.NewRoomStore(),
		Logger: logger,
	}
}

// HealthHandler reports liveness and the number of active rooms.
func (gs *GameServer) HealthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status": "ok",
		"rooms":  gs.Rooms.Count(),
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}
