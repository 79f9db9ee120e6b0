// internal/handlers/ws.go
package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/kennynokoo/uno/internal/auth"
	"github.com/kennynokoo/uno/internal/game"
	"github.com/kennynokoo/uno/internal/models"
)

// Message is the inbound WebSocket envelope. Fields beyond Type are
// populated per message kind.
type Message struct {
	Type string `json:"type"`

	// Name is the display name for createRoom / joinRoom.
	Name string `json:"name,omitempty"`

	// Code is the target room code for joinRoom.
	Code string `json:"code,omitempty"`

	// Rules carries partial rule overrides for updateGameRules.
	Rules map[string]interface{} `json:"rules,omitempty"`

	// Move is the payload of a gameMove message.
	Move *models.Move `json:"move,omitempty"`
}

// wsClient is the per-connection state of the read loop. A connection is in
// at most one room at a time.
type wsClient struct {
	conn   *websocket.Conn
	connID uuid.UUID
	room   *game.Room
	seat   string
}

// WSHandler upgrades the HTTP connection to WebSocket and runs the message
// loop. Every game interaction, from room creation to moves, flows over this
// single endpoint.
func WSHandler(logger *logrus.Logger, gs *GameServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			Subprotocols:   []string{"uno"},
			OriginPatterns: []string{"*"}, // adjust for production security
		})
		if err != nil {
			logger.Warnf("WebSocket accept error: %v", err)
			return
		}
		defer c.Close(websocket.StatusInternalError, "internal server error")

		if c.Subprotocol() != "uno" {
			logger.Warnf("Client connected with invalid subprotocol: %s", c.Subprotocol())
			c.Close(websocket.StatusCode(BadSubprotocolError), "client must use the 'uno' subprotocol")
			return
		}

		connID, token, err := ensureEphemeralSession(r)
		if err != nil {
			logger.Warnf("Session setup failed: %v", err)
			c.Close(websocket.StatusCode(InvalidAuthTokenError), "session setup failed")
			return
		}
		logger.Infof("WebSocket connection %s established from %s", connID, r.RemoteAddr)

		client := &wsClient{conn: c, connID: connID}
		sendEvent(c, game.Event{Type: game.EventWelcome, Token: token})

		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()

		readMessages(ctx, client, gs, logger)

		if client.room != nil {
			client.room.HandleDisconnect(client.connID)
		}
		logger.Infof("WebSocket connection %s closed", connID)
		c.Close(websocket.StatusNormalClosure, "")
	}
}

// ensureEphemeralSession reuses a valid session cookie's connection id, or
// mints a fresh id and token. The token travels back in the welcome event;
// no account or password is ever involved.
func ensureEphemeralSession(r *http.Request) (uuid.UUID, string, error) {
	if tok := extractCookieToken(r.Header.Get("Cookie"), "uno_session"); tok != "" {
		if connID, err := auth.VerifySessionToken(tok); err == nil {
			return connID, tok, nil
		}
	}
	connID := uuid.New()
	tok, err := auth.CreateSessionToken(connID)
	if err != nil {
		return uuid.Nil, "", fmt.Errorf("failed to sign session token: %w", err)
	}
	return connID, tok, nil
}

// readMessages reads, parses and routes inbound messages until the
// connection drops or the context is canceled.
func readMessages(ctx context.Context, cl *wsClient, gs *GameServer, logger *logrus.Logger) {
	for {
		msgType, data, err := cl.conn.Read(ctx)
		if err != nil {
			status := websocket.CloseStatus(err)
			if status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway {
				logger.Infof("WebSocket closed normally for connection %s", cl.connID)
			} else if strings.Contains(err.Error(), "context canceled") {
				logger.Infof("WebSocket context canceled for connection %s", cl.connID)
			} else {
				logger.Warnf("Error reading from WebSocket for connection %s: %v", cl.connID, err)
			}
			return
		}
		if msgType != websocket.MessageText {
			logger.Warnf("Ignoring non-text message from connection %s", cl.connID)
			continue
		}

		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			logger.Warnf("Invalid JSON from connection %s: %v", cl.connID, err)
			sendEvent(cl.conn, game.Event{Type: game.EventMoveError, Message: "invalid JSON"})
			continue
		}

		logger.Debugf("Received '%s' from connection %s", msg.Type, cl.connID)
		dispatch(cl, gs, logger, msg)

		select {
		case <-ctx.Done():
			return
		default:
		}
	}
}

func dispatch(cl *wsClient, gs *GameServer, logger *logrus.Logger, msg Message) {
	switch msg.Type {
	case "createRoom":
		handleCreateRoom(cl, gs, logger, msg)
	case "joinRoom":
		handleJoinRoom(cl, gs, logger, msg)
	case "updateGameRules":
		if cl.room == nil {
			sendEvent(cl.conn, game.Event{Type: game.EventMoveError, Message: "not in a room"})
			return
		}
		if err := cl.room.UpdateRules(cl.seat, msg.Rules); err != nil {
			sendEvent(cl.conn, game.Event{Type: game.EventMoveError, Message: err.Error()})
		}
	case "playerReady":
		if cl.room != nil {
			cl.room.MarkReady(cl.seat)
		}
	case "gameMove":
		if cl.room == nil || msg.Move == nil {
			sendEvent(cl.conn, game.Event{Type: game.EventMoveError, Message: "no move payload"})
			return
		}
		cl.room.HandleMove(cl.seat, *msg.Move)
	case "requestRematch":
		if cl.room != nil {
			cl.room.RequestRematch(cl.seat)
		}
	case "ping":
		sendEvent(cl.conn, game.Event{Type: game.EventPong})
	default:
		sendEvent(cl.conn, game.Event{Type: game.EventMoveError, Message: fmt.Sprintf("unknown message type: %s", msg.Type)})
	}
}

func handleCreateRoom(cl *wsClient, gs *GameServer, logger *logrus.Logger, msg Message) {
	if cl.room != nil {
		sendEvent(cl.conn, game.Event{Type: game.EventJoinError, Message: "already in a room"})
		return
	}
	room := gs.Rooms.Create()
	room.Send = playerSender(logger)

	p, err := room.AddHuman(displayName(msg.Name), cl.connID, cl.conn)
	if err != nil {
		sendEvent(cl.conn, game.Event{Type: game.EventJoinError, Message: err.Error()})
		return
	}
	cl.room = room
	cl.seat = p.Seat
	sendEvent(cl.conn, game.Event{
		Type: game.EventRoomCreated,
		Room: room.RoomInfoSnapshot(),
		Seat: p.Seat,
	})
}

func handleJoinRoom(cl *wsClient, gs *GameServer, logger *logrus.Logger, msg Message) {
	if cl.room != nil {
		sendEvent(cl.conn, game.Event{Type: game.EventJoinError, Message: "already in a room"})
		return
	}
	code := strings.ToUpper(strings.TrimSpace(msg.Code))
	room, ok := gs.Rooms.Get(code)
	if !ok {
		sendEvent(cl.conn, game.Event{Type: game.EventJoinError, Message: "room not found"})
		return
	}
	p, err := room.AddHuman(displayName(msg.Name), cl.connID, cl.conn)
	if err != nil {
		sendEvent(cl.conn, game.Event{Type: game.EventJoinError, Message: err.Error()})
		return
	}
	cl.room = room
	cl.seat = p.Seat
	sendEvent(cl.conn, game.Event{
		Type: game.EventJoinSuccess,
		Room: room.RoomInfoSnapshot(),
		Seat: p.Seat,
	})
}

func displayName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "Player"
	}
	if len(name) > 24 {
		name = name[:24]
	}
	return name
}

// playerSender builds the Room.Send implementation. It is invoked with the
// room lock held, so the marshaled frame is written from a goroutine and the
// caller never blocks on a slow client.
func playerSender(logger *logrus.Logger) func(p *models.Player, ev game.Event) {
	return func(p *models.Player, ev game.Event) {
		conn := p.Conn
		if conn == nil {
			return
		}
		data, err := json.Marshal(ev)
		if err != nil {
			logger.Errorf("Failed to marshal event (%s) for seat %s: %v", ev.Type, p.Seat, err)
			return
		}
		go func(conn *websocket.Conn, data []byte, seat string) {
			ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
			defer cancel()
			if err := conn.Write(ctx, websocket.MessageText, data); err != nil {
				logger.Warnf("Failed to write event to seat %s: %v", seat, err)
			}
		}(conn, data, p.Seat)
	}
}

// sendEvent writes one event synchronously with a write timeout. Used for
// direct replies on the handler's own connection.
func sendEvent(c *websocket.Conn, ev game.Event) {
	if c == nil {
		return
	}
	data, err := json.Marshal(ev)
	if err != nil {
		logrus.Errorf("Failed to marshal event (%s): %v", ev.Type, err)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := c.Write(ctx, websocket.MessageText, data); err != nil {
		status := websocket.CloseStatus(err)
		if status != websocket.StatusNormalClosure && status != websocket.StatusGoingAway {
			logrus.Warnf("Error writing WebSocket message: %v", err)
		}
	}
}

// extractCookieToken extracts a named cookie value from the Cookie header,
// or returns empty if not found.
func extractCookieToken(cookieHeader, cookieName string) string {
	parts := strings.Split(cookieHeader, cookieName+"=")
	if len(parts) < 2 {
		return ""
	}
	token := parts[1]
	if idx := strings.Index(token, ";"); idx != -1 {
		token = token[:idx]
	}
	return token
}
