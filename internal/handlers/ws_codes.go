// internal/handlers/ws_codes.go
package handlers

// Custom WebSocket close codes. These provide more specific reasons for
// closure than the standard codes.
const (
	BadSubprotocolError   = 3000 // client connected with an unsupported subprotocol
	InvalidAuthTokenError = 3001 // provided session token was invalid or expired
)
