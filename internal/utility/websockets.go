package utility

import (
	"net/http"
	"strconv"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// Simple Hub to hold active dashboard connections: Map[UserID] -> Connection
var (
	Clients   = make(map[int64]*websocket.Conn)
	ClientsMu sync.Mutex // Mutex to prevent race conditions
	Upgrader  = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		// Allow CORS for development
		CheckOrigin: func(r *http.Request) bool { return true },
	}
)

// Register a new client connection
func RegisterClient(userID int64, conn *websocket.Conn) {
	ClientsMu.Lock()
	defer ClientsMu.Unlock()
	Clients[userID] = conn
	log.Info().Str("user_id", strconv.FormatInt(userID, 10)).Msg("WebSocket Client Connected")
}

// Unregister a client (when they close the tab)
func UnregisterClient(userID int64) {
	ClientsMu.Lock()
	defer ClientsMu.Unlock()
	if _, ok := Clients[userID]; ok {
		delete(Clients, userID)
		log.Info().Str("user_id", strconv.FormatInt(userID, 10)).Msg("WebSocket Client Disconnected")
	}
}

// Notify a specific user that a new reading landed so their dashboard refreshes
func TriggerVitalsUpdate(userID int64) {
	ClientsMu.Lock()
	defer ClientsMu.Unlock()

	if conn, ok := Clients[userID]; ok {
		// Send a simple text message "REFRESH"
		if err := conn.WriteMessage(websocket.TextMessage, []byte("REFRESH")); err != nil {
			log.Error().Err(err).Msg("Failed to send WS message, removing client")
			conn.Close()
			delete(Clients, userID)
		}
	}
}

// Broadcast sends a payload to every connected dashboard client. Used by the
// system stats broadcaster.
func Broadcast(message []byte) {
	ClientsMu.Lock()
	defer ClientsMu.Unlock()

	for userID, conn := range Clients {
		if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
			log.Error().Err(err).Msg("Failed to broadcast WS message, removing client")
			conn.Close()
			delete(Clients, userID)
		}
	}
}
