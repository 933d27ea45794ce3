package user

import (
	"net/http"

	"VitalTrack_V1.0/internal/utility"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// DashboardWebSocketHandler upgrades the connection and parks it in the hub.
// The client receives "REFRESH" whenever one of its readings changes, plus
// the periodic system stats broadcast.
func DashboardWebSocketHandler(c echo.Context) error {
	userID, err := utility.GetUserIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}

	conn, err := utility.Upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		log.Error().Err(err).Msg("WebSocket upgrade failed")
		return err
	}

	utility.RegisterClient(userID, conn)
	defer func() {
		utility.UnregisterClient(userID)
		conn.Close()
	}()

	// Drain client frames until the peer goes away. The dashboard socket is
	// server-push only.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
	return nil
}
