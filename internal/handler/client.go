package handler

import (
	"net/http"

	"github.com/gorilla/websocket"

	"touristkiosk/internal/logger"
	hub "touristkiosk/internal/service/websocket"
)

// Upgrader upgrades HTTP connections to WebSocket; CheckOrigin allows all origins.
var Upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// EventsWebsocketHandler registers an attendant monitor with the hub so it
// receives flow notifications until it disconnects.
func EventsWebsocketHandler(h *hub.HubService, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		connection, err := Upgrader.Upgrade(w, r, nil)
		if err != nil {
			logger.Error("WebSocket upgrade error: %v", err)
			return
		}

		h.Register(connection)
		defer h.Unregister(connection)

		for {
			_, _, err := connection.ReadMessage()
			if err != nil {
				if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					logger.Info("Monitor disconnected normally")
				} else {
					logger.Warning("Monitor disconnected with error: %v", err)
				}
				break
			}
		}
	}
}
