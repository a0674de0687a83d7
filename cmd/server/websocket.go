package main

import (
	"net/http"
	"os"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/castlegate/arena-server/pkg/server"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,

	CheckOrigin: func(r *http.Request) bool {
		path := os.Getenv("FRONTEND_PATH")
		return path == "" || path == r.Header.Get("Origin")
	},
}

// handleWebSocket authenticates and upgrades a websocket connection.
// An unresolvable token refuses the connection before the upgrade.
func (app *application) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	identity, err := app.Auth.Verify(r.URL.Query().Get("token"))
	if err != nil {
		app.Logger.Warn("Authentication failed",
			zap.String("remote_addr", r.RemoteAddr),
			zap.Error(err))
		http.Error(w, "Unauthorized: invalid token", http.StatusUnauthorized)
		return
	}

	// Upgrade HTTP connection to WebSocket
	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		app.Logger.Error("Failed to upgrade to WebSocket", zap.Error(err))
		return
	}

	// Create and register connection
	conn := server.NewConnection(ws, app.Hub, app.Logger)
	app.Hub.Register(conn, identity)

	app.Logger.Info("WebSocket connection established",
		zap.String("identity", identity),
		zap.String("remote_addr", r.RemoteAddr))

	// Start connection read/write goroutines
	go conn.WritePump()
	go conn.ReadPump()
}
