package websocket

import (
	"github.com/gofiber/websocket/v2"
)

// ServeWs attaches a socket to a session and blocks until it closes.
func ServeWs(hub *Hub, c *websocket.Conn, sessionID string) {
	client := &Client{Hub: hub, Conn: c, SessionID: sessionID, Send: make(chan []byte, sendBuffer)}
	if !hub.attach(client) {
		return
	}

	go client.writePump()
	client.readPump()
}
