package ws

import (
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/mehrbod2002/fxmobile/internal/sandbox/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Keepalive timing. The server pings a little more often than it is willing
// to wait for a pong, so an idle but healthy client never times out.
const (
	writeWait    = 10 * time.Second
	pongWait     = 60 * time.Second
	pingInterval = pongWait * 9 / 10
	readLimit    = 512
)

var openSockets = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "fxmobile_sandbox_event_sockets",
	Help: "Event stream connections currently open.",
})

type WebSocketHandler struct {
	hub      *Hub
	secret   string
	upgrader websocket.Upgrader
}

func NewWebSocketHandler(hub *Hub, secret string) *WebSocketHandler {
	return &WebSocketHandler{
		hub:    hub,
		secret: secret,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}
}

// HandleConnection upgrades an authenticated request to the user's event
// stream. Most mobile socket clients cannot set headers on upgrade, so the
// token may also travel in the token query parameter.
func (h *WebSocketHandler) HandleConnection(c *gin.Context) {
	userID, scope, err := middleware.ParseToken(streamToken(c), h.secret)
	if err != nil || scope != middleware.ScopeUser {
		c.JSON(http.StatusUnauthorized, gin.H{"status": false, "message": "Invalid or expired token"})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("event stream upgrade for %s failed: %v", userID, err)
		return
	}

	client := h.hub.RegisterClient(userID, conn)
	openSockets.Inc()
	go client.writeLoop()
	go func() {
		client.readLoop()
		h.hub.UnregisterClient(client)
		openSockets.Dec()
	}()
}

func streamToken(c *gin.Context) string {
	if token := c.Query("token"); token != "" {
		return token
	}
	return strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
}

// readLoop drains control frames until the peer goes away. The stream is
// one-way, so data frames are discarded.
func (c *Client) readLoop() {
	c.Conn.SetReadLimit(readLimit)
	extend := func(string) error { return c.Conn.SetReadDeadline(time.Now().Add(pongWait)) }
	_ = extend("")
	c.Conn.SetPongHandler(extend)

	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("event stream %s closed: %v", c.ID, err)
			}
			return
		}
	}
}

// writeLoop owns all writes to the connection and closes it once Send is
// closed by the hub.
func (c *Client) writeLoop() {
	ping := time.NewTicker(pingInterval)
	defer func() {
		ping.Stop()
		c.Conn.Close()
	}()

	write := func(kind int, data []byte) error {
		c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
		return c.Conn.WriteMessage(kind, data)
	}

	for {
		select {
		case msg, ok := <-c.Send:
			if !ok {
				_ = write(websocket.CloseMessage, nil)
				return
			}
			if err := write(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ping.C:
			if err := write(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
