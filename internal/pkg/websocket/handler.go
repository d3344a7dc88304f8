package websocket

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// Handler for WebSocket connections
type Handler struct {
	hub    *Hub
	logger zerolog.Logger
}

// NewHandler creates a new WebSocket handler
func NewHandler(hub *Hub, logger zerolog.Logger) *Handler {
	return &Handler{
		hub:    hub,
		logger: logger,
	}
}

// HandleConnection godoc
// @Summary Subscribe to storage changes
// @Description Upgrades to a WebSocket that receives {type, key, op, timestamp} after every committed write
// @Tags changes, websocket
// @Param prefix query string false "Only deliver keys starting with this prefix"
// @Success 101 {string} string "Switching Protocols to WebSocket"
// @Router /changes/ws [get]
func (h *Handler) HandleConnection(c *gin.Context) {
	prefix := c.Query("prefix")

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error().Err(err).Str("prefix", prefix).Msg("Failed to upgrade connection to WebSocket")
		return
	}

	client := &Client{
		hub:    h.hub,
		conn:   conn,
		send:   make(chan []byte, 256),
		prefix: prefix,
		logger: h.logger,
	}
	if !h.hub.join(client) {
		h.logger.Warn().Str("prefix", prefix).Msg("Change feed stopped, closing WebSocket")
		conn.Close()
		return
	}

	// Allow collection of memory referenced by the caller by doing all work in
	// new goroutines.
	go client.writePump()
	go client.readPump()

	h.logger.Info().
		Str("prefix", prefix).
		Str("remoteAddr", conn.RemoteAddr().String()).
		Msg("WebSocket connection established")
}
