package handlers

import (
	"net/http"

	"vehiclecare/services/notification"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// SocketHandler upgrades authenticated requests to the realtime event stream.
type SocketHandler struct {
	Hub      *notification.Hub
	Upgrader websocket.Upgrader
}

// NewSocketHandler accepts any origin when allowedOrigins is empty.
func NewSocketHandler(hub *notification.Hub, allowedOrigins []string) *SocketHandler {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = true
	}
	return &SocketHandler{
		Hub: hub,
		Upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return len(allowed) == 0 || allowed[r.Header.Get("Origin")]
			},
		},
	}
}

func (h *SocketHandler) ServeWS(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	conn, err := h.Upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		getLogger(c).Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	h.Hub.Attach(conn, p.ID)
}
