package kitchen

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"hotelpms/internal/domain"
	"hotelpms/internal/middleware"
)

type Handler struct {
	hub *Hub
	log logrus.FieldLogger
}

func NewHandler(hub *Hub, log logrus.FieldLogger) *Handler {
	return &Handler{hub: hub, log: log}
}

// RegisterRoutes mounts GET /kitchen/ws. JWTAuth accepts ?token= on upgrade
// requests, so browsers can authenticate the socket.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/kitchen/ws", middleware.RequirePermission(domain.PermManageFood), h.ServeWS)
}

func (h *Handler) ServeWS(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.WithError(err).Warn("kitchen websocket upgrade failed")
		return
	}
	h.hub.ServeWS(conn, middleware.UserID(c))
}
