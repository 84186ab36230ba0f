package handlers

import (
	"github.com/gin-gonic/gin"

	"telehealth-app-server/internal/realtime"
)

// RealtimeHandler upgrades authenticated requests to change-feed websockets.
type RealtimeHandler struct {
	ws *realtime.Handler
}

func NewRealtimeHandler(ws *realtime.Handler) *RealtimeHandler {
	return &RealtimeHandler{ws: ws}
}

// Connect subscribes the caller to their own change topics. The optional
// ?tables= limits the initial subscription.
func (h *RealtimeHandler) Connect(c *gin.Context) {
	userID, _, ok := currentUser(c)
	if !ok {
		return
	}
	h.ws.Connect(c, userID)
}
