package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/lacasadelchilaquil/chilaquiles-app/events"
	"github.com/lacasadelchilaquil/chilaquiles-app/lifecycle"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // tighten per deployment
	},
}

// DashboardSocketHandler -> WebSocket endpoint the staff dashboards connect
// to for live order and stats updates.
func DashboardSocketHandler(c *gin.Context) {
	roleValue, exists := c.Get("role")
	if !exists {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}
	role, _ := roleValue.(string)

	if _, err := lifecycle.ParseRole(role); err != nil {
		c.AbortWithStatus(http.StatusForbidden)
		return
	}

	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}

	events.RegisterClient(ws, role)

	// Drain until the client hangs up.
	for {
		if _, _, err := ws.ReadMessage(); err != nil {
			break
		}
	}

	events.UnregisterClient(ws)
}
