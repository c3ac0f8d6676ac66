package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/yeremiapane/restaurant-pos/kds"
	"github.com/yeremiapane/restaurant-pos/utils"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type KDSController struct {
	Hub *kds.Hub
}

func NewKDSController(hub *kds.Hub) *KDSController {
	return &KDSController{Hub: hub}
}

// KDSHandler -> websocket for the kitchen, delivery and order screens. The
// server only pushes; anything the client sends is read and dropped.
func (kc *KDSController) KDSHandler(c *gin.Context) {
	role := c.GetString("role")

	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		utils.ErrorLogger.Errorf("Websocket upgrade failed: %v", err)
		return
	}

	id := kc.Hub.Register(ws, role)
	defer kc.Hub.Unregister(id)

	for {
		if _, _, err := ws.ReadMessage(); err != nil {
			break
		}
	}
}
