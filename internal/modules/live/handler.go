package live

import (
	"net/http"
	"strconv"

	"cleanops/internal/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Token auth happens in middleware; origin is not the trust boundary.
		return true
	},
}

type Handler struct {
	hub *Hub
}

func NewHandler(hub *Hub) *Handler {
	return &Handler{hub: hub}
}

// RegisterRoutes wires the live progress stream under the protected group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/checklists/:id/live", h.Watch)
}

// Watch upgrades to a websocket and streams progress events for one checklist
// until the client disconnects.
func (h *Handler) Watch(c *gin.Context) {
	checklistID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || checklistID <= 0 {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid checklist ID")
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}

	h.hub.Subscribe(checklistID, conn)
	defer h.hub.Unsubscribe(checklistID, conn)

	// Drain the connection. Subscribers only receive; any read error,
	// including a normal close, ends the stream.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
