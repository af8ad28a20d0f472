package live

import (
	"sync"

	"github.com/gorilla/websocket"
)

// Hub tracks websocket subscribers per checklist. A manager dashboard and the
// housekeeper's own device can watch the same visit at once.
type Hub struct {
	subscribers map[int64]map[*websocket.Conn]bool
	mutex       sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		subscribers: make(map[int64]map[*websocket.Conn]bool),
	}
}

func (h *Hub) Subscribe(checklistID int64, conn *websocket.Conn) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	if h.subscribers[checklistID] == nil {
		h.subscribers[checklistID] = make(map[*websocket.Conn]bool)
	}
	h.subscribers[checklistID][conn] = true
}

func (h *Hub) Unsubscribe(checklistID int64, conn *websocket.Conn) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	if conns, exists := h.subscribers[checklistID]; exists {
		if conns[conn] {
			_ = conn.Close()
			delete(conns, conn)
		}
		if len(conns) == 0 {
			delete(h.subscribers, checklistID)
		}
	}
}

// Broadcast pushes the message to every subscriber of the checklist. Write
// failures drop the connection.
func (h *Hub) Broadcast(checklistID int64, message interface{}) int {
	h.mutex.RLock()
	conns := make([]*websocket.Conn, 0, len(h.subscribers[checklistID]))
	for conn := range h.subscribers[checklistID] {
		conns = append(conns, conn)
	}
	h.mutex.RUnlock()

	sent := 0
	for _, conn := range conns {
		if err := conn.WriteJSON(message); err != nil {
			h.Unsubscribe(checklistID, conn)
			continue
		}
		sent++
	}
	return sent
}

func (h *Hub) SubscriberCount(checklistID int64) int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	return len(h.subscribers[checklistID])
}

func (h *Hub) Close() {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	for checklistID, conns := range h.subscribers {
		for conn := range conns {
			_ = conn.Close()
		}
		delete(h.subscribers, checklistID)
	}
}
