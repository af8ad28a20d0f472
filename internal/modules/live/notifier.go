package live

import "cleanops/internal/modules/checklist"

// Notifier adapts the hub to the execution engine's notification port.
type Notifier struct {
	hub *Hub
}

func NewNotifier(hub *Hub) *Notifier {
	return &Notifier{hub: hub}
}

type event struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

func (n *Notifier) ChecklistUpdated(checklistID int64, update checklist.ProgressUpdate) {
	n.hub.Broadcast(checklistID, event{Type: "progress", Data: update})
}
