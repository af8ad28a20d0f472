package domain

import "time"

type Task struct {
	ID               int64     `json:"id"`
	Title            string    `json:"title" validate:"required"`
	Description      string    `json:"description,omitempty"`
	EstimatedMinutes int       `json:"estimated_minutes" validate:"gte=0"`
	RequiresPhoto    bool      `json:"requires_photo"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// RoomTask assigns a task to one property's room. Checklist items are derived
// from these assignments at scheduling time.
type RoomTask struct {
	ID             int64 `json:"id"`
	PropertyRoomID int64 `json:"property_room_id"`
	TaskID         int64 `json:"task_id"`

	Task *Task `json:"task,omitempty"`
}
