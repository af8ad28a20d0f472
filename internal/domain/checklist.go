package domain

import "time"

type ChecklistStatus string

const (
	ChecklistPending    ChecklistStatus = "pending"
	ChecklistInProgress ChecklistStatus = "in_progress"
	ChecklistCompleted  ChecklistStatus = "completed"
	ChecklistReviewed   ChecklistStatus = "reviewed"
)

// Checklist is one scheduled cleaning visit. Status only moves forward:
// pending -> in_progress -> completed -> reviewed.
type Checklist struct {
	ID            int64           `json:"id"`
	PropertyID    int64           `json:"property_id" validate:"required"`
	HousekeeperID int64           `json:"housekeeper_id" validate:"required"`
	ScheduledAt   time.Time       `json:"scheduled_at" validate:"required"`
	Status        ChecklistStatus `json:"status"`
	Rating        *int            `json:"rating,omitempty" validate:"omitempty,min=1,max=5"`
	Notes         string          `json:"notes,omitempty"`
	StartedAt     *time.Time      `json:"started_at,omitempty"`
	CompletedAt   *time.Time      `json:"completed_at,omitempty"`
	ReviewedAt    *time.Time      `json:"reviewed_at,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`

	Items    []ChecklistItem `json:"items,omitempty"`
	Property *Property       `json:"property,omitempty"`
}

// ChecklistItem is one task in one room of one checklist. Once Completed is
// true the item is locked: notes and photos can never change again.
type ChecklistItem struct {
	ID          int64      `json:"id"`
	ChecklistID int64      `json:"checklist_id"`
	RoomID      int64      `json:"room_id"`
	TaskID      int64      `json:"task_id"`
	Completed   bool       `json:"completed"`
	Notes       string     `json:"notes,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`

	Photos []ChecklistPhoto `json:"photos,omitempty"`
	Task   *Task            `json:"task,omitempty"`
}

type ChecklistPhoto struct {
	ID              int64     `json:"id"`
	ChecklistItemID int64     `json:"checklist_item_id"`
	StoragePath     string    `json:"storage_path"`
	UploadedAt      time.Time `json:"uploaded_at"`
}
