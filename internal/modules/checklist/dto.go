package checklist

import "cleanops/internal/domain"

type StartRequest struct {
	// Location is the operator's single fix. Absent means no fix could be
	// obtained (permission denied, timeout) and start fails fast.
	Location *domain.LocationFix `json:"location,omitempty"`
}

type SubmitItemRequest struct {
	PhotoPaths []string `json:"photo_paths,omitempty"`
	Notes      string   `json:"notes,omitempty"`
}

type ReviewRequest struct {
	Rating int    `json:"rating" validate:"required,min=1,max=5"`
	Notes  string `json:"notes,omitempty"`
}

// RoomProgress summarizes one room of the visit for the progress view.
type RoomProgress struct {
	RoomID              int64  `json:"room_id"`
	RoomName            string `json:"room_name,omitempty"`
	SortOrder           int    `json:"sort_order"`
	TotalItems          int    `json:"total_items"`
	CompletedItems      int    `json:"completed_items"`
	PhotosPersisted     int    `json:"photos_persisted"`
	RequiresPhoto       bool   `json:"requires_photo"`
	PhotosRequiredCount int    `json:"photos_required_count,omitempty"`
}

// ProgressView is the full recomputed state of a visit. CurrentRoom is nil
// only when the property has no rooms; the client then falls back to the flat
// item list.
type ProgressView struct {
	ChecklistID    int64                  `json:"checklist_id"`
	Status         domain.ChecklistStatus `json:"status"`
	CurrentRoom    *RoomProgress          `json:"current_room,omitempty"`
	Rooms          []RoomProgress         `json:"rooms"`
	Items          []domain.ChecklistItem `json:"items"`
	TotalItems     int                    `json:"total_items"`
	CompletedItems int                    `json:"completed_items"`
}

// ProgressUpdate is the event pushed to live subscribers after a transition.
type ProgressUpdate struct {
	ChecklistID     int64                  `json:"checklist_id"`
	Status          domain.ChecklistStatus `json:"status"`
	CurrentRoomID   *int64                 `json:"current_room_id,omitempty"`
	CurrentRoomName string                 `json:"current_room_name,omitempty"`
	TotalItems      int                    `json:"total_items"`
	CompletedItems  int                    `json:"completed_items"`
}
