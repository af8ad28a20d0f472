package catalog

import "time"

type CreatePropertyRequest struct {
	Name            string   `json:"name" validate:"required"`
	Address         string   `json:"address,omitempty"`
	Latitude        *float64 `json:"latitude,omitempty" validate:"omitempty,gte=-90,lte=90"`
	Longitude       *float64 `json:"longitude,omitempty" validate:"omitempty,gte=-180,lte=180"`
	GeofenceRadiusM float64  `json:"geofence_radius_m,omitempty" validate:"gte=0"`
}

type UpdatePropertyRequest struct {
	Name            string   `json:"name,omitempty"`
	Address         string   `json:"address,omitempty"`
	Latitude        *float64 `json:"latitude,omitempty" validate:"omitempty,gte=-90,lte=90"`
	Longitude       *float64 `json:"longitude,omitempty" validate:"omitempty,gte=-180,lte=180"`
	GeofenceRadiusM *float64 `json:"geofence_radius_m,omitempty" validate:"omitempty,gte=0"`
}

type CreateRoomRequest struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description,omitempty"`
}

type CreateTaskRequest struct {
	Title            string `json:"title" validate:"required"`
	Description      string `json:"description,omitempty"`
	EstimatedMinutes int    `json:"estimated_minutes" validate:"gte=0"`
	RequiresPhoto    bool   `json:"requires_photo"`
}

// AssignRoomRequest attaches a room to a property at the end of the visit
// order, with its photo-evidence pivot.
type AssignRoomRequest struct {
	RoomID              int64 `json:"room_id" validate:"required"`
	RequiresPhoto       bool  `json:"requires_photo"`
	PhotosRequiredCount int   `json:"photos_required_count" validate:"gte=0"`
}

type UpdatePivotRequest struct {
	RequiresPhoto       bool `json:"requires_photo"`
	PhotosRequiredCount int  `json:"photos_required_count" validate:"gte=0"`
}

type ReorderRoomsRequest struct {
	RoomIDs []int64 `json:"room_ids" validate:"required,min=1"`
}

type AssignTaskRequest struct {
	TaskID int64 `json:"task_id" validate:"required"`
}

type ScheduleChecklistRequest struct {
	PropertyID    int64     `json:"property_id" validate:"required"`
	HousekeeperID int64     `json:"housekeeper_id" validate:"required"`
	ScheduledAt   time.Time `json:"scheduled_at" validate:"required"`
}
