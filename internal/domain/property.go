package domain

import "time"

type Property struct {
	ID              int64     `json:"id"`
	ManagerID       int64     `json:"manager_id"`
	Name            string    `json:"name" validate:"required"`
	Address         string    `json:"address,omitempty"`
	Latitude        *float64  `json:"latitude,omitempty"`
	Longitude       *float64  `json:"longitude,omitempty"`
	GeofenceRadiusM float64   `json:"geofence_radius_m,omitempty"`
	IsActive        bool      `json:"is_active"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`

	// Rooms carries the property's room assignments ordered by SortOrder.
	// That order defines the visit sequence and is the only sequencing input.
	Rooms []PropertyRoom `json:"rooms,omitempty"`
}

type Room struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name" validate:"required"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// PropertyRoom is the room-on-property pivot: the per-property position of a
// room plus its photo-evidence requirement. A room with RequiresPhoto=false or
// PhotosRequiredCount=0 never blocks submission.
type PropertyRoom struct {
	ID                  int64 `json:"id"`
	PropertyID          int64 `json:"property_id"`
	RoomID              int64 `json:"room_id"`
	SortOrder           int   `json:"sort_order"`
	RequiresPhoto       bool  `json:"requires_photo"`
	PhotosRequiredCount int   `json:"photos_required_count"`

	Room *Room `json:"room,omitempty"`
}
