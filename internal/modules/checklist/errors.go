package checklist

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound            = errors.New("checklist not found")
	ErrItemNotFound        = errors.New("checklist item not found")
	ErrForbidden           = errors.New("checklist is assigned to another housekeeper")
	ErrIllegalTransition   = errors.New("illegal checklist status transition")
	ErrItemLocked          = errors.New("checklist item is already completed")
	ErrIncompleteChecklist = errors.New("checklist still has incomplete items")
	ErrInsufficientPhotos  = errors.New("not enough photos for this room")
	ErrLocationUnavailable = errors.New("location fix unavailable")
	ErrInvalidRating       = errors.New("rating must be an integer between 1 and 5")
)

// OutOfRangeError is the geofence rejection. It carries the authority's
// measured distance and the allowed radius verbatim so the operator can see
// how far off they are instead of a bare refusal.
type OutOfRangeError struct {
	DistanceMeters float64
	AllowedMeters  float64
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("out of range: %.0f m from the property, allowed %.0f m", e.DistanceMeters, e.AllowedMeters)
}
