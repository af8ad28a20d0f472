package checklist

import (
	"context"
	"time"

	"cleanops/internal/domain"
)

// ChecklistRepository persists the checklist aggregate. Write methods guard on
// the state the service validated, returning repository.ErrStaleAggregate when
// a concurrent writer got there first.
type ChecklistRepository interface {
	GetAggregate(ctx context.Context, id int64) (*domain.Checklist, error)
	ListByHousekeeper(ctx context.Context, housekeeperID int64, limit, offset int) ([]domain.Checklist, error)
	UpdateStatus(ctx context.Context, id int64, from, to domain.ChecklistStatus, at time.Time) error
	CompleteItem(ctx context.Context, itemID int64, notes string, photos []domain.ChecklistPhoto, at time.Time) error
	SetReview(ctx context.Context, id int64, rating int, notes string, at time.Time) error
	CountRoomPhotos(ctx context.Context, checklistID, roomID int64) (int, error)
}

// PropertyRoomSource supplies room ordering and photo-requirement pivots.
// Values are read fresh on every evaluation; the engine never snapshots them.
type PropertyRoomSource interface {
	GetOrderedRooms(ctx context.Context, propertyID int64) ([]domain.PropertyRoom, error)
	GetRoomPivot(ctx context.Context, propertyID, roomID int64) (*domain.PropertyRoom, error)
}

// GeofenceAuthority decides proximity. The engine forwards the operator's fix
// and trusts the verdict; it never computes distance itself.
type GeofenceAuthority interface {
	Verify(ctx context.Context, propertyID int64, fix domain.LocationFix) (*domain.GeofenceVerdict, error)
}

// ProgressNotifier receives a progress push after every successful transition.
type ProgressNotifier interface {
	ChecklistUpdated(checklistID int64, update ProgressUpdate)
}
