package catalog

import (
	"context"

	"cleanops/internal/domain"
)

// PropertyRepository defines the property/room-assignment persistence used by
// the catalog service.
type PropertyRepository interface {
	Create(ctx context.Context, p *domain.Property) error
	Update(ctx context.Context, p *domain.Property) error
	GetByID(ctx context.Context, id int64) (*domain.Property, error)
	List(ctx context.Context, managerID int64) ([]domain.Property, error)
	GetOrderedRooms(ctx context.Context, propertyID int64) ([]domain.PropertyRoom, error)
	GetRoomPivot(ctx context.Context, propertyID, roomID int64) (*domain.PropertyRoom, error)
	AssignRoom(ctx context.Context, pr *domain.PropertyRoom) error
	UpdatePivot(ctx context.Context, pr *domain.PropertyRoom) error
	NextSortOrder(ctx context.Context, propertyID int64) (int, error)
	ReorderRooms(ctx context.Context, propertyID int64, roomIDs []int64) error
}

type RoomRepository interface {
	Create(ctx context.Context, r *domain.Room) error
	Update(ctx context.Context, r *domain.Room) error
	GetByID(ctx context.Context, id int64) (*domain.Room, error)
	List(ctx context.Context) ([]domain.Room, error)
}

type TaskRepository interface {
	Create(ctx context.Context, t *domain.Task) error
	Update(ctx context.Context, t *domain.Task) error
	GetByID(ctx context.Context, id int64) (*domain.Task, error)
	List(ctx context.Context) ([]domain.Task, error)
	AssignToRoom(ctx context.Context, rt *domain.RoomTask) error
	UnassignFromRoom(ctx context.Context, propertyRoomID, taskID int64) error
	ListByPropertyRoom(ctx context.Context, propertyRoomID int64) ([]domain.RoomTask, error)
}

type UserSource interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}

// ChecklistCreator persists a freshly derived checklist aggregate.
type ChecklistCreator interface {
	Create(ctx context.Context, c *domain.Checklist) error
}
