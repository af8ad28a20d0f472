package catalog

import (
	"context"
	"errors"
	"strings"

	"cleanops/internal/domain"
	"cleanops/internal/modules/checklist"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

type Service struct {
	properties PropertyRepository
	rooms      RoomRepository
	tasks      TaskRepository
	users      UserSource
	checklists ChecklistCreator
}

func NewService(
	properties PropertyRepository,
	rooms RoomRepository,
	tasks TaskRepository,
	users UserSource,
	checklists ChecklistCreator,
) *Service {
	return &Service{
		properties: properties,
		rooms:      rooms,
		tasks:      tasks,
		users:      users,
		checklists: checklists,
	}
}

func (s *Service) CreateProperty(ctx context.Context, managerID int64, req CreatePropertyRequest) (*domain.Property, error) {
	if req.Name == "" {
		return nil, ErrValidation
	}
	// Anchor must be complete or absent; a lone latitude is useless.
	if (req.Latitude == nil) != (req.Longitude == nil) {
		return nil, ErrValidation
	}

	p := &domain.Property{
		ManagerID:       managerID,
		Name:            req.Name,
		Address:         req.Address,
		Latitude:        req.Latitude,
		Longitude:       req.Longitude,
		GeofenceRadiusM: req.GeofenceRadiusM,
		IsActive:        true,
	}

	if err := s.properties.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) UpdateProperty(ctx context.Context, propertyID, actorID int64, actorRole domain.Role, req UpdatePropertyRequest) (*domain.Property, error) {
	p, err := s.ownedProperty(ctx, propertyID, actorID, actorRole)
	if err != nil {
		return nil, err
	}

	if req.Name != "" {
		p.Name = req.Name
	}
	if req.Address != "" {
		p.Address = req.Address
	}
	if req.Latitude != nil {
		p.Latitude = req.Latitude
	}
	if req.Longitude != nil {
		p.Longitude = req.Longitude
	}
	if req.GeofenceRadiusM != nil {
		p.GeofenceRadiusM = *req.GeofenceRadiusM
	}
	if (p.Latitude == nil) != (p.Longitude == nil) {
		return nil, ErrValidation
	}

	if err := s.properties.Update(ctx, p); err != nil {
		return nil, err
	}
	return s.properties.GetByID(ctx, propertyID)
}

func (s *Service) GetProperty(ctx context.Context, propertyID int64) (*domain.Property, error) {
	p, err := s.properties.GetByID(ctx, propertyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

func (s *Service) ListProperties(ctx context.Context, actorID int64, actorRole domain.Role) ([]domain.Property, error) {
	if actorRole == domain.RoleAdmin {
		return s.properties.List(ctx, 0)
	}
	return s.properties.List(ctx, actorID)
}

func (s *Service) CreateRoom(ctx context.Context, req CreateRoomRequest) (*domain.Room, error) {
	if req.Name == "" {
		return nil, ErrValidation
	}

	r := &domain.Room{Name: req.Name, Description: req.Description}
	if err := s.rooms.Create(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

func (s *Service) ListRooms(ctx context.Context) ([]domain.Room, error) {
	return s.rooms.List(ctx)
}

func (s *Service) CreateTask(ctx context.Context, req CreateTaskRequest) (*domain.Task, error) {
	if req.Title == "" {
		return nil, ErrValidation
	}

	t := &domain.Task{
		Title:            req.Title,
		Description:      req.Description,
		EstimatedMinutes: req.EstimatedMinutes,
		RequiresPhoto:    req.RequiresPhoto,
	}
	if err := s.tasks.Create(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *Service) ListTasks(ctx context.Context) ([]domain.Task, error) {
	return s.tasks.List(ctx)
}

// AssignRoom appends a room to the property's visit order. The photo threshold
// is clamped into the gate's accepted range at input time.
func (s *Service) AssignRoom(ctx context.Context, propertyID, actorID int64, actorRole domain.Role, req AssignRoomRequest) (*domain.PropertyRoom, error) {
	if _, err := s.ownedProperty(ctx, propertyID, actorID, actorRole); err != nil {
		return nil, err
	}
	if _, err := s.rooms.GetByID(ctx, req.RoomID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	order, err := s.properties.NextSortOrder(ctx, propertyID)
	if err != nil {
		return nil, err
	}

	pr := &domain.PropertyRoom{
		PropertyID:          propertyID,
		RoomID:              req.RoomID,
		SortOrder:           order,
		RequiresPhoto:       req.RequiresPhoto,
		PhotosRequiredCount: checklist.ClampRequiredCount(req.PhotosRequiredCount),
	}

	if err := s.properties.AssignRoom(ctx, pr); err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateAssignment
		}
		return nil, err
	}
	return pr, nil
}

// UpdateRoomPivot changes a room's photo requirement. Applies to every
// still-incomplete item of the room immediately: the gate reads the pivot
// fresh at each evaluation.
func (s *Service) UpdateRoomPivot(ctx context.Context, propertyID, roomID, actorID int64, actorRole domain.Role, req UpdatePivotRequest) (*domain.PropertyRoom, error) {
	if _, err := s.ownedProperty(ctx, propertyID, actorID, actorRole); err != nil {
		return nil, err
	}

	pr, err := s.properties.GetRoomPivot(ctx, propertyID, roomID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	pr.RequiresPhoto = req.RequiresPhoto
	pr.PhotosRequiredCount = checklist.ClampRequiredCount(req.PhotosRequiredCount)

	if err := s.properties.UpdatePivot(ctx, pr); err != nil {
		return nil, err
	}
	return pr, nil
}

// ReorderRooms rewrites the visit order. The request must name every assigned
// room exactly once; partial reorders would leave duplicate positions.
func (s *Service) ReorderRooms(ctx context.Context, propertyID, actorID int64, actorRole domain.Role, req ReorderRoomsRequest) ([]domain.PropertyRoom, error) {
	if _, err := s.ownedProperty(ctx, propertyID, actorID, actorRole); err != nil {
		return nil, err
	}

	current, err := s.properties.GetOrderedRooms(ctx, propertyID)
	if err != nil {
		return nil, err
	}
	if len(req.RoomIDs) != len(current) {
		return nil, ErrValidation
	}
	assigned := make(map[int64]bool, len(current))
	for _, pr := range current {
		assigned[pr.RoomID] = true
	}
	seen := make(map[int64]bool, len(req.RoomIDs))
	for _, id := range req.RoomIDs {
		if !assigned[id] || seen[id] {
			return nil, ErrValidation
		}
		seen[id] = true
	}

	if err := s.properties.ReorderRooms(ctx, propertyID, req.RoomIDs); err != nil {
		return nil, err
	}
	return s.properties.GetOrderedRooms(ctx, propertyID)
}

func (s *Service) AssignTask(ctx context.Context, propertyID, roomID, actorID int64, actorRole domain.Role, req AssignTaskRequest) (*domain.RoomTask, error) {
	if _, err := s.ownedProperty(ctx, propertyID, actorID, actorRole); err != nil {
		return nil, err
	}

	pr, err := s.properties.GetRoomPivot(ctx, propertyID, roomID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if _, err := s.tasks.GetByID(ctx, req.TaskID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	rt := &domain.RoomTask{PropertyRoomID: pr.ID, TaskID: req.TaskID}
	if err := s.tasks.AssignToRoom(ctx, rt); err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateAssignment
		}
		return nil, err
	}
	return rt, nil
}

// ScheduleChecklist creates the visit aggregate: one pending checklist with
// one incomplete item per (room, task) assignment, in room order. The
// execution engine treats the item list as given from here on.
func (s *Service) ScheduleChecklist(ctx context.Context, actorID int64, actorRole domain.Role, req ScheduleChecklistRequest) (*domain.Checklist, error) {
	if req.PropertyID <= 0 || req.HousekeeperID <= 0 || req.ScheduledAt.IsZero() {
		return nil, ErrValidation
	}

	if _, err := s.ownedProperty(ctx, req.PropertyID, actorID, actorRole); err != nil {
		return nil, err
	}

	hk, err := s.users.GetByID(ctx, req.HousekeeperID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if hk.Role != domain.RoleHousekeeper {
		return nil, ErrNotHousekeeper
	}

	rooms, err := s.properties.GetOrderedRooms(ctx, req.PropertyID)
	if err != nil {
		return nil, err
	}

	cl := &domain.Checklist{
		PropertyID:    req.PropertyID,
		HousekeeperID: req.HousekeeperID,
		ScheduledAt:   req.ScheduledAt,
	}
	for _, pr := range rooms {
		assignments, err := s.tasks.ListByPropertyRoom(ctx, pr.ID)
		if err != nil {
			return nil, err
		}
		for _, rt := range assignments {
			cl.Items = append(cl.Items, domain.ChecklistItem{
				RoomID: pr.RoomID,
				TaskID: rt.TaskID,
			})
		}
	}
	if len(cl.Items) == 0 {
		return nil, ErrNoTasksAssigned
	}

	if err := s.checklists.Create(ctx, cl); err != nil {
		return nil, err
	}
	return cl, nil
}

func (s *Service) ownedProperty(ctx context.Context, propertyID, actorID int64, actorRole domain.Role) (*domain.Property, error) {
	p, err := s.properties.GetByID(ctx, propertyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if actorRole != domain.RoleAdmin && p.ManagerID != actorID {
		return nil, ErrForbidden
	}
	return p, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	// SQLite has no PgError; fall back to message matching.
	return strings.Contains(err.Error(), "UNIQUE constraint failed") ||
		strings.Contains(err.Error(), "23505")
}
