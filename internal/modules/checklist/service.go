package checklist

import (
	"context"
	"errors"
	"sync"
	"time"

	"cleanops/internal/domain"
	"cleanops/internal/repository"

	"gorm.io/gorm"
)

// Service is the checklist execution engine: it owns the status lifecycle
// pending -> in_progress -> completed -> reviewed, the one-way item lock, the
// photo gate and the geofenced start.
//
// Transitions against one checklist are serialized through a per-aggregate
// mutex, so two concurrent submissions cannot both pass the "item not yet
// completed" check. The repository's guarded updates back this up at the
// database level.
type Service struct {
	checklists ChecklistRepository
	properties PropertyRoomSource
	geofence   GeofenceAuthority
	notifier   ProgressNotifier

	mu    sync.Mutex
	locks map[int64]*sync.Mutex
}

func NewService(
	checklists ChecklistRepository,
	properties PropertyRoomSource,
	geofence GeofenceAuthority,
	notifier ProgressNotifier,
) *Service {
	return &Service{
		checklists: checklists,
		properties: properties,
		geofence:   geofence,
		notifier:   notifier,
		locks:      make(map[int64]*sync.Mutex),
	}
}

func (s *Service) lockFor(checklistID int64) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.locks[checklistID]
	if !ok {
		l = &sync.Mutex{}
		s.locks[checklistID] = l
	}
	return l
}

// Start moves the checklist from pending to in_progress. It requires a
// location fix and an in-range verdict from the geofence authority; without a
// fix it fails fast and never contacts the authority. On rejection the status
// stays pending and the error carries the authority's distance diagnostics.
func (s *Service) Start(ctx context.Context, checklistID, actorID int64, fix *domain.LocationFix) (*domain.Checklist, error) {
	lock := s.lockFor(checklistID)
	lock.Lock()
	defer lock.Unlock()

	cl, err := s.loadOwned(ctx, checklistID, actorID)
	if err != nil {
		return nil, err
	}

	if cl.Status != domain.ChecklistPending {
		return nil, ErrIllegalTransition
	}

	if fix == nil {
		return nil, ErrLocationUnavailable
	}

	verdict, err := s.geofence.Verify(ctx, cl.PropertyID, *fix)
	if err != nil {
		return nil, err
	}
	if !verdict.WithinRange {
		return nil, &OutOfRangeError{
			DistanceMeters: verdict.DistanceMeters,
			AllowedMeters:  verdict.AllowedMeters,
		}
	}

	if err := s.checklists.UpdateStatus(ctx, checklistID, domain.ChecklistPending, domain.ChecklistInProgress, time.Now()); err != nil {
		return nil, mapRepoErr(err)
	}

	cl, err = s.checklists.GetAggregate(ctx, checklistID)
	if err != nil {
		return nil, mapRepoErr(err)
	}
	s.notifyProgress(ctx, cl)
	return cl, nil
}

// SubmitItem completes one item. Requires the checklist to be in progress and
// the item not yet completed; an already-completed item is a hard ItemLocked
// error, not a silent no-op, so stale clients can tell what happened. The
// room's photo requirement is read fresh at evaluation time.
func (s *Service) SubmitItem(ctx context.Context, checklistID, itemID, actorID int64, req SubmitItemRequest) (*domain.Checklist, error) {
	lock := s.lockFor(checklistID)
	lock.Lock()
	defer lock.Unlock()

	cl, err := s.loadOwned(ctx, checklistID, actorID)
	if err != nil {
		return nil, err
	}

	if cl.Status != domain.ChecklistInProgress {
		return nil, ErrIllegalTransition
	}

	var item *domain.ChecklistItem
	for i := range cl.Items {
		if cl.Items[i].ID == itemID {
			item = &cl.Items[i]
			break
		}
	}
	if item == nil {
		return nil, ErrItemNotFound
	}
	if item.Completed {
		return nil, ErrItemLocked
	}

	if err := s.checkPhotoGate(ctx, cl, item.RoomID, len(req.PhotoPaths)); err != nil {
		return nil, err
	}

	now := time.Now()
	photos := make([]domain.ChecklistPhoto, 0, len(req.PhotoPaths))
	for _, p := range req.PhotoPaths {
		photos = append(photos, domain.ChecklistPhoto{
			ChecklistItemID: itemID,
			StoragePath:     p,
			UploadedAt:      now,
		})
	}

	if err := s.checklists.CompleteItem(ctx, itemID, req.Notes, photos, now); err != nil {
		if errors.Is(err, repository.ErrStaleAggregate) {
			return nil, ErrItemLocked
		}
		return nil, mapRepoErr(err)
	}

	cl, err = s.checklists.GetAggregate(ctx, checklistID)
	if err != nil {
		return nil, mapRepoErr(err)
	}
	s.notifyProgress(ctx, cl)
	return cl, nil
}

// Complete moves the checklist from in_progress to completed. Every item must
// already be completed.
func (s *Service) Complete(ctx context.Context, checklistID, actorID int64) (*domain.Checklist, error) {
	lock := s.lockFor(checklistID)
	lock.Lock()
	defer lock.Unlock()

	cl, err := s.loadOwned(ctx, checklistID, actorID)
	if err != nil {
		return nil, err
	}

	if cl.Status != domain.ChecklistInProgress {
		return nil, ErrIllegalTransition
	}

	for _, item := range cl.Items {
		if !item.Completed {
			return nil, ErrIncompleteChecklist
		}
	}

	if err := s.checklists.UpdateStatus(ctx, checklistID, domain.ChecklistInProgress, domain.ChecklistCompleted, time.Now()); err != nil {
		return nil, mapRepoErr(err)
	}

	cl, err = s.checklists.GetAggregate(ctx, checklistID)
	if err != nil {
		return nil, mapRepoErr(err)
	}
	s.notifyProgress(ctx, cl)
	return cl, nil
}

// Review attaches a rating to a completed checklist and moves it to reviewed.
// Reviewing an already-reviewed checklist overwrites rating and notes without
// a status change; there is no state beyond reviewed.
func (s *Service) Review(ctx context.Context, checklistID int64, req ReviewRequest) (*domain.Checklist, error) {
	lock := s.lockFor(checklistID)
	lock.Lock()
	defer lock.Unlock()

	if req.Rating < 1 || req.Rating > 5 {
		return nil, ErrInvalidRating
	}

	cl, err := s.checklists.GetAggregate(ctx, checklistID)
	if err != nil {
		return nil, mapRepoErr(err)
	}

	now := time.Now()
	switch cl.Status {
	case domain.ChecklistCompleted:
		if err := s.checklists.UpdateStatus(ctx, checklistID, domain.ChecklistCompleted, domain.ChecklistReviewed, now); err != nil {
			return nil, mapRepoErr(err)
		}
	case domain.ChecklistReviewed:
		// idempotent overwrite
	default:
		return nil, ErrIllegalTransition
	}

	if err := s.checklists.SetReview(ctx, checklistID, req.Rating, req.Notes, now); err != nil {
		return nil, mapRepoErr(err)
	}

	cl, err = s.checklists.GetAggregate(ctx, checklistID)
	if err != nil {
		return nil, mapRepoErr(err)
	}
	s.notifyProgress(ctx, cl)
	return cl, nil
}

// Progress recomputes the full visit view, including the current-room pointer.
// Pure read: safe to call on every refresh without coordination.
func (s *Service) Progress(ctx context.Context, checklistID, actorID int64, actorRole domain.Role) (*ProgressView, error) {
	cl, err := s.checklists.GetAggregate(ctx, checklistID)
	if err != nil {
		return nil, mapRepoErr(err)
	}
	if actorRole == domain.RoleHousekeeper && cl.HousekeeperID != actorID {
		return nil, ErrForbidden
	}

	return s.buildProgress(ctx, cl)
}

func (s *Service) MyChecklists(ctx context.Context, housekeeperID int64, limit, offset int) ([]domain.Checklist, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	lists, err := s.checklists.ListByHousekeeper(ctx, housekeeperID, limit, offset)
	if err != nil {
		return nil, mapRepoErr(err)
	}
	return lists, nil
}

func (s *Service) loadOwned(ctx context.Context, checklistID, actorID int64) (*domain.Checklist, error) {
	cl, err := s.checklists.GetAggregate(ctx, checklistID)
	if err != nil {
		return nil, mapRepoErr(err)
	}
	if cl.HousekeeperID != actorID {
		return nil, ErrForbidden
	}
	return cl, nil
}

// checkPhotoGate evaluates the room-scoped photo requirement. A room without a
// pivot never blocks submission.
func (s *Service) checkPhotoGate(ctx context.Context, cl *domain.Checklist, roomID int64, staged int) error {
	pivot, err := s.properties.GetRoomPivot(ctx, cl.PropertyID, roomID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}

	persisted, err := s.checklists.CountRoomPhotos(ctx, cl.ID, roomID)
	if err != nil {
		return err
	}

	if !CanSubmit(pivot.RequiresPhoto, pivot.PhotosRequiredCount, persisted, staged) {
		return ErrInsufficientPhotos
	}
	return nil
}

func (s *Service) buildProgress(ctx context.Context, cl *domain.Checklist) (*ProgressView, error) {
	rooms, err := s.properties.GetOrderedRooms(ctx, cl.PropertyID)
	if err != nil {
		return nil, err
	}

	view := &ProgressView{
		ChecklistID: cl.ID,
		Status:      cl.Status,
		Items:       cl.Items,
		TotalItems:  len(cl.Items),
		Rooms:       make([]RoomProgress, 0, len(rooms)),
	}

	photosByRoom := make(map[int64]int)
	for _, item := range cl.Items {
		if item.Completed {
			view.CompletedItems++
		}
		photosByRoom[item.RoomID] += len(item.Photos)
	}

	for _, pr := range rooms {
		rp := RoomProgress{
			RoomID:              pr.RoomID,
			SortOrder:           pr.SortOrder,
			RequiresPhoto:       pr.RequiresPhoto,
			PhotosRequiredCount: pr.PhotosRequiredCount,
			PhotosPersisted:     photosByRoom[pr.RoomID],
		}
		if pr.Room != nil {
			rp.RoomName = pr.Room.Name
		}
		for _, item := range cl.Items {
			if item.RoomID == pr.RoomID {
				rp.TotalItems++
				if item.Completed {
					rp.CompletedItems++
				}
			}
		}
		view.Rooms = append(view.Rooms, rp)
	}

	if current := CurrentRoom(rooms, cl.Items); current != nil {
		for i := range view.Rooms {
			if view.Rooms[i].RoomID == current.RoomID {
				view.CurrentRoom = &view.Rooms[i]
				break
			}
		}
	}

	return view, nil
}

// notifyProgress pushes the recomputed view to live subscribers. Failures to
// compute the view are swallowed: the transition itself already committed.
func (s *Service) notifyProgress(ctx context.Context, cl *domain.Checklist) {
	if s.notifier == nil {
		return
	}

	view, err := s.buildProgress(ctx, cl)
	if err != nil {
		return
	}

	update := ProgressUpdate{
		ChecklistID:    cl.ID,
		Status:         cl.Status,
		TotalItems:     view.TotalItems,
		CompletedItems: view.CompletedItems,
	}
	if view.CurrentRoom != nil {
		id := view.CurrentRoom.RoomID
		update.CurrentRoomID = &id
		update.CurrentRoomName = view.CurrentRoom.RoomName
	}

	s.notifier.ChecklistUpdated(cl.ID, update)
}

func mapRepoErr(err error) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, repository.ErrStaleAggregate):
		return ErrIllegalTransition
	default:
		return err
	}
}
