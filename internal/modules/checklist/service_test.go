package checklist

import (
	"context"
	"testing"
	"time"

	"cleanops/internal/domain"
	"cleanops/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type mockChecklistRepo struct {
	mock.Mock
}

func (m *mockChecklistRepo) GetAggregate(ctx context.Context, id int64) (*domain.Checklist, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Checklist), args.Error(1)
}

func (m *mockChecklistRepo) ListByHousekeeper(ctx context.Context, housekeeperID int64, limit, offset int) ([]domain.Checklist, error) {
	args := m.Called(ctx, housekeeperID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Checklist), args.Error(1)
}

func (m *mockChecklistRepo) UpdateStatus(ctx context.Context, id int64, from, to domain.ChecklistStatus, at time.Time) error {
	args := m.Called(ctx, id, from, to, at)
	return args.Error(0)
}

func (m *mockChecklistRepo) CompleteItem(ctx context.Context, itemID int64, notes string, photos []domain.ChecklistPhoto, at time.Time) error {
	args := m.Called(ctx, itemID, notes, photos, at)
	return args.Error(0)
}

func (m *mockChecklistRepo) SetReview(ctx context.Context, id int64, rating int, notes string, at time.Time) error {
	args := m.Called(ctx, id, rating, notes, at)
	return args.Error(0)
}

func (m *mockChecklistRepo) CountRoomPhotos(ctx context.Context, checklistID, roomID int64) (int, error) {
	args := m.Called(ctx, checklistID, roomID)
	return args.Int(0), args.Error(1)
}

type mockRoomSource struct {
	mock.Mock
}

func (m *mockRoomSource) GetOrderedRooms(ctx context.Context, propertyID int64) ([]domain.PropertyRoom, error) {
	args := m.Called(ctx, propertyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PropertyRoom), args.Error(1)
}

func (m *mockRoomSource) GetRoomPivot(ctx context.Context, propertyID, roomID int64) (*domain.PropertyRoom, error) {
	args := m.Called(ctx, propertyID, roomID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PropertyRoom), args.Error(1)
}

type mockGeofence struct {
	mock.Mock
}

func (m *mockGeofence) Verify(ctx context.Context, propertyID int64, fix domain.LocationFix) (*domain.GeofenceVerdict, error) {
	args := m.Called(ctx, propertyID, fix)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.GeofenceVerdict), args.Error(1)
}

type mockNotifier struct {
	mock.Mock
}

func (m *mockNotifier) ChecklistUpdated(checklistID int64, update ProgressUpdate) {
	m.Called(checklistID, update)
}

const (
	testChecklistID   = int64(7)
	testPropertyID    = int64(3)
	testHousekeeperID = int64(42)
)

func pendingChecklist(items ...domain.ChecklistItem) *domain.Checklist {
	return &domain.Checklist{
		ID:            testChecklistID,
		PropertyID:    testPropertyID,
		HousekeeperID: testHousekeeperID,
		Status:        domain.ChecklistPending,
		Items:         items,
	}
}

func withStatus(cl *domain.Checklist, status domain.ChecklistStatus) *domain.Checklist {
	out := *cl
	out.Status = status
	return &out
}

func testFix() *domain.LocationFix {
	return &domain.LocationFix{Latitude: 43.2, Longitude: 76.8}
}

func newEngine() (*Service, *mockChecklistRepo, *mockRoomSource, *mockGeofence, *mockNotifier) {
	repo := new(mockChecklistRepo)
	rooms := new(mockRoomSource)
	geo := new(mockGeofence)
	notifier := new(mockNotifier)
	return NewService(repo, rooms, geo, notifier), repo, rooms, geo, notifier
}

func TestStart_Success(t *testing.T) {
	svc, repo, rooms, geo, notifier := newEngine()
	ctx := context.Background()

	cl := pendingChecklist(domain.ChecklistItem{ID: 1, RoomID: 10})
	started := withStatus(cl, domain.ChecklistInProgress)

	repo.On("GetAggregate", ctx, testChecklistID).Return(cl, nil).Once()
	geo.On("Verify", ctx, testPropertyID, *testFix()).Return(&domain.GeofenceVerdict{WithinRange: true}, nil)
	repo.On("UpdateStatus", ctx, testChecklistID, domain.ChecklistPending, domain.ChecklistInProgress, mock.AnythingOfType("time.Time")).Return(nil)
	repo.On("GetAggregate", ctx, testChecklistID).Return(started, nil)
	rooms.On("GetOrderedRooms", ctx, testPropertyID).Return([]domain.PropertyRoom{{RoomID: 10, SortOrder: 1}}, nil)
	notifier.On("ChecklistUpdated", testChecklistID, mock.AnythingOfType("checklist.ProgressUpdate")).Return()

	got, err := svc.Start(ctx, testChecklistID, testHousekeeperID, testFix())
	require.NoError(t, err)
	assert.Equal(t, domain.ChecklistInProgress, got.Status)
	repo.AssertExpectations(t)
	notifier.AssertExpectations(t)
}

func TestStart_NoLocationFixFailsBeforeGeofence(t *testing.T) {
	svc, repo, _, geo, _ := newEngine()
	ctx := context.Background()

	repo.On("GetAggregate", ctx, testChecklistID).Return(pendingChecklist(), nil)

	_, err := svc.Start(ctx, testChecklistID, testHousekeeperID, nil)
	assert.ErrorIs(t, err, ErrLocationUnavailable)
	geo.AssertNotCalled(t, "Verify", mock.Anything, mock.Anything, mock.Anything)
	repo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestStart_OutOfRangeKeepsPending(t *testing.T) {
	svc, repo, _, geo, _ := newEngine()
	ctx := context.Background()

	repo.On("GetAggregate", ctx, testChecklistID).Return(pendingChecklist(), nil)
	geo.On("Verify", ctx, testPropertyID, *testFix()).Return(&domain.GeofenceVerdict{
		WithinRange:    false,
		DistanceMeters: 412,
		AllowedMeters:  100,
	}, nil)

	_, err := svc.Start(ctx, testChecklistID, testHousekeeperID, testFix())
	require.Error(t, err)

	var oor *OutOfRangeError
	require.ErrorAs(t, err, &oor)
	assert.Equal(t, float64(412), oor.DistanceMeters)
	assert.Equal(t, float64(100), oor.AllowedMeters)
	repo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestStart_AlreadyInProgress(t *testing.T) {
	svc, repo, _, _, _ := newEngine()
	ctx := context.Background()

	repo.On("GetAggregate", ctx, testChecklistID).Return(withStatus(pendingChecklist(), domain.ChecklistInProgress), nil)

	_, err := svc.Start(ctx, testChecklistID, testHousekeeperID, testFix())
	assert.ErrorIs(t, err, ErrIllegalTransition)
}

func TestStart_NotOwner(t *testing.T) {
	svc, repo, _, _, _ := newEngine()
	ctx := context.Background()

	repo.On("GetAggregate", ctx, testChecklistID).Return(pendingChecklist(), nil)

	_, err := svc.Start(ctx, testChecklistID, testHousekeeperID+1, testFix())
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestStart_NotFound(t *testing.T) {
	svc, repo, _, _, _ := newEngine()
	ctx := context.Background()

	repo.On("GetAggregate", ctx, testChecklistID).Return(nil, gorm.ErrRecordNotFound)

	_, err := svc.Start(ctx, testChecklistID, testHousekeeperID, testFix())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSubmitItem_Success(t *testing.T) {
	svc, repo, rooms, _, notifier := newEngine()
	ctx := context.Background()

	cl := withStatus(pendingChecklist(
		domain.ChecklistItem{ID: 1, RoomID: 10},
		domain.ChecklistItem{ID: 2, RoomID: 20},
	), domain.ChecklistInProgress)

	repo.On("GetAggregate", ctx, testChecklistID).Return(cl, nil)
	rooms.On("GetRoomPivot", ctx, testPropertyID, int64(10)).Return(&domain.PropertyRoom{
		RoomID: 10, RequiresPhoto: true, PhotosRequiredCount: 2,
	}, nil)
	repo.On("CountRoomPhotos", ctx, testChecklistID, int64(10)).Return(1, nil)
	repo.On("CompleteItem", ctx, int64(1), "streak-free", mock.AnythingOfType("[]domain.ChecklistPhoto"), mock.AnythingOfType("time.Time")).Return(nil)
	rooms.On("GetOrderedRooms", ctx, testPropertyID).Return([]domain.PropertyRoom{{RoomID: 10, SortOrder: 1}, {RoomID: 20, SortOrder: 2}}, nil)
	notifier.On("ChecklistUpdated", testChecklistID, mock.AnythingOfType("checklist.ProgressUpdate")).Return()

	_, err := svc.SubmitItem(ctx, testChecklistID, 1, testHousekeeperID, SubmitItemRequest{
		PhotoPaths: []string{"2026/01/05/a.jpg"},
		Notes:      "streak-free",
	})
	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestSubmitItem_LockedItem(t *testing.T) {
	svc, repo, _, _, _ := newEngine()
	ctx := context.Background()

	cl := withStatus(pendingChecklist(
		domain.ChecklistItem{ID: 1, RoomID: 10, Completed: true},
	), domain.ChecklistInProgress)
	repo.On("GetAggregate", ctx, testChecklistID).Return(cl, nil)

	_, err := svc.SubmitItem(ctx, testChecklistID, 1, testHousekeeperID, SubmitItemRequest{})
	assert.ErrorIs(t, err, ErrItemLocked)
	repo.AssertNotCalled(t, "CompleteItem", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSubmitItem_InsufficientPhotos(t *testing.T) {
	svc, repo, rooms, _, _ := newEngine()
	ctx := context.Background()

	cl := withStatus(pendingChecklist(domain.ChecklistItem{ID: 1, RoomID: 10}), domain.ChecklistInProgress)
	repo.On("GetAggregate", ctx, testChecklistID).Return(cl, nil)
	rooms.On("GetRoomPivot", ctx, testPropertyID, int64(10)).Return(&domain.PropertyRoom{
		RoomID: 10, RequiresPhoto: true, PhotosRequiredCount: 3,
	}, nil)
	repo.On("CountRoomPhotos", ctx, testChecklistID, int64(10)).Return(1, nil)

	_, err := svc.SubmitItem(ctx, testChecklistID, 1, testHousekeeperID, SubmitItemRequest{
		PhotoPaths: []string{"one.jpg"},
	})
	assert.ErrorIs(t, err, ErrInsufficientPhotos)
	repo.AssertNotCalled(t, "CompleteItem", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSubmitItem_RoomPoolSatisfiesGate(t *testing.T) {
	svc, repo, rooms, _, notifier := newEngine()
	ctx := context.Background()

	// Requirement of 2 already met by photos persisted on a sibling item.
	cl := withStatus(pendingChecklist(
		domain.ChecklistItem{ID: 1, RoomID: 10, Completed: true},
		domain.ChecklistItem{ID: 2, RoomID: 10},
	), domain.ChecklistInProgress)
	repo.On("GetAggregate", ctx, testChecklistID).Return(cl, nil)
	rooms.On("GetRoomPivot", ctx, testPropertyID, int64(10)).Return(&domain.PropertyRoom{
		RoomID: 10, RequiresPhoto: true, PhotosRequiredCount: 2,
	}, nil)
	repo.On("CountRoomPhotos", ctx, testChecklistID, int64(10)).Return(2, nil)
	repo.On("CompleteItem", ctx, int64(2), "", mock.AnythingOfType("[]domain.ChecklistPhoto"), mock.AnythingOfType("time.Time")).Return(nil)
	rooms.On("GetOrderedRooms", ctx, testPropertyID).Return([]domain.PropertyRoom{{RoomID: 10, SortOrder: 1}}, nil)
	notifier.On("ChecklistUpdated", testChecklistID, mock.AnythingOfType("checklist.ProgressUpdate")).Return()

	_, err := svc.SubmitItem(ctx, testChecklistID, 2, testHousekeeperID, SubmitItemRequest{})
	require.NoError(t, err)
}

func TestSubmitItem_NoPivotPasses(t *testing.T) {
	svc, repo, rooms, _, notifier := newEngine()
	ctx := context.Background()

	cl := withStatus(pendingChecklist(domain.ChecklistItem{ID: 1, RoomID: 10}), domain.ChecklistInProgress)
	repo.On("GetAggregate", ctx, testChecklistID).Return(cl, nil)
	rooms.On("GetRoomPivot", ctx, testPropertyID, int64(10)).Return(nil, gorm.ErrRecordNotFound)
	repo.On("CompleteItem", ctx, int64(1), "", mock.AnythingOfType("[]domain.ChecklistPhoto"), mock.AnythingOfType("time.Time")).Return(nil)
	rooms.On("GetOrderedRooms", ctx, testPropertyID).Return([]domain.PropertyRoom{}, nil)
	notifier.On("ChecklistUpdated", testChecklistID, mock.AnythingOfType("checklist.ProgressUpdate")).Return()

	_, err := svc.SubmitItem(ctx, testChecklistID, 1, testHousekeeperID, SubmitItemRequest{})
	require.NoError(t, err)
}

func TestSubmitItem_ChecklistNotInProgress(t *testing.T) {
	svc, repo, _, _, _ := newEngine()
	ctx := context.Background()

	repo.On("GetAggregate", ctx, testChecklistID).Return(pendingChecklist(domain.ChecklistItem{ID: 1, RoomID: 10}), nil)

	_, err := svc.SubmitItem(ctx, testChecklistID, 1, testHousekeeperID, SubmitItemRequest{})
	assert.ErrorIs(t, err, ErrIllegalTransition)
}

func TestSubmitItem_UnknownItem(t *testing.T) {
	svc, repo, _, _, _ := newEngine()
	ctx := context.Background()

	cl := withStatus(pendingChecklist(domain.ChecklistItem{ID: 1, RoomID: 10}), domain.ChecklistInProgress)
	repo.On("GetAggregate", ctx, testChecklistID).Return(cl, nil)

	_, err := svc.SubmitItem(ctx, testChecklistID, 99, testHousekeeperID, SubmitItemRequest{})
	assert.ErrorIs(t, err, ErrItemNotFound)
}

func TestSubmitItem_ConcurrentCompletionIsLocked(t *testing.T) {
	svc, repo, rooms, _, _ := newEngine()
	ctx := context.Background()

	// The guarded update loses the race: another writer completed the item
	// between our read and write.
	cl := withStatus(pendingChecklist(domain.ChecklistItem{ID: 1, RoomID: 10}), domain.ChecklistInProgress)
	repo.On("GetAggregate", ctx, testChecklistID).Return(cl, nil)
	rooms.On("GetRoomPivot", ctx, testPropertyID, int64(10)).Return(nil, gorm.ErrRecordNotFound)
	repo.On("CompleteItem", ctx, int64(1), "", mock.AnythingOfType("[]domain.ChecklistPhoto"), mock.AnythingOfType("time.Time")).Return(repository.ErrStaleAggregate)

	_, err := svc.SubmitItem(ctx, testChecklistID, 1, testHousekeeperID, SubmitItemRequest{})
	assert.ErrorIs(t, err, ErrItemLocked)
}

func TestComplete_Success(t *testing.T) {
	svc, repo, rooms, _, notifier := newEngine()
	ctx := context.Background()

	cl := withStatus(pendingChecklist(
		domain.ChecklistItem{ID: 1, RoomID: 10, Completed: true},
		domain.ChecklistItem{ID: 2, RoomID: 20, Completed: true},
	), domain.ChecklistInProgress)
	done := withStatus(cl, domain.ChecklistCompleted)

	repo.On("GetAggregate", ctx, testChecklistID).Return(cl, nil).Once()
	repo.On("UpdateStatus", ctx, testChecklistID, domain.ChecklistInProgress, domain.ChecklistCompleted, mock.AnythingOfType("time.Time")).Return(nil)
	repo.On("GetAggregate", ctx, testChecklistID).Return(done, nil)
	rooms.On("GetOrderedRooms", ctx, testPropertyID).Return([]domain.PropertyRoom{}, nil)
	notifier.On("ChecklistUpdated", testChecklistID, mock.AnythingOfType("checklist.ProgressUpdate")).Return()

	got, err := svc.Complete(ctx, testChecklistID, testHousekeeperID)
	require.NoError(t, err)
	assert.Equal(t, domain.ChecklistCompleted, got.Status)
}

func TestComplete_IncompleteItemBlocks(t *testing.T) {
	svc, repo, _, _, _ := newEngine()
	ctx := context.Background()

	cl := withStatus(pendingChecklist(
		domain.ChecklistItem{ID: 1, RoomID: 10, Completed: true},
		domain.ChecklistItem{ID: 2, RoomID: 20},
	), domain.ChecklistInProgress)
	repo.On("GetAggregate", ctx, testChecklistID).Return(cl, nil)

	_, err := svc.Complete(ctx, testChecklistID, testHousekeeperID)
	assert.ErrorIs(t, err, ErrIncompleteChecklist)
	repo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestComplete_WrongStatus(t *testing.T) {
	svc, repo, _, _, _ := newEngine()
	ctx := context.Background()

	repo.On("GetAggregate", ctx, testChecklistID).Return(pendingChecklist(), nil)

	_, err := svc.Complete(ctx, testChecklistID, testHousekeeperID)
	assert.ErrorIs(t, err, ErrIllegalTransition)
}

func TestReview_Success(t *testing.T) {
	svc, repo, rooms, _, notifier := newEngine()
	ctx := context.Background()

	cl := withStatus(pendingChecklist(), domain.ChecklistCompleted)
	reviewed := withStatus(cl, domain.ChecklistReviewed)

	repo.On("GetAggregate", ctx, testChecklistID).Return(cl, nil).Once()
	repo.On("UpdateStatus", ctx, testChecklistID, domain.ChecklistCompleted, domain.ChecklistReviewed, mock.AnythingOfType("time.Time")).Return(nil)
	repo.On("SetReview", ctx, testChecklistID, 4, "good job", mock.AnythingOfType("time.Time")).Return(nil)
	repo.On("GetAggregate", ctx, testChecklistID).Return(reviewed, nil)
	rooms.On("GetOrderedRooms", ctx, testPropertyID).Return([]domain.PropertyRoom{}, nil)
	notifier.On("ChecklistUpdated", testChecklistID, mock.AnythingOfType("checklist.ProgressUpdate")).Return()

	got, err := svc.Review(ctx, testChecklistID, ReviewRequest{Rating: 4, Notes: "good job"})
	require.NoError(t, err)
	assert.Equal(t, domain.ChecklistReviewed, got.Status)
}

func TestReview_IdempotentOverwrite(t *testing.T) {
	svc, repo, rooms, _, notifier := newEngine()
	ctx := context.Background()

	cl := withStatus(pendingChecklist(), domain.ChecklistReviewed)
	repo.On("GetAggregate", ctx, testChecklistID).Return(cl, nil)
	repo.On("SetReview", ctx, testChecklistID, 2, "", mock.AnythingOfType("time.Time")).Return(nil)
	rooms.On("GetOrderedRooms", ctx, testPropertyID).Return([]domain.PropertyRoom{}, nil)
	notifier.On("ChecklistUpdated", testChecklistID, mock.AnythingOfType("checklist.ProgressUpdate")).Return()

	_, err := svc.Review(ctx, testChecklistID, ReviewRequest{Rating: 2})
	require.NoError(t, err)
	repo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestReview_InvalidRating(t *testing.T) {
	svc, repo, _, _, _ := newEngine()
	ctx := context.Background()

	for _, rating := range []int{0, -1, 6} {
		_, err := svc.Review(ctx, testChecklistID, ReviewRequest{Rating: rating})
		assert.ErrorIs(t, err, ErrInvalidRating)
	}
	repo.AssertNotCalled(t, "GetAggregate", mock.Anything, mock.Anything)
}

func TestReview_NotCompleted(t *testing.T) {
	svc, repo, _, _, _ := newEngine()
	ctx := context.Background()

	repo.On("GetAggregate", ctx, testChecklistID).Return(withStatus(pendingChecklist(), domain.ChecklistInProgress), nil)

	_, err := svc.Review(ctx, testChecklistID, ReviewRequest{Rating: 5})
	assert.ErrorIs(t, err, ErrIllegalTransition)
}

func TestProgress_View(t *testing.T) {
	svc, repo, rooms, _, _ := newEngine()
	ctx := context.Background()

	cl := withStatus(pendingChecklist(
		domain.ChecklistItem{ID: 1, RoomID: 10, Completed: true, Photos: []domain.ChecklistPhoto{{ID: 1}, {ID: 2}}},
		domain.ChecklistItem{ID: 2, RoomID: 10, Completed: true},
		domain.ChecklistItem{ID: 3, RoomID: 20},
	), domain.ChecklistInProgress)

	repo.On("GetAggregate", ctx, testChecklistID).Return(cl, nil)
	rooms.On("GetOrderedRooms", ctx, testPropertyID).Return([]domain.PropertyRoom{
		{RoomID: 10, SortOrder: 1, RequiresPhoto: true, PhotosRequiredCount: 2, Room: &domain.Room{ID: 10, Name: "Kitchen"}},
		{RoomID: 20, SortOrder: 2, Room: &domain.Room{ID: 20, Name: "Bathroom"}},
	}, nil)

	view, err := svc.Progress(ctx, testChecklistID, testHousekeeperID, domain.RoleHousekeeper)
	require.NoError(t, err)

	assert.Equal(t, 3, view.TotalItems)
	assert.Equal(t, 2, view.CompletedItems)
	require.Len(t, view.Rooms, 2)
	assert.Equal(t, "Kitchen", view.Rooms[0].RoomName)
	assert.Equal(t, 2, view.Rooms[0].PhotosPersisted)
	require.NotNil(t, view.CurrentRoom)
	assert.Equal(t, int64(20), view.CurrentRoom.RoomID)
	assert.Equal(t, "Bathroom", view.CurrentRoom.RoomName)
}

func TestProgress_ForbiddenForOtherHousekeeper(t *testing.T) {
	svc, repo, _, _, _ := newEngine()
	ctx := context.Background()

	repo.On("GetAggregate", ctx, testChecklistID).Return(pendingChecklist(), nil)

	_, err := svc.Progress(ctx, testChecklistID, testHousekeeperID+1, domain.RoleHousekeeper)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestMyChecklists_NormalizesPaging(t *testing.T) {
	svc, repo, _, _, _ := newEngine()
	ctx := context.Background()

	repo.On("ListByHousekeeper", ctx, testHousekeeperID, 20, 0).Return([]domain.Checklist{}, nil)

	_, err := svc.MyChecklists(ctx, testHousekeeperID, -5, -1)
	require.NoError(t, err)
	repo.AssertExpectations(t)
}
