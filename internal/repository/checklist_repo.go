package repository

import (
	"context"
	"time"

	"cleanops/internal/domain"

	"gorm.io/gorm"
)

type ChecklistRepository struct {
	db *gorm.DB
}

func NewChecklistRepository(db *gorm.DB) *ChecklistRepository {
	return &ChecklistRepository{db: db}
}

type checklistModel struct {
	ID            int64      `gorm:"column:id;primaryKey"`
	PropertyID    int64      `gorm:"column:property_id;index"`
	HousekeeperID int64      `gorm:"column:housekeeper_id;index"`
	ScheduledAt   time.Time  `gorm:"column:scheduled_at"`
	Status        string     `gorm:"column:status;index"`
	Rating        *int       `gorm:"column:rating"`
	Notes         *string    `gorm:"column:notes"`
	StartedAt     *time.Time `gorm:"column:started_at"`
	CompletedAt   *time.Time `gorm:"column:completed_at"`
	ReviewedAt    *time.Time `gorm:"column:reviewed_at"`
	CreatedAt     time.Time  `gorm:"column:created_at"`
	UpdatedAt     time.Time  `gorm:"column:updated_at"`

	Items []checklistItemModel `gorm:"foreignKey:ChecklistID"`
}

func (checklistModel) TableName() string { return "checklists" }

type checklistItemModel struct {
	ID          int64      `gorm:"column:id;primaryKey"`
	ChecklistID int64      `gorm:"column:checklist_id;index"`
	RoomID      int64      `gorm:"column:room_id;index"`
	TaskID      int64      `gorm:"column:task_id"`
	Completed   bool       `gorm:"column:completed"`
	Notes       *string    `gorm:"column:notes"`
	CompletedAt *time.Time `gorm:"column:completed_at"`

	Photos []checklistPhotoModel `gorm:"foreignKey:ChecklistItemID"`
	Task   *taskModel            `gorm:"foreignKey:TaskID"`
}

func (checklistItemModel) TableName() string { return "checklist_items" }

type checklistPhotoModel struct {
	ID              int64     `gorm:"column:id;primaryKey"`
	ChecklistItemID int64     `gorm:"column:checklist_item_id;index"`
	StoragePath     string    `gorm:"column:storage_path"`
	UploadedAt      time.Time `gorm:"column:uploaded_at"`
}

func (checklistPhotoModel) TableName() string { return "checklist_photos" }

func toDomainChecklist(m checklistModel) *domain.Checklist {
	var notes string
	if m.Notes != nil {
		notes = *m.Notes
	}

	c := &domain.Checklist{
		ID:            m.ID,
		PropertyID:    m.PropertyID,
		HousekeeperID: m.HousekeeperID,
		ScheduledAt:   m.ScheduledAt,
		Status:        domain.ChecklistStatus(m.Status),
		Rating:        m.Rating,
		Notes:         notes,
		StartedAt:     m.StartedAt,
		CompletedAt:   m.CompletedAt,
		ReviewedAt:    m.ReviewedAt,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}

	for _, im := range m.Items {
		c.Items = append(c.Items, toDomainChecklistItem(im))
	}
	return c
}

func toDomainChecklistItem(m checklistItemModel) domain.ChecklistItem {
	var notes string
	if m.Notes != nil {
		notes = *m.Notes
	}

	item := domain.ChecklistItem{
		ID:          m.ID,
		ChecklistID: m.ChecklistID,
		RoomID:      m.RoomID,
		TaskID:      m.TaskID,
		Completed:   m.Completed,
		Notes:       notes,
		CompletedAt: m.CompletedAt,
	}
	for _, pm := range m.Photos {
		item.Photos = append(item.Photos, domain.ChecklistPhoto{
			ID:              pm.ID,
			ChecklistItemID: pm.ChecklistItemID,
			StoragePath:     pm.StoragePath,
			UploadedAt:      pm.UploadedAt,
		})
	}
	if m.Task != nil {
		item.Task = toDomainTask(*m.Task)
	}
	return item
}

// Create inserts the checklist together with its derived items in one
// transaction. Items always start incomplete and the checklist pending.
func (r *ChecklistRepository) Create(ctx context.Context, c *domain.Checklist) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		m := checklistModel{
			PropertyID:    c.PropertyID,
			HousekeeperID: c.HousekeeperID,
			ScheduledAt:   c.ScheduledAt,
			Status:        string(domain.ChecklistPending),
		}
		if err := tx.Create(&m).Error; err != nil {
			return err
		}

		for i := range c.Items {
			im := checklistItemModel{
				ChecklistID: m.ID,
				RoomID:      c.Items[i].RoomID,
				TaskID:      c.Items[i].TaskID,
			}
			if err := tx.Create(&im).Error; err != nil {
				return err
			}
			c.Items[i].ID = im.ID
			c.Items[i].ChecklistID = m.ID
		}

		c.ID = m.ID
		c.Status = domain.ChecklistPending
		c.CreatedAt = m.CreatedAt
		c.UpdatedAt = m.UpdatedAt
		return nil
	})
}

// GetAggregate loads the checklist with its items, their photos and tasks.
func (r *ChecklistRepository) GetAggregate(ctx context.Context, id int64) (*domain.Checklist, error) {
	var m checklistModel
	tx := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("checklist_items.id") }).
		Preload("Items.Photos").
		Preload("Items.Task").
		First(&m, id)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainChecklist(m), nil
}

func (r *ChecklistRepository) ListByHousekeeper(ctx context.Context, housekeeperID int64, limit, offset int) ([]domain.Checklist, error) {
	var rows []checklistModel
	tx := r.db.WithContext(ctx).
		Where("housekeeper_id = ?", housekeeperID).
		Order("scheduled_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&rows)
	if tx.Error != nil {
		return nil, tx.Error
	}

	out := make([]domain.Checklist, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainChecklist(m))
	}
	return out, nil
}

// UpdateStatus advances the checklist status. The WHERE clause guards on the
// expected source status so a concurrent transition cannot be overwritten;
// zero matched rows means the caller read stale state.
func (r *ChecklistRepository) UpdateStatus(ctx context.Context, id int64, from, to domain.ChecklistStatus, at time.Time) error {
	updates := map[string]any{"status": string(to), "updated_at": at}
	switch to {
	case domain.ChecklistInProgress:
		updates["started_at"] = at
	case domain.ChecklistCompleted:
		updates["completed_at"] = at
	case domain.ChecklistReviewed:
		updates["reviewed_at"] = at
	}

	res := r.db.WithContext(ctx).
		Model(&checklistModel{}).
		Where("id = ? AND status = ?", id, string(from)).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrStaleAggregate
	}
	return nil
}

// CompleteItem marks the item done and stores its notes and photo records in
// one transaction. The completed=false guard makes the one-way lock hold even
// under concurrent submissions.
func (r *ChecklistRepository) CompleteItem(ctx context.Context, itemID int64, notes string, photos []domain.ChecklistPhoto, at time.Time) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		updates := map[string]any{"completed": true, "completed_at": at}
		if notes != "" {
			updates["notes"] = notes
		}

		res := tx.Model(&checklistItemModel{}).
			Where("id = ? AND completed = ?", itemID, false).
			Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrStaleAggregate
		}

		for _, p := range photos {
			pm := checklistPhotoModel{
				ChecklistItemID: itemID,
				StoragePath:     p.StoragePath,
				UploadedAt:      p.UploadedAt,
			}
			if err := tx.Create(&pm).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// SetReview stores rating and notes. Status handling is the caller's job:
// completed checklists are advanced via UpdateStatus first, reviewed ones are
// just overwritten here.
func (r *ChecklistRepository) SetReview(ctx context.Context, id int64, rating int, notes string, at time.Time) error {
	var notesPtr *string
	if notes != "" {
		notesPtr = &notes
	}

	return r.db.WithContext(ctx).
		Model(&checklistModel{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"rating":      rating,
			"notes":       notesPtr,
			"reviewed_at": at,
			"updated_at":  at,
		}).Error
}

// CountRoomPhotos counts photos already persisted against any item of the
// given room within the checklist. All tasks in a room share one photo pool.
func (r *ChecklistRepository) CountRoomPhotos(ctx context.Context, checklistID, roomID int64) (int, error) {
	var cnt int64
	q := `
SELECT COUNT(1)
FROM checklist_photos p
JOIN checklist_items i ON i.id = p.checklist_item_id
WHERE i.checklist_id = ?
  AND i.room_id = ?
`
	tx := r.db.WithContext(ctx).Raw(q, checklistID, roomID).Scan(&cnt)
	if tx.Error != nil {
		return 0, tx.Error
	}
	return int(cnt), nil
}
