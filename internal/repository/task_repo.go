package repository

import (
	"context"
	"time"

	"cleanops/internal/domain"

	"gorm.io/gorm"
)

type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

type taskModel struct {
	ID               int64     `gorm:"column:id;primaryKey"`
	Title            string    `gorm:"column:title"`
	Description      *string   `gorm:"column:description"`
	EstimatedMinutes int       `gorm:"column:estimated_minutes"`
	RequiresPhoto    bool      `gorm:"column:requires_photo"`
	CreatedAt        time.Time `gorm:"column:created_at"`
	UpdatedAt        time.Time `gorm:"column:updated_at"`
}

func (taskModel) TableName() string { return "tasks" }

type roomTaskModel struct {
	ID             int64 `gorm:"column:id;primaryKey"`
	PropertyRoomID int64 `gorm:"column:property_room_id;index:idx_room_task,unique"`
	TaskID         int64 `gorm:"column:task_id;index:idx_room_task,unique"`

	Task *taskModel `gorm:"foreignKey:TaskID"`
}

func (roomTaskModel) TableName() string { return "room_tasks" }

func toDomainTask(m taskModel) *domain.Task {
	var description string
	if m.Description != nil {
		description = *m.Description
	}

	return &domain.Task{
		ID:               m.ID,
		Title:            m.Title,
		Description:      description,
		EstimatedMinutes: m.EstimatedMinutes,
		RequiresPhoto:    m.RequiresPhoto,
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}
}

func toTaskModel(t *domain.Task) taskModel {
	var description *string
	if t.Description != "" {
		v := t.Description
		description = &v
	}

	return taskModel{
		ID:               t.ID,
		Title:            t.Title,
		Description:      description,
		EstimatedMinutes: t.EstimatedMinutes,
		RequiresPhoto:    t.RequiresPhoto,
		CreatedAt:        t.CreatedAt,
		UpdatedAt:        t.UpdatedAt,
	}
}

func (r *TaskRepository) Create(ctx context.Context, t *domain.Task) error {
	m := toTaskModel(t)
	tx := r.db.WithContext(ctx).Create(&m)
	if tx.Error != nil {
		return tx.Error
	}
	*t = *toDomainTask(m)
	return nil
}

func (r *TaskRepository) Update(ctx context.Context, t *domain.Task) error {
	m := toTaskModel(t)
	return r.db.WithContext(ctx).Save(&m).Error
}

func (r *TaskRepository) GetByID(ctx context.Context, id int64) (*domain.Task, error) {
	var m taskModel
	tx := r.db.WithContext(ctx).First(&m, id)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainTask(m), nil
}

func (r *TaskRepository) List(ctx context.Context) ([]domain.Task, error) {
	var rows []taskModel
	tx := r.db.WithContext(ctx).Order("title").Find(&rows)
	if tx.Error != nil {
		return nil, tx.Error
	}

	out := make([]domain.Task, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainTask(m))
	}
	return out, nil
}

func (r *TaskRepository) AssignToRoom(ctx context.Context, rt *domain.RoomTask) error {
	m := roomTaskModel{
		PropertyRoomID: rt.PropertyRoomID,
		TaskID:         rt.TaskID,
	}
	tx := r.db.WithContext(ctx).Create(&m)
	if tx.Error != nil {
		return tx.Error
	}
	rt.ID = m.ID
	return nil
}

func (r *TaskRepository) UnassignFromRoom(ctx context.Context, propertyRoomID, taskID int64) error {
	return r.db.WithContext(ctx).
		Where("property_room_id = ? AND task_id = ?", propertyRoomID, taskID).
		Delete(&roomTaskModel{}).Error
}

// ListByPropertyRoom returns the tasks assigned to one property room, with the
// task record attached.
func (r *TaskRepository) ListByPropertyRoom(ctx context.Context, propertyRoomID int64) ([]domain.RoomTask, error) {
	var rows []roomTaskModel
	tx := r.db.WithContext(ctx).
		Preload("Task").
		Where("property_room_id = ?", propertyRoomID).
		Order("id").
		Find(&rows)
	if tx.Error != nil {
		return nil, tx.Error
	}

	out := make([]domain.RoomTask, 0, len(rows))
	for _, m := range rows {
		rt := domain.RoomTask{
			ID:             m.ID,
			PropertyRoomID: m.PropertyRoomID,
			TaskID:         m.TaskID,
		}
		if m.Task != nil {
			rt.Task = toDomainTask(*m.Task)
		}
		out = append(out, rt)
	}
	return out, nil
}
