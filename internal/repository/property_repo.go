package repository

import (
	"context"
	"time"

	"cleanops/internal/domain"

	"gorm.io/gorm"
)

type PropertyRepository struct {
	db *gorm.DB
}

func NewPropertyRepository(db *gorm.DB) *PropertyRepository {
	return &PropertyRepository{db: db}
}

type propertyModel struct {
	ID              int64     `gorm:"column:id;primaryKey"`
	ManagerID       int64     `gorm:"column:manager_id;index"`
	Name            string    `gorm:"column:name"`
	Address         *string   `gorm:"column:address"`
	Latitude        *float64  `gorm:"column:latitude"`
	Longitude       *float64  `gorm:"column:longitude"`
	GeofenceRadiusM float64   `gorm:"column:geofence_radius_m"`
	IsActive        bool      `gorm:"column:is_active"`
	CreatedAt       time.Time `gorm:"column:created_at"`
	UpdatedAt       time.Time `gorm:"column:updated_at"`
}

func (propertyModel) TableName() string { return "properties" }

type propertyRoomModel struct {
	ID                  int64 `gorm:"column:id;primaryKey"`
	PropertyID          int64 `gorm:"column:property_id;index:idx_property_room,unique"`
	RoomID              int64 `gorm:"column:room_id;index:idx_property_room,unique"`
	SortOrder           int   `gorm:"column:sort_order"`
	RequiresPhoto       bool  `gorm:"column:requires_photo"`
	PhotosRequiredCount int   `gorm:"column:photos_required_count"`

	Room *roomModel `gorm:"foreignKey:RoomID"`
}

func (propertyRoomModel) TableName() string { return "property_rooms" }

func toDomainProperty(m propertyModel) *domain.Property {
	var address string
	if m.Address != nil {
		address = *m.Address
	}

	return &domain.Property{
		ID:              m.ID,
		ManagerID:       m.ManagerID,
		Name:            m.Name,
		Address:         address,
		Latitude:        m.Latitude,
		Longitude:       m.Longitude,
		GeofenceRadiusM: m.GeofenceRadiusM,
		IsActive:        m.IsActive,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}

func toPropertyModel(p *domain.Property) propertyModel {
	var address *string
	if p.Address != "" {
		v := p.Address
		address = &v
	}

	return propertyModel{
		ID:              p.ID,
		ManagerID:       p.ManagerID,
		Name:            p.Name,
		Address:         address,
		Latitude:        p.Latitude,
		Longitude:       p.Longitude,
		GeofenceRadiusM: p.GeofenceRadiusM,
		IsActive:        p.IsActive,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
}

func toDomainPropertyRoom(m propertyRoomModel) domain.PropertyRoom {
	pr := domain.PropertyRoom{
		ID:                  m.ID,
		PropertyID:          m.PropertyID,
		RoomID:              m.RoomID,
		SortOrder:           m.SortOrder,
		RequiresPhoto:       m.RequiresPhoto,
		PhotosRequiredCount: m.PhotosRequiredCount,
	}
	if m.Room != nil {
		pr.Room = toDomainRoom(*m.Room)
	}
	return pr
}

func (r *PropertyRepository) Create(ctx context.Context, p *domain.Property) error {
	m := toPropertyModel(p)
	tx := r.db.WithContext(ctx).Create(&m)
	if tx.Error != nil {
		return tx.Error
	}
	*p = *toDomainProperty(m)
	return nil
}

func (r *PropertyRepository) Update(ctx context.Context, p *domain.Property) error {
	m := toPropertyModel(p)
	return r.db.WithContext(ctx).Save(&m).Error
}

func (r *PropertyRepository) GetByID(ctx context.Context, id int64) (*domain.Property, error) {
	var m propertyModel
	tx := r.db.WithContext(ctx).First(&m, id)
	if tx.Error != nil {
		return nil, tx.Error
	}

	p := toDomainProperty(m)
	rooms, err := r.GetOrderedRooms(ctx, id)
	if err != nil {
		return nil, err
	}
	p.Rooms = rooms
	return p, nil
}

func (r *PropertyRepository) List(ctx context.Context, managerID int64) ([]domain.Property, error) {
	var rows []propertyModel
	q := r.db.WithContext(ctx).Order("name")
	if managerID > 0 {
		q = q.Where("manager_id = ?", managerID)
	}
	if tx := q.Find(&rows); tx.Error != nil {
		return nil, tx.Error
	}

	out := make([]domain.Property, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainProperty(m))
	}
	return out, nil
}

// GetOrderedRooms returns the property's room assignments sorted by sort_order.
// This order is the visit sequence; it is read fresh on every call.
func (r *PropertyRepository) GetOrderedRooms(ctx context.Context, propertyID int64) ([]domain.PropertyRoom, error) {
	var rows []propertyRoomModel
	tx := r.db.WithContext(ctx).
		Preload("Room").
		Where("property_id = ?", propertyID).
		Order("sort_order").
		Find(&rows)
	if tx.Error != nil {
		return nil, tx.Error
	}

	out := make([]domain.PropertyRoom, 0, len(rows))
	for _, m := range rows {
		out = append(out, toDomainPropertyRoom(m))
	}
	return out, nil
}

func (r *PropertyRepository) GetRoomPivot(ctx context.Context, propertyID, roomID int64) (*domain.PropertyRoom, error) {
	var m propertyRoomModel
	tx := r.db.WithContext(ctx).
		Where("property_id = ? AND room_id = ?", propertyID, roomID).
		First(&m)
	if tx.Error != nil {
		return nil, tx.Error
	}
	pr := toDomainPropertyRoom(m)
	return &pr, nil
}

func (r *PropertyRepository) AssignRoom(ctx context.Context, pr *domain.PropertyRoom) error {
	m := propertyRoomModel{
		PropertyID:          pr.PropertyID,
		RoomID:              pr.RoomID,
		SortOrder:           pr.SortOrder,
		RequiresPhoto:       pr.RequiresPhoto,
		PhotosRequiredCount: pr.PhotosRequiredCount,
	}
	tx := r.db.WithContext(ctx).Create(&m)
	if tx.Error != nil {
		return tx.Error
	}
	pr.ID = m.ID
	return nil
}

func (r *PropertyRepository) UpdatePivot(ctx context.Context, pr *domain.PropertyRoom) error {
	return r.db.WithContext(ctx).
		Model(&propertyRoomModel{}).
		Where("property_id = ? AND room_id = ?", pr.PropertyID, pr.RoomID).
		Updates(map[string]any{
			"requires_photo":        pr.RequiresPhoto,
			"photos_required_count": pr.PhotosRequiredCount,
		}).Error
}

func (r *PropertyRepository) NextSortOrder(ctx context.Context, propertyID int64) (int, error) {
	var max *int
	tx := r.db.WithContext(ctx).
		Model(&propertyRoomModel{}).
		Where("property_id = ?", propertyID).
		Select("MAX(sort_order)").
		Scan(&max)
	if tx.Error != nil {
		return 0, tx.Error
	}
	if max == nil {
		return 0, nil
	}
	return *max + 1, nil
}

// ReorderRooms rewrites sort_order contiguously following the given room id
// sequence. Runs in one transaction so readers never see a partial order.
func (r *PropertyRepository) ReorderRooms(ctx context.Context, propertyID int64, roomIDs []int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i, roomID := range roomIDs {
			res := tx.Model(&propertyRoomModel{}).
				Where("property_id = ? AND room_id = ?", propertyID, roomID).
				Update("sort_order", i)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return gorm.ErrRecordNotFound
			}
		}
		return nil
	})
}
