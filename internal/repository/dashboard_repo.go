package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
)

type DashboardRepository struct {
	db *gorm.DB
}

func NewDashboardRepository(db *gorm.DB) *DashboardRepository {
	return &DashboardRepository{db: db}
}

type StatusCount struct {
	Status string `gorm:"column:status"`
	Count  int64  `gorm:"column:cnt"`
}

type PropertyRating struct {
	PropertyID   int64   `gorm:"column:property_id"`
	PropertyName string  `gorm:"column:property_name"`
	AvgRating    float64 `gorm:"column:avg_rating"`
	Reviewed     int64   `gorm:"column:reviewed"`
}

type HousekeeperLoad struct {
	HousekeeperID   int64  `gorm:"column:housekeeper_id"`
	HousekeeperName string `gorm:"column:housekeeper_name"`
	Scheduled       int64  `gorm:"column:scheduled"`
	Completed       int64  `gorm:"column:completed"`
}

func (r *DashboardRepository) StatusCounts(ctx context.Context, from, to time.Time) ([]StatusCount, error) {
	var rows []StatusCount
	q := `
SELECT status, COUNT(1) AS cnt
FROM checklists
WHERE scheduled_at >= ? AND scheduled_at < ?
GROUP BY status
`
	tx := r.db.WithContext(ctx).Raw(q, from, to).Scan(&rows)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return rows, nil
}

func (r *DashboardRepository) RatingsByProperty(ctx context.Context, from, to time.Time) ([]PropertyRating, error) {
	var rows []PropertyRating
	q := `
SELECT c.property_id AS property_id,
       p.name        AS property_name,
       AVG(c.rating) AS avg_rating,
       COUNT(1)      AS reviewed
FROM checklists c
JOIN properties p ON p.id = c.property_id
WHERE c.status = 'reviewed'
  AND c.scheduled_at >= ? AND c.scheduled_at < ?
GROUP BY c.property_id, p.name
ORDER BY avg_rating DESC
`
	tx := r.db.WithContext(ctx).Raw(q, from, to).Scan(&rows)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return rows, nil
}

func (r *DashboardRepository) HousekeeperLoads(ctx context.Context, day time.Time) ([]HousekeeperLoad, error) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	end := start.Add(24 * time.Hour)

	var rows []HousekeeperLoad
	q := `
SELECT c.housekeeper_id AS housekeeper_id,
       u.name           AS housekeeper_name,
       COUNT(1)         AS scheduled,
       SUM(CASE WHEN c.status IN ('completed', 'reviewed') THEN 1 ELSE 0 END) AS completed
FROM checklists c
JOIN users u ON u.id = c.housekeeper_id
WHERE c.scheduled_at >= ? AND c.scheduled_at < ?
GROUP BY c.housekeeper_id, u.name
ORDER BY u.name
`
	tx := r.db.WithContext(ctx).Raw(q, start, end).Scan(&rows)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return rows, nil
}
