package repository

import (
	"errors"
	"time"
)

// ErrStaleAggregate is returned when a guarded update matched no rows because
// the row's state changed between read and write.
var ErrStaleAggregate = errors.New("aggregate state changed concurrently")

// refreshTokenModel exists here only for schema migration. The auth module
// owns the reads and writes against this table.
type refreshTokenModel struct {
	ID              int64      `gorm:"column:id;primaryKey"`
	UserID          int64      `gorm:"column:user_id;index"`
	TokenHash       string     `gorm:"column:token_hash;uniqueIndex"`
	JTI             string     `gorm:"column:jti"`
	FamilyID        string     `gorm:"column:family_id;index"`
	RotatedFrom     *int64     `gorm:"column:rotated_from"`
	ExpiresAt       time.Time  `gorm:"column:expires_at"`
	UsedAt          *time.Time `gorm:"column:used_at"`
	RevokedAt       *time.Time `gorm:"column:revoked_at"`
	ReuseDetectedAt *time.Time `gorm:"column:reuse_detected_at"`
	UserAgent       *string    `gorm:"column:user_agent"`
	IP              *string    `gorm:"column:ip"`
	CreatedAt       time.Time  `gorm:"column:created_at"`
}

func (refreshTokenModel) TableName() string { return "refresh_tokens" }

// AllModels lists every row model for schema migration.
func AllModels() []interface{} {
	return []interface{}{
		&userModel{},
		&refreshTokenModel{},
		&propertyModel{},
		&roomModel{},
		&propertyRoomModel{},
		&taskModel{},
		&roomTaskModel{},
		&checklistModel{},
		&checklistItemModel{},
		&checklistPhotoModel{},
	}
}
