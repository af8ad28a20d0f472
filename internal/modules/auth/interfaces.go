package auth

import (
	"context"

	"cleanops/internal/domain"

	"gorm.io/gorm"
)

// UserRepository is the persistence surface the auth service needs. DB exposes
// the raw handle for lockout counters and refresh token rotation, which use
// guarded updates and transactions the domain-level CRUD cannot express.
type UserRepository interface {
	Create(ctx context.Context, u *domain.User) error
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Update(ctx context.Context, u *domain.User) error
	ListByRole(ctx context.Context, role domain.Role) ([]domain.User, error)
	DB() *gorm.DB
}
