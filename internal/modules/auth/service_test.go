package auth

import (
	"context"
	"testing"
	"time"

	"cleanops/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type mockUserRepo struct {
	mock.Mock
}

func (m *mockUserRepo) Create(ctx context.Context, u *domain.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *mockUserRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *mockUserRepo) Update(ctx context.Context, u *domain.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *mockUserRepo) ListByRole(ctx context.Context, role domain.Role) ([]domain.User, error) {
	args := m.Called(ctx, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.User), args.Error(1)
}

func (m *mockUserRepo) DB() *gorm.DB {
	// Dummy handle; tests only cover paths that never touch it.
	return &gorm.DB{}
}

type mockJWT struct {
	mock.Mock
}

func (m *mockJWT) GenerateToken(userID int64, role string) (string, error) {
	args := m.Called(userID, role)
	return args.String(0), args.Error(1)
}

func hashOf(t *testing.T, password string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(h)
}

func TestCreateUser_NormalizesEmail(t *testing.T) {
	repo := new(mockUserRepo)
	svc := NewService(repo, new(mockJWT), "pepper", time.Hour)
	ctx := context.Background()

	repo.On("ExistsByEmail", ctx, "aigerim@cleanops.local").Return(false, nil)
	repo.On("Create", ctx, mock.AnythingOfType("*domain.User")).Return(nil)

	user, err := svc.CreateUser(ctx, CreateUserRequest{
		Name:     "Aigerim",
		Email:    "  Aigerim@CleanOps.LOCAL ",
		Password: "password123",
		Role:     "housekeeper",
	})
	require.NoError(t, err)
	assert.Equal(t, "aigerim@cleanops.local", user.Email)
	assert.Equal(t, domain.RoleHousekeeper, user.Role)
	assert.True(t, user.IsActive)
	assert.Empty(t, user.PasswordHash)
}

func TestCreateUser_DuplicateEmail(t *testing.T) {
	repo := new(mockUserRepo)
	svc := NewService(repo, new(mockJWT), "pepper", time.Hour)
	ctx := context.Background()

	repo.On("ExistsByEmail", ctx, "taken@cleanops.local").Return(true, nil)

	_, err := svc.CreateUser(ctx, CreateUserRequest{
		Name:     "Dup",
		Email:    "taken@cleanops.local",
		Password: "password123",
		Role:     "manager",
	})
	assert.ErrorIs(t, err, ErrEmailAlreadyExists)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestLogin_UnknownEmail(t *testing.T) {
	repo := new(mockUserRepo)
	svc := NewService(repo, new(mockJWT), "pepper", time.Hour)
	ctx := context.Background()

	repo.On("GetByEmail", ctx, "ghost@cleanops.local").Return(nil, gorm.ErrRecordNotFound)

	_, err := svc.Login(ctx, LoginRequest{Email: "ghost@cleanops.local", Password: "whatever"}, "", "")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_DisabledAccount(t *testing.T) {
	repo := new(mockUserRepo)
	svc := NewService(repo, new(mockJWT), "pepper", time.Hour)
	ctx := context.Background()

	repo.On("GetByEmail", ctx, "off@cleanops.local").Return(&domain.User{
		ID:           1,
		Email:        "off@cleanops.local",
		PasswordHash: hashOf(t, "password123"),
		IsActive:     false,
	}, nil)

	_, err := svc.Login(ctx, LoginRequest{Email: "off@cleanops.local", Password: "password123"}, "", "")
	assert.ErrorIs(t, err, ErrAccountDisabled)
}

func TestLogin_LockedAccount(t *testing.T) {
	repo := new(mockUserRepo)
	svc := NewService(repo, new(mockJWT), "pepper", time.Hour)
	ctx := context.Background()

	lockedUntil := time.Now().Add(10 * time.Minute)
	repo.On("GetByEmail", ctx, "locked@cleanops.local").Return(&domain.User{
		ID:           1,
		Email:        "locked@cleanops.local",
		PasswordHash: hashOf(t, "password123"),
		IsActive:     true,
		LockedUntil:  &lockedUntil,
	}, nil)

	_, err := svc.Login(ctx, LoginRequest{Email: "locked@cleanops.local", Password: "password123"}, "", "")
	assert.ErrorIs(t, err, ErrAccountLocked)
}

func TestChangePassword_WrongCurrent(t *testing.T) {
	repo := new(mockUserRepo)
	svc := NewService(repo, new(mockJWT), "pepper", time.Hour)
	ctx := context.Background()

	repo.On("GetByID", ctx, int64(1)).Return(&domain.User{
		ID:           1,
		PasswordHash: hashOf(t, "correct-password"),
	}, nil)

	err := svc.ChangePassword(ctx, 1, ChangePasswordRequest{
		CurrentPassword: "wrong-password",
		NewPassword:     "new-password-1",
	})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestUpdateProfile_PartialFields(t *testing.T) {
	repo := new(mockUserRepo)
	svc := NewService(repo, new(mockJWT), "pepper", time.Hour)
	ctx := context.Background()

	repo.On("GetByID", ctx, int64(1)).Return(&domain.User{
		ID: 1, Name: "Old Name", Phone: "+7700",
	}, nil)
	repo.On("Update", ctx, mock.AnythingOfType("*domain.User")).Return(nil)

	user, err := svc.UpdateProfile(ctx, 1, UpdateProfileRequest{Name: "New Name"})
	require.NoError(t, err)
	assert.Equal(t, "New Name", user.Name)
	assert.Equal(t, "+7700", user.Phone)
}

func TestListByRole_StripsPasswordHashes(t *testing.T) {
	repo := new(mockUserRepo)
	svc := NewService(repo, new(mockJWT), "pepper", time.Hour)
	ctx := context.Background()

	repo.On("ListByRole", ctx, domain.RoleHousekeeper).Return([]domain.User{
		{ID: 1, PasswordHash: "secret1", Role: domain.RoleHousekeeper},
		{ID: 2, PasswordHash: "secret2", Role: domain.RoleHousekeeper},
	}, nil)

	users, err := svc.ListByRole(ctx, domain.RoleHousekeeper)
	require.NoError(t, err)
	for _, u := range users {
		assert.Empty(t, u.PasswordHash)
	}
}
