package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"hotelpms/internal/domain"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, u *domain.User) error {
	u.Email = normalizeEmail(u.Email)
	return r.db.WithContext(ctx).Create(u).Error
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var u domain.User
	if err := r.db.WithContext(ctx).Where("email = ?", normalizeEmail(email)).First(&u).Error; err != nil {
		return nil, mapNotFound(err, "user", nil)
	}
	return &u, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	var u domain.User
	if err := r.db.WithContext(ctx).First(&u, id).Error; err != nil {
		return nil, mapNotFound(err, "user", id)
	}
	return &u, nil
}

func (r *UserRepository) List(ctx context.Context) ([]domain.User, error) {
	var users []domain.User
	err := r.db.WithContext(ctx).Order("id").Find(&users).Error
	return users, err
}

func (r *UserRepository) UpdatePermissions(ctx context.Context, u *domain.User) error {
	return r.db.WithContext(ctx).Model(u).
		Select("role", "is_active", "can_manage_rooms", "can_manage_bookings", "can_record_payments",
			"can_manage_food", "can_view_reports", "can_manage_staff").
		Updates(u).Error
}

// UpdateLoginState persists the lockout counters after a login attempt.
func (r *UserRepository) UpdateLoginState(ctx context.Context, u *domain.User) error {
	return r.db.WithContext(ctx).Model(u).
		Select("failed_login_attempts", "locked_until").
		Updates(u).Error
}

func (r *UserRepository) SetPassword(ctx context.Context, id int64, hash string) error {
	return r.db.WithContext(ctx).Model(&domain.User{}).Where("id = ?", id).Update("password_hash", hash).Error
}

func (r *UserRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.User{}).Count(&n).Error
	return n, err
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
