package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/dmarchuk/auth-service/internal/models"
)

func (r *GormRepo) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := r.DB.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// CreateUser is a single insert. The existence check happens in the
// auth service before the insert; the two are not one transaction, so
// two concurrent registrations of the same username can race. The
// unique constraint on username still rejects the loser.
func (r *GormRepo) CreateUser(ctx context.Context, u *models.User) error {
	return r.DB.WithContext(ctx).Create(u).Error
}

// ListUsers returns users in insertion (id) order.
func (r *GormRepo) ListUsers(ctx context.Context, offset, limit int) ([]models.User, error) {
	var users []models.User
	err := r.DB.WithContext(ctx).
		Order("id").
		Offset(offset).
		Limit(limit).
		Find(&users).Error
	return users, err
}
