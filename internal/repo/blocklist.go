package repo

import (
	"context"
	"time"

	"github.com/dmarchuk/auth-service/internal/models"
)

// AddRevoked is idempotent: revoking an already revoked jti succeeds.
func (r *GormRepo) AddRevoked(ctx context.Context, jti string) error {
	revoked := models.RevokedToken{JTI: jti, RevokedAt: time.Now().UTC()}
	return r.DB.WithContext(ctx).
		Where("jti = ?", jti).
		FirstOrCreate(&revoked).Error
}

func (r *GormRepo) IsRevoked(ctx context.Context, jti string) (bool, error) {
	var count int64
	if err := r.DB.WithContext(ctx).Model(&models.RevokedToken{}).
		Where("jti = ?", jti).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// PurgeRevokedBefore drops blocklist rows older than cutoff. Safe once
// cutoff trails the refresh lifetime: any token carrying such a jti has
// already expired on its own.
func (r *GormRepo) PurgeRevokedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.DB.WithContext(ctx).
		Where("revoked_at < ?", cutoff).
		Delete(&models.RevokedToken{})
	return result.RowsAffected, result.Error
}
