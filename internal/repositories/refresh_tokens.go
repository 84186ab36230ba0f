package repositories

import (
	"context"
	"time"

	"gorm.io/gorm"

	"telehealth-app-server/internal/models"
)

// RefreshTokenRepository stores issued refresh tokens so they can be rotated
// and revoked.
type RefreshTokenRepository interface {
	Create(ctx context.Context, token *models.RefreshToken) error
	FindActive(ctx context.Context, userID, token string, now time.Time) (*models.RefreshToken, error)
	Revoke(ctx context.Context, id string) error
	RevokeToken(ctx context.Context, userID, token string) error
	// Purge deletes tokens that expired or were revoked before now and
	// returns how many rows were removed.
	Purge(ctx context.Context, now time.Time) (int64, error)
}

type refreshTokenRepository struct {
	db *gorm.DB
}

// NewRefreshTokenRepository returns a gorm backed RefreshTokenRepository.
func NewRefreshTokenRepository(db *gorm.DB) RefreshTokenRepository {
	return &refreshTokenRepository{db: db}
}

func (r *refreshTokenRepository) Create(ctx context.Context, token *models.RefreshToken) error {
	return r.db.WithContext(ctx).Create(token).Error
}

func (r *refreshTokenRepository) FindActive(ctx context.Context, userID, token string, now time.Time) (*models.RefreshToken, error) {
	var stored models.RefreshToken
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND token = ? AND is_revoked = ? AND expires_at > ?", userID, token, false, now).
		First(&stored).Error
	if err != nil {
		return nil, err
	}
	return &stored, nil
}

func (r *refreshTokenRepository) Revoke(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Model(&models.RefreshToken{}).
		Where("id = ?", id).
		Update("is_revoked", true).Error
}

func (r *refreshTokenRepository) RevokeToken(ctx context.Context, userID, token string) error {
	return r.db.WithContext(ctx).
		Model(&models.RefreshToken{}).
		Where("user_id = ? AND token = ?", userID, token).
		Update("is_revoked", true).Error
}

func (r *refreshTokenRepository) Purge(ctx context.Context, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("expires_at <= ? OR is_revoked = ?", now, true).
		Delete(&models.RefreshToken{})
	return result.RowsAffected, result.Error
}
