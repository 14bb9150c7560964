package repository

import (
	"time"

	"fulfillmentpro-push/internal/push/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PushTokenRepository defines the interface for push token operations
type PushTokenRepository interface {
	SaveToken(token, deviceLabel string) error
	ListTokens() ([]domain.PushToken, error)
	DeleteToken(token string) error
	DeleteTokens(tokens []string) error
	// DeleteTokensOlderThan removes tokens not refreshed since cutoff and
	// reports how many were removed
	DeleteTokensOlderThan(cutoff time.Time) (int64, error)
}

type pushTokenRepository struct {
	db *gorm.DB
}

func NewPushTokenRepository(db *gorm.DB) PushTokenRepository {
	return &pushTokenRepository{db: db}
}

// SaveToken inserts the token or refreshes its label (atomic upsert)
func (r *pushTokenRepository) SaveToken(token, deviceLabel string) error {
	now := time.Now()
	pushToken := &domain.PushToken{
		ID:          uuid.New().String(),
		Token:       token,
		DeviceLabel: deviceLabel,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	// INSERT ... ON CONFLICT (token) DO UPDATE
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "token"}},
		DoUpdates: clause.AssignmentColumns([]string{"device_label", "updated_at"}),
	}).Create(pushToken).Error
}

func (r *pushTokenRepository) ListTokens() ([]domain.PushToken, error) {
	var tokens []domain.PushToken
	if err := r.db.Order("created_at ASC").Find(&tokens).Error; err != nil {
		return nil, err
	}
	return tokens, nil
}

func (r *pushTokenRepository) DeleteToken(token string) error {
	return r.db.Where("token = ?", token).Delete(&domain.PushToken{}).Error
}

func (r *pushTokenRepository) DeleteTokens(tokens []string) error {
	if len(tokens) == 0 {
		return nil
	}
	return r.db.Where("token IN ?", tokens).Delete(&domain.PushToken{}).Error
}

func (r *pushTokenRepository) DeleteTokensOlderThan(cutoff time.Time) (int64, error) {
	res := r.db.Where("updated_at < ?", cutoff).Delete(&domain.PushToken{})
	return res.RowsAffected, res.Error
}
