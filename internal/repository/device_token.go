package repository

import (
	"context"

	"github.com/carerota/backend/internal/entity"
	"github.com/carerota/backend/pkg/xcontext"
	"gorm.io/gorm/clause"
)

type DeviceTokenRepository interface {
	Upsert(ctx context.Context, token *entity.DeviceToken) error
	Delete(ctx context.Context, userID, deviceIdentifier string) error
	GetByUserID(ctx context.Context, userID string) ([]entity.DeviceToken, error)
	TokensByUserID(ctx context.Context, userID string) ([]string, error)
}

type deviceTokenRepository struct{}

func NewDeviceTokenRepository() *deviceTokenRepository {
	return &deviceTokenRepository{}
}

// Upsert replaces the token of an already-registered device. Identity is the
// (user, device identifier) pair, not the token value.
func (r *deviceTokenRepository) Upsert(ctx context.Context, token *entity.DeviceToken) error {
	return xcontext.DB(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "device_identifier"}},
		DoUpdates: clause.Assignments(map[string]any{
			"token":       token.Token,
			"device_type": token.DeviceType,
		}),
	}).Create(token).Error
}

func (r *deviceTokenRepository) Delete(ctx context.Context, userID, deviceIdentifier string) error {
	return xcontext.DB(ctx).
		Where("user_id=? AND device_identifier=?", userID, deviceIdentifier).
		Delete(&entity.DeviceToken{}).Error
}

func (r *deviceTokenRepository) GetByUserID(ctx context.Context, userID string) ([]entity.DeviceToken, error) {
	var result []entity.DeviceToken
	if err := xcontext.DB(ctx).Where("user_id=?", userID).Find(&result).Error; err != nil {
		return nil, err
	}

	return result, nil
}

func (r *deviceTokenRepository) TokensByUserID(ctx context.Context, userID string) ([]string, error) {
	tokens, err := r.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	result := make([]string, 0, len(tokens))
	for _, t := range tokens {
		result = append(result, t.Token)
	}

	return result, nil
}
