package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/onsiteclub/account-service/internal/domain/model"
	"github.com/onsiteclub/account-service/internal/domain/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type subscriptionRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewSubscriptionRepository creates a new subscription repository
func NewSubscriptionRepository(db *gorm.DB, logger *zap.Logger) repository.SubscriptionRepository {
	return &subscriptionRepository{
		db:     db,
		logger: logger,
	}
}

// GetByUserAndApp returns the subscription snapshot for one gating
// decision. A missing row is not an error: it means the user never
// subscribed to the app, which gates the same way as status "none".
func (r *subscriptionRepository) GetByUserAndApp(ctx context.Context, userID uuid.UUID, app string) (*model.Subscription, error) {
	var subscription model.Subscription
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND app = ?", userID, app).
		First(&subscription).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Error("Failed to query subscription",
			zap.String("user_id", userID.String()),
			zap.String("app", app),
			zap.Error(err))
		return nil, fmt.Errorf("failed to query subscription: %w", err)
	}
	return &subscription, nil
}
