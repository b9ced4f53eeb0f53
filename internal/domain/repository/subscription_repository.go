package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/onsiteclub/account-service/internal/domain/model"
)

// SubscriptionRepository reads the billing-owned subscriptions table. The
// returned record is a snapshot valid only for one gating decision; it is
// never locked or re-read across the subsequent checkout call.
type SubscriptionRepository interface {
	// GetByUserAndApp returns the subscription row for the given pair, or
	// (nil, nil) when the user never subscribed to the app.
	GetByUserAndApp(ctx context.Context, userID uuid.UUID, app string) (*model.Subscription, error)
}
