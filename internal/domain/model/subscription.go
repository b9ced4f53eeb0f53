package model

import (
	"database/sql/driver"
	"time"

	"github.com/google/uuid"
)

// SubscriptionStatus represents the status of a subscription as written by
// the billing subsystem's webhook processor.
type SubscriptionStatus string

const (
	SubscriptionStatusActive   SubscriptionStatus = "active"
	SubscriptionStatusTrialing SubscriptionStatus = "trialing"
	SubscriptionStatusCanceled SubscriptionStatus = "canceled"
	SubscriptionStatusPastDue  SubscriptionStatus = "past_due"
	SubscriptionStatusNone     SubscriptionStatus = "none"
)

// Scan implements sql.Scanner interface
func (s *SubscriptionStatus) Scan(src interface{}) error {
	switch v := src.(type) {
	case string:
		*s = SubscriptionStatus(v)
	case []byte:
		*s = SubscriptionStatus(v)
	default:
		*s = SubscriptionStatusNone
	}
	return nil
}

// Value implements driver.Valuer interface
func (s SubscriptionStatus) Value() (driver.Value, error) {
	return string(s), nil
}

// Entitled reports whether the status grants access to the app. An
// entitled subscription short-circuits new checkout creation.
func (s SubscriptionStatus) Entitled() bool {
	return s == SubscriptionStatusActive || s == SubscriptionStatusTrialing
}

// Subscription is one row of the billing-owned subscriptions table, keyed
// by (user_id, app). This service only reads it; the billing subsystem's
// webhook processor is the sole writer.
type Subscription struct {
	ID                   int64              `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID               uuid.UUID          `gorm:"type:uuid;not null;index:idx_subscriptions_user_app" json:"user_id"`
	App                  string             `gorm:"not null;size:50;index:idx_subscriptions_user_app" json:"app"`
	StripeCustomerID     string             `gorm:"size:100" json:"stripe_customer_id"`
	StripeSubscriptionID *string            `gorm:"unique;size:100" json:"stripe_subscription_id,omitempty"`
	Status               SubscriptionStatus `gorm:"type:subscription_status;not null;default:'none'" json:"status"`
	CurrentPeriodEnd     *time.Time         `json:"current_period_end,omitempty"`
	CreatedAt            time.Time          `gorm:"default:now()" json:"created_at"`
	UpdatedAt            time.Time          `gorm:"default:now()" json:"updated_at"`
}

// TableName specifies the table name for GORM
func (Subscription) TableName() string {
	return "subscriptions"
}
