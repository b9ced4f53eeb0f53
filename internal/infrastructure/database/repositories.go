package database

import (
	"github.com/onsiteclub/account-service/internal/adapter/repository"
	domainRepo "github.com/onsiteclub/account-service/internal/domain/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Repositories holds all repository instances
type Repositories struct {
	Subscription domainRepo.SubscriptionRepository
}

// NewRepositories creates new repository instances with database connection
func NewRepositories(db *gorm.DB, logger *zap.Logger) *Repositories {
	return &Repositories{
		Subscription: repository.NewSubscriptionRepository(db, logger),
	}
}
