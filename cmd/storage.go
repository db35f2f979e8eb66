package cmd

import (
	"fmt"

	"marketplace/api/health"
	"marketplace/config"
	"marketplace/domain/notification"
	"marketplace/domain/order"
	"marketplace/domain/payout"
	"marketplace/domain/product"
	"marketplace/domain/review"
	"marketplace/domain/shared"
	"marketplace/domain/user"
	"marketplace/infrastructure/events"
	"marketplace/infrastructure/persistence/memory"
	"marketplace/infrastructure/persistence/mysql"
	"marketplace/infrastructure/persistence/retry"
	"marketplace/pkg/logger"

	"go.uber.org/zap"
)

// repositories is one storage backend's set of repositories and its unit of work factory.
type repositories struct {
	users         user.Repository
	products      product.Repository
	categories    product.CategoryRepository
	orders        order.Repository
	payouts       payout.Repository
	reviews       review.Repository
	notifications notification.Repository
	uowFactory    shared.UnitOfWorkFactory

	// pinger is nil for the in-memory store.
	pinger health.Pinger
	close  func() error
}

func newRepositories(cfg *config.Config, dispatcher *events.Dispatcher) (*repositories, error) {
	retryCfg := retry.FromAppConfig(cfg)
	switch cfg.Database.Type {
	case "mysql":
		return newMySQLRepositories(cfg, dispatcher, retryCfg)
	default:
		return newMemoryRepositories(dispatcher, retryCfg), nil
	}
}

func newMemoryRepositories(dispatcher *events.Dispatcher, retryCfg retry.Config) *repositories {
	logger.Info("Using in-memory persistence layer")
	store := memory.NewStore()
	return &repositories{
		users:         memory.NewUserRepository(store),
		products:      memory.NewProductRepository(store),
		categories:    memory.NewCategoryRepository(store),
		orders:        memory.NewOrderRepository(store),
		payouts:       memory.NewPayoutRepository(store),
		reviews:       memory.NewReviewRepository(store),
		notifications: memory.NewNotificationRepository(store),
		uowFactory:    memory.NewUnitOfWorkFactory(store, dispatcher, retryCfg),
		close:         func() error { return nil },
	}
}

func newMySQLRepositories(cfg *config.Config, dispatcher *events.Dispatcher, retryCfg retry.Config) (*repositories, error) {
	logger.Info("Using MySQL/GORM persistence layer",
		zap.String("host", cfg.Database.Host),
		zap.String("database", cfg.Database.Database))

	db, err := NewMySQLConfig(cfg).Connect()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MySQL: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	if cfg.Database.AutoMigrate || cfg.IsDevelopment() {
		if err := mysql.AutoMigrate(db); err != nil {
			_ = sqlDB.Close()
			return nil, err
		}
	}
	logger.Info("Connected to MySQL successfully")

	return &repositories{
		users:         mysql.NewUserRepository(db),
		products:      mysql.NewProductRepository(db),
		categories:    mysql.NewCategoryRepository(db),
		orders:        mysql.NewOrderRepository(db),
		payouts:       mysql.NewPayoutRepository(db),
		reviews:       mysql.NewReviewRepository(db),
		notifications: mysql.NewNotificationRepository(db),
		uowFactory:    mysql.NewUnitOfWorkFactory(db, dispatcher, retryCfg),
		pinger:        mysql.NewPinger(db),
		close:         sqlDB.Close,
	}, nil
}
