package cmd

import (
	"fmt"
	"net/http"

	"marketplace/api"
	"marketplace/api/health"
	apinotification "marketplace/api/notification"
	apiorder "marketplace/api/order"
	apipayout "marketplace/api/payout"
	apiproduct "marketplace/api/product"
	apirealtime "marketplace/api/realtime"
	apireview "marketplace/api/review"
	apiuser "marketplace/api/user"
	notificationapp "marketplace/application/notification"
	orderapp "marketplace/application/order"
	payoutapp "marketplace/application/payout"
	productapp "marketplace/application/product"
	reviewapp "marketplace/application/review"
	userapp "marketplace/application/user"
	"marketplace/config"
	"marketplace/domain/notification"
	orderdomain "marketplace/domain/order"
	"marketplace/domain/shared"
	"marketplace/infrastructure/events"
	"marketplace/infrastructure/realtime"
	"marketplace/pkg/logger"
	"marketplace/pkg/metrics"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// AppBuilder builds an App from configuration
type AppBuilder struct {
	cfg        *config.Config
	initLogger bool
	metrics    *metrics.ServerMetrics
}

// NewBuilder creates a new AppBuilder
func NewBuilder(cfg *config.Config) *AppBuilder {
	return &AppBuilder{cfg: cfg, initLogger: true}
}

// SkipLoggerInit keeps the current global logger. Tests install their own.
func (b *AppBuilder) SkipLoggerInit() *AppBuilder {
	b.initLogger = false
	return b
}

// WithMetrics uses m instead of a fresh registry.
func (b *AppBuilder) WithMetrics(m *metrics.ServerMetrics) *AppBuilder {
	b.metrics = m
	return b
}

// Build wires storage, services, subscribers and controllers into an App.
func (b *AppBuilder) Build() (*App, error) {
	if b.initLogger {
		if err := logger.Init(&b.cfg.Log, b.cfg.App.Env); err != nil {
			return nil, fmt.Errorf("failed to initialize logger: %w", err)
		}
	}

	logger.Info("Starting application",
		zap.String("app", b.cfg.App.Name),
		zap.String("version", b.cfg.App.Version),
		zap.String("env", b.cfg.App.Env),
		zap.String("storage", b.cfg.Database.Type))

	m := b.metrics
	if m == nil && b.cfg.Metrics.Enabled {
		m = metrics.NewServerMetrics("api")
	}

	bus := shared.NewEventBus()
	repos, err := newRepositories(b.cfg, events.NewDispatcher(bus))
	if err != nil {
		return nil, err
	}

	var hub *realtime.Hub
	var pusher notification.Pusher
	var presence health.Presence
	if b.cfg.Realtime.Enabled {
		hub = realtime.NewHub(realtime.NewMemoryRegistry(), realtime.HubOptions{
			Config:         b.cfg.Realtime,
			Metrics:        m,
			AllowedOrigins: b.cfg.CORS.AllowOrigins,
		})
		pusher = hub
		presence = hub
	}

	policy := orderdomain.PolicyFor(b.cfg.Order.StrictTransitions)

	userService := userapp.NewApplicationService(repos.users, repos.uowFactory)
	productService := productapp.NewApplicationService(repos.products, repos.categories, repos.users, repos.uowFactory)
	orderService := orderapp.NewApplicationService(repos.orders, repos.products, repos.users, repos.uowFactory, policy)
	payoutService := payoutapp.NewApplicationService(
		repos.orders,
		repos.users,
		repos.payouts,
		repos.uowFactory,
		decimal.NewFromFloat(b.cfg.Payout.CommissionRate),
		b.cfg.Payout.Currency,
	)
	reviewService := reviewapp.NewApplicationService(
		repos.reviews,
		repos.products,
		orderdomain.NewDomainService(repos.orders),
		repos.uowFactory,
	)
	notificationService := notificationapp.NewApplicationService(repos.notifications, pusher)

	if err := reviewapp.NewRatingRecalculator(reviewService).Subscribe(bus); err != nil {
		return nil, fmt.Errorf("failed to subscribe rating recalculator: %w", err)
	}
	if err := notificationapp.NewSubscribers(notificationService, repos.products, b.cfg.Payout.PayoutsLink).Register(bus); err != nil {
		return nil, fmt.Errorf("failed to subscribe notifications: %w", err)
	}

	controllers := api.Controllers{
		Health:       health.NewController(b.cfg, repos.pinger, presence),
		User:         apiuser.NewController(userService),
		Product:      apiproduct.NewController(productService),
		Order:        apiorder.NewController(orderService),
		Payout:       apipayout.NewController(payoutService),
		Review:       apireview.NewController(reviewService),
		Notification: apinotification.NewController(notificationService),
	}
	if hub != nil {
		controllers.Realtime = apirealtime.NewController(hub)
	}

	router := api.NewRouter(b.cfg, controllers, m)
	router.SetupRoutes()

	server := &http.Server{
		Addr:         ":" + b.cfg.Server.Port,
		Handler:      router.GetEngine(),
		ReadTimeout:  b.cfg.Server.ReadTimeout,
		WriteTimeout: b.cfg.Server.WriteTimeout,
	}

	return &App{
		config:  b.cfg,
		router:  router,
		server:  server,
		hub:     hub,
		closeDB: repos.close,
	}, nil
}
