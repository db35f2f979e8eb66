package cmd

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"marketplace/api/middleware"
	notificationapp "marketplace/application/notification"
	orderapp "marketplace/application/order"
	payoutapp "marketplace/application/payout"
	productapp "marketplace/application/product"
	reviewapp "marketplace/application/review"
	userapp "marketplace/application/user"
	"marketplace/config"
	"marketplace/domain/shared"
	"marketplace/pkg/logger"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
	Message string          `json:"message"`
	Errors  []struct {
		Field   string `json:"field"`
		Message string `json:"message"`
	} `json:"errors"`
	Code      int    `json:"code"`
	RequestID string `json:"request_id"`
}

type caller struct {
	id    string
	roles string
}

func testConfig() *config.Config {
	return &config.Config{
		App:      config.AppConfig{Name: "marketplace", Version: "test", Env: "test"},
		Database: config.DatabaseConfig{Type: "memory"},
		CORS: config.CORSConfig{
			AllowOrigins: []string{"*"},
			AllowMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE"},
			AllowHeaders: []string{"Content-Type", middleware.UserIDHeader, middleware.UserRolesHeader},
		},
		Payout:   config.PayoutConfig{CommissionRate: 0.15, Currency: "INR", PayoutsLink: "/artisan/payouts"},
		Realtime: config.RealtimeConfig{Enabled: true},
		Metrics:  config.MetricsConfig{Enabled: true, Path: "/metrics"},
	}
}

func newTestApp(t *testing.T) http.Handler {
	t.Helper()
	t.Cleanup(logger.Replace(zap.NewNop()))

	app, err := NewBuilder(testConfig()).SkipLoggerInit().Build()
	require.NoError(t, err)
	t.Cleanup(app.release)
	return app.Handler()
}

func do(t *testing.T, h http.Handler, method, path string, who *caller, body any) (int, envelope) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if who != nil {
		req.Header.Set(middleware.UserIDHeader, who.id)
		req.Header.Set(middleware.UserRolesHeader, who.roles)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var env envelope
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	}
	return rec.Code, env
}

func decode[T any](t *testing.T, env envelope) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(env.Data, &out), string(env.Data))
	return out
}

func TestAuthentication(t *testing.T) {
	h := newTestApp(t)

	t.Run("missing identity is rejected", func(t *testing.T) {
		code, env := do(t, h, http.MethodGet, "/api/v1/orders/mine", nil, nil)
		assert.Equal(t, http.StatusUnauthorized, code)
		assert.False(t, env.Success)
		assert.Equal(t, "UNAUTHORIZED", env.Error)
		assert.NotEmpty(t, env.RequestID)
	})

	t.Run("malformed user id is rejected", func(t *testing.T) {
		code, _ := do(t, h, http.MethodGet, "/api/v1/orders/mine", &caller{id: "not-a-uuid"}, nil)
		assert.Equal(t, http.StatusUnauthorized, code)
	})

	t.Run("unknown role is rejected", func(t *testing.T) {
		code, _ := do(t, h, http.MethodGet, "/api/v1/orders/mine", &caller{id: shared.NewID(), roles: "wizard"}, nil)
		assert.Equal(t, http.StatusUnauthorized, code)
	})

	t.Run("missing role is forbidden", func(t *testing.T) {
		code, env := do(t, h, http.MethodGet, "/api/v1/payouts/summary", &caller{id: shared.NewID(), roles: "customer"}, nil)
		assert.Equal(t, http.StatusForbidden, code)
		assert.Equal(t, "FORBIDDEN", env.Error)
	})

	t.Run("websocket endpoint requires identity", func(t *testing.T) {
		code, _ := do(t, h, http.MethodGet, "/ws", nil, nil)
		assert.Equal(t, http.StatusUnauthorized, code)
	})
}

func TestBindErrorsListFields(t *testing.T) {
	h := newTestApp(t)
	customer := &caller{id: shared.NewID(), roles: "customer"}

	code, env := do(t, h, http.MethodPost, "/api/v1/orders", customer, map[string]any{"items": []any{}})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "VALIDATION_ERROR", env.Error)

	fields := make([]string, 0, len(env.Errors))
	for _, fe := range env.Errors {
		fields = append(fields, fe.Field)
	}
	assert.Contains(t, fields, "items")
	assert.Contains(t, fields, "shippingAddress")
}

func TestPublicCatalogNeedsNoIdentity(t *testing.T) {
	h := newTestApp(t)

	code, env := do(t, h, http.MethodGet, "/api/v1/products", nil, nil)
	assert.Equal(t, http.StatusOK, code)
	assert.True(t, env.Success)

	code, _ = do(t, h, http.MethodGet, "/api/v1/categories", nil, nil)
	assert.Equal(t, http.StatusOK, code)

	code, _ = do(t, h, http.MethodGet, "/api/v1/health", nil, nil)
	assert.Equal(t, http.StatusOK, code)
}

func TestStatusUpdateBody(t *testing.T) {
	h := newTestApp(t)
	customer := &caller{id: shared.NewID(), roles: "customer"}
	artisan := &caller{id: shared.NewID(), roles: "customer,artisan"}

	code, _ := do(t, h, http.MethodPost, "/api/v1/users", customer, userapp.RegisterRequest{Name: "Kabir", Email: "kabir@example.com"})
	require.Equal(t, http.StatusCreated, code)
	code, _ = do(t, h, http.MethodPost, "/api/v1/users", artisan, userapp.RegisterRequest{Name: "Meera", Email: "meera@example.com"})
	require.Equal(t, http.StatusCreated, code)
	code, _ = do(t, h, http.MethodPost, "/api/v1/users/me/artisan", artisan, nil)
	require.Equal(t, http.StatusOK, code)
	code, env := do(t, h, http.MethodPost, "/api/v1/products", artisan, map[string]any{"name": "Jute bag", "price": 120, "stock": 3})
	require.Equal(t, http.StatusCreated, code, env.Message)
	product := decode[productapp.ProductResponse](t, env)
	code, env = do(t, h, http.MethodPost, "/api/v1/orders", customer, orderapp.PlaceOrderRequest{
		Items:           []orderapp.PlaceOrderItem{{ProductID: product.ID, Quantity: 1}},
		ShippingAddress: "9 Market Lane",
	})
	require.Equal(t, http.StatusCreated, code, env.Message)
	path := "/api/v1/orders/" + decode[orderapp.OrderResponse](t, env).ID + "/status"

	t.Run("status must match exactly", func(t *testing.T) {
		for _, status := range []string{"SHIPPED", " shipped "} {
			code, env := do(t, h, http.MethodPut, path, artisan, map[string]any{"status": status})
			assert.Equal(t, http.StatusBadRequest, code, status)
			assert.Equal(t, "VALIDATION_ERROR", env.Error)
		}
	})

	code, env = do(t, h, http.MethodPut, path, artisan, map[string]any{
		"status":  "cancelled",
		"details": map[string]any{"reason": "customer request"},
	})
	require.Equal(t, http.StatusOK, code, env.Message)
	cancelled := decode[orderapp.OrderResponse](t, env)
	require.Len(t, cancelled.StatusHistory, 1)
	assert.Equal(t, "Reason: customer request", cancelled.StatusHistory[0].Details)
}

// TestMarketplaceFlow drives checkout, fulfilment, review and settlement through the HTTP surface.
func TestMarketplaceFlow(t *testing.T) {
	h := newTestApp(t)
	customer := &caller{id: shared.NewID(), roles: "customer"}
	artisan := &caller{id: shared.NewID(), roles: "customer,artisan"}
	admin := &caller{id: shared.NewID(), roles: "admin"}

	// profiles
	code, _ := do(t, h, http.MethodPost, "/api/v1/users", customer, userapp.RegisterRequest{Name: "Asha", Email: "asha@example.com"})
	require.Equal(t, http.StatusCreated, code)
	code, _ = do(t, h, http.MethodPost, "/api/v1/users", artisan, userapp.RegisterRequest{Name: "Ravi", Email: "ravi@example.com"})
	require.Equal(t, http.StatusCreated, code)
	code, _ = do(t, h, http.MethodPost, "/api/v1/users/me/artisan", artisan, nil)
	require.Equal(t, http.StatusOK, code)
	code, _ = do(t, h, http.MethodPut, "/api/v1/users/me/payout-info", artisan, userapp.PayoutInfoRequest{
		AccountHolderName: "Ravi Kumar",
		AccountNumber:     "001122334455",
		BankName:          "State Bank",
		IFSCCode:          "SBIN0001234",
	})
	require.Equal(t, http.StatusOK, code)

	// catalog
	code, env := do(t, h, http.MethodPost, "/api/v1/products", artisan, map[string]any{
		"name":  "Hand-thrown mug",
		"price": 250,
		"stock": 10,
	})
	require.Equal(t, http.StatusCreated, code, env.Message)
	product := decode[productapp.ProductResponse](t, env)

	// checkout
	code, env = do(t, h, http.MethodPost, "/api/v1/orders", customer, orderapp.PlaceOrderRequest{
		Items:           []orderapp.PlaceOrderItem{{ProductID: product.ID, Quantity: 2}},
		ShippingAddress: "4 Kiln Road",
	})
	require.Equal(t, http.StatusCreated, code, env.Message)
	placed := decode[orderapp.OrderResponse](t, env)
	assert.Equal(t, "paid", placed.Status)
	assert.Equal(t, "pending", placed.PayoutStatus)
	assert.True(t, decimal.NewFromInt(500).Equal(placed.TotalAmount))

	t.Run("strangers cannot see the order", func(t *testing.T) {
		stranger := &caller{id: shared.NewID(), roles: "customer"}
		code, env := do(t, h, http.MethodGet, "/api/v1/orders/"+placed.ID, stranger, nil)
		assert.Equal(t, http.StatusNotFound, code)
		assert.Equal(t, "NOT_FOUND", env.Error)
	})

	t.Run("review before delivery is refused", func(t *testing.T) {
		code, _ := do(t, h, http.MethodPost, "/api/v1/reviews/"+product.ID, customer, reviewapp.CreateReviewRequest{Rating: 5})
		assert.GreaterOrEqual(t, code, 400)
	})

	// fulfilment
	code, env = do(t, h, http.MethodPut, "/api/v1/orders/"+placed.ID+"/status", artisan, map[string]any{
		"status":  "shipped",
		"details": map[string]any{"carrier": "BlueDart", "trackingNumber": "BD123"},
	})
	require.Equal(t, http.StatusOK, code, env.Message)
	shipped := decode[orderapp.OrderResponse](t, env)
	assert.Equal(t, "Shipped via BlueDart, tracking number BD123", shipped.StatusHistory[0].Details)
	code, env = do(t, h, http.MethodPut, "/api/v1/orders/"+placed.ID+"/status", artisan, orderapp.UpdateStatusRequest{Status: "delivered"})
	require.Equal(t, http.StatusOK, code, env.Message)
	delivered := decode[orderapp.OrderResponse](t, env)
	require.Len(t, delivered.StatusHistory, 2)
	assert.Equal(t, "delivered", delivered.StatusHistory[0].Status)
	assert.Equal(t, "shipped", delivered.StatusHistory[1].Status)
	assert.Contains(t, delivered.StatusHistory[1].Details, "BD123")

	code, env = do(t, h, http.MethodGet, "/api/v1/orders/my-orders", artisan, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, decode[[]orderapp.OrderResponse](t, env), 1)

	// review recalculates the product rating after commit
	code, env = do(t, h, http.MethodPost, "/api/v1/reviews/"+product.ID, customer, reviewapp.CreateReviewRequest{Rating: 4, Comment: "Lovely glaze"})
	require.Equal(t, http.StatusCreated, code, env.Message)
	code, env = do(t, h, http.MethodGet, "/api/v1/products/"+product.ID, nil, nil)
	require.Equal(t, http.StatusOK, code)
	rated := decode[productapp.ProductResponse](t, env)
	assert.Equal(t, 1, rated.RatingsQuantity)
	assert.InDelta(t, 4.0, rated.RatingsAverage, 0.001)

	// settlement
	code, env = do(t, h, http.MethodGet, "/api/v1/payouts/summary", admin, nil)
	require.Equal(t, http.StatusOK, code)
	summary := decode[payoutapp.SummaryResponse](t, env)
	require.Len(t, summary.Rows, 1)
	row := summary.Rows[0]
	assert.Equal(t, artisan.id, row.ArtisanID)
	assert.True(t, decimal.NewFromInt(500).Equal(row.TotalSales))
	assert.True(t, decimal.NewFromInt(75).Equal(row.Commission))
	assert.True(t, decimal.NewFromInt(425).Equal(row.NetPayable))
	require.NotNil(t, row.PayoutInfo)

	record := payoutapp.RecordPayoutRequest{
		ArtisanID:            artisan.id,
		Amount:               row.NetPayable,
		OrderIDs:             row.OrderIDs,
		TransactionReference: "UTR-42",
	}
	code, env = do(t, h, http.MethodPost, "/api/v1/payouts/record", admin, record)
	require.Equal(t, http.StatusCreated, code, env.Message)

	code, env = do(t, h, http.MethodPost, "/api/v1/payouts/record", admin, record)
	assert.Equal(t, http.StatusConflict, code, env.Message)

	code, env = do(t, h, http.MethodGet, "/api/v1/payouts/summary", admin, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Empty(t, decode[payoutapp.SummaryResponse](t, env).Rows)

	code, env = do(t, h, http.MethodGet, "/api/v1/payouts/mine", artisan, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, decode[[]payoutapp.PayoutResponse](t, env), 1)

	code, env = do(t, h, http.MethodGet, "/api/v1/orders/"+placed.ID, customer, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "paid", decode[orderapp.OrderResponse](t, env).PayoutStatus)

	// notifications fanned out by the subscribers
	code, env = do(t, h, http.MethodGet, "/api/v1/notifications?role=artisan", artisan, nil)
	require.Equal(t, http.StatusOK, code)
	artisanInbox := decode[notificationapp.ListResponse](t, env)
	assert.Equal(t, 3, artisanInbox.UnreadCount)
	links := make([]string, 0, len(artisanInbox.Notifications))
	for _, n := range artisanInbox.Notifications {
		links = append(links, n.Link)
	}
	assert.Contains(t, links, "/artisan/orders")
	assert.Contains(t, links, "/artisan/payouts")
	assert.Contains(t, links, "/products/"+product.ID)

	code, env = do(t, h, http.MethodGet, "/api/v1/notifications?role=customer", customer, nil)
	require.Equal(t, http.StatusOK, code)
	customerInbox := decode[notificationapp.ListResponse](t, env)
	require.Len(t, customerInbox.Notifications, 2)
	assert.Equal(t, "/orders/"+placed.ID, customerInbox.Notifications[0].Link)

	code, env = do(t, h, http.MethodPatch, "/api/v1/notifications/"+customerInbox.Notifications[0].ID+"/read", artisan, nil)
	assert.Equal(t, http.StatusNotFound, code, "another user's notification")

	code, env = do(t, h, http.MethodPost, "/api/v1/notifications/read-all", artisan, notificationapp.MarkAllRequest{Role: "artisan"})
	require.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"updated":3}`, string(env.Data))

	// metrics carry route templates, not raw paths
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `handler="/api/v1/orders/:orderId/status"`)
	assert.False(t, strings.Contains(body, placed.ID))
}
