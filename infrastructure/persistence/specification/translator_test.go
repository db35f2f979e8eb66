package specification

import (
	"context"
	"testing"

	"marketplace/domain/order"
	"marketplace/domain/shared"
	"marketplace/domain/user"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

type orderRow struct {
	ID string
}

func (orderRow) TableName() string { return "orders" }

type userRow struct {
	ID string
}

func (userRow) TableName() string { return "users" }

func dryRunDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(mysql.New(mysql.Config{
		DSN:                       "user:pass@tcp(127.0.0.1:3306)/marketplace?parseTime=true",
		SkipInitializeWithVersion: true,
	}), &gorm.Config{DryRun: true, DisableAutomaticPing: true})
	require.NoError(t, err)
	return db
}

func TestOrderScope_AwaitingPayout(t *testing.T) {
	scope, ok := OrderScope(order.AwaitingPayout())
	require.True(t, ok)

	var rows []orderRow
	stmt := dryRunDB(t).Scopes(scope).Find(&rows).Statement
	sql := stmt.SQL.String()

	assert.Contains(t, sql, "orders.status = ?")
	assert.Contains(t, sql, "orders.payout_status = ?")
	assert.Equal(t, []interface{}{"delivered", "pending"}, stmt.Vars)
}

func TestOrderScope_DeliveredPurchaseUsesItemSubquery(t *testing.T) {
	scope, ok := OrderScope(order.DeliveredPurchase("c-1", "p-1"))
	require.True(t, ok)

	var rows []orderRow
	sql := dryRunDB(t).Scopes(scope).Find(&rows).Statement.SQL.String()
	assert.Contains(t, sql, "orders.customer_id = ?")
	assert.Contains(t, sql, "oi.product_id = ?")
}

func TestOrderScope_UnknownSpecIsNotTranslated(t *testing.T) {
	custom := shared.SpecFunc[*order.Order](func(_ context.Context, o *order.Order) bool { return true })
	_, ok := OrderScope(shared.And[*order.Order](order.ByStatusSpecification{Status: order.StatusPaid}, custom))
	assert.False(t, ok)
}

func TestUserScope_Role(t *testing.T) {
	scope, ok := UserScope(shared.And[*user.User](
		user.NewByRoleSpecification(shared.RoleArtisan),
		user.NewByStatusSpecification(true),
	))
	require.True(t, ok)

	var rows []userRow
	stmt := dryRunDB(t).Scopes(scope).Find(&rows).Statement
	assert.Contains(t, stmt.SQL.String(), "FIND_IN_SET(?, roles) > 0")
	assert.Equal(t, []interface{}{"artisan", true}, stmt.Vars)
}
