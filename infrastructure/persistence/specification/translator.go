package specification

import (
	"marketplace/domain/order"
	"marketplace/domain/shared"
	"marketplace/domain/user"

	"gorm.io/gorm"
)

// Scope is a GORM query fragment.
type Scope = func(*gorm.DB) *gorm.DB

// OrderScope converts an order specification to a query over the orders table.
// ok is false when some part of spec has no SQL form; callers must then filter in memory.
func OrderScope(spec shared.Specification[*order.Order]) (scope Scope, ok bool) {
	switch s := spec.(type) {
	case shared.AndSpecification[*order.Order]:
		scopes := make([]Scope, 0, len(s.Specs))
		for _, member := range s.Specs {
			sc, ok := OrderScope(member)
			if !ok {
				return nil, false
			}
			scopes = append(scopes, sc)
		}
		return chain(scopes), true
	case shared.NotSpecification[*order.Order]:
		inner, ok := OrderScope(s.Spec)
		if !ok {
			return nil, false
		}
		return not(inner), true
	case order.ByCustomerSpecification:
		return func(db *gorm.DB) *gorm.DB {
			return db.Where("orders.customer_id = ?", s.CustomerID)
		}, true
	case order.ByStatusSpecification:
		return func(db *gorm.DB) *gorm.DB {
			return db.Where("orders.status = ?", string(s.Status))
		}, true
	case order.ByPayoutStatusSpecification:
		return func(db *gorm.DB) *gorm.DB {
			return db.Where("orders.payout_status = ?", string(s.PayoutStatus))
		}, true
	case order.ByArtisanSpecification:
		return func(db *gorm.DB) *gorm.DB {
			return db.Where("EXISTS (SELECT 1 FROM order_items oi WHERE oi.order_id = orders.id AND oi.artisan_id = ?)", s.ArtisanID)
		}, true
	case order.ContainsProductSpecification:
		return func(db *gorm.DB) *gorm.DB {
			return db.Where("EXISTS (SELECT 1 FROM order_items oi WHERE oi.order_id = orders.id AND oi.product_id = ?)", s.ProductID)
		}, true
	}
	return nil, false
}

// UserScope converts a user specification to a query over the users table.
func UserScope(spec shared.Specification[*user.User]) (scope Scope, ok bool) {
	switch s := spec.(type) {
	case shared.AndSpecification[*user.User]:
		scopes := make([]Scope, 0, len(s.Specs))
		for _, member := range s.Specs {
			sc, ok := UserScope(member)
			if !ok {
				return nil, false
			}
			scopes = append(scopes, sc)
		}
		return chain(scopes), true
	case shared.NotSpecification[*user.User]:
		inner, ok := UserScope(s.Spec)
		if !ok {
			return nil, false
		}
		return not(inner), true
	case user.ByEmailSpecification:
		return func(db *gorm.DB) *gorm.DB {
			return db.Where("email = ?", s.Email)
		}, true
	case user.ByStatusSpecification:
		return func(db *gorm.DB) *gorm.DB {
			return db.Where("is_active = ?", s.Active)
		}, true
	case user.ByRoleSpecification:
		return func(db *gorm.DB) *gorm.DB {
			return db.Where("FIND_IN_SET(?, roles) > 0", string(s.Role))
		}, true
	}
	return nil, false
}

func chain(scopes []Scope) Scope {
	return func(db *gorm.DB) *gorm.DB {
		for _, sc := range scopes {
			db = sc(db)
		}
		return db
	}
}

// not wraps inner's conditions in NOT (...) using a fresh session so they group correctly.
func not(inner Scope) Scope {
	return func(db *gorm.DB) *gorm.DB {
		return db.Not(inner(db.Session(&gorm.Session{NewDB: true})))
	}
}
