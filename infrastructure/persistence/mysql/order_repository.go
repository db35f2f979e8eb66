package mysql

import (
	"context"

	"marketplace/domain/order"
	"marketplace/domain/shared"
	"marketplace/infrastructure/persistence/mysql/po"
	"marketplace/infrastructure/persistence/specification"

	"gorm.io/gorm"
)

// OrderRepository MySQL/GORM implementation of order repository
// GORM usage specification: Association features are prohibited to maintain DDD aggregate boundaries
type OrderRepository struct {
	base
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{base{db: db}}
}

// Save inserts a new order with its items, or compare-and-swaps the order row and appends
// the history entries added since load. Items and stored history are never rewritten.
func (r *OrderRepository) Save(ctx context.Context, o *order.Order) error {
	orderPO, itemPOs, historyPOs := po.FromOrderDomain(o)

	err := r.inTx(ctx, func(tx *gorm.DB) error {
		if o.IsNew() {
			orderPO.Version = 1
			if err := tx.Create(orderPO).Error; err != nil {
				if isDuplicateKeyError(err) {
					return shared.NewConflictError("order", "order already exists: "+o.ID())
				}
				return err
			}
			if len(itemPOs) > 0 {
				if err := tx.Create(&itemPOs).Error; err != nil {
					return err
				}
			}
		} else {
			expectedVersion := o.Version()
			result := tx.Model(&po.OrderPO{}).
				Where("id = ? AND version = ?", o.ID(), expectedVersion).
				Updates(map[string]interface{}{
					"status":        orderPO.Status,
					"payout_status": orderPO.PayoutStatus,
					"payout_id":     orderPO.PayoutID,
					"version":       expectedVersion + 1,
					"updated_at":    orderPO.UpdatedAt,
				})
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				var count int64
				if err := tx.Model(&po.OrderPO{}).Where("id = ?", o.ID()).Count(&count).Error; err != nil {
					return err
				}
				if count == 0 {
					return order.NewOrderNotFoundError(o.ID())
				}
				return shared.NewConcurrentModificationError("order", o.ID())
			}
		}

		if len(historyPOs) > 0 {
			if err := tx.Create(&historyPOs).Error; err != nil {
				if isDuplicateKeyError(err) {
					return shared.NewConcurrentModificationError("order", o.ID())
				}
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	o.IncrementVersionForSave()
	o.ClearDirtyTracking()
	return nil
}

func (r *OrderRepository) FindByID(ctx context.Context, id string) (*order.Order, error) {
	db := r.getDB(ctx)
	var orderPO po.OrderPO
	if err := db.First(&orderPO, "id = ?", id).Error; err != nil {
		if isNotFound(err) {
			return nil, order.NewOrderNotFoundError(id)
		}
		return nil, err
	}
	orders, err := r.hydrate(db, []po.OrderPO{orderPO})
	if err != nil {
		return nil, err
	}
	return orders[0], nil
}

func (r *OrderRepository) FindByIDs(ctx context.Context, ids []string) ([]*order.Order, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	db := r.getDB(ctx)
	var orderPOs []po.OrderPO
	if err := db.Where("id IN ?", ids).Find(&orderPOs).Error; err != nil {
		return nil, err
	}
	return r.hydrate(db, orderPOs)
}

func (r *OrderRepository) FindByCustomer(ctx context.Context, customerID string) ([]*order.Order, error) {
	return r.find(ctx, order.ByCustomerSpecification{CustomerID: customerID}, "orders.created_at DESC, orders.id DESC")
}

func (r *OrderRepository) FindByArtisan(ctx context.Context, artisanID string) ([]*order.Order, error) {
	return r.find(ctx, order.ByArtisanSpecification{ArtisanID: artisanID}, "orders.created_at DESC, orders.id DESC")
}

func (r *OrderRepository) FindAwaitingPayout(ctx context.Context) ([]*order.Order, error) {
	return r.find(ctx, order.AwaitingPayout(), "orders.created_at ASC, orders.id ASC")
}

func (r *OrderRepository) HasDeliveredPurchase(ctx context.Context, customerID, productID string) (bool, error) {
	scope, _ := specification.OrderScope(order.DeliveredPurchase(customerID, productID))
	var count int64
	if err := r.getDB(ctx).Model(&po.OrderPO{}).Scopes(scope).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *OrderRepository) find(ctx context.Context, spec shared.Specification[*order.Order], orderBy string) ([]*order.Order, error) {
	db := r.getDB(ctx)
	query := db.Model(&po.OrderPO{})
	scope, translated := specification.OrderScope(spec)
	if translated {
		query = query.Scopes(scope)
	}

	var orderPOs []po.OrderPO
	if err := query.Order(orderBy).Find(&orderPOs).Error; err != nil {
		return nil, err
	}
	orders, err := r.hydrate(db, orderPOs)
	if err != nil || translated {
		return orders, err
	}

	filtered := orders[:0]
	for _, o := range orders {
		if spec.IsSatisfiedBy(ctx, o) {
			filtered = append(filtered, o)
		}
	}
	return filtered, nil
}

// hydrate loads items and history for a page of orders with two batched queries.
// Manual queries instead of Preload keep aggregate boundaries explicit.
func (r *OrderRepository) hydrate(db *gorm.DB, orderPOs []po.OrderPO) ([]*order.Order, error) {
	if len(orderPOs) == 0 {
		return nil, nil
	}
	ids := make([]string, len(orderPOs))
	for i, o := range orderPOs {
		ids[i] = o.ID
	}

	var itemPOs []po.OrderItemPO
	if err := db.Where("order_id IN ?", ids).Order("order_id, position").Find(&itemPOs).Error; err != nil {
		return nil, err
	}
	var historyPOs []po.OrderStatusHistoryPO
	if err := db.Where("order_id IN ?", ids).Order("order_id, seq DESC").Find(&historyPOs).Error; err != nil {
		return nil, err
	}

	itemsByOrder := make(map[string][]po.OrderItemPO, len(ids))
	for _, it := range itemPOs {
		itemsByOrder[it.OrderID] = append(itemsByOrder[it.OrderID], it)
	}
	historyByOrder := make(map[string][]po.OrderStatusHistoryPO, len(ids))
	for _, h := range historyPOs {
		historyByOrder[h.OrderID] = append(historyByOrder[h.OrderID], h)
	}

	orders := make([]*order.Order, len(orderPOs))
	for i := range orderPOs {
		orders[i] = orderPOs[i].ToDomain(itemsByOrder[orderPOs[i].ID], historyByOrder[orderPOs[i].ID])
	}
	return orders, nil
}

var _ order.Repository = (*OrderRepository)(nil)
