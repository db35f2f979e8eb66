package po

import (
	"time"

	"marketplace/domain/order"

	"github.com/shopspring/decimal"
)

// OrderPO Order persistence object
// Note: Only used for database mapping, does not contain any business logic
// Defining GORM associations is prohibited here
type OrderPO struct {
	ID              string          `gorm:"primaryKey;size:64"`
	CustomerID      string          `gorm:"size:64;index;not null"` // Only store ID, no association with User
	TotalAmount     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	ShippingAddress string          `gorm:"size:500"`
	Status          string          `gorm:"size:20;index;not null"`
	PayoutStatus    string          `gorm:"size:20;index;not null"`
	PayoutID        string          `gorm:"size:64"`
	Version         int             `gorm:"default:0"`
	CreatedAt       time.Time       `gorm:"autoCreateTime;index"`
	UpdatedAt       time.Time       `gorm:"autoUpdateTime"`
}

func (OrderPO) TableName() string {
	return "orders"
}

// OrderItemPO Order item persistence object. Items never change after placement.
type OrderItemPO struct {
	ID        uint            `gorm:"primaryKey;autoIncrement"`
	OrderID   string          `gorm:"size:64;index;not null"`
	Position  int             `gorm:"not null"`
	ProductID string          `gorm:"size:64;index;not null"`
	ArtisanID string          `gorm:"size:64;index;not null"`
	Name      string          `gorm:"size:200;not null"`
	Price     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Quantity  int             `gorm:"not null"`
}

func (OrderItemPO) TableName() string {
	return "order_items"
}

// OrderStatusHistoryPO is append-only. Seq grows with each transition, so seq DESC is newest first.
type OrderStatusHistoryPO struct {
	ID        uint      `gorm:"primaryKey;autoIncrement"`
	OrderID   string    `gorm:"size:64;uniqueIndex:idx_order_history_seq;not null"`
	Seq       int       `gorm:"uniqueIndex:idx_order_history_seq;not null"`
	Status    string    `gorm:"size:20;not null"`
	Details   string    `gorm:"size:500"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (OrderStatusHistoryPO) TableName() string {
	return "order_status_history"
}

// FromOrderDomain Convert domain model to persistence objects.
// Only history entries added since load are returned; stored entries are never rewritten.
func FromOrderDomain(o *order.Order) (*OrderPO, []OrderItemPO, []OrderStatusHistoryPO) {
	orderPO := &OrderPO{
		ID:              o.ID(),
		CustomerID:      o.CustomerID(),
		TotalAmount:     o.TotalAmount(),
		ShippingAddress: o.ShippingAddress(),
		Status:          string(o.Status()),
		PayoutStatus:    string(o.PayoutStatus()),
		PayoutID:        o.PayoutID(),
		Version:         o.Version(),
		CreatedAt:       o.CreatedAt(),
		UpdatedAt:       o.UpdatedAt(),
	}

	var itemPOs []OrderItemPO
	if o.IsNew() {
		for i, item := range o.Items() {
			itemPOs = append(itemPOs, OrderItemPO{
				OrderID:   o.ID(),
				Position:  i,
				ProductID: item.ProductID(),
				ArtisanID: item.ArtisanID(),
				Name:      item.Name(),
				Price:     item.Price(),
				Quantity:  item.Quantity(),
			})
		}
	}

	added := o.AddedHistory()
	base := len(o.History()) - len(added)
	historyPOs := make([]OrderStatusHistoryPO, 0, len(added))
	// added is newest first; assign ascending sequence numbers oldest first
	for i := len(added) - 1; i >= 0; i-- {
		entry := added[i]
		base++
		historyPOs = append(historyPOs, OrderStatusHistoryPO{
			OrderID:   o.ID(),
			Seq:       base,
			Status:    string(entry.Status()),
			Details:   entry.Details(),
			UpdatedAt: entry.UpdatedAt(),
		})
	}

	return orderPO, itemPOs, historyPOs
}

// ToDomain expects items ordered by position and history ordered by seq DESC.
func (po *OrderPO) ToDomain(itemPOs []OrderItemPO, historyPOs []OrderStatusHistoryPO) *order.Order {
	items := make([]order.Item, len(itemPOs))
	for i, it := range itemPOs {
		items[i] = order.RebuildItem(it.ProductID, it.ArtisanID, it.Name, it.Price, it.Quantity)
	}
	history := make([]order.HistoryEntry, len(historyPOs))
	for i, h := range historyPOs {
		history[i] = order.RebuildHistoryEntry(order.Status(h.Status), h.UpdatedAt, h.Details)
	}
	return order.RebuildFromDTO(order.ReconstructionDTO{
		ID:              po.ID,
		CustomerID:      po.CustomerID,
		Items:           items,
		TotalAmount:     po.TotalAmount,
		ShippingAddress: po.ShippingAddress,
		Status:          order.Status(po.Status),
		History:         history,
		PayoutStatus:    order.PayoutStatus(po.PayoutStatus),
		PayoutID:        po.PayoutID,
		Version:         po.Version,
		CreatedAt:       po.CreatedAt,
		UpdatedAt:       po.UpdatedAt,
	})
}
