package order

import (
	"time"

	"marketplace/domain/order"

	"github.com/shopspring/decimal"
)

// PlaceOrderRequest is the checkout payload. Payment is verified before it reaches this service.
type PlaceOrderRequest struct {
	Items           []PlaceOrderItem `json:"items" binding:"required,min=1,dive"`
	ShippingAddress string           `json:"shippingAddress" binding:"required"`
}

// PlaceOrderItem 下单时的单个商品项，价格与名称从商品目录快照。
type PlaceOrderItem struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,min=1"`
}

// UpdateStatusRequest 表示卖家更新订单状态的入参。
// details carries {carrier, trackingNumber} for shipped and {reason} for cancelled.
// The flat top-level fields are still read when details omits them.
type UpdateStatusRequest struct {
	Status         string                `json:"status" binding:"required"`
	Details        *StatusDetailsRequest `json:"details"`
	Carrier        string                `json:"carrier"`
	TrackingNumber string                `json:"trackingNumber"`
	Reason         string                `json:"reason"`
}

// StatusDetailsRequest 状态变更附带的物流或取消信息。
type StatusDetailsRequest struct {
	Carrier        string `json:"carrier"`
	TrackingNumber string `json:"trackingNumber"`
	Reason         string `json:"reason"`
}

// TransitionDetails merges the nested details over the flat fields.
func (r UpdateStatusRequest) TransitionDetails() order.TransitionDetails {
	d := order.TransitionDetails{
		Carrier:        r.Carrier,
		TrackingNumber: r.TrackingNumber,
		Reason:         r.Reason,
	}
	if r.Details == nil {
		return d
	}
	if r.Details.Carrier != "" {
		d.Carrier = r.Details.Carrier
	}
	if r.Details.TrackingNumber != "" {
		d.TrackingNumber = r.Details.TrackingNumber
	}
	if r.Details.Reason != "" {
		d.Reason = r.Details.Reason
	}
	return d
}

// OrderResponse 表示订单返回模型。
type OrderResponse struct {
	ID              string                `json:"id"`
	CustomerID      string                `json:"customerId"`
	Items           []OrderItemResponse   `json:"items"`
	TotalAmount     decimal.Decimal       `json:"totalAmount"`
	ShippingAddress string                `json:"shippingAddress"`
	Status          string                `json:"status"`
	StatusHistory   []StatusEntryResponse `json:"statusHistory"`
	PayoutStatus    string                `json:"payoutStatus"`
	PayoutID        string                `json:"payoutId,omitempty"`
	Version         int                   `json:"version"`
	CreatedAt       time.Time             `json:"createdAt"`
	UpdatedAt       time.Time             `json:"updatedAt"`
}

// OrderItemResponse 表示订单项返回模型。
type OrderItemResponse struct {
	ProductID string          `json:"productId"`
	ArtisanID string          `json:"artisanId"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// StatusEntryResponse 表示一条状态历史，最新的在前。
type StatusEntryResponse struct {
	Status    string    `json:"status"`
	UpdatedAt time.Time `json:"updatedAt"`
	Details   string    `json:"details,omitempty"`
}

// Viewer identifies who is reading an order.
type Viewer struct {
	UserID  string
	IsAdmin bool
}
