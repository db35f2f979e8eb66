/*
Package order - 订单领域错误定义

设计原则:
1. 哨兵错误链接到 shared 的通用哨兵，pkg/errors 只需识别 shared 哨兵即可映射 HTTP 状态
2. 错误构造函数在创建时捕获堆栈，便于定位错误发生点
*/
package order

import (
	"fmt"

	"marketplace/domain/shared"
)

var (
	ErrOrderNotFound    = fmt.Errorf("order %w", shared.ErrNotFound)
	ErrNotOrderSeller   = fmt.Errorf("%w: seller has no items in this order", shared.ErrForbidden)
	ErrEmptyOrderItems  = fmt.Errorf("%w: order must have at least one item", shared.ErrInvalidInput)
	ErrInvalidQuantity  = fmt.Errorf("%w: quantity must be positive", shared.ErrInvalidInput)
	ErrInvalidPrice     = fmt.Errorf("%w: price cannot be negative", shared.ErrInvalidInput)
	ErrInvalidStatus    = fmt.Errorf("%w: invalid order status", shared.ErrInvalidInput)
	ErrMissingArtisan   = fmt.Errorf("%w: every item needs an artisan", shared.ErrInvalidInput)
	ErrAlreadyPaidOut   = fmt.Errorf("%w: order already paid out", shared.ErrConflict)
	ErrNotDelivered     = fmt.Errorf("%w: order is not delivered", shared.ErrConflict)
	ErrMissingCustomer  = fmt.Errorf("%w: order needs a customer", shared.ErrInvalidInput)
	ErrMissingPayoutRef = fmt.Errorf("%w: payout id is required", shared.ErrInvalidInput)
)

// NewOrderNotFoundError 创建订单未找到错误（带堆栈）
func NewOrderNotFoundError(orderID string) error {
	return &orderDomainError{
		sentinel: ErrOrderNotFound,
		message:  "order not found: " + orderID,
		stack:    shared.CaptureStack(3),
	}
}

// NewNotOrderSellerError rejects a seller who owns none of the order's items.
func NewNotOrderSellerError(orderID, sellerID string) error {
	return &orderDomainError{
		sentinel: ErrNotOrderSeller,
		message:  "seller " + sellerID + " has no items in order " + orderID,
		stack:    shared.CaptureStack(3),
	}
}

// NewInvalidStatusError rejects a status outside the seller-settable set.
func NewInvalidStatusError(status string) error {
	return &orderDomainError{
		sentinel: ErrInvalidStatus,
		field:    "status",
		message:  fmt.Sprintf("invalid status %q: must be one of processing, packed, shipped, delivered, cancelled", status),
		stack:    shared.CaptureStack(3),
	}
}

func newItemError(sentinel error, index int) error {
	return &orderDomainError{
		sentinel: sentinel,
		field:    fmt.Sprintf("items[%d]", index),
		message:  fmt.Sprintf("items[%d]: %s", index, sentinel.Error()),
		stack:    shared.CaptureStack(3),
	}
}

// orderDomainError 订单领域错误（带堆栈）
type orderDomainError struct {
	sentinel error
	field    string
	message  string
	stack    []uintptr
}

func (e *orderDomainError) Error() string { return e.message }

func (e *orderDomainError) Unwrap() error { return e.sentinel }

// Field names the offending request field, if any.
func (e *orderDomainError) Field() string { return e.field }

// Stack 实现 shared.Stacker 接口
func (e *orderDomainError) Stack() []string { return shared.FormatStack(e.stack) }
