package order

import "marketplace/domain/order"

func toOrderResponse(o *order.Order) *OrderResponse {
	items := o.Items()
	itemResponses := make([]OrderItemResponse, len(items))
	for i, item := range items {
		itemResponses[i] = OrderItemResponse{
			ProductID: item.ProductID(),
			ArtisanID: item.ArtisanID(),
			Name:      item.Name(),
			Price:     item.Price(),
			Quantity:  item.Quantity(),
			Subtotal:  item.Subtotal(),
		}
	}

	history := o.History()
	historyResponses := make([]StatusEntryResponse, len(history))
	for i, h := range history {
		historyResponses[i] = StatusEntryResponse{
			Status:    h.Status().String(),
			UpdatedAt: h.UpdatedAt(),
			Details:   h.Details(),
		}
	}

	return &OrderResponse{
		ID:              o.ID(),
		CustomerID:      o.CustomerID(),
		Items:           itemResponses,
		TotalAmount:     o.TotalAmount(),
		ShippingAddress: o.ShippingAddress(),
		Status:          o.Status().String(),
		StatusHistory:   historyResponses,
		PayoutStatus:    string(o.PayoutStatus()),
		PayoutID:        o.PayoutID(),
		Version:         o.Version(),
		CreatedAt:       o.CreatedAt(),
		UpdatedAt:       o.UpdatedAt(),
	}
}

func toOrderResponses(orders []*order.Order) []*OrderResponse {
	out := make([]*OrderResponse, len(orders))
	for i, o := range orders {
		out[i] = toOrderResponse(o)
	}
	return out
}
