package order

// CreateItem is one line of an order submission. Price is the unit price the
// client saw; the server verifies it against the live catalog before
// accepting the order.
// swagger:model CreateOrderItem
type CreateItem struct {
	ProductID string `json:"product_id" binding:"required" example:"4e7d4e5c-5cb9-4a3f-9f21-7e1a4f9f2b2a"`
	Quantity  int    `json:"quantity" binding:"required,min=1" example:"2"`
	Price     string `json:"price" binding:"required" example:"120.50"`
}

// CreateRequest payload for POST /api/orders.
// swagger:model CreateOrderRequest
type CreateRequest struct {
	Items           []CreateItem    `json:"items" binding:"required,min=1,dive"`
	ShippingAddress ShippingAddress `json:"shipping_address" binding:"required"`
	PaymentMethod   string          `json:"payment_method"`
	TaxPrice        string          `json:"tax_price"`
	ShippingPrice   string          `json:"shipping_price"`
	TotalPrice      string          `json:"total_price" binding:"required"`
}

// PayRequest payload for PUT /api/orders/:id/pay.
// swagger:model PayOrderRequest
type PayRequest struct {
	ID           string `json:"id"`
	Status       string `json:"status"`
	UpdateTime   string `json:"update_time"`
	EmailAddress string `json:"email_address"`
}

// StatusRequest payload for PUT /api/orders/:id/status.
// swagger:model OrderStatusRequest
type StatusRequest struct {
	Status Status `json:"status" binding:"required"`
}
