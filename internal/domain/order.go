package domain

import "time"

// OrderStatusPending is the fixed initial status of a submitted order.
const OrderStatusPending = "pending"

type OrderItem struct {
	ProductID       string  `json:"product_id"`
	Quantity        int     `json:"quantity"`
	PriceAtPurchase float64 `json:"price_at_purchase"`
}

// OrderPayload is the submission body sent to the orders endpoint.
type OrderPayload struct {
	TotalAmount     float64     `json:"total_amount"`
	ShippingAddress string      `json:"shipping_address"`
	Status          string      `json:"status"`
	Items           []OrderItem `json:"items"`
}

// Order is the created order record echoed back by the API.
type Order struct {
	ID              string      `json:"id"`
	UserID          string      `json:"user_id"`
	TotalAmount     float64     `json:"total_amount"`
	ShippingAddress string      `json:"shipping_address"`
	Status          string      `json:"status"`
	CreatedAt       time.Time   `json:"created_at"`
	Items           []OrderItem `json:"items,omitempty"`
}
