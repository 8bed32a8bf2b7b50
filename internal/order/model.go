package order

import "time"

type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusConfirmed OrderStatus = "confirmed"
	StatusShipped   OrderStatus = "shipped"
	StatusDelivered OrderStatus = "delivered"
	StatusCancelled OrderStatus = "cancelled"
)

type PaymentMethod string

const PaymentCOD PaymentMethod = "COD"

type ShippingAddress struct {
	Name       string `json:"name"`
	Line1      string `json:"line1"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postal_code"`
	Phone      string `json:"phone"`
}

// LineItem denormalizes farmer and price at commit time, so later catalog
// edits never alter a placed order.
type LineItem struct {
	ID        string `json:"id"`
	OrderID   string `json:"order_id"`
	ProductID string `json:"product_id"`
	FarmerID  string `json:"farmer_id"`
	Quantity  int    `json:"quantity"`
	UnitPrice int64  `json:"unit_price"`
	Subtotal  int64  `json:"subtotal"`
}

// Order's items and total are immutable once committed; only Status moves.
type Order struct {
	ID              string          `json:"id"`
	OrderNumber     string          `json:"order_number"`
	BuyerID         string          `json:"buyer_id"`
	Items           []LineItem      `json:"items"`
	ShippingAddress ShippingAddress `json:"shipping_address"`
	PaymentMethod   PaymentMethod   `json:"payment_method"`
	TotalAmount     int64           `json:"total_amount"`
	Status          OrderStatus     `json:"status"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

type CheckoutLine struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

type CheckoutInput struct {
	Lines           []CheckoutLine  `json:"items"`
	ShippingAddress ShippingAddress `json:"shipping_address"`
}

type ListOptions struct {
	Status *OrderStatus
	Limit  int32
	Page   int32
}
