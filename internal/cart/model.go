package cart

import "time"

// CartItem is one row of a buyer's cart. A buyer has at most one row per
// product; the row set is the cart.
type CartItem struct {
	ID        string    `json:"id"`
	BuyerID   string    `json:"buyer_id"`
	ProductID string    `json:"product_id"`
	Quantity  int       `json:"quantity"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Line is a cart row joined to the live catalog. Price and Subtotal are a
// projection of current prices, not a snapshot.
type Line struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	FarmerID  string `json:"farmer_id"`
	Unit      string `json:"unit"`
	Price     int64  `json:"price"`
	Stock     int    `json:"stock"`
	Quantity  int    `json:"quantity"`
	Subtotal  int64  `json:"subtotal"`
}

type Cart struct {
	BuyerID  string `json:"buyer_id"`
	Items    []Line `json:"items"`
	Subtotal int64  `json:"subtotal"`
}

type AddToCartParams struct {
	BuyerID   string
	ProductID string
	Quantity  int
}

type UpdateCartParams struct {
	BuyerID   string
	ProductID string
	Quantity  int
}

type RemoveFromCartParams struct {
	BuyerID   string
	ProductID string
}
