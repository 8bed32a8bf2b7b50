package catalog

import "time"

type ProductStatus string

const (
	StatusPending  ProductStatus = "pending"
	StatusApproved ProductStatus = "approved"
	StatusRejected ProductStatus = "rejected"
)

// Product is a farmer's listing. Price is in minor currency units. Only
// approved products are orderable; stock is decremented by order commit.
type Product struct {
	ID          string        `json:"id"`
	FarmerID    string        `json:"farmer_id"`
	Name        string        `json:"name"`
	Description *string       `json:"description,omitempty"`
	Category    string        `json:"category"`
	Unit        string        `json:"unit"`
	Price       int64         `json:"price"`
	Stock       int           `json:"stock"`
	Status      ProductStatus `json:"status"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

type CreateProductInput struct {
	Name        string
	Description *string
	Category    string
	Unit        string
	Price       int64
	Stock       int
}

type UpdateProductInput struct {
	ProductID   string
	Name        *string
	Description *string
	Category    *string
	Unit        *string
	Price       *int64
	Stock       *int
}

type ListOptions struct {
	FarmerID     string
	OnlyApproved bool
	Limit        int32
	Page         int32
}
