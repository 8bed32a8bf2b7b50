package cart

import (
	"context"
	"errors"

	"farmlink-be/internal/catalog"
	"farmlink-be/internal/logger"

	"go.uber.org/zap"
)

// Service defines the business logic for carts.
type Service interface {
	AddOrUpdate(ctx context.Context, params AddToCartParams) (*Cart, error)
	SetQuantity(ctx context.Context, params UpdateCartParams) (*Cart, error)
	Remove(ctx context.Context, params RemoveFromCartParams) (*Cart, error)
	Clear(ctx context.Context, buyerID string) error
	Get(ctx context.Context, buyerID string) (*Cart, error)
}

type service struct {
	repo        Repository
	catalogRepo catalog.Repository
}

func NewService(repo Repository, catalogRepo catalog.Repository) Service {
	return &service{repo: repo, catalogRepo: catalogRepo}
}

// AddOrUpdate puts a product in the cart. If the product is already there
// the quantity is overwritten, not incremented.
func (s *service) AddOrUpdate(ctx context.Context, params AddToCartParams) (*Cart, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "AddOrUpdate"),
		zap.String("buyer_id", params.BuyerID),
		zap.String("product_id", params.ProductID),
		zap.Int("quantity", params.Quantity),
	)

	if params.Quantity < 1 {
		return nil, ErrInvalidQuantity
	}

	product, err := s.catalogRepo.GetByID(ctx, params.ProductID)
	if err != nil {
		if errors.Is(err, catalog.ErrProductNotFound) {
			return nil, ErrInvalidProduct
		}
		return nil, err
	}
	if product.Status != catalog.StatusApproved {
		log.Warn("attempted to cart an unapproved product",
			zap.String("status", string(product.Status)),
		)
		return nil, ErrInvalidProduct
	}

	if _, err := s.repo.UpsertItem(ctx, params); err != nil {
		log.Error("failed to upsert cart item", zap.Error(err))
		return nil, err
	}

	return s.Get(ctx, params.BuyerID)
}

func (s *service) SetQuantity(ctx context.Context, params UpdateCartParams) (*Cart, error) {
	if params.Quantity < 1 {
		return nil, ErrInvalidQuantity
	}

	if err := s.repo.UpdateQuantity(ctx, params); err != nil {
		return nil, err
	}

	return s.Get(ctx, params.BuyerID)
}

func (s *service) Remove(ctx context.Context, params RemoveFromCartParams) (*Cart, error) {
	n, err := s.repo.CountItems(ctx, params.BuyerID)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, ErrCartNotFound
	}

	if err := s.repo.RemoveItem(ctx, params); err != nil {
		return nil, err
	}

	return s.Get(ctx, params.BuyerID)
}

func (s *service) Clear(ctx context.Context, buyerID string) error {
	return s.repo.Clear(ctx, buyerID)
}

// Get returns the cart with totals computed from current catalog prices.
func (s *service) Get(ctx context.Context, buyerID string) (*Cart, error) {
	lines, err := s.repo.GetRows(ctx, buyerID)
	if err != nil {
		return nil, err
	}

	c := &Cart{
		BuyerID: buyerID,
		Items:   lines,
	}
	for _, line := range lines {
		c.Subtotal += line.Subtotal
	}
	if c.Items == nil {
		c.Items = []Line{}
	}

	return c, nil
}
