package catalog

import (
	"context"
	"strings"

	"farmlink-be/internal/logger"
	"farmlink-be/internal/user"
	"farmlink-be/internal/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Service interface {
	GetByID(ctx context.Context, productID string) (*Product, error)
	List(ctx context.Context, opts ListOptions) ([]*Product, error)
	Create(ctx context.Context, input CreateProductInput) (*Product, error)
	Update(ctx context.Context, input UpdateProductInput) (*Product, error)
	Delete(ctx context.Context, productID string) error
	SetStatus(ctx context.Context, productID string, status ProductStatus) (*Product, error)
}

type service struct {
	repo     Repository
	userRepo user.Repository
}

func NewService(repo Repository, userRepo user.Repository) Service {
	return &service{repo: repo, userRepo: userRepo}
}

func (s *service) GetByID(ctx context.Context, productID string) (*Product, error) {
	return s.repo.GetByID(ctx, productID)
}

func (s *service) List(ctx context.Context, opts ListOptions) ([]*Product, error) {
	return s.repo.List(ctx, opts)
}

// Create registers a new listing. Only verified farmers may list; every new
// listing starts pending until an admin approves it.
func (s *service) Create(ctx context.Context, input CreateProductInput) (*Product, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "CreateProduct"),
	)

	farmerID, ok := utils.GetUserIDFromContext(ctx)
	if !ok || utils.GetUserRoleFromContext(ctx) != string(user.RoleFarmer) {
		return nil, ErrNotAuthorized
	}

	farmer, err := s.userRepo.GetByID(ctx, farmerID)
	if err != nil {
		return nil, err
	}
	if !farmer.Verified {
		log.Warn("unverified farmer attempted to create listing",
			zap.String("farmer_id", farmerID),
		)
		return nil, ErrFarmerNotVerified
	}

	if strings.TrimSpace(input.Name) == "" || input.Price <= 0 || input.Stock < 0 {
		return nil, ErrInvalidInput
	}

	p := &Product{
		ID:          uuid.New().String(),
		FarmerID:    farmerID,
		Name:        input.Name,
		Description: input.Description,
		Category:    input.Category,
		Unit:        input.Unit,
		Price:       input.Price,
		Stock:       input.Stock,
		Status:      StatusPending,
	}

	if err := s.repo.Create(ctx, p); err != nil {
		log.Error("failed to create product", zap.Error(err))
		return nil, err
	}

	log.Info("product created",
		zap.String("product_id", p.ID),
		zap.String("farmer_id", farmerID),
	)

	return p, nil
}

// Update edits a listing. Owner only; any edit reverts the listing to
// pending so it requires re-approval before it is orderable again.
func (s *service) Update(ctx context.Context, input UpdateProductInput) (*Product, error) {
	actorID, ok := utils.GetUserIDFromContext(ctx)
	if !ok {
		return nil, ErrNotAuthorized
	}

	p, err := s.repo.GetByID(ctx, input.ProductID)
	if err != nil {
		return nil, err
	}
	if p.FarmerID != actorID {
		return nil, ErrNotAuthorized
	}

	if input.Name != nil {
		p.Name = *input.Name
	}
	if input.Description != nil {
		p.Description = input.Description
	}
	if input.Category != nil {
		p.Category = *input.Category
	}
	if input.Unit != nil {
		p.Unit = *input.Unit
	}
	if input.Price != nil {
		p.Price = *input.Price
	}
	if input.Stock != nil {
		p.Stock = *input.Stock
	}

	if strings.TrimSpace(p.Name) == "" || p.Price <= 0 || p.Stock < 0 {
		return nil, ErrInvalidInput
	}

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}

	return p, nil
}

func (s *service) Delete(ctx context.Context, productID string) error {
	actorID, ok := utils.GetUserIDFromContext(ctx)
	if !ok {
		return ErrNotAuthorized
	}

	p, err := s.repo.GetByID(ctx, productID)
	if err != nil {
		return err
	}

	isAdmin := utils.GetUserRoleFromContext(ctx) == string(user.RoleAdmin)
	if p.FarmerID != actorID && !isAdmin {
		return ErrNotAuthorized
	}

	return s.repo.Delete(ctx, productID)
}

// SetStatus approves or rejects a listing. Admin only.
func (s *service) SetStatus(ctx context.Context, productID string, status ProductStatus) (*Product, error) {
	if utils.GetUserRoleFromContext(ctx) != string(user.RoleAdmin) {
		return nil, ErrNotAuthorized
	}

	if status != StatusApproved && status != StatusRejected {
		return nil, ErrInvalidStatus
	}

	if err := s.repo.SetStatus(ctx, productID, status); err != nil {
		return nil, err
	}

	return s.repo.GetByID(ctx, productID)
}
