package user

import (
	"context"

	"farmlink-be/internal/logger"
	"farmlink-be/internal/utils"

	"go.uber.org/zap"
)

type Service interface {
	GetByID(ctx context.Context, id string) (*User, error)
	VerifyFarmer(ctx context.Context, farmerID string) (*User, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) GetByID(ctx context.Context, id string) (*User, error) {
	return s.repo.GetByID(ctx, id)
}

// VerifyFarmer marks a farmer as verified. Admin only; verification gates
// new listing creation in the catalog.
func (s *service) VerifyFarmer(ctx context.Context, farmerID string) (*User, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "VerifyFarmer"),
		zap.String("farmer_id", farmerID),
	)

	if utils.GetUserRoleFromContext(ctx) != string(RoleAdmin) {
		log.Warn("non-admin attempted farmer verification")
		return nil, ErrNotAuthorized
	}

	u, err := s.repo.GetByID(ctx, farmerID)
	if err != nil {
		return nil, err
	}
	if u.Role != RoleFarmer {
		return nil, ErrNotAFarmer
	}

	if err := s.repo.SetVerified(ctx, farmerID, true); err != nil {
		log.Error("failed to set verified", zap.Error(err))
		return nil, err
	}

	u.Verified = true
	log.Info("farmer verified")
	return u, nil
}
