package order

import (
	"context"
	"fmt"
	"strings"

	"farmlink-be/internal/logger"
	"farmlink-be/internal/metrics"
	"farmlink-be/internal/user"
	"farmlink-be/internal/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Service interface {
	Checkout(ctx context.Context, input CheckoutInput) (*Order, error)
	GetOrder(ctx context.Context, orderID string) (*Order, error)
	ListMine(ctx context.Context, opts ListOptions) ([]*Order, error)
	ListForFarmer(ctx context.Context, opts ListOptions) ([]*Order, error)
	ListAll(ctx context.Context, opts ListOptions) ([]*Order, error)
	Transition(ctx context.Context, orderID string, to OrderStatus) (*Order, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

// Checkout converts the buyer's line selection plus a shipping address into
// a committed order. Validation happens up front; the repository makes the
// stock decrement and the inserts one atomic unit.
func (s *service) Checkout(ctx context.Context, input CheckoutInput) (*Order, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "Checkout"),
		zap.Int("line_count", len(input.Lines)),
	)

	actor, ok := ActorFromContext(ctx)
	if !ok {
		return nil, ErrNotAuthorized
	}

	if err := validateAddress(input.ShippingAddress); err != nil {
		log.Warn("shipping address rejected", zap.Error(err))
		return nil, err
	}

	if len(input.Lines) == 0 {
		return nil, ErrEmptyOrder
	}

	seen := make(map[string]bool, len(input.Lines))
	items := make([]LineItem, 0, len(input.Lines))
	for _, line := range input.Lines {
		if line.ProductID == "" {
			return nil, fmt.Errorf("%w: missing product id", ErrValidation)
		}
		if line.Quantity < 1 {
			return nil, fmt.Errorf("%w: quantity must be at least 1", ErrValidation)
		}
		if seen[line.ProductID] {
			return nil, fmt.Errorf("%w: duplicate product %s", ErrValidation, line.ProductID)
		}
		seen[line.ProductID] = true

		items = append(items, LineItem{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
		})
	}

	o := &Order{
		ID:              uuid.New().String(),
		OrderNumber:     utils.GenerateOrderNumber(),
		BuyerID:         actor.ID,
		Items:           items,
		ShippingAddress: input.ShippingAddress,
		PaymentMethod:   PaymentCOD,
		Status:          StatusPending,
	}

	timer := metrics.StartTimer()
	if err := s.repo.CreateOrderTx(ctx, o); err != nil {
		metrics.CheckoutsFailed.Inc()
		return nil, err
	}
	metrics.OrdersPlaced.Inc()

	log.Info("order placed",
		zap.String("order_id", o.ID),
		zap.String("order_number", o.OrderNumber),
		zap.Int64("total_amount", o.TotalAmount),
		zap.Duration("duration", timer.Duration()),
	)

	return o, nil
}

func validateAddress(a ShippingAddress) error {
	required := map[string]string{
		"name":  a.Name,
		"line1": a.Line1,
		"city":  a.City,
		"state": a.State,
	}
	for field, value := range required {
		if strings.TrimSpace(value) == "" {
			return fmt.Errorf("%w: %s is required", ErrValidation, field)
		}
	}
	if !utils.IsValidPostalCode(a.PostalCode) {
		return fmt.Errorf("%w: postal code must be 6 digits", ErrValidation)
	}
	if !utils.IsValidPhone(a.Phone) {
		return fmt.Errorf("%w: phone must be 10 digits", ErrValidation)
	}
	return nil
}

func (s *service) GetOrder(ctx context.Context, orderID string) (*Order, error) {
	actor, ok := ActorFromContext(ctx)
	if !ok {
		return nil, ErrNotAuthorized
	}

	o, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if !actor.CanRead(o) {
		return nil, ErrNotAuthorized
	}

	return o, nil
}

func (s *service) ListMine(ctx context.Context, opts ListOptions) ([]*Order, error) {
	actor, ok := ActorFromContext(ctx)
	if !ok {
		return nil, ErrNotAuthorized
	}

	return s.repo.ListByBuyer(ctx, actor.ID, opts)
}

func (s *service) ListForFarmer(ctx context.Context, opts ListOptions) ([]*Order, error) {
	actor, ok := ActorFromContext(ctx)
	if !ok || actor.Role != user.RoleFarmer {
		return nil, ErrNotAuthorized
	}

	return s.repo.ListByFarmer(ctx, actor.ID, opts)
}

func (s *service) ListAll(ctx context.Context, opts ListOptions) ([]*Order, error) {
	actor, ok := ActorFromContext(ctx)
	if !ok || actor.Role != user.RoleAdmin {
		return nil, ErrNotAuthorized
	}

	return s.repo.ListAll(ctx, opts)
}

// Transition moves an order to a new status. Legality is checked against a
// fresh read and enforced again by the conditional write, so racing
// operators cannot produce a move outside the table. Cancelling does not
// return stock to the catalog.
func (s *service) Transition(ctx context.Context, orderID string, to OrderStatus) (*Order, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "Transition"),
		zap.String("order_id", orderID),
		zap.String("to", string(to)),
	)

	actor, ok := ActorFromContext(ctx)
	if !ok {
		return nil, ErrNotAuthorized
	}

	o, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if !actor.CanTransition(o) {
		log.Warn("transition denied",
			zap.String("actor_id", actor.ID),
			zap.String("role", string(actor.Role)),
		)
		return nil, ErrNotAuthorized
	}

	if !IsValidStatus(to) || !CanTransition(o.Status, to) {
		log.Warn("illegal transition attempted",
			zap.String("from", string(o.Status)),
		)
		return nil, fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, o.Status, to)
	}

	if err := s.repo.UpdateStatus(ctx, orderID, o.Status, to); err != nil {
		return nil, err
	}

	o.Status = to
	log.Info("order status updated")
	return o, nil
}
