package cart

import (
	"context"
	"database/sql"

	"farmlink-be/internal/logger"

	"go.uber.org/zap"
)

type Repository interface {
	UpsertItem(ctx context.Context, params AddToCartParams) (*CartItem, error)
	UpdateQuantity(ctx context.Context, params UpdateCartParams) error
	RemoveItem(ctx context.Context, params RemoveFromCartParams) error
	Clear(ctx context.Context, buyerID string) error
	CountItems(ctx context.Context, buyerID string) (int, error)
	GetRows(ctx context.Context, buyerID string) ([]Line, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

// UpsertItem creates the row or overwrites its quantity. "Add" is a set,
// not an increment.
func (r *repository) UpsertItem(ctx context.Context, params AddToCartParams) (*CartItem, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "UpsertItem"),
		zap.String("buyer_id", params.BuyerID),
		zap.String("product_id", params.ProductID),
	)

	query := `
		INSERT INTO cart_items (buyer_id, product_id, quantity)
		VALUES ($1, $2, $3)
		ON CONFLICT (buyer_id, product_id)
		DO UPDATE SET quantity = EXCLUDED.quantity, updated_at = NOW()
		RETURNING id, buyer_id, product_id, quantity, created_at, updated_at
	`

	var item CartItem
	err := r.db.QueryRowContext(ctx, query,
		params.BuyerID, params.ProductID, params.Quantity,
	).Scan(
		&item.ID,
		&item.BuyerID,
		&item.ProductID,
		&item.Quantity,
		&item.CreatedAt,
		&item.UpdatedAt,
	)
	if err != nil {
		log.Error("failed to upsert cart item", zap.Error(err))
		return nil, err
	}

	return &item, nil
}

func (r *repository) UpdateQuantity(ctx context.Context, params UpdateCartParams) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE cart_items
		SET quantity = $1, updated_at = NOW()
		WHERE buyer_id = $2 AND product_id = $3
	`, params.Quantity, params.BuyerID, params.ProductID)
	if err != nil {
		return err
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrProductNotInCart
	}

	return nil
}

// RemoveItem is idempotent: removing an absent product is not an error.
func (r *repository) RemoveItem(ctx context.Context, params RemoveFromCartParams) error {
	_, err := r.db.ExecContext(ctx, `
		DELETE FROM cart_items
		WHERE buyer_id = $1 AND product_id = $2
	`, params.BuyerID, params.ProductID)
	return err
}

func (r *repository) Clear(ctx context.Context, buyerID string) error {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM cart_items
		WHERE buyer_id = $1
	`, buyerID)
	if err != nil {
		return err
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrCartNotFound
	}

	return nil
}

func (r *repository) CountItems(ctx context.Context, buyerID string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM cart_items WHERE buyer_id = $1
	`, buyerID).Scan(&n)
	return n, err
}

// GetRows returns the cart joined to the live catalog. Prices here move
// with catalog edits until checkout snapshots them.
func (r *repository) GetRows(ctx context.Context, buyerID string) ([]Line, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "GetRows"),
		zap.String("buyer_id", buyerID),
	)

	query := `
		SELECT
			c.product_id,
			p.name,
			p.farmer_id,
			p.unit,
			p.price,
			p.stock,
			c.quantity
		FROM cart_items c
		JOIN products p ON p.id = c.product_id
		WHERE c.buyer_id = $1
		ORDER BY c.created_at
	`

	rows, err := r.db.QueryContext(ctx, query, buyerID)
	if err != nil {
		log.Error("failed to query cart rows", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var result []Line
	for rows.Next() {
		var line Line
		if err := rows.Scan(
			&line.ProductID,
			&line.Name,
			&line.FarmerID,
			&line.Unit,
			&line.Price,
			&line.Stock,
			&line.Quantity,
		); err != nil {
			log.Error("failed to scan cart row", zap.Error(err))
			return nil, err
		}
		line.Subtotal = line.Price * int64(line.Quantity)
		result = append(result, line)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}
