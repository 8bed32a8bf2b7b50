package order

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"farmlink-be/internal/logger"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"go.uber.org/zap"
)

type Repository interface {
	CreateOrderTx(ctx context.Context, o *Order) error
	GetByID(ctx context.Context, orderID string) (*Order, error)
	ListByBuyer(ctx context.Context, buyerID string, opts ListOptions) ([]*Order, error)
	ListByFarmer(ctx context.Context, farmerID string, opts ListOptions) ([]*Order, error)
	ListAll(ctx context.Context, opts ListOptions) ([]*Order, error)
	UpdateStatus(ctx context.Context, orderID string, from, to OrderStatus) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

// CreateOrderTx commits a checkout as one transaction: for every line it
// decrements stock with a conditional update that also snapshots the
// current price and farmer, then inserts the order, its items, and clears
// the buyer's cart. Any line failing rolls the whole thing back.
func (r *repository) CreateOrderTx(ctx context.Context, o *Order) error {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "CreateOrderTx"),
		zap.String("order_id", o.ID),
		zap.Int("item_count", len(o.Items)),
	)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("failed to begin transaction", zap.Error(err))
		return err
	}

	committed := false
	defer func() {
		if !committed {
			if rbErr := tx.Rollback(); rbErr != nil {
				log.Error("failed to rollback transaction", zap.Error(rbErr))
			}
		}
	}()

	// The conditional decrement is the stock reservation: it only fires
	// when the product is approved and has enough stock, and it returns
	// the price and farmer the line item must freeze.
	var total int64
	for i := range o.Items {
		item := &o.Items[i]

		var price int64
		var farmerID string
		err := tx.QueryRowContext(ctx, `
			UPDATE products
			SET stock = stock - $1, updated_at = NOW()
			WHERE id = $2 AND status = 'approved' AND stock >= $1
			RETURNING price, farmer_id
		`, item.Quantity, item.ProductID).Scan(&price, &farmerID)

		if errors.Is(err, sql.ErrNoRows) {
			lineErr := classifyLineFailure(ctx, tx, item.ProductID, item.Quantity)
			log.Warn("checkout line rejected",
				zap.String("product_id", item.ProductID),
				zap.Int("quantity", item.Quantity),
				zap.Error(lineErr),
			)
			return lineErr
		}
		if err != nil {
			log.Error("failed to reserve stock", zap.Error(err))
			return err
		}

		item.ID = uuid.New().String()
		item.OrderID = o.ID
		item.FarmerID = farmerID
		item.UnitPrice = price
		item.Subtotal = price * int64(item.Quantity)
		total += item.Subtotal
	}
	o.TotalAmount = total

	err = tx.QueryRowContext(ctx, `
		INSERT INTO orders (
			id, order_number, buyer_id,
			ship_name, ship_line1, ship_city, ship_state, ship_postal_code, ship_phone,
			payment_method, total_amount, status
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
		RETURNING created_at, updated_at
	`,
		o.ID,
		o.OrderNumber,
		o.BuyerID,
		o.ShippingAddress.Name,
		o.ShippingAddress.Line1,
		o.ShippingAddress.City,
		o.ShippingAddress.State,
		o.ShippingAddress.PostalCode,
		o.ShippingAddress.Phone,
		o.PaymentMethod,
		o.TotalAmount,
		o.Status,
	).Scan(&o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		log.Error("failed to insert order", zap.Error(err))
		return err
	}

	for _, item := range o.Items {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO order_items (
				id, order_id, product_id, farmer_id, quantity, unit_price, subtotal
			) VALUES ($1,$2,$3,$4,$5,$6,$7)
		`,
			item.ID,
			item.OrderID,
			item.ProductID,
			item.FarmerID,
			item.Quantity,
			item.UnitPrice,
			item.Subtotal,
		)
		if err != nil {
			log.Error("failed to insert order item",
				zap.String("product_id", item.ProductID),
				zap.Error(err),
			)
			return err
		}
	}

	// Clear the buyer's cart in the same transaction.
	if _, err = tx.ExecContext(ctx, `
		DELETE FROM cart_items WHERE buyer_id = $1
	`, o.BuyerID); err != nil {
		log.Error("failed to clear cart", zap.Error(err))
		return err
	}

	if err := tx.Commit(); err != nil {
		log.Error("failed to commit order transaction", zap.Error(err))
		return err
	}

	committed = true
	log.Info("order committed",
		zap.Int64("total_amount", o.TotalAmount),
	)
	return nil
}

// classifyLineFailure decides why the conditional decrement matched no row.
func classifyLineFailure(ctx context.Context, tx *sql.Tx, productID string, qty int) error {
	var status string
	var stock int
	err := tx.QueryRowContext(ctx, `
		SELECT status, stock FROM products WHERE id = $1
	`, productID).Scan(&status, &stock)

	if errors.Is(err, sql.ErrNoRows) {
		return &LineError{ProductID: productID, Err: ErrInvalidProduct}
	}
	if err != nil {
		return err
	}

	if status != "approved" {
		return &LineError{ProductID: productID, Err: ErrInvalidProduct}
	}
	return &LineError{ProductID: productID, Err: ErrInsufficientStock}
}

const orderColumns = `id, order_number, buyer_id,
	ship_name, ship_line1, ship_city, ship_state, ship_postal_code, ship_phone,
	payment_method, total_amount, status, created_at, updated_at`

func scanOrder(row interface{ Scan(...any) error }) (*Order, error) {
	var o Order
	err := row.Scan(
		&o.ID,
		&o.OrderNumber,
		&o.BuyerID,
		&o.ShippingAddress.Name,
		&o.ShippingAddress.Line1,
		&o.ShippingAddress.City,
		&o.ShippingAddress.State,
		&o.ShippingAddress.PostalCode,
		&o.ShippingAddress.Phone,
		&o.PaymentMethod,
		&o.TotalAmount,
		&o.Status,
		&o.CreatedAt,
		&o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *repository) GetByID(ctx context.Context, orderID string) (*Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`

	o, err := scanOrder(r.db.QueryRowContext(ctx, query, orderID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}

	items, err := r.loadItems(ctx, []string{o.ID})
	if err != nil {
		return nil, err
	}
	o.Items = items[o.ID]

	return o, nil
}

func (r *repository) ListByBuyer(ctx context.Context, buyerID string, opts ListOptions) ([]*Order, error) {
	return r.list(ctx, "o.buyer_id = $1", []any{buyerID}, opts)
}

// ListByFarmer returns orders containing at least one line item belonging
// to the farmer.
func (r *repository) ListByFarmer(ctx context.Context, farmerID string, opts ListOptions) ([]*Order, error) {
	where := `EXISTS (
		SELECT 1 FROM order_items oi
		WHERE oi.order_id = o.id AND oi.farmer_id = $1
	)`
	return r.list(ctx, where, []any{farmerID}, opts)
}

func (r *repository) ListAll(ctx context.Context, opts ListOptions) ([]*Order, error) {
	return r.list(ctx, "1=1", nil, opts)
}

func (r *repository) list(ctx context.Context, where string, args []any, opts ListOptions) ([]*Order, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "listOrders"),
	)

	finalLimit := int32(20)
	if opts.Limit > 0 {
		finalLimit = opts.Limit
	}
	if finalLimit > 100 {
		finalLimit = 100
	}

	finalPage := int32(1)
	if opts.Page > 0 {
		finalPage = opts.Page
	}
	offset := (finalPage - 1) * finalLimit

	query := `SELECT ` + aliasedOrderColumns("o") + ` FROM orders o WHERE ` + where
	if opts.Status != nil {
		query += fmt.Sprintf(" AND o.status = $%d", len(args)+1)
		args = append(args, *opts.Status)
	}
	query += " ORDER BY o.created_at DESC"
	query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, finalLimit, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query orders", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var orders []*Order
	var ids []string
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			log.Error("failed to scan order row", zap.Error(err))
			return nil, err
		}
		orders = append(orders, o)
		ids = append(ids, o.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(ids) > 0 {
		items, err := r.loadItems(ctx, ids)
		if err != nil {
			return nil, err
		}
		for _, o := range orders {
			o.Items = items[o.ID]
		}
	}

	return orders, nil
}

func aliasedOrderColumns(alias string) string {
	return alias + `.id, ` + alias + `.order_number, ` + alias + `.buyer_id,
	` + alias + `.ship_name, ` + alias + `.ship_line1, ` + alias + `.ship_city, ` + alias + `.ship_state, ` + alias + `.ship_postal_code, ` + alias + `.ship_phone,
	` + alias + `.payment_method, ` + alias + `.total_amount, ` + alias + `.status, ` + alias + `.created_at, ` + alias + `.updated_at`
}

func (r *repository) loadItems(ctx context.Context, orderIDs []string) (map[string][]LineItem, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, order_id, product_id, farmer_id, quantity, unit_price, subtotal
		FROM order_items
		WHERE order_id = ANY($1)
		ORDER BY id
	`, pq.Array(orderIDs))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make(map[string][]LineItem)
	for rows.Next() {
		var item LineItem
		if err := rows.Scan(
			&item.ID,
			&item.OrderID,
			&item.ProductID,
			&item.FarmerID,
			&item.Quantity,
			&item.UnitPrice,
			&item.Subtotal,
		); err != nil {
			return nil, err
		}
		result[item.OrderID] = append(result[item.OrderID], item)
	}

	return result, rows.Err()
}

// UpdateStatus writes the new status only if the row still holds the status
// the legality check was made against. Zero rows means a concurrent writer
// moved the order first.
func (r *repository) UpdateStatus(ctx context.Context, orderID string, from, to OrderStatus) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE orders
		SET status = $1, updated_at = NOW()
		WHERE id = $2 AND status = $3
	`, to, orderID, from)
	if err != nil {
		return err
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrIllegalTransition
	}

	return nil
}
