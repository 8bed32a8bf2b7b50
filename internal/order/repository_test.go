package order

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pendingOrder(items ...LineItem) *Order {
	return &Order{
		ID:          "ord-1",
		OrderNumber: "ORD-20250101-120000-000-0001",
		BuyerID:     "buyer-1",
		Items:       items,
		ShippingAddress: ShippingAddress{
			Name:       "Budi",
			Line1:      "Jl. Mawar 1",
			City:       "Bandung",
			State:      "Jawa Barat",
			PostalCode: "401234",
			Phone:      "0812345678",
		},
		PaymentMethod: PaymentCOD,
		Status:        StatusPending,
	}
}

func TestRepository_CreateOrderTx(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		repo := NewRepository(db)
		o := pendingOrder(
			LineItem{ProductID: "prod-1", Quantity: 2},
			LineItem{ProductID: "prod-2", Quantity: 1},
		)

		mock.ExpectBegin()
		mock.ExpectQuery("UPDATE products").
			WithArgs(2, "prod-1").
			WillReturnRows(sqlmock.NewRows([]string{"price", "farmer_id"}).AddRow(int64(1500), "farmer-1"))
		mock.ExpectQuery("UPDATE products").
			WithArgs(1, "prod-2").
			WillReturnRows(sqlmock.NewRows([]string{"price", "farmer_id"}).AddRow(int64(700), "farmer-2"))
		mock.ExpectQuery("INSERT INTO orders").
			WithArgs(
				o.ID, o.OrderNumber, o.BuyerID,
				o.ShippingAddress.Name, o.ShippingAddress.Line1, o.ShippingAddress.City,
				o.ShippingAddress.State, o.ShippingAddress.PostalCode, o.ShippingAddress.Phone,
				o.PaymentMethod, int64(3700), o.Status,
			).
			WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(time.Now(), time.Now()))
		mock.ExpectExec("INSERT INTO order_items").
			WithArgs(sqlmock.AnyArg(), o.ID, "prod-1", "farmer-1", 2, int64(1500), int64(3000)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("INSERT INTO order_items").
			WithArgs(sqlmock.AnyArg(), o.ID, "prod-2", "farmer-2", 1, int64(700), int64(700)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("DELETE FROM cart_items").
			WithArgs(o.BuyerID).
			WillReturnResult(sqlmock.NewResult(0, 2))
		mock.ExpectCommit()

		err = repo.CreateOrderTx(context.Background(), o)
		assert.NoError(t, err)
		assert.Equal(t, int64(3700), o.TotalAmount)
		assert.Equal(t, "farmer-1", o.Items[0].FarmerID)
		assert.Equal(t, int64(1500), o.Items[0].UnitPrice)
		assert.Equal(t, int64(3000), o.Items[0].Subtotal)
		assert.NotEmpty(t, o.Items[0].ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Insufficient stock rolls everything back", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		repo := NewRepository(db)
		o := pendingOrder(
			LineItem{ProductID: "prod-1", Quantity: 1},
			LineItem{ProductID: "prod-2", Quantity: 99},
		)

		mock.ExpectBegin()
		mock.ExpectQuery("UPDATE products").
			WithArgs(1, "prod-1").
			WillReturnRows(sqlmock.NewRows([]string{"price", "farmer_id"}).AddRow(int64(1500), "farmer-1"))
		mock.ExpectQuery("UPDATE products").
			WithArgs(99, "prod-2").
			WillReturnRows(sqlmock.NewRows([]string{"price", "farmer_id"}))
		mock.ExpectQuery("SELECT status, stock FROM products").
			WithArgs("prod-2").
			WillReturnRows(sqlmock.NewRows([]string{"status", "stock"}).AddRow("approved", 3))
		mock.ExpectRollback()

		err = repo.CreateOrderTx(context.Background(), o)
		assert.ErrorIs(t, err, ErrInsufficientStock)

		var lineErr *LineError
		require.ErrorAs(t, err, &lineErr)
		assert.Equal(t, "prod-2", lineErr.ProductID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Unknown product", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		repo := NewRepository(db)
		o := pendingOrder(LineItem{ProductID: "ghost", Quantity: 1})

		mock.ExpectBegin()
		mock.ExpectQuery("UPDATE products").
			WithArgs(1, "ghost").
			WillReturnRows(sqlmock.NewRows([]string{"price", "farmer_id"}))
		mock.ExpectQuery("SELECT status, stock FROM products").
			WithArgs("ghost").
			WillReturnRows(sqlmock.NewRows([]string{"status", "stock"}))
		mock.ExpectRollback()

		err = repo.CreateOrderTx(context.Background(), o)
		assert.ErrorIs(t, err, ErrInvalidProduct)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Unapproved product", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		repo := NewRepository(db)
		o := pendingOrder(LineItem{ProductID: "prod-1", Quantity: 1})

		mock.ExpectBegin()
		mock.ExpectQuery("UPDATE products").
			WithArgs(1, "prod-1").
			WillReturnRows(sqlmock.NewRows([]string{"price", "farmer_id"}))
		mock.ExpectQuery("SELECT status, stock FROM products").
			WithArgs("prod-1").
			WillReturnRows(sqlmock.NewRows([]string{"status", "stock"}).AddRow("pending", 10))
		mock.ExpectRollback()

		err = repo.CreateOrderTx(context.Background(), o)
		assert.ErrorIs(t, err, ErrInvalidProduct)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Insert failure rolls back", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		repo := NewRepository(db)
		o := pendingOrder(LineItem{ProductID: "prod-1", Quantity: 1})

		mock.ExpectBegin()
		mock.ExpectQuery("UPDATE products").
			WithArgs(1, "prod-1").
			WillReturnRows(sqlmock.NewRows([]string{"price", "farmer_id"}).AddRow(int64(1500), "farmer-1"))
		mock.ExpectQuery("INSERT INTO orders").
			WillReturnError(errors.New("db error"))
		mock.ExpectRollback()

		err = repo.CreateOrderTx(context.Background(), o)
		assert.Error(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRepository_GetByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)

	orderRows := func() *sqlmock.Rows {
		return sqlmock.NewRows([]string{
			"id", "order_number", "buyer_id",
			"ship_name", "ship_line1", "ship_city", "ship_state", "ship_postal_code", "ship_phone",
			"payment_method", "total_amount", "status", "created_at", "updated_at",
		}).AddRow(
			"ord-1", "ORD-20250101-120000-000-0001", "buyer-1",
			"Budi", "Jl. Mawar 1", "Bandung", "Jawa Barat", "401234", "0812345678",
			"COD", int64(3000), "pending", time.Now(), time.Now(),
		)
	}

	t.Run("Success", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM orders WHERE id").
			WithArgs("ord-1").
			WillReturnRows(orderRows())
		mock.ExpectQuery("SELECT (.+) FROM order_items").
			WithArgs(pq.Array([]string{"ord-1"})).
			WillReturnRows(sqlmock.NewRows([]string{
				"id", "order_id", "product_id", "farmer_id", "quantity", "unit_price", "subtotal",
			}).AddRow("item-1", "ord-1", "prod-1", "farmer-1", 2, int64(1500), int64(3000)))

		o, err := repo.GetByID(context.Background(), "ord-1")
		assert.NoError(t, err)
		require.NotNil(t, o)
		assert.Equal(t, StatusPending, o.Status)
		require.Len(t, o.Items, 1)
		assert.Equal(t, "farmer-1", o.Items[0].FarmerID)
	})

	t.Run("Not found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM orders WHERE id").
			WithArgs("ghost").
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		_, err := repo.GetByID(context.Background(), "ghost")
		assert.ErrorIs(t, err, ErrOrderNotFound)
	})
}

func TestRepository_ListByFarmer(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)

	rows := sqlmock.NewRows([]string{
		"id", "order_number", "buyer_id",
		"ship_name", "ship_line1", "ship_city", "ship_state", "ship_postal_code", "ship_phone",
		"payment_method", "total_amount", "status", "created_at", "updated_at",
	}).AddRow(
		"ord-1", "ORD-20250101-120000-000-0001", "buyer-1",
		"Budi", "Jl. Mawar 1", "Bandung", "Jawa Barat", "401234", "0812345678",
		"COD", int64(3000), "confirmed", time.Now(), time.Now(),
	)

	mock.ExpectQuery("SELECT (.+) FROM orders o WHERE EXISTS").
		WithArgs("farmer-1", int32(20), int32(0)).
		WillReturnRows(rows)
	mock.ExpectQuery("SELECT (.+) FROM order_items").
		WithArgs(pq.Array([]string{"ord-1"})).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "order_id", "product_id", "farmer_id", "quantity", "unit_price", "subtotal",
		}).AddRow("item-1", "ord-1", "prod-1", "farmer-1", 2, int64(1500), int64(3000)))

	orders, err := repo.ListByFarmer(context.Background(), "farmer-1", ListOptions{})
	assert.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, StatusConfirmed, orders[0].Status)
	require.Len(t, orders[0].Items, 1)
}

func TestRepository_ListAll_StatusFilter(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	status := StatusPending

	mock.ExpectQuery("SELECT (.+) FROM orders o WHERE 1=1 AND o.status").
		WithArgs(status, int32(10), int32(10)).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "order_number", "buyer_id",
			"ship_name", "ship_line1", "ship_city", "ship_state", "ship_postal_code", "ship_phone",
			"payment_method", "total_amount", "status", "created_at", "updated_at",
		}))

	orders, err := repo.ListAll(context.Background(), ListOptions{Status: &status, Limit: 10, Page: 2})
	assert.NoError(t, err)
	assert.Empty(t, orders)
}

func TestRepository_UpdateStatus(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)

	t.Run("Success", func(t *testing.T) {
		mock.ExpectExec("UPDATE orders").
			WithArgs(StatusConfirmed, "ord-1", StatusPending).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.UpdateStatus(context.Background(), "ord-1", StatusPending, StatusConfirmed)
		assert.NoError(t, err)
	})

	t.Run("Concurrent writer moved the order first", func(t *testing.T) {
		mock.ExpectExec("UPDATE orders").
			WithArgs(StatusConfirmed, "ord-1", StatusPending).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.UpdateStatus(context.Background(), "ord-1", StatusPending, StatusConfirmed)
		assert.ErrorIs(t, err, ErrIllegalTransition)
	})

	t.Run("Error", func(t *testing.T) {
		mock.ExpectExec("UPDATE orders").
			WillReturnError(errors.New("db error"))

		err := repo.UpdateStatus(context.Background(), "ord-1", StatusPending, StatusConfirmed)
		assert.Error(t, err)
	})
}
