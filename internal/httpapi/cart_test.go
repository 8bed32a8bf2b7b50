package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"farmlink-be/internal/cart"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockCartService struct {
	mock.Mock
}

func (m *MockCartService) AddOrUpdate(ctx context.Context, params cart.AddToCartParams) (*cart.Cart, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cart.Cart), args.Error(1)
}

func (m *MockCartService) SetQuantity(ctx context.Context, params cart.UpdateCartParams) (*cart.Cart, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cart.Cart), args.Error(1)
}

func (m *MockCartService) Remove(ctx context.Context, params cart.RemoveFromCartParams) (*cart.Cart, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cart.Cart), args.Error(1)
}

func (m *MockCartService) Clear(ctx context.Context, buyerID string) error {
	args := m.Called(ctx, buyerID)
	return args.Error(0)
}

func (m *MockCartService) Get(ctx context.Context, buyerID string) (*cart.Cart, error) {
	args := m.Called(ctx, buyerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cart.Cart), args.Error(1)
}

func cartRouter(svc cart.Service, identity func(http.Handler) http.Handler) http.Handler {
	r := chi.NewRouter()
	if identity != nil {
		r.Use(identity)
	}
	r.Route("/api/cart", NewCartHandler(svc).Routes)
	return r
}

func TestCartHandler_Get(t *testing.T) {
	t.Run("Live totals returned", func(t *testing.T) {
		svc := new(MockCartService)
		svc.On("Get", mock.Anything, "buyer-1").Return(&cart.Cart{
			BuyerID: "buyer-1",
			Items: []cart.Line{
				{ProductID: "prod-1", Name: "Tomat", Price: 1500, Quantity: 2, Subtotal: 3000},
			},
			Subtotal: 3000,
		}, nil)

		req := httptest.NewRequest(http.MethodGet, "/api/cart", nil)
		rec := httptest.NewRecorder()
		cartRouter(svc, testIdentity("buyer-1", "buyer")).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)

		var got cart.Cart
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, int64(3000), got.Subtotal)
		require.Len(t, got.Items, 1)
	})

	t.Run("Anonymous gets 401", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/cart", nil)
		rec := httptest.NewRecorder()
		cartRouter(new(MockCartService), nil).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestCartHandler_AddItem(t *testing.T) {
	t.Run("Overwrites quantity", func(t *testing.T) {
		svc := new(MockCartService)
		svc.On("AddOrUpdate", mock.Anything, cart.AddToCartParams{
			BuyerID:   "buyer-1",
			ProductID: "prod-1",
			Quantity:  3,
		}).Return(&cart.Cart{BuyerID: "buyer-1"}, nil)

		req := httptest.NewRequest(http.MethodPost, "/api/cart/items",
			strings.NewReader(`{"productId":"prod-1","quantity":3}`))
		rec := httptest.NewRecorder()
		cartRouter(svc, testIdentity("buyer-1", "buyer")).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		svc.AssertExpectations(t)
	})

	t.Run("Unapproved product rejected", func(t *testing.T) {
		svc := new(MockCartService)
		svc.On("AddOrUpdate", mock.Anything, mock.Anything).Return(nil, cart.ErrInvalidProduct)

		req := httptest.NewRequest(http.MethodPost, "/api/cart/items",
			strings.NewReader(`{"productId":"prod-9","quantity":1}`))
		rec := httptest.NewRecorder()
		cartRouter(svc, testIdentity("buyer-1", "buyer")).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)

		var errResp errorBody
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &errResp))
		assert.Equal(t, "invalid_product", errResp.Kind)
	})
}

func TestCartHandler_UpdateItem(t *testing.T) {
	t.Run("Missing row is 404", func(t *testing.T) {
		svc := new(MockCartService)
		svc.On("SetQuantity", mock.Anything, cart.UpdateCartParams{
			BuyerID:   "buyer-1",
			ProductID: "prod-1",
			Quantity:  5,
		}).Return(nil, cart.ErrProductNotInCart)

		req := httptest.NewRequest(http.MethodPatch, "/api/cart/items/prod-1",
			strings.NewReader(`{"quantity":5}`))
		rec := httptest.NewRecorder()
		cartRouter(svc, testIdentity("buyer-1", "buyer")).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestCartHandler_Clear(t *testing.T) {
	t.Run("No cart is 404", func(t *testing.T) {
		svc := new(MockCartService)
		svc.On("Clear", mock.Anything, "buyer-1").Return(cart.ErrCartNotFound)

		req := httptest.NewRequest(http.MethodDelete, "/api/cart", nil)
		rec := httptest.NewRecorder()
		cartRouter(svc, testIdentity("buyer-1", "buyer")).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("Success returns empty cart", func(t *testing.T) {
		svc := new(MockCartService)
		svc.On("Clear", mock.Anything, "buyer-1").Return(nil)

		req := httptest.NewRequest(http.MethodDelete, "/api/cart", nil)
		rec := httptest.NewRecorder()
		cartRouter(svc, testIdentity("buyer-1", "buyer")).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)

		var got cart.Cart
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Empty(t, got.Items)
	})
}
