package httpapi

import (
	"net/http"

	"farmlink-be/internal/metrics"
)

type healthResponse struct {
	Status          string `json:"status"`
	OrdersPlaced    uint64 `json:"orders_placed"`
	CheckoutsFailed uint64 `json:"checkouts_failed"`
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:          "ok",
		OrdersPlaced:    metrics.OrdersPlaced.Load(),
		CheckoutsFailed: metrics.CheckoutsFailed.Load(),
	})
}
