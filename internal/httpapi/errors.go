package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"farmlink-be/internal/cart"
	"farmlink-be/internal/catalog"
	"farmlink-be/internal/logger"
	"farmlink-be/internal/order"
	"farmlink-be/internal/user"

	"go.uber.org/zap"
)

// errorBody is the JSON shape of every non-2xx response. ProductID is set
// when a specific checkout line caused the failure.
type errorBody struct {
	Error     string `json:"error"`
	Kind      string `json:"kind"`
	ProductID string `json:"productId,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.L().Error("failed to encode response", zap.Error(err))
	}
}

// writeError translates domain errors into HTTP status codes. Anything it
// does not recognize is a 500 with the detail kept out of the body.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	body := errorBody{Error: err.Error()}

	var lineErr *order.LineError
	if errors.As(err, &lineErr) {
		body.ProductID = lineErr.ProductID
	}

	var status int
	switch {
	case errors.Is(err, order.ErrValidation),
		errors.Is(err, order.ErrEmptyOrder),
		errors.Is(err, cart.ErrInvalidQuantity),
		errors.Is(err, catalog.ErrInvalidInput),
		errors.Is(err, catalog.ErrInvalidStatus),
		errors.Is(err, user.ErrNotAFarmer):
		status, body.Kind = http.StatusBadRequest, "validation"

	case errors.Is(err, order.ErrInvalidProduct),
		errors.Is(err, cart.ErrInvalidProduct):
		status, body.Kind = http.StatusBadRequest, "invalid_product"

	case errors.Is(err, order.ErrInsufficientStock):
		status, body.Kind = http.StatusBadRequest, "insufficient_stock"

	case errors.Is(err, order.ErrIllegalTransition):
		status, body.Kind = http.StatusBadRequest, "illegal_transition"

	case errors.Is(err, order.ErrNotAuthorized),
		errors.Is(err, catalog.ErrNotAuthorized),
		errors.Is(err, catalog.ErrFarmerNotVerified),
		errors.Is(err, user.ErrNotAuthorized):
		status, body.Kind = http.StatusForbidden, "not_authorized"

	case errors.Is(err, order.ErrOrderNotFound),
		errors.Is(err, catalog.ErrProductNotFound),
		errors.Is(err, cart.ErrProductNotInCart),
		errors.Is(err, cart.ErrCartNotFound),
		errors.Is(err, user.ErrUserNotFound):
		status, body.Kind = http.StatusNotFound, "not_found"

	default:
		logger.FromCtx(r.Context()).Error("unhandled error", zap.Error(err))
		status, body.Kind = http.StatusInternalServerError, "internal"
		body.Error = "internal server error"
	}

	writeJSON(w, status, body)
}

func writeUnauthenticated(w http.ResponseWriter) {
	writeJSON(w, http.StatusUnauthorized, errorBody{
		Error: "authentication required",
		Kind:  "unauthenticated",
	})
}

func writeBadRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, errorBody{Error: msg, Kind: "validation"})
}
