package httpapi

import (
	"encoding/json"
	"net/http"

	"farmlink-be/internal/cart"
	"farmlink-be/internal/utils"

	"github.com/go-chi/chi/v5"
)

type CartHandler struct {
	svc cart.Service
}

func NewCartHandler(svc cart.Service) *CartHandler {
	return &CartHandler{svc: svc}
}

func (h *CartHandler) Routes(r chi.Router) {
	r.Get("/", h.get)
	r.Delete("/", h.clear)
	r.Post("/items", h.addItem)
	r.Patch("/items/{productID}", h.updateItem)
	r.Delete("/items/{productID}", h.removeItem)
}

func (h *CartHandler) get(w http.ResponseWriter, r *http.Request) {
	buyerID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		writeUnauthenticated(w)
		return
	}

	c, err := h.svc.Get(r.Context(), buyerID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

type cartItemRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

func (h *CartHandler) addItem(w http.ResponseWriter, r *http.Request) {
	buyerID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		writeUnauthenticated(w)
		return
	}

	var req cartItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	c, err := h.svc.AddOrUpdate(r.Context(), cart.AddToCartParams{
		BuyerID:   buyerID,
		ProductID: req.ProductID,
		Quantity:  req.Quantity,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *CartHandler) updateItem(w http.ResponseWriter, r *http.Request) {
	buyerID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		writeUnauthenticated(w)
		return
	}

	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	c, err := h.svc.SetQuantity(r.Context(), cart.UpdateCartParams{
		BuyerID:   buyerID,
		ProductID: chi.URLParam(r, "productID"),
		Quantity:  req.Quantity,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *CartHandler) removeItem(w http.ResponseWriter, r *http.Request) {
	buyerID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		writeUnauthenticated(w)
		return
	}

	c, err := h.svc.Remove(r.Context(), cart.RemoveFromCartParams{
		BuyerID:   buyerID,
		ProductID: chi.URLParam(r, "productID"),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *CartHandler) clear(w http.ResponseWriter, r *http.Request) {
	buyerID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		writeUnauthenticated(w)
		return
	}

	if err := h.svc.Clear(r.Context(), buyerID); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, &cart.Cart{BuyerID: buyerID, Items: []cart.Line{}})
}
