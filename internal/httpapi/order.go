package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"

	"farmlink-be/internal/order"
	"farmlink-be/internal/utils"

	"github.com/go-chi/chi/v5"
)

type OrderHandler struct {
	svc order.Service
}

func NewOrderHandler(svc order.Service) *OrderHandler {
	return &OrderHandler{svc: svc}
}

func (h *OrderHandler) Routes(r chi.Router) {
	r.Post("/", h.checkout)
	r.Get("/", h.listMine)
	r.Get("/farmer", h.listForFarmer)
	r.Get("/all", h.listAll)
	r.Get("/{orderID}", h.get)
	r.Patch("/{orderID}/status", h.updateStatus)
}

type checkoutRequest struct {
	Items []struct {
		ProductID string `json:"productId"`
		Quantity  int    `json:"quantity"`
	} `json:"items"`
	ShippingAddress order.ShippingAddress `json:"shippingAddress"`
}

func (h *OrderHandler) checkout(w http.ResponseWriter, r *http.Request) {
	if _, ok := utils.GetUserIDFromContext(r.Context()); !ok {
		writeUnauthenticated(w)
		return
	}

	var req checkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	input := order.CheckoutInput{ShippingAddress: req.ShippingAddress}
	for _, item := range req.Items {
		input.Lines = append(input.Lines, order.CheckoutLine{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		})
	}

	o, err := h.svc.Checkout(r.Context(), input)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, o)
}

func (h *OrderHandler) get(w http.ResponseWriter, r *http.Request) {
	if _, ok := utils.GetUserIDFromContext(r.Context()); !ok {
		writeUnauthenticated(w)
		return
	}

	o, err := h.svc.GetOrder(r.Context(), chi.URLParam(r, "orderID"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, o)
}

func (h *OrderHandler) listMine(w http.ResponseWriter, r *http.Request) {
	if _, ok := utils.GetUserIDFromContext(r.Context()); !ok {
		writeUnauthenticated(w)
		return
	}

	orders, err := h.svc.ListMine(r.Context(), listOptionsFromQuery(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOrderList(w, orders)
}

func (h *OrderHandler) listForFarmer(w http.ResponseWriter, r *http.Request) {
	if _, ok := utils.GetUserIDFromContext(r.Context()); !ok {
		writeUnauthenticated(w)
		return
	}

	orders, err := h.svc.ListForFarmer(r.Context(), listOptionsFromQuery(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOrderList(w, orders)
}

func (h *OrderHandler) listAll(w http.ResponseWriter, r *http.Request) {
	if _, ok := utils.GetUserIDFromContext(r.Context()); !ok {
		writeUnauthenticated(w)
		return
	}

	orders, err := h.svc.ListAll(r.Context(), listOptionsFromQuery(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOrderList(w, orders)
}

func (h *OrderHandler) updateStatus(w http.ResponseWriter, r *http.Request) {
	if _, ok := utils.GetUserIDFromContext(r.Context()); !ok {
		writeUnauthenticated(w)
		return
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	o, err := h.svc.Transition(r.Context(), chi.URLParam(r, "orderID"), order.OrderStatus(req.Status))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, o)
}

func writeOrderList(w http.ResponseWriter, orders []*order.Order) {
	if orders == nil {
		orders = []*order.Order{}
	}
	writeJSON(w, http.StatusOK, orders)
}

func listOptionsFromQuery(r *http.Request) order.ListOptions {
	var opts order.ListOptions
	q := r.URL.Query()

	if s := q.Get("status"); s != "" {
		status := order.OrderStatus(s)
		opts.Status = &status
	}
	if limit, err := strconv.ParseInt(q.Get("limit"), 10, 32); err == nil {
		opts.Limit = int32(limit)
	}
	if page, err := strconv.ParseInt(q.Get("page"), 10, 32); err == nil {
		opts.Page = int32(page)
	}
	return opts
}
