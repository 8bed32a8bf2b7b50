package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"

	"farmlink-be/internal/catalog"
	"farmlink-be/internal/utils"

	"github.com/go-chi/chi/v5"
)

type ProductHandler struct {
	svc catalog.Service
}

func NewProductHandler(svc catalog.Service) *ProductHandler {
	return &ProductHandler{svc: svc}
}

func (h *ProductHandler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Get("/{productID}", h.get)
	r.Put("/{productID}", h.update)
	r.Delete("/{productID}", h.delete)
	r.Patch("/{productID}/status", h.setStatus)
}

func (h *ProductHandler) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	opts := catalog.ListOptions{
		FarmerID:     q.Get("farmerId"),
		OnlyApproved: q.Get("all") != "true",
	}
	if limit, err := strconv.ParseInt(q.Get("limit"), 10, 32); err == nil {
		opts.Limit = int32(limit)
	}
	if page, err := strconv.ParseInt(q.Get("page"), 10, 32); err == nil {
		opts.Page = int32(page)
	}

	products, err := h.svc.List(r.Context(), opts)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if products == nil {
		products = []*catalog.Product{}
	}
	writeJSON(w, http.StatusOK, products)
}

func (h *ProductHandler) get(w http.ResponseWriter, r *http.Request) {
	p, err := h.svc.GetByID(r.Context(), chi.URLParam(r, "productID"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

type productRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
	Category    string  `json:"category"`
	Unit        string  `json:"unit"`
	Price       int64   `json:"price"`
	Stock       int     `json:"stock"`
}

func (h *ProductHandler) create(w http.ResponseWriter, r *http.Request) {
	if _, ok := utils.GetUserIDFromContext(r.Context()); !ok {
		writeUnauthenticated(w)
		return
	}

	var req productRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	p, err := h.svc.Create(r.Context(), catalog.CreateProductInput{
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		Unit:        req.Unit,
		Price:       req.Price,
		Stock:       req.Stock,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

type productUpdateRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Category    *string `json:"category"`
	Unit        *string `json:"unit"`
	Price       *int64  `json:"price"`
	Stock       *int    `json:"stock"`
}

func (h *ProductHandler) update(w http.ResponseWriter, r *http.Request) {
	if _, ok := utils.GetUserIDFromContext(r.Context()); !ok {
		writeUnauthenticated(w)
		return
	}

	var req productUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	p, err := h.svc.Update(r.Context(), catalog.UpdateProductInput{
		ProductID:   chi.URLParam(r, "productID"),
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		Unit:        req.Unit,
		Price:       req.Price,
		Stock:       req.Stock,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *ProductHandler) delete(w http.ResponseWriter, r *http.Request) {
	if _, ok := utils.GetUserIDFromContext(r.Context()); !ok {
		writeUnauthenticated(w)
		return
	}

	if err := h.svc.Delete(r.Context(), chi.URLParam(r, "productID")); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *ProductHandler) setStatus(w http.ResponseWriter, r *http.Request) {
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

	p, err := h.svc.SetStatus(r.Context(), chi.URLParam(r, "productID"), catalog.ProductStatus(req.Status))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}
