package httpapi

import (
	"net/http"

	"farmlink-be/internal/user"
	"farmlink-be/internal/utils"

	"github.com/go-chi/chi/v5"
)

type UserHandler struct {
	svc user.Service
}

func NewUserHandler(svc user.Service) *UserHandler {
	return &UserHandler{svc: svc}
}

func (h *UserHandler) Routes(r chi.Router) {
	r.Patch("/{userID}/verify", h.verifyFarmer)
}

func (h *UserHandler) verifyFarmer(w http.ResponseWriter, r *http.Request) {
	if _, ok := utils.GetUserIDFromContext(r.Context()); !ok {
		writeUnauthenticated(w)
		return
	}

	u, err := h.svc.VerifyFarmer(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}
