package http

import (
	"net/http"

	"github.com/vncsmyrnk/polls/internal/core/domain"
	"github.com/vncsmyrnk/polls/internal/core/ports"
	"go.uber.org/zap"
)

type AdminHandler struct {
	service ports.AdminService
	logger  *zap.Logger
}

func NewAdminHandler(service ports.AdminService, logger *zap.Logger) *AdminHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AdminHandler{
		service: service,
		logger:  logger,
	}
}

func (h *AdminHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	adminID, ok := AdminFromContext(r.Context())
	if !ok {
		writeError(w, r, h.logger, domain.ErrUnauthorized)
		return
	}

	admin, err := h.service.GetByID(r.Context(), adminID)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	if admin == nil {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "admin not found"})
		return
	}

	writeJSON(w, http.StatusOK, admin)
}
