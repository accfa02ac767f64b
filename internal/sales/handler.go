package sales

import (
	"log/slog"
	"net/http"

	"github.com/odyssey-erp/salesbook/internal/platform/httpx"
)

// Handler wires sale endpoints.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	validator *httpx.Validator
}

// NewHandler constructs the sales handler.
func NewHandler(logger *slog.Logger, service *Service, validator *httpx.Validator) *Handler {
	return &Handler{logger: logger, service: service, validator: validator}
}

// Create handles POST /clients/{clientId}/sales.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	clientID, err := httpx.IDParam(r, "clientId")
	if err != nil {
		httpx.ValidationFailed(w, map[string]string{"clientId": err.Error()})
		return
	}

	var req CreateSaleRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if errs := h.validator.Struct(req); errs != nil {
		httpx.ValidationFailed(w, errs)
		return
	}

	res, err := h.service.CreateSale(r.Context(), clientID, req)
	if err != nil {
		h.logger.Error("create sale failed", slog.Int64("client_id", clientID), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.WriteResult(w, res)
}
