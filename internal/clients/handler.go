package clients

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/odyssey-erp/salesbook/internal/platform/httpx"
)

type Handler struct {
	logger    *slog.Logger
	service   *Service
	validator *httpx.Validator
}

func NewHandler(logger *slog.Logger, service *Service, validator *httpx.Validator) *Handler {
	return &Handler{
		logger:    logger,
		service:   service,
		validator: validator,
	}
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	res, err := h.service.ListClients(r.Context())
	if err != nil {
		h.logger.Error("list clients failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.WriteResult(w, res)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateClientRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if errs := h.validator.Struct(req); errs != nil {
		httpx.ValidationFailed(w, errs)
		return
	}

	res, err := h.service.CreateClient(r.Context(), req)
	if err != nil {
		h.logger.Error("create client failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	if res.Succeeded() {
		w.Header().Set("Location", clientLocation(res.Data.ID))
	}
	httpx.WriteResult(w, res)
}

func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.IDParam(r, "id")
	if err != nil {
		httpx.ValidationFailed(w, map[string]string{"id": err.Error()})
		return
	}

	filter, errs := parseSaleFilter(r)
	if errs == nil {
		errs = h.validator.Struct(filter)
	}
	if errs != nil {
		httpx.ValidationFailed(w, errs)
		return
	}

	res, err := h.service.GetClient(r.Context(), id, filter)
	if err != nil {
		h.logger.Error("get client failed", slog.Int64("client_id", id), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.WriteResult(w, res)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.IDParam(r, "id")
	if err != nil {
		httpx.ValidationFailed(w, map[string]string{"id": err.Error()})
		return
	}

	var req UpdateClientRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.IsEmpty() {
		httpx.ValidationFailed(w, map[string]string{"body": "at least one field must be provided"})
		return
	}
	if errs := h.validator.Struct(req); errs != nil {
		httpx.ValidationFailed(w, errs)
		return
	}

	res, err := h.service.UpdateClient(r.Context(), id, req)
	if err != nil {
		h.logger.Error("update client failed", slog.Int64("client_id", id), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.WriteResult(w, res)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.IDParam(r, "id")
	if err != nil {
		httpx.ValidationFailed(w, map[string]string{"id": err.Error()})
		return
	}

	res, err := h.service.DeleteClient(r.Context(), id)
	if err != nil {
		h.logger.Error("delete client failed", slog.Int64("client_id", id), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.WriteResult(w, res)
}

func parseSaleFilter(r *http.Request) (SaleFilter, map[string]string) {
	var filter SaleFilter
	errs := map[string]string{}
	for _, name := range []string{"month", "year"} {
		v, err := httpx.OptionalIntQuery(r, name)
		if err != nil {
			errs[name] = err.Error()
			continue
		}
		if name == "month" {
			filter.Month = v
		} else {
			filter.Year = v
		}
	}
	if len(errs) > 0 {
		return filter, errs
	}
	return filter, nil
}

func clientLocation(id int64) string {
	return "/clients/" + strconv.FormatInt(id, 10)
}
