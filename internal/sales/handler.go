package sales

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/quickpos/quickpos/internal/platform/httpx"
)

// IdempotencyHeader carries the client's replay key.
const IdempotencyHeader = "Idempotency-Key"

// Handler manages sales endpoints.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers sales routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Get("/{saleNumber}", h.show)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	limit := DefaultListLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "limit must be a positive integer")
			return
		}
		limit = parsed
	}
	sales, err := h.service.Recent(r.Context(), limit)
	if err != nil {
		h.logger.Error("list sales failed", "error", err)
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "failed to fetch sales")
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"sales": sales})
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req RecordSaleRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "malformed JSON body")
		return
	}
	sale, err := h.service.Record(r.Context(), req, r.Header.Get(IdempotencyHeader))
	if err != nil {
		if !errors.Is(err, httpx.ErrValidation) && !errors.Is(err, httpx.ErrConflict) && !errors.Is(err, httpx.ErrDuplicate) {
			h.logger.Error("create sale failed", "error", err, "sale_number", req.SaleNumber)
		}
		httpx.RespondError(w, err)
		return
	}
	h.logger.Info("sale recorded", "sale_number", sale.SaleNumber, "total", sale.TotalAmount.StringFixed(2))
	httpx.JSON(w, http.StatusCreated, map[string]any{"sale": sale})
}

func (h *Handler) show(w http.ResponseWriter, r *http.Request) {
	sale, err := h.service.Get(r.Context(), chi.URLParam(r, "saleNumber"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"sale": sale})
}
