// Package registerhttp exposes terminal registers over HTTP.
package registerhttp

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/quickpos/quickpos/internal/cart"
	"github.com/quickpos/quickpos/internal/catalog"
	"github.com/quickpos/quickpos/internal/platform/httpx"
	"github.com/quickpos/quickpos/internal/receipt"
	"github.com/quickpos/quickpos/internal/register"
	"github.com/quickpos/quickpos/internal/sales"
)

var timeNow = time.Now

// Completer runs the payment of a register. *checkout.Flow satisfies it.
type Completer interface {
	Complete(ctx context.Context, reg *register.Register, method sales.PaymentMethod) (sales.Sale, error)
}

// Handler wires register endpoints.
type Handler struct {
	registers *register.Manager
	catalog   *catalog.Service
	checkout  Completer
	formatter *receipt.Formatter
	logger    *slog.Logger
}

// NewHandler builds a register handler.
func NewHandler(registers *register.Manager, catalogSvc *catalog.Service, checkout Completer, formatter *receipt.Formatter, logger *slog.Logger) *Handler {
	return &Handler{registers: registers, catalog: catalogSvc, checkout: checkout, formatter: formatter, logger: logger}
}

// MountRoutes attaches register routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.listTerminals)
	r.Route("/{terminal}", func(r chi.Router) {
		r.Get("/", h.show)
		r.Put("/", h.open)
		r.Post("/items", h.addItem)
		r.Delete("/items", h.clearCart)
		r.Patch("/items/{productID}", h.updateQuantity)
		r.Delete("/items/{productID}", h.removeItem)
		r.Post("/checkout", h.openCheckout)
		r.Delete("/checkout", h.closeCheckout)
		r.Post("/checkout/complete", h.complete)
		r.Get("/receipt", h.showReceipt)
		r.Delete("/receipt", h.closeReceipt)
		r.Post("/orders", h.newOrder)
	})
}

type addItemRequest struct {
	ProductID int64 `json:"product_id" validate:"required,gt=0"`
}

type updateQuantityRequest struct {
	Quantity *int `json:"quantity" validate:"required"`
}

type completeRequest struct {
	PaymentMethod string `json:"payment_method" validate:"required,oneof=cash card credit"`
}

// Display carries preformatted amounts for the register screen.
type Display struct {
	Store    string `json:"store"`
	Subtotal string `json:"subtotal"`
	Tax      string `json:"tax"`
	Total    string `json:"total"`
	Clock    string `json:"clock"`
}

type registerResponse struct {
	Terminal string    `json:"terminal"`
	OpenedAt time.Time `json:"opened_at"`
	Register cart.View `json:"register"`
	Display  Display   `json:"display"`
}

func (h *Handler) listTerminals(w http.ResponseWriter, _ *http.Request) {
	httpx.JSON(w, http.StatusOK, map[string]any{"terminals": h.registers.IDs()})
}

// open starts a register for the terminal, or returns the running one.
func (h *Handler) open(w http.ResponseWriter, r *http.Request) {
	id, ok := terminalParam(w, r)
	if !ok {
		return
	}
	_, existed := h.registers.Lookup(id)
	reg := h.registers.Open(id)
	status := http.StatusCreated
	if existed {
		status = http.StatusOK
	}
	h.respond(w, status, reg, reg.View())
}

func (h *Handler) show(w http.ResponseWriter, r *http.Request) {
	reg, ok := h.lookup(w, r)
	if !ok {
		return
	}
	h.respond(w, http.StatusOK, reg, reg.View())
}

func (h *Handler) addItem(w http.ResponseWriter, r *http.Request) {
	reg, ok := h.register(w, r)
	if !ok {
		return
	}
	var req addItemRequest
	if !decode(w, r, &req) {
		return
	}
	product, err := h.catalog.Get(r.Context(), req.ProductID)
	if err != nil {
		h.fail(w, "lookup product", err)
		return
	}
	h.apply(w, reg, cart.AddItem{Product: product})
}

func (h *Handler) updateQuantity(w http.ResponseWriter, r *http.Request) {
	reg, ok := h.register(w, r)
	if !ok {
		return
	}
	productID, ok := productIDParam(w, r)
	if !ok {
		return
	}
	var req updateQuantityRequest
	if !decode(w, r, &req) {
		return
	}
	h.apply(w, reg, cart.UpdateQuantity{ProductID: productID, Quantity: *req.Quantity})
}

func (h *Handler) removeItem(w http.ResponseWriter, r *http.Request) {
	reg, ok := h.register(w, r)
	if !ok {
		return
	}
	productID, ok := productIDParam(w, r)
	if !ok {
		return
	}
	h.apply(w, reg, cart.RemoveItem{ProductID: productID})
}

func (h *Handler) clearCart(w http.ResponseWriter, r *http.Request) {
	if reg, ok := h.register(w, r); ok {
		h.apply(w, reg, cart.ClearCart{})
	}
}

func (h *Handler) openCheckout(w http.ResponseWriter, r *http.Request) {
	if reg, ok := h.register(w, r); ok {
		h.apply(w, reg, cart.OpenCheckout{})
	}
}

func (h *Handler) closeCheckout(w http.ResponseWriter, r *http.Request) {
	if reg, ok := h.register(w, r); ok {
		h.apply(w, reg, cart.CloseCheckout{})
	}
}

func (h *Handler) closeReceipt(w http.ResponseWriter, r *http.Request) {
	if reg, ok := h.register(w, r); ok {
		h.apply(w, reg, cart.CloseReceipt{})
	}
}

func (h *Handler) newOrder(w http.ResponseWriter, r *http.Request) {
	if reg, ok := h.register(w, r); ok {
		h.apply(w, reg, cart.NewOrder{})
	}
}

func (h *Handler) complete(w http.ResponseWriter, r *http.Request) {
	reg, ok := h.register(w, r)
	if !ok {
		return
	}
	var req completeRequest
	if !decode(w, r, &req) {
		return
	}
	sale, err := h.checkout.Complete(r.Context(), reg, sales.PaymentMethod(req.PaymentMethod))
	if err != nil {
		h.fail(w, "complete sale", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, map[string]any{
		"sale":     sale,
		"register": reg.View(),
		"receipt":  h.formatter.Render(sale),
	})
}

func (h *Handler) showReceipt(w http.ResponseWriter, r *http.Request) {
	reg, ok := h.lookup(w, r)
	if !ok {
		return
	}
	v := reg.View()
	if v.LastSale == nil {
		httpx.Problem(w, http.StatusNotFound, "Not Found", "no completed sale on this register")
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(h.formatter.Render(*v.LastSale)))
}

func (h *Handler) apply(w http.ResponseWriter, reg *register.Register, cmd cart.Command) {
	v, err := reg.Apply(cmd)
	if err != nil {
		h.fail(w, cart.Name(cmd), err)
		return
	}
	h.respond(w, http.StatusOK, reg, v)
}

func (h *Handler) respond(w http.ResponseWriter, status int, reg *register.Register, v cart.View) {
	httpx.JSON(w, status, registerResponse{
		Terminal: reg.ID(),
		OpenedAt: reg.OpenedAt(),
		Register: v,
		Display: Display{
			Store:    h.formatter.StoreName(),
			Subtotal: h.formatter.Currency(v.Subtotal),
			Tax:      h.formatter.Currency(v.TaxAmount),
			Total:    h.formatter.Currency(v.TotalAmount),
			Clock:    h.formatter.Clock(timeNow()),
		},
	})
}

func terminalParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := chi.URLParam(r, "terminal")
	if err := httpx.ValidateVar("terminal", id, "required,max=32,alphanum"); err != nil {
		httpx.RespondError(w, err)
		return "", false
	}
	return id, true
}

// register returns the terminal's register, opening it on first use.
func (h *Handler) register(w http.ResponseWriter, r *http.Request) (*register.Register, bool) {
	id, ok := terminalParam(w, r)
	if !ok {
		return nil, false
	}
	return h.registers.Open(id), true
}

// lookup returns an already open register and answers 404 otherwise.
func (h *Handler) lookup(w http.ResponseWriter, r *http.Request) (*register.Register, bool) {
	id, ok := terminalParam(w, r)
	if !ok {
		return nil, false
	}
	reg, found := h.registers.Lookup(id)
	if !found {
		httpx.Problem(w, http.StatusNotFound, "Not Found", "register "+id+" is not open")
		return nil, false
	}
	return reg, true
}

func (h *Handler) fail(w http.ResponseWriter, op string, err error) {
	if !isClientError(err) {
		h.logger.Error(op+" failed", slog.Any("error", err))
	}
	httpx.RespondError(w, err)
}

func isClientError(err error) bool {
	for _, target := range []error{httpx.ErrNotFound, httpx.ErrValidation, httpx.ErrConflict, httpx.ErrUnprocessable, httpx.ErrDuplicate} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := httpx.DecodeJSON(r, dst); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "malformed JSON body")
		return false
	}
	if err := httpx.Validate(dst); err != nil {
		httpx.RespondError(w, err)
		return false
	}
	return true
}

func productIDParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "productID"), 10, 64)
	if err != nil || id <= 0 {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "product id must be a positive integer")
		return 0, false
	}
	return id, true
}
