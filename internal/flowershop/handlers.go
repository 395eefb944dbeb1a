package flowershop

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/ucpkit/flowerbridge/internal/infra/eventbus"
)

// Handler serves the flower-shop REST API.
type Handler struct {
	catalog   *CatalogService
	checkouts *CheckoutService
	orders    *OrderService
}

func NewHandler(db *sql.DB, bus eventbus.EventBus) *Handler {
	catalog := NewCatalogService(db)
	return &Handler{
		catalog:   catalog,
		checkouts: NewCheckoutService(db, catalog, bus),
		orders:    NewOrderService(db),
	}
}

// NewRouter creates the chi router with all shop routes.
func NewRouter(db *sql.DB, bus eventbus.EventBus) *chi.Mux {
	h := NewHandler(db, bus)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "server": "flowershop"})
	})

	r.Get("/.well-known/ucp", h.Discovery)

	r.Route("/products", func(r chi.Router) {
		r.Get("/", h.ListProducts)
		r.Get("/{id}", h.GetProduct)
	})

	r.Route("/checkouts", func(r chi.Router) {
		r.Post("/", h.CreateCheckout)
		r.Get("/{id}", h.GetCheckout)
		r.Put("/{id}", h.UpdateCheckout)
		r.Post("/{id}/submit", h.SubmitCheckout)
	})

	r.Route("/orders", func(r chi.Router) {
		r.Get("/", h.ListOrders)
		r.Get("/{id}", h.GetOrder)
	})

	return r
}

// Discovery handles GET /.well-known/ucp
func (h *Handler) Discovery(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(DiscoveryProfile()) //nolint:errcheck
}

// ListProducts handles GET /products
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	var maxPrice *float64
	if raw := r.URL.Query().Get("max_price"); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "max_price must be a number")
			return
		}
		maxPrice = &parsed
	}

	products, err := h.catalog.List(r.Context(), maxPrice)
	if err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("failed to list products: %v", err))
		return
	}
	writeJSON(w, http.StatusOK, products)
}

// GetProduct handles GET /products/{id}
func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	product, err := h.catalog.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, product)
}

// CreateCheckout handles POST /checkouts
func (h *Handler) CreateCheckout(w http.ResponseWriter, r *http.Request) {
	var in CreateCheckoutInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	checkout, err := h.checkouts.Create(r.Context(), in)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, checkout)
}

// GetCheckout handles GET /checkouts/{id}
func (h *Handler) GetCheckout(w http.ResponseWriter, r *http.Request) {
	checkout, err := h.checkouts.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, checkout)
}

// UpdateCheckout handles PUT /checkouts/{id}
func (h *Handler) UpdateCheckout(w http.ResponseWriter, r *http.Request) {
	var in UpdateCheckoutInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	checkout, err := h.checkouts.Update(r.Context(), chi.URLParam(r, "id"), in)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, checkout)
}

// SubmitCheckout handles POST /checkouts/{id}/submit
func (h *Handler) SubmitCheckout(w http.ResponseWriter, r *http.Request) {
	var payment json.RawMessage
	if r.Body != nil {
		// The payment payload is optional and opaque; decode failures are
		// treated as an empty payment.
		_ = json.NewDecoder(r.Body).Decode(&payment)
	}

	order, err := h.checkouts.Submit(r.Context(), chi.URLParam(r, "id"), payment)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

// GetOrder handles GET /orders/{id}
func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	order, err := h.orders.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

// ListOrders handles GET /orders
func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orders.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("failed to list orders: %v", err))
		return
	}
	writeJSON(w, http.StatusOK, orders)
}

// ===== HELPERS =====

// writeServiceError maps domain errors onto HTTP statuses.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrProductNotFound),
		errors.Is(err, ErrCheckoutNotFound),
		errors.Is(err, ErrOrderNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, ErrOutOfStock):
		writeError(w, http.StatusConflict, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

// writeJSON writes a JSON response with the given status.
func writeJSON(w http.ResponseWriter, statusCode int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		http.Error(w, `{"error":"failed to encode response"}`, http.StatusInternalServerError)
	}
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, map[string]string{"error": message})
}
