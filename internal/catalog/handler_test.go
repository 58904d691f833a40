package catalog

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter() http.Handler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := NewHandler(logger, NewService(NewSeededProvider(), logger))
	r := chi.NewRouter()
	r.Route("/api/products", h.MountRoutes)
	return r
}

func TestHandlerListProducts(t *testing.T) {
	router := newTestRouter()

	tests := []struct {
		name   string
		target string
		status int
		count  int
	}{
		{name: "all", target: "/api/products", status: http.StatusOK, count: 36},
		{name: "All category", target: "/api/products?category=All", status: http.StatusOK, count: 36},
		{name: "category", target: "/api/products?category=Main%20Course", status: http.StatusOK, count: 6},
		{name: "search", target: "/api/products?search=pizza", status: http.StatusOK, count: 1},
		{name: "unknown category", target: "/api/products?category=Breakfast", status: http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.target, nil))
			require.Equal(t, tt.status, rec.Code)
			if tt.status != http.StatusOK {
				return
			}
			var body struct {
				Products []Product `json:"products"`
			}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Len(t, body.Products, tt.count)
		})
	}
}

func TestHandlerShowProduct(t *testing.T) {
	router := newTestRouter()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/products/3", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Product Product `json:"product"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Cappuccino", body.Product.Name)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/products/999", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/products/abc", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandlerCategories(t *testing.T) {
	router := newTestRouter()
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/products/categories", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Categories []string `json:"categories"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, []string{"All", "Hot Drinks", "Cold Drinks", "Appetizers", "Main Course", "Desserts", "Sides"}, body.Categories)
}
