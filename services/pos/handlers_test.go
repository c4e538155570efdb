package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
)

func setupServer(t *testing.T) (*gin.Engine, *Store) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	storage, err := NewFileStorage(t.TempDir())
	require.NoError(t, err)

	store := newTestStore(storage)
	require.NoError(t, store.LoadState(context.Background()))

	handler := NewPosHandler(store, otel.Tracer("pos-service-test"))
	r := gin.New()
	handler.RegisterRoutes(r)
	return r, store
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCreateProductEndpoint(t *testing.T) {
	r, store := setupServer(t)

	w := doJSON(t, r, http.MethodPost, "/api/products", gin.H{
		"name":      "Pão Francês",
		"category":  "bread",
		"price":     0.75,
		"cost":      0.35,
		"stock":     150,
		"min_stock": 30,
	})

	require.Equal(t, http.StatusCreated, w.Code)

	var product Product
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &product))
	assert.NotEmpty(t, product.ID)
	assert.Equal(t, "Pão Francês", product.Name)
	assert.Len(t, store.Products(), 1)
}

func TestCreateProductRejectsInvalidCategory(t *testing.T) {
	r, store := setupServer(t)

	w := doJSON(t, r, http.MethodPost, "/api/products", gin.H{
		"name":     "Pizza",
		"category": "pizza",
		"price":    10.0,
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, store.Products())
}

func TestUpdateProductEndpointNotFound(t *testing.T) {
	r, _ := setupServer(t)

	w := doJSON(t, r, http.MethodPut, "/api/products/missing-id", gin.H{"price": 9.99})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCheckoutEndpoint(t *testing.T) {
	r, store := setupServer(t)

	product, err := store.CreateProduct(context.Background(), CreateProductRequest{
		Name: "Pão Francês", Category: CategoryBread, Price: 2.00, Cost: 0.80, Stock: 10, MinStock: 2,
	})
	require.NoError(t, err)

	w := doJSON(t, r, http.MethodPost, "/api/sales/checkout", gin.H{
		"items": []gin.H{
			{"product_id": product.ID, "quantity": 3},
		},
		"payment_method": "cash",
		"cashier_id":     "caixa1",
		"received_cash":  10.00,
	})

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Sale   Sale    `json:"sale"`
		Change float64 `json:"change"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 6.00, resp.Sale.Total)
	assert.Equal(t, 4.00, resp.Change)

	updated, _ := store.ProductByID(product.ID)
	assert.Equal(t, 7, updated.Stock)
	assert.Len(t, store.Sales(), 1)
}

func TestCheckoutEndpointUnknownProduct(t *testing.T) {
	r, store := setupServer(t)

	w := doJSON(t, r, http.MethodPost, "/api/sales/checkout", gin.H{
		"items": []gin.H{
			{"product_id": "ghost", "quantity": 1},
		},
		"payment_method": "pix",
		"cashier_id":     "caixa1",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, store.Sales())
}

func TestCheckoutEndpointRequiresItems(t *testing.T) {
	r, _ := setupServer(t)

	w := doJSON(t, r, http.MethodPost, "/api/sales/checkout", gin.H{
		"items":          []gin.H{},
		"payment_method": "card",
		"cashier_id":     "caixa1",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSettingsEndpoints(t *testing.T) {
	r, _ := setupServer(t)

	w := doJSON(t, r, http.MethodGet, "/api/settings", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var settings Settings
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &settings))
	assert.Equal(t, DefaultSettings(), settings)

	settings.BakeryName = "Padaria Nova Esperança"
	w = doJSON(t, r, http.MethodPut, "/api/settings", settings)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/settings", nil)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &settings))
	assert.Equal(t, "Padaria Nova Esperança", settings.BakeryName)
}

func TestBackupEndpoint(t *testing.T) {
	r, store := setupServer(t)

	_, err := store.CreateProduct(context.Background(), CreateProductRequest{
		Name: "Croissant", Category: CategorySweet, Price: 4.50, Cost: 2.20, Stock: 25, MinStock: 10,
	})
	require.NoError(t, err)

	w := doJSON(t, r, http.MethodGet, "/api/backup", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "attachment")
	assert.Contains(t, w.Header().Get("Content-Disposition"), "bakery_backup_")

	var backup Backup
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &backup))
	assert.False(t, backup.GeneratedAt.IsZero())
	assert.Len(t, backup.Products, 1)
}

func TestReportsEndpoints(t *testing.T) {
	r, store := setupServer(t)

	product, err := store.CreateProduct(context.Background(), CreateProductRequest{
		Name: "Pão Francês", Category: CategoryBread, Price: 0.75, Cost: 0.35, Stock: 5, MinStock: 30,
	})
	require.NoError(t, err)
	_, err = store.Checkout(context.Background(), saleFor(store, product, 2, PaymentCash, ""))
	require.NoError(t, err)

	w := doJSON(t, r, http.MethodGet, "/api/reports/daily", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var daily struct {
		Days []DailySales `json:"days"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &daily))
	require.Len(t, daily.Days, 1)
	assert.Equal(t, 1, daily.Days[0].TotalTransactions)

	w = doJSON(t, r, http.MethodGet, "/api/reports/low-stock", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var lowStock struct {
		LowStock []Product `json:"low_stock"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &lowStock))
	require.Len(t, lowStock.LowStock, 1)

	w = doJSON(t, r, http.MethodGet, "/api/reports/summary?from=2026-09-01&to=2026-09-01", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var summary SalesSummary
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &summary))
	assert.Equal(t, 1.50, summary.TotalRevenue)
}

func TestHealthCheckEndpoint(t *testing.T) {
	r, _ := setupServer(t)

	w := doJSON(t, r, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "healthy")
}
