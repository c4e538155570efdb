package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// CreateProductRequest representa a requisição para criar um produto
type CreateProductRequest struct {
	Name        string  `json:"name" binding:"required"`
	Category    string  `json:"category" binding:"required,oneof=bread sweet savory beverage other"`
	Price       float64 `json:"price" binding:"gte=0"`
	Cost        float64 `json:"cost" binding:"gte=0"`
	Stock       int     `json:"stock" binding:"gte=0"`
	MinStock    int     `json:"min_stock" binding:"gte=0"`
	Description string  `json:"description"`
}

// CreateCustomerRequest representa a requisição para criar um cliente
type CreateCustomerRequest struct {
	Name    string `json:"name" binding:"required"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	Address string `json:"address"`
}

// CheckoutItemRequest representa uma linha do carrinho na requisição
type CheckoutItemRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,gt=0"`
}

// CheckoutRequest representa a requisição de finalização de venda
type CheckoutRequest struct {
	Items         []CheckoutItemRequest `json:"items" binding:"required,min=1,dive"`
	PaymentMethod string                `json:"payment_method" binding:"required,oneof=cash card pix"`
	CustomerID    string                `json:"customer_id"`
	CashierID     string                `json:"cashier_id" binding:"required"`
	ReceivedCash  float64               `json:"received_cash" binding:"gte=0"`
}

// PosUseCase define a interface do handler sobre o Store
type PosUseCase interface {
	CreateProduct(ctx context.Context, req CreateProductRequest) (Product, error)
	UpdateProduct(ctx context.Context, id string, patch ProductPatch) (Product, string, error)
	DeleteProduct(ctx context.Context, id string) (string, error)
	CreateCustomer(ctx context.Context, req CreateCustomerRequest) (Customer, error)
	UpdateCustomer(ctx context.Context, id string, patch CustomerPatch) (Customer, string, error)
	Checkout(ctx context.Context, sale Sale) (Sale, error)
	UpdateSettings(ctx context.Context, settings Settings) error
	Products() []Product
	ProductByID(id string) (Product, bool)
	Sales() []Sale
	Customers() []Customer
	Settings() Settings
	Backup() Backup
	NewID() string
	Now() time.Time
}

// PosHandler contém os handlers HTTP do serviço de POS
type PosHandler struct {
	useCase PosUseCase
	tracer  trace.Tracer
}

// NewPosHandler cria uma nova instância de PosHandler
func NewPosHandler(useCase PosUseCase, tracer trace.Tracer) *PosHandler {
	return &PosHandler{
		useCase: useCase,
		tracer:  tracer,
	}
}

// RegisterRoutes registra as rotas do serviço no router
func (h *PosHandler) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", h.HealthCheck)

	api := r.Group("/api")
	api.GET("/products", h.ListProducts)
	api.POST("/products", h.CreateProduct)
	api.PUT("/products/:id", h.UpdateProduct)
	api.DELETE("/products/:id", h.DeleteProduct)

	api.GET("/customers", h.ListCustomers)
	api.POST("/customers", h.CreateCustomer)
	api.PUT("/customers/:id", h.UpdateCustomer)

	api.GET("/sales", h.ListSales)
	api.POST("/sales/checkout", h.Checkout)

	api.GET("/settings", h.GetSettings)
	api.PUT("/settings", h.UpdateSettings)

	api.GET("/reports/daily", h.DailyReport)
	api.GET("/reports/top-products", h.TopProductsReport)
	api.GET("/reports/low-stock", h.LowStockReport)
	api.GET("/reports/summary", h.SummaryReport)

	api.GET("/backup", h.DownloadBackup)
}

// ListProducts lista o catálogo
func (h *PosHandler) ListProducts(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"products": h.useCase.Products()})
}

// CreateProduct cria um produto
func (h *PosHandler) CreateProduct(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "create_product")
	defer span.End()

	var req CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		span.RecordError(err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	product, err := h.useCase.CreateProduct(ctx, req)
	if err != nil {
		span.RecordError(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	span.SetAttributes(attribute.String("product_id", product.ID))
	c.JSON(http.StatusCreated, product)
}

// UpdateProduct aplica uma atualização parcial de produto
func (h *PosHandler) UpdateProduct(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "update_product")
	defer span.End()

	var patch ProductPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		span.RecordError(err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	id := c.Param("id")
	span.SetAttributes(attribute.String("product_id", id))

	product, result, err := h.useCase.UpdateProduct(ctx, id, patch)
	if result == ResultNotFound {
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("product %s not found", id)})
		return
	}
	if err != nil {
		span.RecordError(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, product)
}

// DeleteProduct remove um produto do catálogo
func (h *PosHandler) DeleteProduct(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "delete_product")
	defer span.End()

	id := c.Param("id")
	span.SetAttributes(attribute.String("product_id", id))

	result, err := h.useCase.DeleteProduct(ctx, id)
	if result == ResultNotFound {
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("product %s not found", id)})
		return
	}
	if err != nil {
		span.RecordError(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"result": "deleted"})
}

// ListCustomers lista os clientes
func (h *PosHandler) ListCustomers(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"customers": h.useCase.Customers()})
}

// CreateCustomer cria um cliente
func (h *PosHandler) CreateCustomer(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "create_customer")
	defer span.End()

	var req CreateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		span.RecordError(err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	customer, err := h.useCase.CreateCustomer(ctx, req)
	if err != nil {
		span.RecordError(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, customer)
}

// UpdateCustomer aplica uma atualização parcial de cliente
func (h *PosHandler) UpdateCustomer(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "update_customer")
	defer span.End()

	var patch CustomerPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		span.RecordError(err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	id := c.Param("id")
	customer, result, err := h.useCase.UpdateCustomer(ctx, id, patch)
	if result == ResultNotFound {
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("customer %s not found", id)})
		return
	}
	if err != nil {
		span.RecordError(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, customer)
}

// ListSales lista as vendas em ordem de inserção
func (h *PosHandler) ListSales(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"sales": h.useCase.Sales()})
}

// Checkout monta o carrinho da requisição e finaliza a venda
func (h *PosHandler) Checkout(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "checkout")
	defer span.End()

	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		span.RecordError(err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	cart := NewCart()
	for _, item := range req.Items {
		product, ok := h.useCase.ProductByID(item.ProductID)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("product %s not found", item.ProductID)})
			return
		}
		cart.AddItem(product, item.Quantity)
	}

	sale := cart.Finalize(h.useCase.NewID(), req.PaymentMethod, req.CustomerID,
		req.CashierID, h.useCase.Now())

	span.SetAttributes(
		attribute.String("sale_id", sale.ID),
		attribute.String("payment_method", sale.PaymentMethod),
		attribute.Int("items", len(sale.Items)),
		attribute.Float64("total", sale.Total),
	)

	sale, err := h.useCase.Checkout(ctx, sale)
	if err != nil {
		span.RecordError(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	change := 0.0
	if req.PaymentMethod == PaymentCash {
		change = cart.Change(req.ReceivedCash)
	}

	c.JSON(http.StatusOK, gin.H{
		"sale":   sale,
		"change": change,
	})
}

// GetSettings devolve as configurações atuais
func (h *PosHandler) GetSettings(c *gin.Context) {
	c.JSON(http.StatusOK, h.useCase.Settings())
}

// UpdateSettings substitui as configurações por inteiro
func (h *PosHandler) UpdateSettings(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "update_settings")
	defer span.End()

	var settings Settings
	if err := c.ShouldBindJSON(&settings); err != nil {
		span.RecordError(err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.useCase.UpdateSettings(ctx, settings); err != nil {
		span.RecordError(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, settings)
}

// DailyReport devolve a série de vendas por dia
func (h *PosHandler) DailyReport(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"days": DailySalesReport(h.useCase.Sales())})
}

// TopProductsReport devolve os produtos mais rentáveis
func (h *PosHandler) TopProductsReport(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"top_products": TopProducts(h.useCase.Sales(), 5)})
}

// LowStockReport devolve os produtos no estoque mínimo ou abaixo
func (h *PosHandler) LowStockReport(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"low_stock": LowStockProducts(h.useCase.Products())})
}

// SummaryReport devolve o resumo do período informado em from/to
// (YYYY-MM-DD); sem filtro, cobre tudo até agora
func (h *PosHandler) SummaryReport(c *gin.Context) {
	now := h.useCase.Now()
	from := time.Time{}
	to := now

	if v := c.Query("from"); v != "" {
		parsed, err := time.Parse(dateLayout, v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid from date"})
			return
		}
		from = parsed
	}
	if v := c.Query("to"); v != "" {
		parsed, err := time.Parse(dateLayout, v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid to date"})
			return
		}
		// inclui o dia final inteiro
		to = parsed.Add(24*time.Hour - time.Nanosecond)
	}

	summary := Summarize(h.useCase.Sales(), h.useCase.Products(), h.useCase.Customers(), from, to, now)
	c.JSON(http.StatusOK, summary)
}

// DownloadBackup exporta o snapshot completo do estado como anexo JSON
func (h *PosHandler) DownloadBackup(c *gin.Context) {
	backup := h.useCase.Backup()
	filename := fmt.Sprintf("bakery_backup_%s.json", backup.GeneratedAt.Format(dateLayout))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.JSON(http.StatusOK, backup)
}

// HealthCheck verifica a saúde do serviço
func (h *PosHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "pos-service",
	})
}
