package main

import (
	"time"
)

// Category representa as categorias de produto da padaria
const (
	CategoryBread    = "bread"
	CategorySweet    = "sweet"
	CategorySavory   = "savory"
	CategoryBeverage = "beverage"
	CategoryOther    = "other"
)

// PaymentMethod representa as formas de pagamento aceitas
const (
	PaymentCash = "cash"
	PaymentCard = "card"
	PaymentPix  = "pix"
)

// Product representa um produto do catálogo
type Product struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Category    string    `json:"category"`
	Price       float64   `json:"price"`
	Cost        float64   `json:"cost"`
	Stock       int       `json:"stock"`
	MinStock    int       `json:"min_stock"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewProduct cria uma nova instância de Product
func NewProduct(id, name, category string, price, cost float64, stock, minStock int, description string, now time.Time) Product {
	return Product{
		ID:          id,
		Name:        name,
		Category:    category,
		Price:       price,
		Cost:        cost,
		Stock:       stock,
		MinStock:    minStock,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// IsLowStock verifica se o produto está no nível mínimo de estoque ou abaixo
func (p Product) IsLowStock() bool {
	return p.Stock <= p.MinStock
}

// SaleItem representa uma linha de uma venda, com nome e preço
// desnormalizados no momento da transação
type SaleItem struct {
	ProductID   string  `json:"product_id"`
	ProductName string  `json:"product_name"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
	LineTotal   float64 `json:"line_total"`
}

// Sale representa uma venda finalizada. Vendas são imutáveis: nenhuma
// operação altera ou remove uma venda depois de criada.
type Sale struct {
	ID            string     `json:"id"`
	Items         []SaleItem `json:"items"`
	Total         float64    `json:"total"`
	PaymentMethod string     `json:"payment_method"`
	CustomerID    string     `json:"customer_id,omitempty"`
	Timestamp     time.Time  `json:"timestamp"`
	CashierID     string     `json:"cashier_id"`
}

// Customer representa um cliente cadastrado
type Customer struct {
	ID             string     `json:"id"`
	Name           string     `json:"name"`
	Phone          string     `json:"phone,omitempty"`
	Email          string     `json:"email,omitempty"`
	Address        string     `json:"address,omitempty"`
	TotalPurchases float64    `json:"total_purchases"`
	LastPurchase   *time.Time `json:"last_purchase,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

// NewCustomer cria uma nova instância de Customer
func NewCustomer(id, name, phone, email, address string, now time.Time) Customer {
	return Customer{
		ID:        id,
		Name:      name,
		Phone:     phone,
		Email:     email,
		Address:   address,
		CreatedAt: now,
	}
}

// NotificationSettings agrupa os alertas configuráveis
type NotificationSettings struct {
	LowStockAlert    bool `json:"low_stock_alert"`
	DailyReportEmail bool `json:"daily_report_email"`
	AutoBackup       bool `json:"auto_backup"`
}

// Settings representa as configurações do negócio, substituídas por
// inteiro a cada atualização
type Settings struct {
	BakeryName    string               `json:"bakery_name"`
	TaxID         string               `json:"tax_id"`
	Address       string               `json:"address"`
	Phone         string               `json:"phone"`
	Notifications NotificationSettings `json:"notifications"`
}

// DefaultSettings retorna as configurações usadas quando nada foi salvo ainda
func DefaultSettings() Settings {
	return Settings{
		BakeryName: "Padaria São João",
		TaxID:      "12.345.678/0001-90",
		Address:    "Rua das Flores, 123 - Centro",
		Phone:      "(11) 3456-7890",
		Notifications: NotificationSettings{
			LowStockAlert:    true,
			DailyReportEmail: false,
			AutoBackup:       true,
		},
	}
}

// AppState agrega as quatro coleções da aplicação
type AppState struct {
	Products  []Product  `json:"products"`
	Sales     []Sale     `json:"sales"`
	Customers []Customer `json:"customers"`
	Settings  Settings   `json:"settings"`
}

// ProductPatch representa uma atualização parcial de produto; campos nil
// são mantidos
type ProductPatch struct {
	Name        *string  `json:"name,omitempty"`
	Category    *string  `json:"category,omitempty"`
	Price       *float64 `json:"price,omitempty"`
	Cost        *float64 `json:"cost,omitempty"`
	Stock       *int     `json:"stock,omitempty"`
	MinStock    *int     `json:"min_stock,omitempty"`
	Description *string  `json:"description,omitempty"`
}

// CustomerPatch representa uma atualização parcial de cliente
type CustomerPatch struct {
	Name    *string `json:"name,omitempty"`
	Phone   *string `json:"phone,omitempty"`
	Email   *string `json:"email,omitempty"`
	Address *string `json:"address,omitempty"`
}
