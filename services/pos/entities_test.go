package main

import (
	"testing"
	"time"
)

func TestNewProduct(t *testing.T) {
	// Arrange
	now := time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)

	// Act
	product := NewProduct("prod-1", "Pão Francês", CategoryBread, 0.75, 0.35, 150, 30, "Pão francês tradicional", now)

	// Assert
	if product.ID != "prod-1" {
		t.Errorf("Expected ID prod-1, got %s", product.ID)
	}
	if product.Name != "Pão Francês" {
		t.Errorf("Expected Name Pão Francês, got %s", product.Name)
	}
	if product.Category != CategoryBread {
		t.Errorf("Expected Category %s, got %s", CategoryBread, product.Category)
	}
	if product.Price != 0.75 {
		t.Errorf("Expected Price 0.75, got %f", product.Price)
	}
	if product.Stock != 150 {
		t.Errorf("Expected Stock 150, got %d", product.Stock)
	}
	if !product.CreatedAt.Equal(now) || !product.UpdatedAt.Equal(now) {
		t.Error("Expected CreatedAt and UpdatedAt to be the creation time")
	}
}

func TestNewCustomer(t *testing.T) {
	now := time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)

	customer := NewCustomer("cust-1", "Maria Silva", "(11) 99999-9999", "maria@email.com", "", now)

	if customer.ID != "cust-1" {
		t.Errorf("Expected ID cust-1, got %s", customer.ID)
	}
	if customer.TotalPurchases != 0 {
		t.Errorf("Expected TotalPurchases 0, got %f", customer.TotalPurchases)
	}
	if customer.LastPurchase != nil {
		t.Error("Expected LastPurchase to be unset")
	}
	if !customer.CreatedAt.Equal(now) {
		t.Error("Expected CreatedAt to be the creation time")
	}
}

func TestCategoryConstants(t *testing.T) {
	if CategoryBread != "bread" {
		t.Errorf("Expected CategoryBread to be 'bread', got %s", CategoryBread)
	}
	if CategorySweet != "sweet" {
		t.Errorf("Expected CategorySweet to be 'sweet', got %s", CategorySweet)
	}
	if CategorySavory != "savory" {
		t.Errorf("Expected CategorySavory to be 'savory', got %s", CategorySavory)
	}
	if CategoryBeverage != "beverage" {
		t.Errorf("Expected CategoryBeverage to be 'beverage', got %s", CategoryBeverage)
	}
	if CategoryOther != "other" {
		t.Errorf("Expected CategoryOther to be 'other', got %s", CategoryOther)
	}
}

func TestPaymentMethodConstants(t *testing.T) {
	if PaymentCash != "cash" {
		t.Errorf("Expected PaymentCash to be 'cash', got %s", PaymentCash)
	}
	if PaymentCard != "card" {
		t.Errorf("Expected PaymentCard to be 'card', got %s", PaymentCard)
	}
	if PaymentPix != "pix" {
		t.Errorf("Expected PaymentPix to be 'pix', got %s", PaymentPix)
	}
}

func TestProductIsLowStock(t *testing.T) {
	product := Product{Stock: 10, MinStock: 10}
	if !product.IsLowStock() {
		t.Error("Expected stock at the minimum to be low stock")
	}

	product.Stock = 11
	if product.IsLowStock() {
		t.Error("Expected stock above the minimum not to be low stock")
	}
}

func TestDefaultSettings(t *testing.T) {
	settings := DefaultSettings()

	if settings.BakeryName != "Padaria São João" {
		t.Errorf("Expected default bakery name, got %s", settings.BakeryName)
	}
	if !settings.Notifications.LowStockAlert {
		t.Error("Expected low stock alert enabled by default")
	}
	if settings.Notifications.DailyReportEmail {
		t.Error("Expected daily report email disabled by default")
	}
	if !settings.Notifications.AutoBackup {
		t.Error("Expected auto backup enabled by default")
	}
}
