package main

import (
	"time"
)

// Cart acumula itens de uma venda em andamento. O carrinho é local à
// sessão de venda e nunca é persistido; só a venda finalizada entra no
// estado da aplicação.
type Cart struct {
	items []SaleItem
}

// NewCart cria um carrinho vazio
func NewCart() *Cart {
	return &Cart{}
}

// AddItem adiciona um produto ao carrinho. Adicionar o mesmo produto de
// novo incrementa a linha existente e recalcula o total da linha com o
// preço unitário fixado na primeira adição.
func (c *Cart) AddItem(product Product, quantity int) {
	for i := range c.items {
		if c.items[i].ProductID == product.ID {
			c.items[i].Quantity += quantity
			c.items[i].LineTotal = float64(c.items[i].Quantity) * c.items[i].UnitPrice
			return
		}
	}

	c.items = append(c.items, SaleItem{
		ProductID:   product.ID,
		ProductName: product.Name,
		Quantity:    quantity,
		UnitPrice:   product.Price,
		LineTotal:   float64(quantity) * product.Price,
	})
}

// RemoveItem remove a linha do produto, se existir
func (c *Cart) RemoveItem(productID string) {
	items := make([]SaleItem, 0, len(c.items))
	for _, item := range c.items {
		if item.ProductID != productID {
			items = append(items, item)
		}
	}
	c.items = items
}

// Items retorna uma cópia das linhas do carrinho
func (c *Cart) Items() []SaleItem {
	return append([]SaleItem{}, c.items...)
}

// IsEmpty verifica se o carrinho está vazio
func (c *Cart) IsEmpty() bool {
	return len(c.items) == 0
}

// Total soma os totais de linha
func (c *Cart) Total() float64 {
	total := 0.0
	for _, item := range c.items {
		total += item.LineTotal
	}
	return total
}

// Change calcula o troco para pagamento em dinheiro: recebido menos o
// total quando positivo, senão zero. Pagamento insuficiente não é um erro.
func (c *Cart) Change(received float64) float64 {
	if received > c.Total() {
		return received - c.Total()
	}
	return 0
}

// Finalize monta a venda imutável a partir do carrinho
func (c *Cart) Finalize(id, paymentMethod, customerID, cashierID string, timestamp time.Time) Sale {
	return Sale{
		ID:            id,
		Items:         c.Items(),
		Total:         c.Total(),
		PaymentMethod: paymentMethod,
		CustomerID:    customerID,
		Timestamp:     timestamp,
		CashierID:     cashierID,
	}
}
