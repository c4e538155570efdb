package main

import (
	"sort"
	"time"
)

// ProductRanking representa um produto agregado por quantidade e receita
type ProductRanking struct {
	ProductName string  `json:"product_name"`
	Quantity    int     `json:"quantity"`
	Revenue     float64 `json:"revenue"`
}

// DailySales resume as vendas de um dia
type DailySales struct {
	Date              string           `json:"date"`
	TotalSales        float64          `json:"total_sales"`
	TotalTransactions int              `json:"total_transactions"`
	TopProducts       []ProductRanking `json:"top_products"`
}

// SalesSummary resume o desempenho de um período
type SalesSummary struct {
	TotalRevenue      float64            `json:"total_revenue"`
	TotalProfit       float64            `json:"total_profit"`
	TotalTransactions int                `json:"total_transactions"`
	AverageTicket     float64            `json:"average_ticket"`
	CategoryRevenue   map[string]float64 `json:"category_revenue"`
	NewCustomers      int                `json:"new_customers_this_month"`
}

const dateLayout = "2006-01-02"

// DailySalesReport agrupa as vendas por dia, em ordem cronológica, com os
// três produtos mais vendidos de cada dia
func DailySalesReport(sales []Sale) []DailySales {
	byDate := make(map[string][]Sale)
	for _, sale := range sales {
		date := sale.Timestamp.Format(dateLayout)
		byDate[date] = append(byDate[date], sale)
	}

	dates := make([]string, 0, len(byDate))
	for date := range byDate {
		dates = append(dates, date)
	}
	sort.Strings(dates)

	report := make([]DailySales, 0, len(dates))
	for _, date := range dates {
		daySales := byDate[date]
		day := DailySales{Date: date, TotalTransactions: len(daySales)}
		for _, sale := range daySales {
			day.TotalSales += sale.Total
		}
		day.TopProducts = TopProducts(daySales, 3)
		report = append(report, day)
	}
	return report
}

// TopProducts agrega os itens vendidos por produto e devolve os mais
// rentáveis, por receita decrescente
func TopProducts(sales []Sale, limit int) []ProductRanking {
	byName := make(map[string]*ProductRanking)
	order := make([]string, 0)
	for _, sale := range sales {
		for _, item := range sale.Items {
			ranking, ok := byName[item.ProductName]
			if !ok {
				ranking = &ProductRanking{ProductName: item.ProductName}
				byName[item.ProductName] = ranking
				order = append(order, item.ProductName)
			}
			ranking.Quantity += item.Quantity
			ranking.Revenue += item.LineTotal
		}
	}

	rankings := make([]ProductRanking, 0, len(order))
	for _, name := range order {
		rankings = append(rankings, *byName[name])
	}
	sort.SliceStable(rankings, func(i, j int) bool {
		return rankings[i].Revenue > rankings[j].Revenue
	})

	if limit > 0 && len(rankings) > limit {
		rankings = rankings[:limit]
	}
	return rankings
}

// LowStockProducts filtra os produtos no nível mínimo de estoque ou abaixo
func LowStockProducts(products []Product) []Product {
	low := make([]Product, 0)
	for _, p := range products {
		if p.IsLowStock() {
			low = append(low, p)
		}
	}
	return low
}

// NewCustomersInMonth conta os clientes cadastrados no mês de referência
func NewCustomersInMonth(customers []Customer, ref time.Time) int {
	count := 0
	for _, c := range customers {
		if c.CreatedAt.Year() == ref.Year() && c.CreatedAt.Month() == ref.Month() {
			count++
		}
	}
	return count
}

// Summarize calcula o resumo do período [from, to]. O lucro usa o custo
// atual do produto; itens de produtos já removidos contam só na receita.
func Summarize(sales []Sale, products []Product, customers []Customer, from, to time.Time, ref time.Time) SalesSummary {
	costByID := make(map[string]float64, len(products))
	categoryByID := make(map[string]string, len(products))
	for _, p := range products {
		costByID[p.ID] = p.Cost
		categoryByID[p.ID] = p.Category
	}

	summary := SalesSummary{CategoryRevenue: make(map[string]float64)}
	for _, sale := range sales {
		if sale.Timestamp.Before(from) || sale.Timestamp.After(to) {
			continue
		}
		summary.TotalRevenue += sale.Total
		summary.TotalTransactions++
		for _, item := range sale.Items {
			if cost, ok := costByID[item.ProductID]; ok {
				summary.TotalProfit += (item.UnitPrice - cost) * float64(item.Quantity)
			}
			category, ok := categoryByID[item.ProductID]
			if !ok {
				category = CategoryOther
			}
			summary.CategoryRevenue[category] += item.LineTotal
		}
	}
	if summary.TotalTransactions > 0 {
		summary.AverageTicket = summary.TotalRevenue / float64(summary.TotalTransactions)
	}
	summary.NewCustomers = NewCustomersInMonth(customers, ref)
	return summary
}
