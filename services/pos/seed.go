package main

import (
	"context"
	"fmt"
	"log"
)

// SeedIfEmpty grava os dados de demonstração quando o catálogo ou a base
// de clientes carregam vazios, como a aplicação original fazia na primeira
// execução
func (s *Store) SeedIfEmpty(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.state.Products) == 0 {
		s.state.Products = seedProducts(s)
		if err := s.storage.Save(ctx, KindProducts, s.state.Products); err != nil {
			return fmt.Errorf("failed to seed products: %w", err)
		}
		log.Printf("🌱 Seeded %d demo products", len(s.state.Products))
	}

	if len(s.state.Customers) == 0 {
		s.state.Customers = seedCustomers(s)
		if err := s.storage.Save(ctx, KindCustomers, s.state.Customers); err != nil {
			return fmt.Errorf("failed to seed customers: %w", err)
		}
		log.Printf("🌱 Seeded %d demo customers", len(s.state.Customers))
	}

	return nil
}

func seedProducts(s *Store) []Product {
	now := s.now()
	return []Product{
		NewProduct(s.newID(), "Pão Francês", CategoryBread, 0.75, 0.35, 150, 30, "Pão francês tradicional", now),
		NewProduct(s.newID(), "Pão de Açúcar", CategoryBread, 1.20, 0.60, 80, 20, "Pão doce tradicional", now),
		NewProduct(s.newID(), "Croissant", CategorySweet, 4.50, 2.20, 25, 10, "Croissant folhado", now),
		NewProduct(s.newID(), "Brigadeiro", CategorySweet, 2.50, 1.00, 40, 15, "Brigadeiro gourmet", now),
		NewProduct(s.newID(), "Coxinha", CategorySavory, 3.50, 1.80, 30, 10, "Coxinha de frango", now),
		NewProduct(s.newID(), "Café Expresso", CategoryBeverage, 2.00, 0.50, 200, 50, "Café expresso curto", now),
	}
}

func seedCustomers(s *Store) []Customer {
	now := s.now()
	return []Customer{
		NewCustomer(s.newID(), "Maria Silva", "(11) 99999-9999", "maria@email.com", "", now),
	}
}
