package main

import (
	"time"
)

// Backup representa um snapshot completo do estado, para download. É uma
// exportação somente leitura: não existe caminho de restauração.
type Backup struct {
	GeneratedAt time.Time  `json:"generated_at"`
	Products    []Product  `json:"products"`
	Sales       []Sale     `json:"sales"`
	Customers   []Customer `json:"customers"`
	Settings    Settings   `json:"settings"`
}

// Backup monta o snapshot das quatro coleções de uma vez, sob o mesmo
// lock das transições, para que o export nunca misture estados
func (s *Store) Backup() Backup {
	s.mu.Lock()
	defer s.mu.Unlock()

	return Backup{
		GeneratedAt: s.now(),
		Products:    append([]Product{}, s.state.Products...),
		Sales:       append([]Sale{}, s.state.Sales...),
		Customers:   append([]Customer{}, s.state.Customers...),
		Settings:    s.state.Settings,
	}
}
