package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// ApplyResult distingue uma transição aplicada de um no-op por id inexistente
const (
	ResultApplied  = "applied"
	ResultNotFound = "not_found"
)

// Store guarda o estado da aplicação e aplica as transições de domínio.
// Todas as transições passam pelo mutex: há exatamente um escritor lógico,
// e cada transição calcula o próximo estado por completo antes de trocá-lo,
// de modo que nenhum leitor observa uma venda sem o débito de estoque
// correspondente.
type Store struct {
	mu      sync.Mutex
	state   AppState
	storage Storage
	now     func() time.Time
	newID   func() string

	salesCounter   metric.Int64Counter
	revenueCounter metric.Float64Counter
}

// NewStore cria uma nova instância de Store com o relógio e o gerador de
// ids injetados
func NewStore(storage Storage, now func() time.Time, newID func() string) *Store {
	meter := otel.Meter("pos-service")
	salesCounter, _ := meter.Int64Counter("pos.sales.count",
		metric.WithDescription("Número de vendas finalizadas"))
	revenueCounter, _ := meter.Float64Counter("pos.sales.revenue",
		metric.WithDescription("Receita acumulada das vendas"))

	return &Store{
		storage:        storage,
		now:            now,
		newID:          newID,
		salesCounter:   salesCounter,
		revenueCounter: revenueCounter,
	}
}

// LoadState carrega as quatro coleções do armazenamento
func (s *Store) LoadState(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var state AppState
	if err := s.storage.Load(ctx, KindProducts, &state.Products); err != nil {
		return fmt.Errorf("failed to load products: %w", err)
	}
	if err := s.storage.Load(ctx, KindSales, &state.Sales); err != nil {
		return fmt.Errorf("failed to load sales: %w", err)
	}
	if err := s.storage.Load(ctx, KindCustomers, &state.Customers); err != nil {
		return fmt.Errorf("failed to load customers: %w", err)
	}
	if err := s.storage.Load(ctx, KindSettings, &state.Settings); err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}
	if state.Settings == (Settings{}) {
		state.Settings = DefaultSettings()
	}

	s.state = state
	log.Printf("✅ State loaded: %d products, %d sales, %d customers",
		len(state.Products), len(state.Sales), len(state.Customers))
	return nil
}

// CreateProduct adiciona um produto ao catálogo e persiste a coleção
func (s *Store) CreateProduct(ctx context.Context, req CreateProductRequest) (Product, error) {
	product := NewProduct(s.newID(), req.Name, req.Category, req.Price, req.Cost,
		req.Stock, req.MinStock, req.Description, s.now())

	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.Products = append(s.state.Products, product)
	if err := s.storage.Save(ctx, KindProducts, s.state.Products); err != nil {
		return product, fmt.Errorf("failed to persist products: %w", err)
	}

	log.Printf("✅ [PRODUCT] Created: %s (%s)", product.Name, product.ID)
	return product, nil
}

// UpdateProduct aplica uma atualização parcial e carimba UpdatedAt.
// Id inexistente devolve ResultNotFound em vez de um no-op silencioso.
func (s *Store) UpdateProduct(ctx context.Context, id string, patch ProductPatch) (Product, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i := range s.state.Products {
		if s.state.Products[i].ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return Product{}, ResultNotFound, nil
	}

	products := append([]Product{}, s.state.Products...)
	product := products[idx]
	if patch.Name != nil {
		product.Name = *patch.Name
	}
	if patch.Category != nil {
		product.Category = *patch.Category
	}
	if patch.Price != nil {
		product.Price = *patch.Price
	}
	if patch.Cost != nil {
		product.Cost = *patch.Cost
	}
	if patch.Stock != nil {
		product.Stock = *patch.Stock
	}
	if patch.MinStock != nil {
		product.MinStock = *patch.MinStock
	}
	if patch.Description != nil {
		product.Description = *patch.Description
	}
	product.UpdatedAt = s.now()
	products[idx] = product

	s.state.Products = products
	if err := s.storage.Save(ctx, KindProducts, s.state.Products); err != nil {
		return product, ResultApplied, fmt.Errorf("failed to persist products: %w", err)
	}

	return product, ResultApplied, nil
}

// DeleteProduct remove um produto do catálogo. Vendas passadas não são
// verificadas: os itens de venda guardam nome e preço desnormalizados.
func (s *Store) DeleteProduct(ctx context.Context, id string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	products := make([]Product, 0, len(s.state.Products))
	found := false
	for _, p := range s.state.Products {
		if p.ID == id {
			found = true
			continue
		}
		products = append(products, p)
	}
	if !found {
		return ResultNotFound, nil
	}

	s.state.Products = products
	if err := s.storage.Save(ctx, KindProducts, s.state.Products); err != nil {
		return ResultApplied, fmt.Errorf("failed to persist products: %w", err)
	}

	log.Printf("🗑️  [PRODUCT] Deleted: %s", id)
	return ResultApplied, nil
}

// CreateCustomer adiciona um cliente e persiste a coleção
func (s *Store) CreateCustomer(ctx context.Context, req CreateCustomerRequest) (Customer, error) {
	customer := NewCustomer(s.newID(), req.Name, req.Phone, req.Email, req.Address, s.now())

	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.Customers = append(s.state.Customers, customer)
	if err := s.storage.Save(ctx, KindCustomers, s.state.Customers); err != nil {
		return customer, fmt.Errorf("failed to persist customers: %w", err)
	}

	log.Printf("✅ [CUSTOMER] Created: %s (%s)", customer.Name, customer.ID)
	return customer, nil
}

// UpdateCustomer aplica uma atualização parcial de cliente
func (s *Store) UpdateCustomer(ctx context.Context, id string, patch CustomerPatch) (Customer, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i := range s.state.Customers {
		if s.state.Customers[i].ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return Customer{}, ResultNotFound, nil
	}

	customers := append([]Customer{}, s.state.Customers...)
	customer := customers[idx]
	if patch.Name != nil {
		customer.Name = *patch.Name
	}
	if patch.Phone != nil {
		customer.Phone = *patch.Phone
	}
	if patch.Email != nil {
		customer.Email = *patch.Email
	}
	if patch.Address != nil {
		customer.Address = *patch.Address
	}
	customers[idx] = customer

	s.state.Customers = customers
	if err := s.storage.Save(ctx, KindCustomers, s.state.Customers); err != nil {
		return customer, ResultApplied, fmt.Errorf("failed to persist customers: %w", err)
	}

	return customer, ResultApplied, nil
}

// Checkout finaliza uma venda: anexa a venda, debita o estoque de cada
// item e, se houver cliente vinculado, acumula o total de compras. Os três
// efeitos são derivados da mesma venda de entrada e trocados no estado de
// uma vez só. Vender mais do que o estoque disponível não é rejeitado: o
// estoque pode ficar negativo.
func (s *Store) Checkout(ctx context.Context, sale Sale) (Sale, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sales := append(append([]Sale{}, s.state.Sales...), sale)

	products := append([]Product{}, s.state.Products...)
	for i := range products {
		for _, item := range sale.Items {
			if item.ProductID == products[i].ID {
				products[i].Stock -= item.Quantity
			}
		}
	}

	customerTouched := false
	customers := s.state.Customers
	if sale.CustomerID != "" {
		for i := range customers {
			if customers[i].ID == sale.CustomerID {
				updated := append([]Customer{}, customers...)
				ts := sale.Timestamp
				updated[i].TotalPurchases += sale.Total
				updated[i].LastPurchase = &ts
				customers = updated
				customerTouched = true
				break
			}
		}
	}

	// Commit em memória antes das escritas duráveis: o estado nunca fica
	// parcialmente aplicado, mesmo que uma das escritas abaixo falhe.
	s.state.Sales = sales
	s.state.Products = products
	s.state.Customers = customers

	// Cada gravação é tentada mesmo que a anterior falhe; as falhas são
	// reunidas em um único erro para o chamador.
	var errs []error
	if err := s.storage.Save(ctx, KindSales, s.state.Sales); err != nil {
		errs = append(errs, fmt.Errorf("failed to persist sales: %w", err))
	}
	if err := s.storage.Save(ctx, KindProducts, s.state.Products); err != nil {
		errs = append(errs, fmt.Errorf("failed to persist products: %w", err))
	}
	if customerTouched {
		if err := s.storage.Save(ctx, KindCustomers, s.state.Customers); err != nil {
			errs = append(errs, fmt.Errorf("failed to persist customers: %w", err))
		}
	}
	if err := errors.Join(errs...); err != nil {
		log.Printf("❌ [CHECKOUT] Persistence failed for sale %s: %v", sale.ID, err)
		return sale, err
	}

	s.salesCounter.Add(ctx, 1,
		metric.WithAttributes(attribute.String("payment_method", sale.PaymentMethod)))
	s.revenueCounter.Add(ctx, sale.Total,
		metric.WithAttributes(attribute.String("payment_method", sale.PaymentMethod)))

	log.Printf("✅ [CHECKOUT] Sale %s | %d items | total %.2f | payment %s",
		sale.ID, len(sale.Items), sale.Total, sale.PaymentMethod)
	return sale, nil
}

// UpdateSettings substitui as configurações por inteiro
func (s *Store) UpdateSettings(ctx context.Context, settings Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.Settings = settings
	if err := s.storage.Save(ctx, KindSettings, s.state.Settings); err != nil {
		return fmt.Errorf("failed to persist settings: %w", err)
	}
	return nil
}

// Products retorna uma cópia da coleção de produtos
func (s *Store) Products() []Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Product{}, s.state.Products...)
}

// ProductByID busca um produto pelo id
func (s *Store) ProductByID(id string) (Product, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.state.Products {
		if p.ID == id {
			return p, true
		}
	}
	return Product{}, false
}

// Sales retorna uma cópia da sequência de vendas, em ordem de inserção
func (s *Store) Sales() []Sale {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Sale{}, s.state.Sales...)
}

// Customers retorna uma cópia da coleção de clientes
func (s *Store) Customers() []Customer {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Customer{}, s.state.Customers...)
}

// Settings retorna as configurações atuais
func (s *Store) Settings() Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Settings
}

// NewID expõe o gerador de ids injetado
func (s *Store) NewID() string {
	return s.newID()
}

// Now expõe o relógio injetado
func (s *Store) Now() time.Time {
	return s.now()
}
