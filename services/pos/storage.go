package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Kind identifica uma coleção persistida. Os valores reproduzem as chaves
// usadas pelo armazenamento original.
type Kind string

const (
	KindProducts  Kind = "bakery_products"
	KindSales     Kind = "bakery_sales"
	KindCustomers Kind = "bakery_customers"
	KindSettings  Kind = "bakery_settings"
)

// Storage define o contrato de persistência por coleção: cada Save
// serializa e sobrescreve o blob inteiro da coleção; não há escrita
// parcial nem transação entre coleções diferentes.
type Storage interface {
	// Load carrega a coleção inteira em dest; coleção inexistente deixa
	// dest intocado (coleção vazia)
	Load(ctx context.Context, kind Kind, dest any) error

	// Save serializa e grava a coleção inteira
	Save(ctx context.Context, kind Kind, value any) error
}

// StorageError indica falha de leitura ou escrita do armazenamento
type StorageError struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s %s: %v", e.Op, e.Kind, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// FileStorage persiste cada coleção como um arquivo JSON em um diretório
// de dados, o análogo local do armazenamento chave-valor original
type FileStorage struct {
	dir string
}

// NewFileStorage cria uma nova instância de FileStorage, criando o
// diretório de dados se necessário
func NewFileStorage(dir string) (*FileStorage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data dir: %w", err)
	}
	return &FileStorage{dir: dir}, nil
}

func (s *FileStorage) path(kind Kind) string {
	return filepath.Join(s.dir, string(kind)+".json")
}

// Load carrega a coleção inteira em dest
func (s *FileStorage) Load(ctx context.Context, kind Kind, dest any) error {
	data, err := os.ReadFile(s.path(kind))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return &StorageError{Kind: kind, Op: "load", Err: err}
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return &StorageError{Kind: kind, Op: "load", Err: err}
	}
	return nil
}

// Save serializa e sobrescreve o arquivo da coleção
func (s *FileStorage) Save(ctx context.Context, kind Kind, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return &StorageError{Kind: kind, Op: "save", Err: err}
	}

	if err := os.WriteFile(s.path(kind), data, 0o644); err != nil {
		return &StorageError{Kind: kind, Op: "save", Err: err}
	}
	return nil
}
