package main

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStorage persiste cada coleção como uma única linha jsonb,
// mantendo a granularidade de blob por coleção do contrato de persistência
type PostgresStorage struct {
	db *pgxpool.Pool
}

// NewPostgresStorage cria uma nova instância de PostgresStorage
func NewPostgresStorage(db *pgxpool.Pool) *PostgresStorage {
	return &PostgresStorage{
		db: db,
	}
}

// EnsureSchema cria a tabela de coleções se ela não existir
func (s *PostgresStorage) EnsureSchema(ctx context.Context) error {
	_, err := s.db.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS collections (
			kind TEXT PRIMARY KEY,
			data JSONB NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`)
	return err
}

// Load carrega o blob da coleção em dest
func (s *PostgresStorage) Load(ctx context.Context, kind Kind, dest any) error {
	var data []byte
	err := s.db.QueryRow(ctx, "SELECT data FROM collections WHERE kind = $1", string(kind)).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
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

// Save sobrescreve o blob inteiro da coleção
func (s *PostgresStorage) Save(ctx context.Context, kind Kind, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return &StorageError{Kind: kind, Op: "save", Err: err}
	}

	_, err = s.db.Exec(ctx, `
		INSERT INTO collections (kind, data, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (kind) DO UPDATE SET data = EXCLUDED.data, updated_at = NOW()
	`, string(kind), data)
	if err != nil {
		return &StorageError{Kind: kind, Op: "save", Err: err}
	}
	return nil
}
