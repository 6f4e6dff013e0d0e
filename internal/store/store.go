package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"economy-engine/internal/models"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// Store owns the database connection. Read paths used by the API live on
// Store; everything a tick or settlement mutates lives on Tx so each
// invocation is one atomic unit.
type Store struct {
	db *sqlx.DB
}

// Tx wraps one transaction of a tick or settlement run
type Tx struct {
	tx *sqlx.Tx
}

// NewStore creates a new database store
func NewStore(databaseURL string) (*Store, error) {
	db, err := sqlx.Connect("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// RunInTx runs fn inside a single transaction with a bounded deadline so a
// slow tick cannot starve other warehouses. Either everything fn wrote
// commits, or nothing does.
func (s *Store) RunInTx(ctx context.Context, timeout time.Duration, fn func(ctx context.Context, tx *Tx) error) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(ctx, &Tx{tx: tx}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetWarehouse retrieves a warehouse by ID
func (tx *Tx) GetWarehouse(ctx context.Context, id int64) (*models.Warehouse, error) {
	var wh models.Warehouse
	err := tx.tx.GetContext(ctx, &wh, "SELECT * FROM warehouses WHERE id = $1 AND archived = FALSE", id)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("warehouse not found: %d", id)
	}
	if err != nil {
		return nil, err
	}
	return &wh, nil
}

// GetWarehouseByID retrieves a warehouse outside any transaction, nil when
// it does not exist or is archived.
func (s *Store) GetWarehouseByID(ctx context.Context, id int64) (*models.Warehouse, error) {
	var wh models.Warehouse
	err := s.db.GetContext(ctx, &wh, "SELECT * FROM warehouses WHERE id = $1 AND archived = FALSE", id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &wh, nil
}

// ListActiveWarehouses retrieves every warehouse the scheduler should tick
func (s *Store) ListActiveWarehouses(ctx context.Context) ([]models.Warehouse, error) {
	var whs []models.Warehouse
	err := s.db.SelectContext(ctx, &whs,
		"SELECT * FROM warehouses WHERE archived = FALSE ORDER BY id")
	return whs, err
}

// GetWallet retrieves a company wallet, nil when none exists yet
func (s *Store) GetWallet(ctx context.Context, companyID int64) (*models.Wallet, error) {
	var w models.Wallet
	err := s.db.GetContext(ctx, &w, "SELECT * FROM wallets WHERE company_id = $1", companyID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &w, nil
}
