package store

import (
	"context"

	"economy-engine/internal/models"
)

// PostLedgerEntry appends a financial movement and applies it to the
// company wallet. The unique idempotency key makes re-posting a silent
// no-op: the entry is skipped and the wallet is left untouched, so a
// retried settlement transaction can never double-apply money.
func (tx *Tx) PostLedgerEntry(ctx context.Context, e *models.LedgerEntry) (bool, error) {
	res, err := tx.tx.ExecContext(ctx, `
		INSERT INTO ledger_entries (company_id, warehouse_id, direction, amount_cents, category, scope, idempotency_key)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (idempotency_key) DO NOTHING`,
		e.CompanyID, e.WarehouseID, e.Direction, e.AmountCents, e.Category, e.Scope, e.IdempotencyKey)
	if err != nil {
		return false, err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	if n == 0 {
		return false, nil
	}

	delta := e.AmountCents
	if e.Direction == models.LedgerDirectionOut {
		delta = -delta
	}

	_, err = tx.tx.ExecContext(ctx, `
		INSERT INTO wallets (company_id, balance_cents, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (company_id)
		DO UPDATE SET balance_cents = wallets.balance_cents + $2, updated_at = NOW()`,
		e.CompanyID, delta)
	if err != nil {
		return false, err
	}
	return true, nil
}

// LedgerEntriesByWarehouse retrieves recent ledger entries for reporting
func (s *Store) LedgerEntriesByWarehouse(ctx context.Context, warehouseID int64, limit int) ([]models.LedgerEntry, error) {
	var entries []models.LedgerEntry
	err := s.db.SelectContext(ctx, &entries, `
		SELECT * FROM ledger_entries
		WHERE warehouse_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2`,
		warehouseID, limit)
	return entries, err
}
