package store

import (
	"context"
	"database/sql"

	"economy-engine/internal/models"

	"github.com/lib/pq"
)

// ActiveListing is a listing joined with the product columns demand
// generation and settlement need (scenario, category, shipping profile).
type ActiveListing struct {
	models.Listing
	ScenarioID      sql.NullInt64  `db:"scenario_id"`
	Category        string         `db:"category"`
	ShippingProfile sql.NullString `db:"shipping_profile"`
}

// ListActiveListings retrieves all listed showcase entries for a warehouse
// in stable creation order.
func (tx *Tx) ListActiveListings(ctx context.Context, warehouseID int64) ([]ActiveListing, error) {
	var listings []ActiveListing
	err := tx.tx.SelectContext(ctx, &listings, `
		SELECT l.*, p.scenario_id, p.category, p.shipping_profile
		FROM listings l
		JOIN products p ON p.id = l.product_id
		WHERE l.warehouse_id = $1 AND l.status = $2
		ORDER BY l.created_at, l.id`,
		warehouseID, models.ListingStatusListed)
	return listings, err
}

// UpdateListingSeasonSnapshot refreshes the season columns on a listing
// before demand is computed.
func (tx *Tx) UpdateListingSeasonSnapshot(ctx context.Context, listingID int64, score int, blocked bool) error {
	_, err := tx.tx.ExecContext(ctx,
		"UPDATE listings SET season_score = $1, season_blocked = $2, updated_at = NOW() WHERE id = $3",
		score, blocked, listingID)
	return err
}

// DeleteListing removes a showcase entry. Stock exhaustion always deletes,
// never pauses.
func (tx *Tx) DeleteListing(ctx context.Context, listingID int64) error {
	_, err := tx.tx.ExecContext(ctx, "DELETE FROM listings WHERE id = $1", listingID)
	return err
}

// DeleteListingByProduct removes the showcase entry for a product whose
// stock just hit zero during fulfillment. The listing may already be gone;
// that is fine.
func (tx *Tx) DeleteListingByProduct(ctx context.Context, warehouseID, productID int64) error {
	_, err := tx.tx.ExecContext(ctx,
		"DELETE FROM listings WHERE warehouse_id = $1 AND product_id = $2",
		warehouseID, productID)
	return err
}

// GetSeasonCurve retrieves the 52-week intensity curve for a scenario and
// market zone, nil when no row exists.
func (tx *Tx) GetSeasonCurve(ctx context.Context, scenarioID int64, marketZone string) ([]int64, error) {
	var scores pq.Int64Array
	err := tx.tx.GetContext(ctx, &scores,
		"SELECT week_scores FROM season_curves WHERE scenario_id = $1 AND market_zone = $2",
		scenarioID, marketZone)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return []int64(scores), nil
}
