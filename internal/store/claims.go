package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/matatuconnect/backend/internal/model"
)

// SubmitClaim records a new claim against a lost item. New claims start
// unconfirmed and unapproved. A user with a pending or confirmed claim on the
// same item cannot file a second one; anonymous duplicates are tolerated since
// there is no identity to deduplicate on.
func SubmitClaim(ctx context.Context, db *sql.DB, lostItemID int64, claimerName, contactInfo, details string, claimedBy *int64) (*model.Claim, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var exists int
	err = tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM lost_items WHERE id = ?`, lostItemID,
	).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("checking lost item: %w", err)
	}
	if exists == 0 {
		return nil, fmt.Errorf("lost item %d: %w", lostItemID, ErrNotFound)
	}

	if claimedBy != nil {
		var dup int
		err = tx.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM claims
			 WHERE lost_item_id = ? AND claimed_by = ? AND approved = 0`,
			lostItemID, *claimedBy,
		).Scan(&dup)
		if err != nil {
			return nil, fmt.Errorf("checking duplicate claim: %w", err)
		}
		if dup > 0 {
			return nil, fmt.Errorf("claim on item %d by user %d: %w", lostItemID, *claimedBy, ErrAlreadyExists)
		}
	}

	result, err := tx.ExecContext(ctx,
		`INSERT INTO claims (lost_item_id, claimer_name, contact_info, details, claimed_by)
		 VALUES (?, ?, ?, ?, ?)`,
		lostItemID, claimerName, contactInfo, details, claimedBy,
	)
	if err != nil {
		return nil, fmt.Errorf("creating claim: %w", err)
	}

	claimID, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting claim id: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing claim: %w", err)
	}

	return GetClaim(ctx, db, claimID)
}

// GetClaim returns a claim by ID.
func GetClaim(ctx context.Context, db *sql.DB, id int64) (*model.Claim, error) {
	c := &model.Claim{}
	var details sql.NullString
	err := db.QueryRowContext(ctx,
		`SELECT id, lost_item_id, claimer_name, contact_info, details, claimed_by,
		        confirmed, approved, created_at
		 FROM claims WHERE id = ?`, id,
	).Scan(&c.ID, &c.LostItemID, &c.ClaimerName, &c.ContactInfo, &details, &c.ClaimedBy,
		&c.Confirmed, &c.Approved, &c.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting claim: %w", err)
	}
	c.Details = details.String
	return c, nil
}

// ConfirmClaim marks a claim as confirmed by the driver who reported the
// parent item. Ownership is checked here against the caller, not left to the
// presentation layer. Confirming an already-confirmed claim is a no-op.
func ConfirmClaim(ctx context.Context, db *sql.DB, claimID, driverID int64) (*model.Claim, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var confirmed bool
	var reportedBy int64
	err = tx.QueryRowContext(ctx,
		`SELECT c.confirmed, li.reported_by
		 FROM claims c
		 JOIN lost_items li ON li.id = c.lost_item_id
		 WHERE c.id = ?`, claimID,
	).Scan(&confirmed, &reportedBy)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("claim %d: %w", claimID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("getting claim for confirmation: %w", err)
	}

	if reportedBy != driverID {
		return nil, fmt.Errorf("claim %d belongs to another driver's item: %w", claimID, ErrPermissionDenied)
	}

	if !confirmed {
		if _, err := tx.ExecContext(ctx,
			`UPDATE claims SET confirmed = 1 WHERE id = ?`, claimID,
		); err != nil {
			return nil, fmt.Errorf("confirming claim: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing confirmation: %w", err)
	}

	return GetClaim(ctx, db, claimID)
}

// ApproveClaim marks a confirmed claim as approved and returns the updated
// claim together with its parent item id. The approval and the parent lookup
// happen in one transaction so a reader never observes an approved claim
// without a resolvable parent. Approving an unconfirmed claim fails with
// ErrPreconditionFailed; re-approving is a no-op.
func ApproveClaim(ctx context.Context, db *sql.DB, claimID int64) (*model.Claim, int64, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var confirmed, approved bool
	var lostItemID int64
	err = tx.QueryRowContext(ctx,
		`SELECT confirmed, approved, lost_item_id FROM claims WHERE id = ?`, claimID,
	).Scan(&confirmed, &approved, &lostItemID)
	if err == sql.ErrNoRows {
		return nil, 0, fmt.Errorf("claim %d: %w", claimID, ErrNotFound)
	}
	if err != nil {
		return nil, 0, fmt.Errorf("getting claim for approval: %w", err)
	}

	if !confirmed {
		return nil, 0, fmt.Errorf("claim %d is not confirmed by the driver: %w", claimID, ErrPreconditionFailed)
	}

	if !approved {
		if _, err := tx.ExecContext(ctx,
			`UPDATE claims SET approved = 1 WHERE id = ?`, claimID,
		); err != nil {
			return nil, 0, fmt.Errorf("approving claim: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, 0, fmt.Errorf("committing approval: %w", err)
	}

	claim, err := GetClaim(ctx, db, claimID)
	if err != nil {
		return nil, 0, err
	}
	return claim, lostItemID, nil
}

// WithdrawClaim deletes a claim before it has been confirmed. Only the user
// who submitted it may withdraw; admins may withdraw any unapproved claim.
// Approved claims are never removed here (they unlock item deletion).
func WithdrawClaim(ctx context.Context, db *sql.DB, claimID, callerID int64, isAdmin bool) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var claimedBy sql.NullInt64
	var confirmed, approved bool
	err = tx.QueryRowContext(ctx,
		`SELECT claimed_by, confirmed, approved FROM claims WHERE id = ?`, claimID,
	).Scan(&claimedBy, &confirmed, &approved)
	if err == sql.ErrNoRows {
		return fmt.Errorf("claim %d: %w", claimID, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("getting claim for withdrawal: %w", err)
	}

	if approved {
		return fmt.Errorf("claim %d is already approved: %w", claimID, ErrPreconditionFailed)
	}
	if !isAdmin {
		if !claimedBy.Valid || claimedBy.Int64 != callerID {
			return fmt.Errorf("claim %d was not submitted by caller: %w", claimID, ErrPermissionDenied)
		}
		if confirmed {
			return fmt.Errorf("claim %d is already confirmed: %w", claimID, ErrPreconditionFailed)
		}
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM claims WHERE id = ?`, claimID); err != nil {
		return fmt.Errorf("withdrawing claim: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing withdrawal: %w", err)
	}
	return nil
}

// ListClaimsForItem returns the claims on one item, oldest first.
func ListClaimsForItem(ctx context.Context, db *sql.DB, lostItemID int64) ([]model.Claim, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, lost_item_id, claimer_name, contact_info, details, claimed_by,
		        confirmed, approved, created_at
		 FROM claims WHERE lost_item_id = ? ORDER BY created_at, id`, lostItemID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing claims for item: %w", err)
	}
	defer rows.Close()

	return scanClaims(rows)
}

// ReviewQueue returns confirmed-but-unapproved claims joined with parent item
// context for the admin review view, oldest first.
func ReviewQueue(ctx context.Context, db *sql.DB) ([]model.Claim, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT c.id, c.lost_item_id, c.claimer_name, c.contact_info, c.details, c.claimed_by,
		        c.confirmed, c.approved, c.created_at,
		        li.item, li.route, li.sacco
		 FROM claims c
		 JOIN lost_items li ON li.id = c.lost_item_id
		 WHERE c.confirmed = 1 AND c.approved = 0
		 ORDER BY c.created_at, c.id`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing review queue: %w", err)
	}
	defer rows.Close()

	var claims []model.Claim
	for rows.Next() {
		var c model.Claim
		var details sql.NullString
		if err := rows.Scan(&c.ID, &c.LostItemID, &c.ClaimerName, &c.ContactInfo, &details, &c.ClaimedBy,
			&c.Confirmed, &c.Approved, &c.CreatedAt,
			&c.ItemName, &c.ItemRoute, &c.ItemSacco); err != nil {
			return nil, fmt.Errorf("scanning review claim: %w", err)
		}
		c.Details = details.String
		claims = append(claims, c)
	}
	return claims, rows.Err()
}

// ListItemsWithClaims returns lost items with their claims grouped
// underneath, via two reads assembled in memory. If reportedBy is positive,
// only that driver's items are returned.
func ListItemsWithClaims(ctx context.Context, db *sql.DB, reportedBy int64) ([]model.ItemWithClaims, error) {
	items, err := ListLostItems(ctx, db, reportedBy)
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx,
		`SELECT id, lost_item_id, claimer_name, contact_info, details, claimed_by,
		        confirmed, approved, created_at
		 FROM claims ORDER BY created_at, id`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing claims: %w", err)
	}
	defer rows.Close()

	claims, err := scanClaims(rows)
	if err != nil {
		return nil, err
	}

	return GroupClaims(items, claims), nil
}

// GroupClaims buckets claims under their parent items, preserving both
// orders. Every input item appears exactly once in the output; items with no
// claims get an empty list. Claims whose parent is not in items are dropped
// (they belong to another driver's view).
func GroupClaims(items []model.LostItem, claims []model.Claim) []model.ItemWithClaims {
	byItem := make(map[int64][]model.Claim, len(items))
	for _, c := range claims {
		byItem[c.LostItemID] = append(byItem[c.LostItemID], c)
	}

	grouped := make([]model.ItemWithClaims, 0, len(items))
	for _, it := range items {
		cs := byItem[it.ID]
		if cs == nil {
			cs = []model.Claim{}
		}
		grouped = append(grouped, model.ItemWithClaims{LostItem: it, Claims: cs})
	}
	return grouped
}

func scanClaims(rows *sql.Rows) ([]model.Claim, error) {
	var claims []model.Claim
	for rows.Next() {
		var c model.Claim
		var details sql.NullString
		if err := rows.Scan(&c.ID, &c.LostItemID, &c.ClaimerName, &c.ContactInfo, &details, &c.ClaimedBy,
			&c.Confirmed, &c.Approved, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning claim: %w", err)
		}
		c.Details = details.String
		claims = append(claims, c)
	}
	return claims, rows.Err()
}
