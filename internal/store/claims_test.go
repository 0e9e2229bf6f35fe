package store

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/matatuconnect/backend/internal/db"
	"github.com/matatuconnect/backend/internal/model"
)

func seedDriverAndItem(t *testing.T, database *sql.DB) (*model.User, *model.LostItem) {
	t.Helper()
	ctx := context.Background()

	driver, err := CreateUser(ctx, database, "Juma", "Otieno", "juma", "juma@example.com", "hash", model.RoleDriver)
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	item, err := CreateLostItem(ctx, database, "Black phone", "CBD to Westlands", "City Hoppa", "2025-08-20", "Found under seat 12", driver.ID)
	if err != nil {
		t.Fatalf("CreateLostItem: %v", err)
	}

	return driver, item
}

func TestSubmitClaimStartsUnresolved(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	_, item := seedDriverAndItem(t, database)

	claim, err := SubmitClaim(ctx, database, item.ID, "Akinyi", "0712345678", "Lost it on Tuesday", nil)
	if err != nil {
		t.Fatalf("SubmitClaim: %v", err)
	}

	if claim.Confirmed || claim.Approved {
		t.Errorf("new claim must be unconfirmed and unapproved, got confirmed=%v approved=%v", claim.Confirmed, claim.Approved)
	}
	if claim.Status() != model.ClaimStatusPending {
		t.Errorf("expected pending status, got %q", claim.Status())
	}
}

func TestSubmitClaimMissingItem(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	_, err := SubmitClaim(ctx, database, 999999, "Akinyi", "0712345678", "", nil)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for missing item, got %v", err)
	}
}

func TestSubmitClaimDuplicateRejected(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	_, item := seedDriverAndItem(t, database)
	commuter, _ := CreateUser(ctx, database, "Wanja", "Kamau", "wanja", "wanja@example.com", "hash", model.RoleCommuter)

	if _, err := SubmitClaim(ctx, database, item.ID, "Wanja", "0700000001", "mine", &commuter.ID); err != nil {
		t.Fatalf("first SubmitClaim: %v", err)
	}

	_, err := SubmitClaim(ctx, database, item.ID, "Wanja", "0700000001", "still mine", &commuter.ID)
	if !errors.Is(err, ErrAlreadyExists) {
		t.Errorf("expected ErrAlreadyExists for duplicate claim, got %v", err)
	}

	// A different user may still claim the same item.
	other, _ := CreateUser(ctx, database, "Baraka", "Mwangi", "baraka", "baraka@example.com", "hash", model.RoleCommuter)
	if _, err := SubmitClaim(ctx, database, item.ID, "Baraka", "0700000002", "no, mine", &other.ID); err != nil {
		t.Errorf("competing claim from another user should be allowed: %v", err)
	}
}

func TestConfirmClaim(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	driver, item := seedDriverAndItem(t, database)
	claim, _ := SubmitClaim(ctx, database, item.ID, "Akinyi", "0712345678", "", nil)

	updated, err := ConfirmClaim(ctx, database, claim.ID, driver.ID)
	if err != nil {
		t.Fatalf("ConfirmClaim: %v", err)
	}
	if !updated.Confirmed {
		t.Error("expected claim to be confirmed")
	}
	if updated.Approved {
		t.Error("confirmation must not approve the claim")
	}
}

func TestConfirmClaimIdempotent(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	driver, item := seedDriverAndItem(t, database)
	claim, _ := SubmitClaim(ctx, database, item.ID, "Akinyi", "0712345678", "", nil)

	first, err := ConfirmClaim(ctx, database, claim.ID, driver.ID)
	if err != nil {
		t.Fatalf("first ConfirmClaim: %v", err)
	}

	// Second confirmation is a no-op, not an error.
	second, err := ConfirmClaim(ctx, database, claim.ID, driver.ID)
	if err != nil {
		t.Fatalf("second ConfirmClaim: %v", err)
	}
	if !second.Confirmed || second.Approved != first.Approved {
		t.Errorf("repeat confirmation changed state: %+v vs %+v", second, first)
	}
}

func TestConfirmClaimNotFound(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	driver, _ := seedDriverAndItem(t, database)

	_, err := ConfirmClaim(ctx, database, 999999, driver.ID)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestConfirmClaimOwnershipEnforced(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	_, item := seedDriverAndItem(t, database)
	claim, _ := SubmitClaim(ctx, database, item.ID, "Akinyi", "0712345678", "", nil)

	// A different driver cannot confirm claims on items they did not report.
	otherDriver, _ := CreateUser(ctx, database, "Kiprop", "Koech", "kiprop", "kiprop@example.com", "hash", model.RoleDriver)
	_, err := ConfirmClaim(ctx, database, claim.ID, otherDriver.ID)
	if !errors.Is(err, ErrPermissionDenied) {
		t.Errorf("expected ErrPermissionDenied for non-owner driver, got %v", err)
	}
}

func TestApproveClaimRequiresConfirmation(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	_, item := seedDriverAndItem(t, database)
	claim, _ := SubmitClaim(ctx, database, item.ID, "Akinyi", "0712345678", "", nil)

	_, _, err := ApproveClaim(ctx, database, claim.ID)
	if !errors.Is(err, ErrPreconditionFailed) {
		t.Errorf("expected ErrPreconditionFailed for unconfirmed claim, got %v", err)
	}

	// Invariant: approved never observed while unconfirmed.
	got, _ := GetClaim(ctx, database, claim.ID)
	if got.Approved {
		t.Error("rejected approval must not mutate the claim")
	}
}

func TestApproveClaimReturnsParentItem(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	driver, item := seedDriverAndItem(t, database)
	claim, _ := SubmitClaim(ctx, database, item.ID, "Akinyi", "0712345678", "", nil)
	ConfirmClaim(ctx, database, claim.ID, driver.ID)

	approved, itemID, err := ApproveClaim(ctx, database, claim.ID)
	if err != nil {
		t.Fatalf("ApproveClaim: %v", err)
	}
	if !approved.Approved || !approved.Confirmed {
		t.Errorf("expected approved+confirmed claim, got %+v", approved)
	}
	if itemID != item.ID {
		t.Errorf("expected parent item %d, got %d", item.ID, itemID)
	}

	// Re-approving is a no-op.
	if _, _, err := ApproveClaim(ctx, database, claim.ID); err != nil {
		t.Errorf("re-approval should succeed as no-op: %v", err)
	}
}

func TestApproveClaimNotFound(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	_, _, err := ApproveClaim(ctx, database, 999999)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestWithdrawClaim(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	driver, item := seedDriverAndItem(t, database)
	commuter, _ := CreateUser(ctx, database, "Wanja", "Kamau", "wanja", "wanja@example.com", "hash", model.RoleCommuter)
	claim, _ := SubmitClaim(ctx, database, item.ID, "Wanja", "0700000001", "", &commuter.ID)

	// A stranger cannot withdraw someone else's claim.
	other, _ := CreateUser(ctx, database, "Baraka", "Mwangi", "baraka", "baraka@example.com", "hash", model.RoleCommuter)
	if err := WithdrawClaim(ctx, database, claim.ID, other.ID, false); !errors.Is(err, ErrPermissionDenied) {
		t.Errorf("expected ErrPermissionDenied for foreign withdrawal, got %v", err)
	}

	// The submitter can, while unconfirmed.
	if err := WithdrawClaim(ctx, database, claim.ID, commuter.ID, false); err != nil {
		t.Fatalf("WithdrawClaim by submitter: %v", err)
	}
	if got, _ := GetClaim(ctx, database, claim.ID); got != nil {
		t.Error("expected claim to be gone after withdrawal")
	}

	// After confirmation, the submitter can no longer withdraw.
	claim2, _ := SubmitClaim(ctx, database, item.ID, "Wanja", "0700000001", "", &commuter.ID)
	ConfirmClaim(ctx, database, claim2.ID, driver.ID)
	if err := WithdrawClaim(ctx, database, claim2.ID, commuter.ID, false); !errors.Is(err, ErrPreconditionFailed) {
		t.Errorf("expected ErrPreconditionFailed after confirmation, got %v", err)
	}

	// An admin can still remove the confirmed (but unapproved) claim.
	if err := WithdrawClaim(ctx, database, claim2.ID, 0, true); err != nil {
		t.Errorf("admin withdrawal of confirmed claim: %v", err)
	}
}

func TestReviewQueue(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	driver, item := seedDriverAndItem(t, database)

	pending, _ := SubmitClaim(ctx, database, item.ID, "Akinyi", "0712345678", "", nil)
	confirmed, _ := SubmitClaim(ctx, database, item.ID, "Baraka", "0700000002", "", nil)
	done, _ := SubmitClaim(ctx, database, item.ID, "Wanja", "0700000001", "", nil)

	ConfirmClaim(ctx, database, confirmed.ID, driver.ID)
	ConfirmClaim(ctx, database, done.ID, driver.ID)
	ApproveClaim(ctx, database, done.ID)

	queue, err := ReviewQueue(ctx, database)
	if err != nil {
		t.Fatalf("ReviewQueue: %v", err)
	}
	if len(queue) != 1 {
		t.Fatalf("expected 1 claim in review queue, got %d", len(queue))
	}
	if queue[0].ID != confirmed.ID {
		t.Errorf("expected claim %d in queue, got %d", confirmed.ID, queue[0].ID)
	}
	if queue[0].ItemName != item.Item || queue[0].ItemRoute != item.Route {
		t.Errorf("expected item context on queue entry, got %+v", queue[0])
	}
	_ = pending
}

func TestGroupClaims(t *testing.T) {
	items := []model.LostItem{{ID: 1, Item: "Phone"}, {ID: 2, Item: "Wallet"}}
	claims := []model.Claim{
		{ID: 10, LostItemID: 1, ClaimerName: "A"},
		{ID: 11, LostItemID: 1, ClaimerName: "B"},
	}

	grouped := GroupClaims(items, claims)
	if len(grouped) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(grouped))
	}

	if grouped[0].ID != 1 || len(grouped[0].Claims) != 2 {
		t.Errorf("expected item 1 with 2 claims, got item %d with %d", grouped[0].ID, len(grouped[0].Claims))
	}
	if grouped[0].Claims[0].ID != 10 || grouped[0].Claims[1].ID != 11 {
		t.Errorf("claim order not preserved: %+v", grouped[0].Claims)
	}
	if grouped[1].ID != 2 || len(grouped[1].Claims) != 0 {
		t.Errorf("expected item 2 with empty claim list, got item %d with %d", grouped[1].ID, len(grouped[1].Claims))
	}
	if grouped[1].Claims == nil {
		t.Error("claim list must be empty, not nil")
	}
}

func TestListItemsWithClaims(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	driver, item := seedDriverAndItem(t, database)
	SubmitClaim(ctx, database, item.ID, "Akinyi", "0712345678", "", nil)
	SubmitClaim(ctx, database, item.ID, "Baraka", "0700000002", "", nil)

	other, _ := CreateUser(ctx, database, "Kiprop", "Koech", "kiprop", "kiprop@example.com", "hash", model.RoleDriver)
	CreateLostItem(ctx, database, "Umbrella", "Ngong Rd", "Super Metro", "2025-08-21", "", other.ID)

	all, err := ListItemsWithClaims(ctx, database, 0)
	if err != nil {
		t.Fatalf("ListItemsWithClaims: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 items, got %d", len(all))
	}

	mine, err := ListItemsWithClaims(ctx, database, driver.ID)
	if err != nil {
		t.Fatalf("ListItemsWithClaims scoped: %v", err)
	}
	if len(mine) != 1 || mine[0].ID != item.ID {
		t.Fatalf("expected only the driver's item, got %+v", mine)
	}
	if len(mine[0].Claims) != 2 {
		t.Errorf("expected 2 claims under the item, got %d", len(mine[0].Claims))
	}
}
