package model

import "time"

// Claim is an assertion that a lost item belongs to the claimer. It moves
// through two stages: the reporting driver confirms it, then an admin
// approves it. Approval unlocks deletion of the parent item.
type Claim struct {
	ID          int64     `json:"id"`
	LostItemID  int64     `json:"lost_item_id"`
	ClaimerName string    `json:"claimer_name"`
	ContactInfo string    `json:"contact_info"`
	Details     string    `json:"details,omitempty"`
	ClaimedBy   *int64    `json:"claimed_by,omitempty"`
	Confirmed   bool      `json:"confirmed"`
	Approved    bool      `json:"approved"`
	CreatedAt   time.Time `json:"created_at"`

	// Joined fields for the admin review queue (not always populated).
	ItemName  string `json:"item_name,omitempty"`
	ItemRoute string `json:"item_route,omitempty"`
	ItemSacco string `json:"item_sacco,omitempty"`
}

// Claim statuses derived from the progress flags.
const (
	ClaimStatusPending   = "pending"
	ClaimStatusConfirmed = "confirmed"
	ClaimStatusApproved  = "approved"
)

// Status returns the derived status of the claim.
func (c *Claim) Status() string {
	switch {
	case c.Approved:
		return ClaimStatusApproved
	case c.Confirmed:
		return ClaimStatusConfirmed
	default:
		return ClaimStatusPending
	}
}
