package model

import "time"

// LostItem is a driver-reported record of a lost or found physical object
// tied to a route, sacco and date.
type LostItem struct {
	ID          int64     `json:"id"`
	Item        string    `json:"item"`
	Route       string    `json:"route"`
	Sacco       string    `json:"sacco"`
	FoundOn     string    `json:"found_on"`
	Description string    `json:"description,omitempty"`
	PhotoMime   string    `json:"photo_mime,omitempty"`
	ReportedBy  int64     `json:"reported_by"`
	CreatedAt   time.Time `json:"created_at"`

	// Joined field (not always populated).
	ReporterName string `json:"reporter_name,omitempty"`
}

// ItemWithClaims is a lost item annotated with its claims, ordered by
// claim creation time.
type ItemWithClaims struct {
	LostItem
	Claims []Claim `json:"claims"`
}
