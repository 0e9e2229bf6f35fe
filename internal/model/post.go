package model

import "time"

// Post is a road update shared by commuters and drivers.
type Post struct {
	ID          int64     `json:"id"`
	Type        string    `json:"type"`
	Description string    `json:"description"`
	PhotoMime   string    `json:"photo_mime,omitempty"`
	PostedBy    *int64    `json:"posted_by,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Post types.
const (
	PostTypeAccident      = "accident"
	PostTypeTrafficUpdate = "traffic_update"
)

// ValidPostType reports whether t is a known post type.
func ValidPostType(t string) bool {
	return t == PostTypeAccident || t == PostTypeTrafficUpdate
}
