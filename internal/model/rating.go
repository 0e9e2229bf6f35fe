package model

import "time"

// Rating is a commuter's score for a sacco across three categories,
// each on a 1-5 scale.
type Rating struct {
	ID          int64     `json:"id"`
	SaccoID     int64     `json:"sacco_id"`
	Cleanliness int       `json:"cleanliness_rating"`
	Safety      int       `json:"safety_rating"`
	Service     int       `json:"service_rating"`
	ReviewText  string    `json:"review_text,omitempty"`
	RatedBy     *int64    `json:"rated_by,omitempty"`
	CreatedAt   time.Time `json:"created_at"`

	// Joined fields (not always populated).
	SaccoName string  `json:"sacco_name,omitempty"`
	Average   float64 `json:"average_rating,omitempty"`
}

// ValidScore reports whether a rating score is within the 1-5 scale.
func ValidScore(score int) bool {
	return score >= 1 && score <= 5
}
