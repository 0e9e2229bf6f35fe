package model

// Route is a named matatu route (e.g. "CBD to Westlands").
type Route struct {
	ID          int64  `json:"route_id"`
	DisplayName string `json:"display_name"`
}

// Stage is a matatu stop with coordinates for map display.
type Stage struct {
	ID        int64   `json:"stage_id"`
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Sacco is a matatu operating company or cooperative.
type Sacco struct {
	ID   int64  `json:"sacco_id"`
	Name string `json:"name"`
}

// Operation links a sacco to a route and its terminal stages. The joined
// fields feed the search view.
type Operation struct {
	ID          int64  `json:"id"`
	SaccoID     int64  `json:"sacco_id"`
	RouteID     int64  `json:"route_id"`
	FromStageID int64  `json:"from_stage_id"`
	ToStageID   *int64 `json:"to_stage_id,omitempty"`

	// Joined fields (not always populated).
	SaccoName      string   `json:"sacco_name,omitempty"`
	RouteName      string   `json:"route_name,omitempty"`
	FromStage      string   `json:"from_stage,omitempty"`
	ToStage        string   `json:"to_stage,omitempty"`
	StageLatitude  *float64 `json:"stage_latitude,omitempty"`
	StageLongitude *float64 `json:"stage_longitude,omitempty"`
}
