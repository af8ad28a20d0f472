package dashboard

type StatusCountView struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

type PropertyRatingView struct {
	PropertyID   int64   `json:"property_id"`
	PropertyName string  `json:"property_name"`
	AvgRating    float64 `json:"avg_rating"`
	Reviewed     int64   `json:"reviewed"`
}

type HousekeeperLoadView struct {
	HousekeeperID   int64  `json:"housekeeper_id"`
	HousekeeperName string `json:"housekeeper_name"`
	Scheduled       int64  `json:"scheduled"`
	Completed       int64  `json:"completed"`
}

// OverviewResponse is the manager dashboard snapshot for a date window.
type OverviewResponse struct {
	From         string                `json:"from"`
	To           string                `json:"to"`
	StatusCounts []StatusCountView     `json:"status_counts"`
	Ratings      []PropertyRatingView  `json:"ratings"`
	Loads        []HousekeeperLoadView `json:"loads"`
}
