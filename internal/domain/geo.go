package domain

// LocationFix is a single latitude/longitude reading obtained from the
// operator's device.
type LocationFix struct {
	Latitude  float64 `json:"latitude" validate:"required,gte=-90,lte=90"`
	Longitude float64 `json:"longitude" validate:"required,gte=-180,lte=180"`
}

// GeofenceVerdict is the proximity decision for a fix against a property's
// anchor. Distance and allowed radius are always populated when an anchor
// exists so rejections can tell the operator how far off they are.
type GeofenceVerdict struct {
	WithinRange    bool    `json:"within_range"`
	DistanceMeters float64 `json:"distance_meters"`
	AllowedMeters  float64 `json:"allowed_meters"`
}
