package geofence

import (
	"context"
	"math"

	"cleanops/internal/domain"
)

const earthRadiusM = 6371000.0

// PropertySource supplies the geofence anchor for a property.
type PropertySource interface {
	GetByID(ctx context.Context, id int64) (*domain.Property, error)
}

// Service is the proximity authority consulted before a visit may start. The
// execution engine only sees its verdict; the anchor coordinate and allowed
// radius live here.
type Service struct {
	properties     PropertySource
	defaultRadiusM float64
}

func NewService(properties PropertySource, defaultRadiusM float64) *Service {
	return &Service{properties: properties, defaultRadiusM: defaultRadiusM}
}

// Verify checks the operator's fix against the property's anchor. A property
// without a stored coordinate has nothing to enforce and passes. The verdict
// always carries distance and radius so rejections are explainable.
func (s *Service) Verify(ctx context.Context, propertyID int64, fix domain.LocationFix) (*domain.GeofenceVerdict, error) {
	p, err := s.properties.GetByID(ctx, propertyID)
	if err != nil {
		return nil, err
	}

	if p.Latitude == nil || p.Longitude == nil {
		return &domain.GeofenceVerdict{WithinRange: true}, nil
	}

	radius := p.GeofenceRadiusM
	if radius <= 0 {
		radius = s.defaultRadiusM
	}

	distance := haversineMeters(*p.Latitude, *p.Longitude, fix.Latitude, fix.Longitude)

	return &domain.GeofenceVerdict{
		WithinRange:    distance <= radius,
		DistanceMeters: distance,
		AllowedMeters:  radius,
	}, nil
}

// haversineMeters is the great-circle distance between two coordinates.
func haversineMeters(lat1, lon1, lat2, lon2 float64) float64 {
	phi1 := lat1 * math.Pi / 180
	phi2 := lat2 * math.Pi / 180
	dPhi := (lat2 - lat1) * math.Pi / 180
	dLambda := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(dPhi/2)*math.Sin(dPhi/2) +
		math.Cos(phi1)*math.Cos(phi2)*math.Sin(dLambda/2)*math.Sin(dLambda/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusM * c
}
