package service

import (
	"math"

	"github.com/karmatic-mx/trust-engine/internal/domain"
)

const earthRadiusKm = 6371.0

// distanceKm is the haversine distance between two points, rounded to 2 decimals.
func distanceKm(a, b domain.Location) float64 {
	lat1, lat2 := a.Lat*math.Pi/180, b.Lat*math.Pi/180
	dLat := lat2 - lat1
	dLng := (b.Lng - a.Lng) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	d := 2 * earthRadiusKm * math.Asin(math.Min(1, math.Sqrt(h)))

	return math.Round(d*100) / 100
}
