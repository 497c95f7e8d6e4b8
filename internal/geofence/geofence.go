package geofence

import "math"

const earthRadiusKm = 6371

// Office is a known clock-in site. RadiusKm bounds the great-circle distance
// a shared location may be from the center and still count as on-site.
type Office struct {
	ID        string  `yaml:"id"`
	Latitude  float64 `yaml:"latitude"`
	Longitude float64 `yaml:"longitude"`
	RadiusKm  float64 `yaml:"radius_km"`
}

// Matcher maps a coordinate pair to the first configured office whose radius
// contains it. Pure and safe for concurrent use.
type Matcher struct {
	offices []Office
}

func NewMatcher(offices []Office) *Matcher {
	return &Matcher{offices: offices}
}

// Locate returns the matching office id, or "" and false when the point is
// finite but outside every office, or not finite at all.
func (m *Matcher) Locate(lat, lon float64) (string, bool) {
	if !isFinite(lat) || !isFinite(lon) {
		return "", false
	}

	for _, office := range m.offices {
		if haversineKm(lat, lon, office.Latitude, office.Longitude) <= office.RadiusKm {
			return office.ID, true
		}
	}
	return "", false
}

// Offices returns the configured list in match order.
func (m *Matcher) Offices() []Office {
	return m.offices
}

func haversineKm(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := toRad(lat2 - lat1)
	dLon := toRad(lon2 - lon1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusKm * c
}

func toRad(deg float64) float64 {
	return deg * math.Pi / 180
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
