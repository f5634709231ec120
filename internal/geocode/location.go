package geocode

import (
	"strings"

	"github.com/ajharbinger/nachfolge-radar/internal/models"
)

// Coordinates is a WGS84 position
type Coordinates struct {
	Lng float64 `json:"lng"`
	Lat float64 `json:"lat"`
}

// BoundingBox is a south-west / north-east rectangle
type BoundingBox struct {
	SouthWest Coordinates `json:"south_west"`
	NorthEast Coordinates `json:"north_east"`
}

// Contains reports whether c lies inside the box, edges included
func (b BoundingBox) Contains(c Coordinates) bool {
	return c.Lng >= b.SouthWest.Lng && c.Lng <= b.NorthEast.Lng &&
		c.Lat >= b.SouthWest.Lat && c.Lat <= b.NorthEast.Lat
}

// Center returns the midpoint of the box
func (b BoundingBox) Center() Coordinates {
	return Coordinates{
		Lng: (b.SouthWest.Lng + b.NorthEast.Lng) / 2,
		Lat: (b.SouthWest.Lat + b.NorthEast.Lat) / 2,
	}
}

// DefaultCenter is the initial map view over Hamburg
var DefaultCenter = Coordinates{Lng: 9.9937, Lat: 53.5511}

// DefaultZoom is the initial map zoom level
const DefaultZoom = 11

// CityBounds are the zoom targets for cities with a known extent
var CityBounds = map[string]BoundingBox{
	"Hamburg": {
		SouthWest: Coordinates{Lng: 9.7, Lat: 53.4},
		NorthEast: Coordinates{Lng: 10.3, Lat: 53.7},
	},
	"Buxtehude": {
		SouthWest: Coordinates{Lng: 9.60, Lat: 53.42},
		NorthEast: Coordinates{Lng: 9.76, Lat: 53.52},
	},
}

// BoundsForCity returns the bounding box for a city name, if known
func BoundsForCity(city string) (BoundingBox, bool) {
	b, ok := CityBounds[city]
	return b, ok
}

// addressCountry is appended to every lookup
const addressCountry = "Germany"

// AddressKey builds the lookup string for a company. It reports false when
// the record has no street, zip or city to look up.
func AddressKey(c *models.Company) (string, bool) {
	parts := make([]string, 0, 4)
	for _, p := range []*string{c.AddressStreet, c.AddressZip, c.AddressCity} {
		if p == nil {
			continue
		}
		if v := strings.TrimSpace(*p); v != "" {
			parts = append(parts, v)
		}
	}
	if len(parts) == 0 {
		return "", false
	}
	return strings.Join(append(parts, addressCountry), ", "), true
}
