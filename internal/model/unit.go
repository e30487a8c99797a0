package model

// UnitStatus is the availability status reported by the room search API.
type UnitStatus string

const (
	StatusAvailable   UnitStatus = "AVAILABLE"
	StatusUnavailable UnitStatus = "UNAVAILABLE"
	StatusOther       UnitStatus = "OTHER"
)

// ParseUnitStatus maps a raw status string onto the enum.  Unknown
// values collapse to StatusOther.
func ParseUnitStatus(s string) UnitStatus {
	switch UnitStatus(s) {
	case StatusAvailable, StatusUnavailable:
		return UnitStatus(s)
	}
	return StatusOther
}

// Amenity is a single amenity or feature attached to a room.
type Amenity struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Coordinates locates a unit on the map.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// BookableUnit is a normalized room returned by the availability
// search.  Only units that were bookable, active and AVAILABLE at
// normalization time are ever materialized as a BookableUnit.
//
// Fields:
//  ID           – opaque identifier, used for keys and booking URLs.
//  Name         – display name of the room.
//  Description  – free-form description.
//  BasePrice    – nightly price, currency agnostic, never negative.
//  MaxOccupancy – maximum guests the room holds.
//  Status       – always StatusAvailable after normalization.
//  Amenities    – ordered amenity list as returned by the API.
//  Coordinates  – map position, nil when the API omitted it.
//  Geohash      – geohash of Coordinates, empty without coordinates.
type BookableUnit struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Description  string       `json:"description"`
	BasePrice    float64      `json:"base_price"`
	MaxOccupancy int          `json:"max_occupancy"`
	Status       UnitStatus   `json:"status"`
	Amenities    []Amenity    `json:"amenities"`
	Coordinates  *Coordinates `json:"coordinates,omitempty"`
	Geohash      string       `json:"geohash,omitempty"`
}
