package normalize

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// FlexString accepts a JSON string or number.  IDs arrive as either.
type FlexString string

func (f *FlexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*f = FlexString(n.String())
	return nil
}

// flexFloat accepts a JSON number or a numeric string.
type flexFloat float64

func (f *flexFloat) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return err
		}
		*f = flexFloat(v)
		return nil
	}
	var v float64
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*f = flexFloat(v)
	return nil
}

type rawAmenity struct {
	ID          FlexString `json:"id"`
	AmenityID   FlexString `json:"amenityId"`
	Name        string     `json:"name"`
	AmenityName string     `json:"amenityName"`
}

type rawCoordinates struct {
	Lat *float64 `json:"lat"`
	Lng *float64 `json:"lng"`
}

// rawUnit is the room as the search API sends it.  Aliases cover the
// camelCase API form and the snake_case form this service emits.
type rawUnit struct {
	RoomID               FlexString      `json:"roomId"`
	ID                   FlexString      `json:"id"`
	RoomName             string          `json:"roomName"`
	Name                 string          `json:"name"`
	Description          string          `json:"description"`
	BasePrice            *flexFloat      `json:"basePrice"`
	BasePriceSnake       *flexFloat      `json:"base_price"`
	MaxOccupancy         *int            `json:"maxOccupancy"`
	MaxOccupancySnake    *int            `json:"max_occupancy"`
	Status               string          `json:"status"`
	Bookable             *bool           `json:"bookable"`
	Active               *bool           `json:"active"`
	AmenitiesAndFeatures []rawAmenity    `json:"amenitiesAndFeatures"`
	Amenities            []rawAmenity    `json:"amenities"`
	Latitude             *float64        `json:"latitude"`
	Longitude            *float64        `json:"longitude"`
	Coordinates          *rawCoordinates `json:"coordinates"`
}

func (r rawUnit) id() string {
	if r.RoomID != "" {
		return string(r.RoomID)
	}
	return string(r.ID)
}

func (r rawUnit) name() string {
	if r.RoomName != "" {
		return r.RoomName
	}
	return r.Name
}

func (r rawUnit) price() float64 {
	var v float64
	switch {
	case r.BasePrice != nil:
		v = float64(*r.BasePrice)
	case r.BasePriceSnake != nil:
		v = float64(*r.BasePriceSnake)
	}
	if v < 0 {
		return 0
	}
	return v
}

func (r rawUnit) occupancy() int {
	switch {
	case r.MaxOccupancy != nil:
		return *r.MaxOccupancy
	case r.MaxOccupancySnake != nil:
		return *r.MaxOccupancySnake
	}
	return 0
}

func (r rawUnit) amenities() []rawAmenity {
	if r.AmenitiesAndFeatures != nil {
		return r.AmenitiesAndFeatures
	}
	return r.Amenities
}

func (r rawUnit) latLng() (float64, float64, bool) {
	if r.Latitude != nil && r.Longitude != nil {
		return *r.Latitude, *r.Longitude, true
	}
	if c := r.Coordinates; c != nil && c.Lat != nil && c.Lng != nil {
		return *c.Lat, *c.Lng, true
	}
	return 0, 0, false
}
