package normalize

import (
	"encoding/json"

	"github.com/mmcloughlin/geohash"

	"github.com/iliyamo/hospitality-booking/internal/model"
)

// GeohashPrecision is the geohash length attached to units with
// coordinates.  Nine characters is roughly a 5m cell.
const GeohashPrecision = 9

// Result is the canonical output of Normalize.
type Result struct {
	Items      []model.BookableUnit
	TotalItems int
	Shape      Shape
}

// Normalize resolves the envelope of body and returns the bookable
// units in it.  It never fails: unknown shapes and undecodable
// elements produce fewer (or no) items.
func Normalize(body []byte) Result {
	env := Resolve(body)
	items := FromEnvelope(env)
	total := len(items)
	if env.TotalElements != nil && *env.TotalElements >= 0 {
		total = *env.TotalElements
	}
	return Result{Items: items, TotalItems: total, Shape: env.Shape}
}

// FromEnvelope decodes the envelope's units, keeps only those that are
// bookable, active and AVAILABLE, and maps them to BookableUnit.
func FromEnvelope(env Envelope) []model.BookableUnit {
	out := make([]model.BookableUnit, 0, len(env.Units))
	for _, raw := range env.Units {
		var r rawUnit
		if err := json.Unmarshal(raw, &r); err != nil {
			continue
		}
		if !qualifies(r) {
			continue
		}
		out = append(out, toUnit(r))
	}
	return out
}

func qualifies(r rawUnit) bool {
	return r.Bookable != nil && *r.Bookable &&
		r.Active != nil && *r.Active &&
		model.ParseUnitStatus(r.Status) == model.StatusAvailable
}

func toUnit(r rawUnit) model.BookableUnit {
	u := model.BookableUnit{
		ID:           r.id(),
		Name:         r.name(),
		Description:  r.Description,
		BasePrice:    r.price(),
		MaxOccupancy: r.occupancy(),
		Status:       model.StatusAvailable,
		Amenities:    make([]model.Amenity, 0, len(r.amenities())),
	}
	for _, a := range r.amenities() {
		id := string(a.ID)
		if id == "" {
			id = string(a.AmenityID)
		}
		name := a.Name
		if name == "" {
			name = a.AmenityName
		}
		u.Amenities = append(u.Amenities, model.Amenity{ID: id, Name: name})
	}
	if lat, lng, ok := r.latLng(); ok {
		u.Coordinates = &model.Coordinates{Lat: lat, Lng: lng}
		u.Geohash = geohash.EncodeWithPrecision(lat, lng, GeohashPrecision)
	}
	return u
}
