package discovery

import (
	"fmt"
	"math"
	"strconv"
)

// Bounds is the geographic rectangle currently visible on the map.
type Bounds struct {
	North float64 `json:"north"`
	South float64 `json:"south"`
	East  float64 `json:"east"`
	West  float64 `json:"west"`
}

// Contains reports whether the point lies inside the rectangle, edges included.
// Longitudes past the antimeridian, as reported by a map panned across it,
// wrap around.
func (b Bounds) Contains(lat, lng float64) bool {
	if lat < b.South || lat > b.North {
		return false
	}
	w, e := b.wrappedLongitudes()
	return (lng >= w && lng <= e) || (lng+360 >= w && lng+360 <= e)
}

// wrappedLongitudes shifts the west edge into [-180, 180) and moves the east
// edge with it. A span of a full turn or more covers every longitude.
func (b Bounds) wrappedLongitudes() (west, east float64) {
	if b.East-b.West >= 360 {
		return -180, 180
	}
	shift := 360 * math.Floor((b.West+180)/360)
	return b.West - shift, b.East - shift
}

// Validate rejects inverted rectangles. Edges beyond the poles or the
// antimeridian are accepted.
func (b Bounds) Validate() error {
	if b.South > b.North {
		return fmt.Errorf("south %.6f is above north %.6f", b.South, b.North)
	}
	if b.West > b.East {
		return fmt.Errorf("west %.6f is east of %.6f", b.West, b.East)
	}
	return nil
}

// ParseBounds reads the four edges from their string forms.
func ParseBounds(north, south, east, west string) (Bounds, error) {
	var b Bounds
	fields := []struct {
		name string
		raw  string
		dst  *float64
	}{
		{"north", north, &b.North},
		{"south", south, &b.South},
		{"east", east, &b.East},
		{"west", west, &b.West},
	}
	for _, f := range fields {
		v, err := strconv.ParseFloat(f.raw, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return Bounds{}, fmt.Errorf("%s: %q is not a number", f.name, f.raw)
		}
		*f.dst = v
	}
	return b, b.Validate()
}
