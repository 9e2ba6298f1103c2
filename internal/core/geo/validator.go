package geo

import (
	"errors"
	"fmt"

	"github.com/peterstace/simplefeatures/geom"
)

// SRID4326 is the WGS84 lng/lat coordinate reference used everywhere in the
// system.
const SRID4326 = 4326

var (
	ErrInsufficientPoints  = errors.New("polygon must contain at least 4 points (including closure)")
	ErrMalformedCoordinate = errors.New("each coordinate must be [lng, lat]")
	ErrInvalidGeometry     = errors.New("invalid polygon")
)

// Result is the outcome of validating a ring of coordinates.
type Result struct {
	Valid   bool
	Err     error
	Polygon geom.Polygon
	SRID    int
}

// Validator closes and validates rings of lng/lat coordinates into simple
// polygons. One explicitly-constructed value per process; safe for
// concurrent use, side-effect free.
type Validator struct {
	srid int
}

func NewValidator() *Validator {
	return &Validator{srid: SRID4326}
}

// Validate builds a closed linear ring from coords and checks it forms a
// simple polygon. An open ring is closed by appending the first point; the
// caller's shape is never altered otherwise.
func (v *Validator) Validate(coords [][]float64) Result {
	if len(coords) < 4 {
		return Result{Err: ErrInsufficientPoints}
	}
	for _, c := range coords {
		if len(c) != 2 {
			return Result{Err: ErrMalformedCoordinate}
		}
	}

	first := coords[0]
	last := coords[len(coords)-1]
	closed := first[0] == last[0] && first[1] == last[1]

	flat := make([]float64, 0, (len(coords)+1)*2)
	for _, c := range coords {
		flat = append(flat, c[0], c[1])
	}
	if !closed {
		flat = append(flat, first[0], first[1])
	}

	ring := geom.NewLineString(geom.NewSequence(flat, geom.DimXY))
	polygon := geom.NewPolygon([]geom.LineString{ring})
	if err := polygon.Validate(); err != nil {
		return Result{Err: fmt.Errorf("%w: %v", ErrInvalidGeometry, err)}
	}
	return Result{Valid: true, Polygon: polygon, SRID: v.srid}
}

// Coordinates flattens the polygon's exterior ring back into [lng, lat]
// pairs for API responses.
func Coordinates(p geom.Polygon) [][]float64 {
	seq := p.ExteriorRing().Coordinates()
	out := make([][]float64, 0, seq.Length())
	for i := 0; i < seq.Length(); i++ {
		xy := seq.GetXY(i)
		out = append(out, []float64{xy.X, xy.Y})
	}
	return out
}
