package geo

import (
	"math"

	"github.com/peterstace/simplefeatures/geom"
)

const earthRadiusM = 6378137.0

// AreaKm2 computes the planar area of a WGS84 polygon in square kilometres
// by projecting each ring to Web Mercator. Matches what the PostGIS-side
// area column stores, so values agree across create and read paths.
func AreaKm2(p geom.Polygon) float64 {
	area := ringAreaM2(p.ExteriorRing())
	for i := 0; i < p.NumInteriorRings(); i++ {
		area -= ringAreaM2(p.InteriorRingN(i))
	}
	return area / 1e6
}

func ringAreaM2(ring geom.LineString) float64 {
	seq := ring.Coordinates()
	n := seq.Length()
	if n < 4 {
		return 0
	}
	// Shoelace over the projected ring. The closing point duplicates the
	// first, so iterate n-1 segments.
	var sum float64
	px, py := projectWebMercator(seq.GetXY(0))
	for i := 1; i < n; i++ {
		x, y := projectWebMercator(seq.GetXY(i))
		sum += px*y - x*py
		px, py = x, y
	}
	return math.Abs(sum) / 2
}

func projectWebMercator(xy geom.XY) (x, y float64) {
	x = earthRadiusM * xy.X * math.Pi / 180
	y = earthRadiusM * math.Log(math.Tan(math.Pi/4+xy.Y*math.Pi/360))
	return x, y
}
