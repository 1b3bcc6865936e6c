package boltvalues

// Point is a 2D or 3D spatial coordinate tagged with a spatial reference
// system identifier. Z is only meaningful when Is3D is true.
type Point struct {
	SRID int32
	X    float64
	Y    float64
	Z    float64
	Is3D bool
}

// NewPoint2D constructs a 2D point.
func NewPoint2D(srid int32, x, y float64) *Point {
	return &Point{SRID: srid, X: x, Y: y}
}

// NewPoint3D constructs a 3D point.
func NewPoint3D(srid int32, x, y, z float64) *Point {
	return &Point{SRID: srid, X: x, Y: y, Z: z, Is3D: true}
}
