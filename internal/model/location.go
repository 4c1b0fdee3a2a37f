package model

import "math"

// Location is a position in the world. Y is height; the map plane is X/Z.
// Value type, passed by value.
type Location struct {
	X       float32
	Y       float32
	Z       float32
	Heading uint16 // 0-65535
}

// NewLocation creates a Location.
func NewLocation(x, y, z float32, heading uint16) Location {
	return Location{X: x, Y: y, Z: z, Heading: heading}
}

// WithHeading returns a copy with the given heading.
func (l Location) WithHeading(heading uint16) Location {
	l.Heading = heading
	return l
}

// WithCoordinates returns a copy with the given coordinates.
func (l Location) WithCoordinates(x, y, z float32) Location {
	l.X = x
	l.Y = y
	l.Z = z
	return l
}

// Distance2D returns the planar (X/Z) distance to the point (x, z).
func (l Location) Distance2D(x, z float32) float64 {
	dx := float64(l.X - x)
	dz := float64(l.Z - z)
	return math.Sqrt(dx*dx + dz*dz)
}
