package component

// Position is an entity's location in world units.
type Position struct {
	X float64
	Y float64
}

// Velocity is the displacement per second applied by the movement system.
type Velocity struct {
	DX float64
	DY float64
}

// Bounds is a registry static: the rectangle entities are kept inside.
// Movement reflects velocity off the edges.
type Bounds struct {
	MinX, MinY float64
	MaxX, MaxY float64
}

// Contains reports whether p lies inside b, edges included.
func (b Bounds) Contains(p Position) bool {
	return p.X >= b.MinX && p.X <= b.MaxX && p.Y >= b.MinY && p.Y <= b.MaxY
}
