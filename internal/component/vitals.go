package component

// Health tracks hit points. Regen is applied once per second by the decay
// system; a negative Regen drains.
type Health struct {
	HP    int32
	MaxHP int32
	Regen int32
}

// Lifetime destroys its entity when Remaining runs out.
type Lifetime struct {
	Remaining float64 // seconds
}

// Dead marks an entity whose health reached zero. The cleanup phase destroys it.
type Dead struct{}
