package component

import "time"

// Clock is a registry static advanced once per tick.
type Clock struct {
	Tick    uint64
	Elapsed time.Duration
}

// Stats is a registry static filled in by the observer system.
type Stats struct {
	Spawned   int
	Destroyed int
	Deaths    int
}
