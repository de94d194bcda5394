package system

import "github.com/l1jgo/ecscore/internal/core/ecs"

// Died is emitted when an entity's health reaches zero. Subscribers see it
// on the tick after the death.
type Died struct {
	Entity ecs.EntityID
	Name   string
}

// Expired is emitted when a Lifetime runs out.
type Expired struct {
	Entity ecs.EntityID
}
