// Package ecsbridge adapts probe's interaction events onto a Donburi ECS
// world.
package ecsbridge

import (
	"github.com/fenwick3d/probe"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// InteractionEventType is the Donburi event type for probe interaction
// events. Subscribe to it in your ECS systems with events.Subscribe to
// receive hit/touch/interaction events as they fire.
var InteractionEventType = events.NewEventType[probe.InteractionEvent]()

type donburiStore struct {
	world donburi.World
}

// NewDonburiStore returns a probe.EntityStore backed by a Donburi world.
// Install it with Context.SetEntityStore; every hit/touch/interaction event
// probe fires at an element is then also published to InteractionEventType.
func NewDonburiStore(world donburi.World) probe.EntityStore {
	return &donburiStore{world: world}
}

func (s *donburiStore) EmitEvent(event probe.InteractionEvent) {
	InteractionEventType.Publish(s.world, event)
}
