package ecs

import (
	overlay "github.com/canderson402/layout-builder-sub001"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
	"github.com/yohamta/donburi/filter"
)

// ChangeEventType is the Donburi event type for document change events.
// Subscribe to this in your ECS systems to receive adds, deletes and reorders.
var ChangeEventType = events.NewEventType[overlay.ChangeEvent]()

type donburiSink struct {
	world donburi.World
}

// NewDonburiSink creates an EventSink backed by a Donburi world. Change
// events are published to ChangeEventType and can be consumed with
// events.Subscribe and ProcessEvents.
func NewDonburiSink(world donburi.World) overlay.EventSink {
	return &donburiSink{world: world}
}

func (s *donburiSink) EmitEvent(event overlay.ChangeEvent) {
	ChangeEventType.Publish(s.world, event)
}

// Item is the component carried by mirrored render items.
type Item struct {
	ID      overlay.NodeID
	Kind    overlay.Kind
	Key     int64
	Order   int // position in the paint order
	Bounds  overlay.Rect
	Visible bool
	Alpha   float64
}

// ItemComponent holds each mirrored item's state.
var ItemComponent = donburi.NewComponentType[Item]()

// Items matches every mirrored entity.
var Items = donburi.NewQuery(filter.Contains(ItemComponent))

// Mirror keeps one entity per render item in a world.
type Mirror struct {
	world    donburi.World
	entities map[overlay.NodeID]donburi.Entity
}

// NewMirror creates an empty mirror over world.
func NewMirror(world donburi.World) *Mirror {
	return &Mirror{world: world, entities: make(map[overlay.NodeID]donburi.Entity)}
}

// Sync creates, updates and removes entities so the world matches items.
func (m *Mirror) Sync(items []overlay.RenderItem) {
	live := make(map[overlay.NodeID]bool, len(items))
	for i, it := range items {
		id := it.Node.ID
		live[id] = true
		e, ok := m.entities[id]
		if !ok || !m.world.Valid(e) {
			e = m.world.Create(ItemComponent)
			m.entities[id] = e
		}
		ItemComponent.SetValue(m.world.Entry(e), Item{
			ID:      id,
			Kind:    it.Node.Kind,
			Key:     it.Key,
			Order:   i,
			Bounds:  it.Node.Bounds(),
			Visible: it.Visible,
			Alpha:   it.Alpha,
		})
	}
	for id, e := range m.entities {
		if !live[id] {
			if m.world.Valid(e) {
				m.world.Remove(e)
			}
			delete(m.entities, id)
		}
	}
}

// Entity returns the entity mirroring id.
func (m *Mirror) Entity(id overlay.NodeID) (donburi.Entity, bool) {
	e, ok := m.entities[id]
	return e, ok && m.world.Valid(e)
}
