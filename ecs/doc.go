// Package ecs bridges overlay documents into a [Donburi] world.
//
// [NewDonburiSink] publishes every committed document edit as a typed
// [ChangeEventType] event, so ECS systems (a broadcast graphics engine, a
// playout scheduler) can react to layout changes. [Mirror] keeps one entity
// per render item, updated from each evaluated frame.
//
// Usage:
//
//	doc.SetEventSink(ecs.NewDonburiSink(world))
//	mirror := ecs.NewMirror(world)
//	mirror.Sync(doc.Evaluate(data, templates).Items)
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
