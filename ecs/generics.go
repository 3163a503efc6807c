package ecs

import "github.com/milk9111/stackers/ecs/component"

func CreateEntity(w *World) Entity {
	return w.CreateEntity()
}

func DestroyEntity(w *World, e Entity) bool {
	return w.DestroyEntity(e)
}

func IsAlive(w *World, e Entity) bool {
	return w.IsAlive(e)
}

func Entities(w *World) []Entity {
	return w.Entities()
}

func Add[T any](w *World, e Entity, h component.ComponentHandle[T], value *T) error {
	if value == nil {
		return component.ErrNilComponent
	}
	return w.AddComponent(e, h.Kind(), value)
}

func Remove[T any](w *World, e Entity, h component.ComponentHandle[T]) bool {
	return w.RemoveComponent(e, h.Kind())
}

func Has[T any](w *World, e Entity, h component.ComponentHandle[T]) bool {
	return w.HasComponent(e, h.Kind())
}

func Get[T any](w *World, e Entity, h component.ComponentHandle[T]) (*T, bool) {
	value, ok := w.GetComponent(e, h.Kind())
	if !ok {
		return nil, false
	}
	cast, ok := value.(*T)
	if !ok {
		return nil, false
	}
	return cast, true
}

// ForEach calls fn for every live entity owning h, in id order.
func ForEach[T any](w *World, h component.ComponentHandle[T], fn func(Entity, *T)) {
	for _, e := range w.Query(h.Kind()) {
		if v, ok := Get(w, e, h); ok {
			fn(e, v)
		}
	}
}

func ForEach2[A, B any](w *World, ha component.ComponentHandle[A], hb component.ComponentHandle[B], fn func(Entity, *A, *B)) {
	for _, e := range w.Query(ha.Kind(), hb.Kind()) {
		a, okA := Get(w, e, ha)
		b, okB := Get(w, e, hb)
		if okA && okB {
			fn(e, a, b)
		}
	}
}

func ForEach3[A, B, C any](w *World, ha component.ComponentHandle[A], hb component.ComponentHandle[B], hc component.ComponentHandle[C], fn func(Entity, *A, *B, *C)) {
	for _, e := range w.Query(ha.Kind(), hb.Kind(), hc.Kind()) {
		a, okA := Get(w, e, ha)
		b, okB := Get(w, e, hb)
		c, okC := Get(w, e, hc)
		if okA && okB && okC {
			fn(e, a, b, c)
		}
	}
}

func ForEach4[A, B, C, D any](w *World, ha component.ComponentHandle[A], hb component.ComponentHandle[B], hc component.ComponentHandle[C], hd component.ComponentHandle[D], fn func(Entity, *A, *B, *C, *D)) {
	for _, e := range w.Query(ha.Kind(), hb.Kind(), hc.Kind(), hd.Kind()) {
		a, okA := Get(w, e, ha)
		b, okB := Get(w, e, hb)
		c, okC := Get(w, e, hc)
		d, okD := Get(w, e, hd)
		if okA && okB && okC && okD {
			fn(e, a, b, c, d)
		}
	}
}
