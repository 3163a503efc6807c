package component

import (
	"errors"
	"fmt"
	"reflect"
	"sync/atomic"
)

var (
	ErrEntityNotAlive       = errors.New("ecs: entity not alive")
	ErrNilComponent         = errors.New("ecs: component is nil")
	ErrInvalidComponentKind = errors.New("ecs: invalid component kind")
)

// ComponentID keys a component store inside a world. Zero is never issued.
type ComponentID uint32

var nextID atomic.Uint32

// AnyKind is the type-erased view of a ComponentHandle that the world's
// untyped API works with.
type AnyKind interface {
	ID() ComponentID
	Name() string
}

// ComponentHandle identifies one component type. Declare handles once as
// package variables; two handles for the same T are distinct stores.
type ComponentHandle[T any] struct {
	id   ComponentID
	name string
}

func NewComponent[T any]() ComponentHandle[T] {
	return ComponentHandle[T]{
		id:   ComponentID(nextID.Add(1)),
		name: reflect.TypeFor[T]().String(),
	}
}

// Kind returns h itself as an AnyKind.
func (h ComponentHandle[T]) Kind() ComponentHandle[T] {
	return h
}

func (h ComponentHandle[T]) ID() ComponentID {
	return h.id
}

// Name is the Go type name of T, e.g. "component.Transform".
func (h ComponentHandle[T]) Name() string {
	return h.name
}

func (h ComponentHandle[T]) String() string {
	return fmt.Sprintf("%s#%d", h.name, h.id)
}
