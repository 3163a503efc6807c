package stack

import "fmt"

// Registry is the append-only, ordered table of joined players. Registration
// order is the tie-break for partner selection and toggle resolution.
type Registry struct {
	slots   []*Slot
	byIndex map[int]*Slot
}

func NewRegistry() *Registry {
	return &Registry{byIndex: make(map[int]*Slot)}
}

// Register creates a slot for a joined player.
func (r *Registry) Register(index int, body Body, caps Capabilities) (*Slot, error) {
	if _, ok := r.byIndex[index]; ok {
		return nil, fmt.Errorf("stack: register player %d: %w", index, ErrDuplicateIndex)
	}
	if body == nil {
		return nil, fmt.Errorf("stack: register player %d: body is nil", index)
	}
	s := &Slot{
		index:             index,
		body:              body,
		caps:              caps,
		role:              RoleUnassigned,
		controllerEnabled: true,
	}
	r.slots = append(r.slots, s)
	r.byIndex[index] = s
	return s, nil
}

// Lookup returns the slot registered under index.
func (r *Registry) Lookup(index int) (*Slot, bool) {
	s, ok := r.byIndex[index]
	return s, ok
}

// Slots returns every slot in registration order.
func (r *Registry) Slots() []*Slot {
	out := make([]*Slot, len(r.slots))
	copy(out, r.slots)
	return out
}

func (r *Registry) Len() int {
	return len(r.slots)
}
