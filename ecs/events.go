package ecs

// EventType names a kind of world event.
type EventType string

// Event is a world event. Data is owned by the producer's package.
type Event struct {
	Type EventType
	Data any
}

// EventQueue holds the events of one frame. Producers push during the frame;
// consumers take the types they care about. The scheduler clears whatever is
// left once every stage has run.
type EventQueue struct {
	items []Event
}

func (q *EventQueue) Push(evt Event) {
	if q == nil {
		return
	}
	q.items = append(q.items, evt)
}

// Take removes and returns the pending events of type t in push order.
func (q *EventQueue) Take(t EventType) []Event {
	if q == nil {
		return nil
	}
	var out []Event
	kept := q.items[:0]
	for _, evt := range q.items {
		if evt.Type == t {
			out = append(out, evt)
			continue
		}
		kept = append(kept, evt)
	}
	q.items = kept
	return out
}

// Drain removes and returns every pending event.
func (q *EventQueue) Drain() []Event {
	if q == nil || len(q.items) == 0 {
		return nil
	}
	out := q.items
	q.items = nil
	return out
}

func (q *EventQueue) Len() int {
	if q == nil {
		return 0
	}
	return len(q.items)
}
