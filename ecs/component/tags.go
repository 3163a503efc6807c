package component

type PlayerTag struct{}

var PlayerTagComponent = NewComponent[PlayerTag]()

// CompositeTag marks the entity that stands in for two stacked players.
type CompositeTag struct{}

var CompositeTagComponent = NewComponent[CompositeTag]()
