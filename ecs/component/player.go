package component

import "image/color"

// Player marks a joined player's own character.
type Player struct {
	Index int
	Name  string
	Color color.RGBA
}

var PlayerComponent = NewComponent[Player]()
