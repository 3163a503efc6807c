package component

// HUD holds what the overlay shows for one player.
type HUD struct {
	Prompt string
	Toast  string
	// ToastFrames counts down to zero, when Toast is cleared.
	ToastFrames int
}

var HUDComponent = NewComponent[HUD]()
