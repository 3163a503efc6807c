package component

// Camera is a third-person view rig following its own entity.
type Camera struct {
	Pitch    float64
	Yaw      float64
	Distance float64
	Zoom     float64
}

var CameraComponent = NewComponent[Camera]()

// ViewLayout is the singleton describing how the screen is split.
type ViewLayout struct {
	Split bool
}

var ViewLayoutComponent = NewComponent[ViewLayout]()
