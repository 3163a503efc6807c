package stack

// Config holds the coordinator's design values.
type Config struct {
	ProximityThreshold float64 `yaml:"proximity_threshold"`
	StackHeightOffset  float64 `yaml:"stack_height_offset"`
	Separation         float64 `yaml:"separation"`
}

func DefaultConfig() Config {
	return Config{
		ProximityThreshold: 3.0,
		StackHeightOffset:  1.5,
		Separation:         1.0,
	}
}

// WithDefaults fills unset values from DefaultConfig.
func (c Config) WithDefaults() Config {
	d := DefaultConfig()
	if c.ProximityThreshold <= 0 {
		c.ProximityThreshold = d.ProximityThreshold
	}
	if c.StackHeightOffset <= 0 {
		c.StackHeightOffset = d.StackHeightOffset
	}
	if c.Separation <= 0 {
		c.Separation = d.Separation
	}
	return c
}

// Tuning is the locomotion and camera feel shared by the composite and the
// individual controllers. Angles are degrees, distances world units.
type Tuning struct {
	MoveSpeed          float64 `yaml:"move_speed"`
	SprintSpeed        float64 `yaml:"sprint_speed"`
	RotationSmoothTime float64 `yaml:"rotation_smooth_time"`
	// MaxTurnSpeed caps the damped turn, in degrees per second.
	MaxTurnSpeed       float64 `yaml:"max_turn_speed"`
	SpeedChangeRate    float64 `yaml:"speed_change_rate"`

	JumpHeight       float64 `yaml:"jump_height"`
	Gravity          float64 `yaml:"gravity"`
	TerminalVelocity float64 `yaml:"terminal_velocity"`

	GroundedOffset  float64 `yaml:"grounded_offset"`
	GroundedRadius  float64 `yaml:"grounded_radius"`
	MaxSlopeAngle   float64 `yaml:"max_slope_angle"`
	// SlopeSlideSpeed is how fast grounded bodies slide down slopes at or
	// past MaxSlopeAngle.
	SlopeSlideSpeed float64 `yaml:"slope_slide_speed"`

	TopClamp               float64 `yaml:"top_clamp"`
	BottomClamp            float64 `yaml:"bottom_clamp"`
	PointerSensitivity     float64 `yaml:"pointer_sensitivity"`
	DirectionalSensitivity float64 `yaml:"directional_sensitivity"`
	LockCamera             bool    `yaml:"lock_camera"`
}

func DefaultTuning() Tuning {
	return Tuning{
		MoveSpeed:          3.0,
		SprintSpeed:        6.0,
		RotationSmoothTime: 0.12,
		MaxTurnSpeed:       720.0,
		SpeedChangeRate:    10.0,

		JumpHeight:       1.2,
		Gravity:          -15.0,
		TerminalVelocity: 53.0,

		GroundedOffset:  -0.14,
		GroundedRadius:  0.28,
		MaxSlopeAngle:   45.0,
		SlopeSlideSpeed: 4.0,

		TopClamp:               70.0,
		BottomClamp:            -30.0,
		PointerSensitivity:     1.0,
		DirectionalSensitivity: 120.0,
	}
}

// WithDefaults fills unset values from DefaultTuning. GroundedOffset may
// legitimately be zero and BottomClamp negative, so they are paired with a
// neighbour: the probe offset is filled only when GroundedRadius is unset too,
// the clamps only when both are zero.
func (t Tuning) WithDefaults() Tuning {
	d := DefaultTuning()
	fill := func(v *float64, def float64) {
		if *v <= 0 {
			*v = def
		}
	}
	if t.GroundedRadius <= 0 && t.GroundedOffset == 0 {
		t.GroundedOffset = d.GroundedOffset
	}
	fill(&t.MoveSpeed, d.MoveSpeed)
	fill(&t.SprintSpeed, d.SprintSpeed)
	fill(&t.RotationSmoothTime, d.RotationSmoothTime)
	fill(&t.MaxTurnSpeed, d.MaxTurnSpeed)
	fill(&t.SpeedChangeRate, d.SpeedChangeRate)
	fill(&t.JumpHeight, d.JumpHeight)
	fill(&t.TerminalVelocity, d.TerminalVelocity)
	fill(&t.GroundedRadius, d.GroundedRadius)
	fill(&t.MaxSlopeAngle, d.MaxSlopeAngle)
	fill(&t.SlopeSlideSpeed, d.SlopeSlideSpeed)
	fill(&t.PointerSensitivity, d.PointerSensitivity)
	fill(&t.DirectionalSensitivity, d.DirectionalSensitivity)
	if t.Gravity >= 0 {
		t.Gravity = d.Gravity
	}
	if t.TopClamp == 0 && t.BottomClamp == 0 {
		t.TopClamp = d.TopClamp
		t.BottomClamp = d.BottomClamp
	}
	return t
}
