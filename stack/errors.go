package stack

import "errors"

var (
	// ErrUnknownPlayer is returned when an index is not registered or its
	// entity no longer exists.
	ErrUnknownPlayer = errors.New("stack: unknown player")
	// ErrAlreadyStacked is returned when a merge is requested while a stack
	// exists.
	ErrAlreadyStacked = errors.New("stack: already stacked")
	// ErrTooFar is returned when the two players are outside the proximity
	// threshold.
	ErrTooFar = errors.New("stack: players too far apart")
	// ErrInvalidSession is returned by Unstack when there is nothing to tear
	// down. Callers treat it as a benign no-op.
	ErrInvalidSession = errors.New("stack: no active session")
	// ErrDuplicateIndex is returned when registering an index twice.
	ErrDuplicateIndex = errors.New("stack: duplicate player index")
	// ErrSamePlayer is returned when a player tries to stack with itself.
	ErrSamePlayer = errors.New("stack: cannot stack a player with itself")
	// ErrNoPartner is returned by a toggle when no other active player exists.
	ErrNoPartner = errors.New("stack: no partner available")
	// ErrSpawnFailed is returned when the host could not create the composite.
	ErrSpawnFailed = errors.New("stack: composite spawn failed")
	// ErrToggleDeferred marks a toggle dropped because another toggle already
	// changed state this frame.
	ErrToggleDeferred = errors.New("stack: toggle ignored, state already changed this frame")
)
