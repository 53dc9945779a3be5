package engine

import "errors"

var (
	// ErrNoContext means the target could not provide a drawing surface.
	ErrNoContext = errors.New("engine: no drawing context")

	// ErrRunning is returned by Start or Attach when the engine is already active.
	ErrRunning = errors.New("engine: already running")

	// ErrNotAttached is returned by Frame outside host-driven mode.
	ErrNotAttached = errors.New("engine: not attached")
)
