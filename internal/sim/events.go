package sim

import "fmt"

// Mode is the state of the simulation state machine.
type Mode uint8

const (
	// Draw accepts paint edits; no generations are computed.
	Draw Mode = iota
	// Compute advances one generation per tick.
	Compute
)

func (m Mode) String() string {
	switch m {
	case Draw:
		return "DRAW"
	case Compute:
		return "COMPUTE"
	default:
		return "UNKNOWN"
	}
}

// Event is a signal produced for the presentation layer.
type Event interface {
	fmt.Stringer
	CompletedGenerations() int
}

// RefreshRequested asks the presentation layer to redraw the active buffer.
type RefreshRequested struct {
	Generation int
}

// StateChange reports a Draw/Compute transition.
type StateChange struct {
	Generation int
	NewState   Mode
}

// ConfigError reports a rejected Compute entry or a failed kernel step.
type ConfigError struct {
	Generation int
	Err        error
}

// GridReset reports that the buffers were reallocated and reseeded.
type GridReset struct {
	Side       int
	Randomized bool
}

func (e RefreshRequested) String() string { return "refresh" }

// CompletedGenerations returns the generation count when the event fired.
func (e RefreshRequested) CompletedGenerations() int { return e.Generation }

func (e StateChange) String() string { return "STATE : " + e.NewState.String() }

// CompletedGenerations returns the generation count when the event fired.
func (e StateChange) CompletedGenerations() int { return e.Generation }

func (e ConfigError) String() string { return fmt.Sprintf("configuration error: %v", e.Err) }

// CompletedGenerations returns the generation count when the event fired.
func (e ConfigError) CompletedGenerations() int { return e.Generation }

func (e GridReset) String() string {
	return fmt.Sprintf("grid %dx%d (randomized=%t)", e.Side, e.Side, e.Randomized)
}

// CompletedGenerations is always zero after a reset.
func (e GridReset) CompletedGenerations() int { return 0 }
