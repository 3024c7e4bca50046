package workflow

import (
	"fmt"
	"time"
)

// Phase enumerates controller states.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseLoading
	PhaseReady
	PhaseSubmitting
	PhaseSettled
	PhaseRedirecting
	PhaseDone
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseLoading:
		return "loading"
	case PhaseReady:
		return "ready"
	case PhaseSubmitting:
		return "submitting"
	case PhaseSettled:
		return "settled"
	case PhaseRedirecting:
		return "redirecting"
	case PhaseDone:
		return "done"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// Busy reports phases during which the triggering control is disabled.
func (p Phase) Busy() bool {
	return p == PhaseLoading || p == PhaseSubmitting
}

// allowed lists the legal successors of each phase.
var allowed = map[Phase][]Phase{
	PhaseIdle:        {PhaseLoading},
	PhaseLoading:     {PhaseReady, PhaseSettled},
	PhaseReady:       {PhaseSubmitting},
	PhaseSubmitting:  {PhaseSettled},
	PhaseSettled:     {PhaseRedirecting},
	PhaseRedirecting: {PhaseDone},
}

func canTransition(from, to Phase) bool {
	for _, next := range allowed[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Transition records one phase change.
type Transition struct {
	Controller string
	From       Phase
	To         Phase
	At         time.Time
}
