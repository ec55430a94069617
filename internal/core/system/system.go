package system

import "time"

// Phase defines execution ordering within a single tick.
type Phase int

const (
	PhaseGenerate Phase = iota // 0: extend and retire the platform chain
	PhaseDecorate              // 1: retire decorations
	PhaseReport                // 2: end-of-tick stats
)

func (p Phase) String() string {
	switch p {
	case PhaseGenerate:
		return "generate"
	case PhaseDecorate:
		return "decorate"
	case PhaseReport:
		return "report"
	}
	return "unknown"
}

// System is the interface every tick-driven system implements.
type System interface {
	Phase() Phase
	Update(dt time.Duration)
}
