package storage

import "fmt"

// Phase is a closed round label. Transitions only move forward through
// phaseOrder; JD-mode sessions stay on PhaseJDSequence until they finish.
type Phase string

const (
	PhaseIntro        Phase = "intro"
	PhaseWarmup       Phase = "warmup"
	PhaseBehavioral   Phase = "behavioral"
	PhaseRoleSpecific Phase = "role_specific"
	PhaseCulture      Phase = "culture"
	PhaseWrapUp       Phase = "wrap_up"
	PhaseJDSequence   Phase = "jd_sequence"
	PhaseFinished     Phase = "finished"
)

// phaseOrder ranks the general-mode sequence. PhaseJDSequence sits outside
// it: a JD session is a flat run of jd_sequence turns.
var phaseOrder = map[Phase]int{
	PhaseIntro:        0,
	PhaseWarmup:       1,
	PhaseBehavioral:   2,
	PhaseRoleSpecific: 3,
	PhaseCulture:      4,
	PhaseWrapUp:       5,
	PhaseFinished:     6,
}

var generalSequence = []Phase{
	PhaseIntro,
	PhaseWarmup,
	PhaseBehavioral,
	PhaseRoleSpecific,
	PhaseCulture,
	PhaseWrapUp,
	PhaseFinished,
}

// ParsePhase converts a wire label into a Phase. Unknown labels are an
// error, not a new phase.
func ParsePhase(label string) (Phase, error) {
	p := Phase(label)
	if p == PhaseJDSequence {
		return p, nil
	}
	if _, ok := phaseOrder[p]; !ok {
		return "", fmt.Errorf("unknown phase label %q", label)
	}
	return p, nil
}

// Terminal reports whether no further questions may be issued.
func (p Phase) Terminal() bool {
	return p == PhaseFinished
}

// Next returns the phase that follows p in the general ordering. JD
// sessions and exhausted sequences both land on PhaseFinished.
func (p Phase) Next() Phase {
	if p == PhaseJDSequence || p == PhaseFinished {
		return PhaseFinished
	}
	for i, q := range generalSequence {
		if q == p && i+1 < len(generalSequence) {
			return generalSequence[i+1]
		}
	}
	return PhaseFinished
}

// Before reports whether p comes strictly earlier than q in the general
// ordering. jd_sequence is not ordered against the general phases.
func (p Phase) Before(q Phase) bool {
	pi, pok := phaseOrder[p]
	qi, qok := phaseOrder[q]
	if !pok || !qok {
		return false
	}
	return pi < qi
}
