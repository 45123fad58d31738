package interviewer

import "fmt"

// TerminalStateError rejects an operation attempted after the interview
// reached FINISHED. Nothing is mutated.
type TerminalStateError struct {
	SessionID string
}

func (e *TerminalStateError) Error() string {
	return fmt.Sprintf("session %q has finished: no further answers are accepted", e.SessionID)
}
