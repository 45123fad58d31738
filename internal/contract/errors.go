// Package contract defines the structured request/response contracts
// exchanged with the completion service and validates model output before
// any session state may be mutated. Validation checks shape, type and range
// only, never semantic correctness.
package contract

import (
	"fmt"
	"strings"
)

// ValidationError reports that model output failed a contract. It carries
// every problem found so a single corrective retry can fix all of them.
type ValidationError struct {
	Contract string
	Problems []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s contract violated: %s", e.Contract, strings.Join(e.Problems, "; "))
}

// CorrectiveInstruction renders the message appended to the conversation
// when the controller retries after a validation failure.
func (e *ValidationError) CorrectiveInstruction() string {
	var b strings.Builder
	b.WriteString("Your previous response did not satisfy the required JSON format. Problems:\n")
	for _, p := range e.Problems {
		b.WriteString("- ")
		b.WriteString(p)
		b.WriteString("\n")
	}
	b.WriteString("Respond again with a single valid JSON object that fixes every problem above. Do not include any text outside the JSON.")
	return b.String()
}

// GroundingViolation is a ValidationError raised when coach output
// references transcript content that does not exist.
type GroundingViolation struct {
	ValidationError
	BadRefs []string
}

func (e *GroundingViolation) Error() string {
	return fmt.Sprintf("%s (ungrounded references: %s)", e.ValidationError.Error(), strings.Join(e.BadRefs, ", "))
}

// Unwrap lets errors.As treat a grounding violation as a validation error.
func (e *GroundingViolation) Unwrap() error { return &e.ValidationError }
