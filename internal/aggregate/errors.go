package aggregate

import (
	"fmt"

	"github.com/aretw0/simreport/pkg/domain"
)

// StepError locates a failure at a step index of a channel's input.
type StepError struct {
	Step int
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %d: %v", e.Step, e.Err)
}

func (e *StepError) Unwrap() error { return e.Err }

func unexpected(step int, want domain.ChannelKind, got domain.ChannelValue) error {
	return &StepError{Step: step, Err: fmt.Errorf("expected %s value, got %T", want, got)}
}
