package types

import "fmt"

// DimensionMismatchError reports a state vector whose length does not match
// the dimension the models were built for. Callers must fix the upstream
// encoding, the core never coerces.
type DimensionMismatchError struct {
	Want int
	Got  int
}

func (e *DimensionMismatchError) Error() string {
	return fmt.Sprintf("state dimension mismatch: want %d, got %d", e.Want, e.Got)
}

// EnvironmentNotResetError reports a Step call on an environment that has no
// sampled patient. This is a programming error, not a recoverable condition.
type EnvironmentNotResetError struct{}

func (e *EnvironmentNotResetError) Error() string {
	return "environment step called before reset"
}

// NumericalInstabilityError reports a non-finite value produced by a model
// forward pass. The recommended recovery is reloading the last known-good
// checkpoint; the core only surfaces the condition.
type NumericalInstabilityError struct {
	Where string
}

func (e *NumericalInstabilityError) Error() string {
	return fmt.Sprintf("non-finite values in %s forward pass", e.Where)
}
