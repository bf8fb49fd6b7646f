package contagion

import (
	"errors"
	"fmt"
	"strings"
)

// Common sentinel errors
var (
	ErrEmptyEntityID      = errors.New("entity id is empty")
	ErrDuplicateEntity    = errors.New("duplicate entity id")
	ErrNegativeCapital    = errors.New("negative capital")
	ErrNegativeBuffer     = errors.New("negative buffer")
	ErrNegativeAmount     = errors.New("negative obligation amount")
	ErrSelfObligation     = errors.New("obligation from an entity to itself")
	ErrDanglingObligation = errors.New("obligation references unknown entity")
	ErrUnknownEntity      = errors.New("unknown entity")
	ErrNonConvergence     = errors.New("cascade did not converge")
)

// StructuralError reports a malformed network detected at construction time.
// It is fatal to that network instance: NewNetwork returns no Network
// alongside it, so a malformed graph can never reach the cascade engine.
type StructuralError struct {
	Kind  string // "entity" or "obligation"
	ID    string // entity id, or "from->to" for an obligation
	Cause error
}

// Error implements the error interface.
func (e *StructuralError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("invalid %s %s: %v", e.Kind, e.ID, e.Cause)
	}
	return fmt.Sprintf("invalid %s: %v", e.Kind, e.Cause)
}

// Unwrap returns the underlying cause for error chain support.
func (e *StructuralError) Unwrap() error {
	return e.Cause
}

// entityError builds a StructuralError for a malformed entity.
func entityError(id string, cause error) error {
	return &StructuralError{Kind: "entity", ID: id, Cause: cause}
}

// obligationError builds a StructuralError for a malformed obligation.
func obligationError(ob Obligation, cause error) error {
	return &StructuralError{Kind: "obligation", ID: ob.From + "->" + ob.To, Cause: cause}
}

// UnknownEntityError reports an initial-failure set or criticality target
// referencing an id not present in the network. It is raised before any
// propagation step runs.
type UnknownEntityError struct {
	ID string
}

// Error implements the error interface.
func (e *UnknownEntityError) Error() string {
	return fmt.Sprintf("unknown entity %q", e.ID)
}

// Unwrap allows errors.Is(err, ErrUnknownEntity).
func (e *UnknownEntityError) Unwrap() error {
	return ErrUnknownEntity
}

// NonConvergenceError reports a cascade that exhausted its step bound with
// entities still pending failure. The caller may retry with a larger bound;
// the engine itself never retries.
type NonConvergenceError struct {
	MaxSteps int
	Pending  []string // ids that would newly fail in the final evaluated step
}

// Error implements the error interface.
func (e *NonConvergenceError) Error() string {
	return fmt.Sprintf("cascade did not converge within %d steps (pending: %s)",
		e.MaxSteps, strings.Join(e.Pending, ", "))
}

// Unwrap allows errors.Is(err, ErrNonConvergence).
func (e *NonConvergenceError) Unwrap() error {
	return ErrNonConvergence
}

// IsStructural returns true if the error is a network construction error.
func IsStructural(err error) bool {
	var se *StructuralError
	return errors.As(err, &se)
}

// IsUnknownEntity returns true if the error references a missing entity id.
func IsUnknownEntity(err error) bool {
	return errors.Is(err, ErrUnknownEntity)
}

// IsNonConvergence returns true if the error is a step-bound exhaustion.
func IsNonConvergence(err error) bool {
	return errors.Is(err, ErrNonConvergence)
}
