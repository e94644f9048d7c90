package inference

import (
	"slices"

	"github.com/cottand/inhabit/ilerr"
)

type Status struct {
	errors     []ilerr.IleError
	incomplete ilerr.IleError
}

// NewStatus is for constraint systems other than Builder that report through a Status
func NewStatus(errs ...ilerr.IleError) Status {
	return Status{errors: errs}
}

// IsSuccessful is true when no constraint contradicted another
func (s Status) IsSuccessful() bool {
	return len(s.errors) == 0
}

func (s Status) HasConflictingConstraints() bool {
	return slices.ContainsFunc(s.errors, func(err ilerr.IleError) bool {
		return err.Code() == ilerr.ConflictingBounds
	})
}

// IsIncomplete is true when the system ran out of fuel or met types nesting
// too deep to compare; what it could not check was assumed to be consistent
func (s Status) IsIncomplete() bool {
	return s.incomplete != nil
}

// Incomplete is why the system is incomplete, nil if it is not
func (s Status) Incomplete() ilerr.IleError {
	return s.incomplete
}

func (s Status) Errors() []ilerr.IleError {
	return s.errors
}
