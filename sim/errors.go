package sim

import "errors"

// Errors returned by the surrogate engines. Call sites wrap them with the
// offending attribute or phase; match with errors.Is.
var (
	// ErrLifecycleViolation indicates a phase-exit validation failure or an
	// operation that the active phase does not permit.
	ErrLifecycleViolation = errors.New("lifecycle violation")

	// ErrUnknownAttribute indicates a name that is not declared in the store
	// the operation targets.
	ErrUnknownAttribute = errors.New("unknown attribute")

	// ErrNoMatchingBackend indicates that no registered regression backend
	// accepts a model description.
	ErrNoMatchingBackend = errors.New("no matching backend")

	// ErrAmbiguousBackend indicates that more than one registered regression
	// backend accepts a model description.
	ErrAmbiguousBackend = errors.New("ambiguous backend")

	// ErrConstruction indicates a component that was not built through its
	// constructor or was built from missing collaborators.
	ErrConstruction = errors.New("invalid construction")

	// ErrShapeMismatch indicates a prediction whose length differs from the
	// number of declared responses.
	ErrShapeMismatch = errors.New("shape mismatch")

	// ErrInvalidStructure indicates a ModelStructure that fails validation.
	ErrInvalidStructure = errors.New("invalid model structure")
)
