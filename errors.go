package sekai

import "github.com/rotisserie/eris"

// Errors returned by the storage layer. They are always wrapped with context,
// so compare with eris.Is or errors.Is.
var (
	// ErrEntityNotFound is returned when a component is attached to an entity
	// that was never created or has already been removed.
	ErrEntityNotFound = eris.New("entity not found")
	// ErrTypeNotRegistered is returned for a ComponentType that the World does
	// not know about.
	ErrTypeNotRegistered = eris.New("component type not registered")
	// ErrTypeMismatch is returned when a value handed to the untyped API is not
	// of the Go type registered for the ComponentType.
	ErrTypeMismatch = eris.New("component value has the wrong type")
)
