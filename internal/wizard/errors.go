package wizard

import (
	"errors"
	"fmt"

	"github.com/olehluchkiv/epwizard/internal/catalog"
)

var (
	// ErrCatalogMiss means the selected component has no resolvable schema.
	// It is fatal to the current run; no pages are built.
	ErrCatalogMiss = errors.New("component is not in the catalog")

	// ErrInvalidTransition is returned for operations the session's state
	// does not allow.
	ErrInvalidTransition = errors.New("invalid wizard transition")

	// ErrMissingRequired is wrapped once per required field left empty.
	ErrMissingRequired = errors.New("required value missing")

	// ErrUnknownField is returned when a value is set for a key that is not
	// part of the current page set.
	ErrUnknownField = errors.New("unknown field")
)

// catalogMiss wraps err so that it matches both ErrCatalogMiss and
// catalog.ErrNotFound. Errors that are not misses are returned unchanged.
func catalogMiss(name string, err error) error {
	if !errors.Is(err, catalog.ErrNotFound) {
		return err
	}
	return fmt.Errorf("%w: %q: %w", ErrCatalogMiss, name, err)
}

func invalidTransition(op string, st State) error {
	return fmt.Errorf("%w: %s in state %s", ErrInvalidTransition, op, st)
}
