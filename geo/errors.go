package geo

import "fmt"

// The two hard failure kinds of the geometry API. Everything else that
// can go wrong at the edges of the detector (a position outside every
// cryostat, a wire with no channel) is reported through sentinel return
// values instead, so reconstruction loops keep running.

// NotFoundError reports a lookup of an element that does not exist: an
// index or ID out of range, or a named volume missing from the tree.
type NotFoundError struct {
	What string // element kind, e.g. "TPC" or "volume"
	ID   string // offending ID, index or name
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("geo: %s %s does not exist", e.What, e.ID)
}

// InvalidInputError reports arguments that violate an operation's
// preconditions, like a wire pair from two different TPCs.
type InvalidInputError struct {
	Op     string
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("geo: %s: %s", e.Op, e.Reason)
}

func notFound(what string, id fmt.Stringer) error {
	return &NotFoundError{What: what, ID: id.String()}
}

func notFoundIndex(what string, i int) error {
	return &NotFoundError{What: what, ID: fmt.Sprintf("%d", i)}
}
