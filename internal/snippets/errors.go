package snippets

import "errors"

var (
	// ErrMarkerOperation is reported when a category marker is run.
	ErrMarkerOperation = errors.New("marker entries are not runnable")
	// ErrUnknownOperation is returned when no operation has the requested name.
	ErrUnknownOperation = errors.New("unknown snippet")
	// ErrUnknownCategory is returned for a category outside the catalogue.
	ErrUnknownCategory = errors.New("unknown snippet category")
)
