package audit

import "errors"

var (
	// ErrIncidentValidation is returned when an incident is missing
	// required fields.
	ErrIncidentValidation = errors.New("incident validation failed")

	// ErrSinkClosed is returned when recording to a sink that has been
	// shut down.
	ErrSinkClosed = errors.New("audit sink closed")
)
