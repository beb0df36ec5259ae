package fleet

import "errors"

var (
	// ErrUnknownDevice is returned when an operation names an identity
	// outside the fixed device set.
	ErrUnknownDevice = errors.New("fleet: unknown device")

	// ErrNoDevices is returned when a registry is created with an empty
	// identity list.
	ErrNoDevices = errors.New("fleet: at least one device identity is required")

	// ErrDuplicateDevice is returned when the identity list contains the
	// same name twice.
	ErrDuplicateDevice = errors.New("fleet: duplicate device identity")
)
