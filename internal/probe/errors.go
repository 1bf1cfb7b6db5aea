package probe

import "errors"

var (
	// ErrContractViolation is returned when at least one check failed.
	ErrContractViolation = errors.New("contract violation")
	// ErrUnreachable is returned when the server cannot be contacted at all.
	ErrUnreachable = errors.New("server unreachable")
	// ErrInvalidConfig is returned for unusable probe settings.
	ErrInvalidConfig = errors.New("invalid probe config")
)
