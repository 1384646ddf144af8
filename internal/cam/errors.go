package cam

import "errors"

// Error taxonomy. Every public operation validates eagerly and wraps one of
// these sentinels, so callers can branch with errors.Is; no tensor compute
// is dispatched after a failed validation and no state is partially mutated.
var (
	// ErrShape reports a tensor rank or dimension mismatch against the
	// declared array or batch shape.
	ErrShape = errors.New("shape mismatch")

	// ErrIndex reports a row index outside the array bounds.
	ErrIndex = errors.New("index out of range")

	// ErrConfig reports a device-profile parameter outside its valid domain.
	ErrConfig = errors.New("invalid configuration")

	// ErrVariant reports an operation that is not defined for the array's
	// CAM variant.
	ErrVariant = errors.New("operation undefined for variant")
)
