package materialize

import "errors"

var (
	// ErrDanglingLink indicates a reference link whose endpoint has no
	// artifact.
	ErrDanglingLink = errors.New("materialize: dangling link")

	// ErrUnknownSource indicates a group whose source has no artifact family
	// at the instance level.
	ErrUnknownSource = errors.New("materialize: unknown source")
)
