// SPDX-License-Identifier: MIT

package store

import "errors"

var (
	// ErrMissingArtifact indicates a sources_ref entry without its file.
	ErrMissingArtifact = errors.New("store: missing artifact")

	// ErrMismatch indicates instances and labels that do not pair up.
	ErrMismatch = errors.New("store: instances and labels do not match")

	// ErrCorrupt indicates a record that cannot be decoded.
	ErrCorrupt = errors.New("store: corrupt record")
)
