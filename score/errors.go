// SPDX-License-Identifier: MIT

package score

import "errors"

var (
	// ErrUnknownInstance indicates a prediction with no matching label.
	ErrUnknownInstance = errors.New("score: unknown instance")

	// ErrDuplicatePrediction indicates more than one prediction per instance.
	ErrDuplicatePrediction = errors.New("score: duplicate prediction")
)
