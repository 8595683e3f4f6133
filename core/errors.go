package core

import "errors"

var (
	// ErrInvalidLevel indicates a level outside LevelEasy..LevelHard.
	ErrInvalidLevel = errors.New("core: invalid level")
	// ErrInvalidClock indicates a clock string that is not "HH:MM" in 00:00..24:00.
	ErrInvalidClock = errors.New("core: invalid clock time")
	// ErrInvalidDate indicates a date string that is not "YYYY-MM-DD".
	ErrInvalidDate = errors.New("core: invalid date")
	// ErrMalformedTag indicates an embedded tag token that cannot be decoded.
	ErrMalformedTag = errors.New("core: malformed tag token")
	// ErrUnknownPerson indicates a person id or display name absent from the world.
	ErrUnknownPerson = errors.New("core: unknown person")
	// ErrUnknownPolicy indicates a policy id absent from the world.
	ErrUnknownPolicy = errors.New("core: unknown policy")
	// ErrUnknownRoom indicates a room id absent from the world.
	ErrUnknownRoom = errors.New("core: unknown room")
)
