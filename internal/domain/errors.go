package domain

import "errors"

var (
	// ErrContractViolation marks a broken invariant upstream: an intent that
	// references a deleted entity, a damage target without a Name, and so on.
	// It is raised with panic, never returned.
	ErrContractViolation = errors.New("contract violation")

	// ErrStaleEntity is returned when a handle no longer refers to a live entity.
	ErrStaleEntity = errors.New("stale entity handle")
)
