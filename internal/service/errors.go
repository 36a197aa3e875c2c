package service

import "errors"

// Precondition violations of the list's participant state machine. These are
// validation failures raised by the entity operations themselves and are
// never retried.
var (
	ErrAlreadyParticipant = errors.New("user is already a participant of this list")
	ErrNotParticipant     = errors.New("user is not a participant of this list")
	ErrAlreadyAdmin       = errors.New("user is already an admin of this list")
)

// ErrForbidden is raised by the query surface before an entity operation
// when the acting user lacks the required permission on the list. Distinct
// from the precondition errors above, which concern the target user.
var ErrForbidden = errors.New("you are not allowed to perform this action on this list")

// Field-level validation failures.
var (
	ErrMissingTitle      = errors.New("list title is required")
	ErrMissingName       = errors.New("item name is required")
	ErrNegativeThreshold = errors.New("threshold must not be negative")
	ErrNegativeValue     = errors.New("item value must not be negative")
	ErrBadQuantity       = errors.New("item quantity must be at least 1")
)
