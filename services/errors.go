// services/errors.go - Error taxonomy for the registration core
package services

import (
	"errors"
	"fmt"
	"strings"
)

// Terminal rejections. Every precondition failure maps to exactly one of
// these (or a *ValidationError) and is surfaced verbatim to the caller;
// anything else is an infrastructure failure and stays generic.
var (
	ErrEventNotFound      = errors.New("event not found")
	ErrAlreadyRegistered  = errors.New("you are already registered for this event")
	ErrEventInactive      = errors.New("event is not active")
	ErrRegistrationClosed = errors.New("registration deadline has passed")
	ErrEventFull          = errors.New("event has reached the maximum number of teams")

	// ErrExhaustedRetries bounds the fest ID generation loop.
	ErrExhaustedRetries = errors.New("could not generate a unique fest ID")

	// ErrNotApplied is returned by a Store when the guarded event update
	// matched no document: the event disappeared, went inactive, closed, or
	// filled up between validation and write. The service re-reads the event
	// to classify the rejection.
	ErrNotApplied = errors.New("registration was not applied")
)

// Validation reasons.
const (
	ReasonTeamSize      = "team_size"
	ReasonSelfReference = "self_reference"
	ReasonDuplicate     = "duplicate_member"
	ReasonUnknownMember = "unknown_member"
	ReasonMemberTaken   = "member_already_registered"
	ReasonTerms         = "terms"
	ReasonTeamName      = "team_name"
)

type ValidationError struct {
	Reason  string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func newSizeError(min, max, got int) *ValidationError {
	return &ValidationError{
		Reason:  ReasonTeamSize,
		Message: fmt.Sprintf("team size must be between %d and %d, got %d", min, max, got),
	}
}

func newUnknownMembersError(festIDs []string) *ValidationError {
	return &ValidationError{
		Reason:  ReasonUnknownMember,
		Message: fmt.Sprintf("unknown member ids: %s", strings.Join(festIDs, ", ")),
	}
}

func newRegisteredMembersError(festIDs []string) *ValidationError {
	return &ValidationError{
		Reason:  ReasonMemberTaken,
		Message: fmt.Sprintf("already registered for this event: %s", strings.Join(festIDs, ", ")),
	}
}
