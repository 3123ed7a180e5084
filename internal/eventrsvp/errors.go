package eventrsvp

import (
	"errors"
	"net/http"
)

// Machine-readable error codes returned to API clients.
const (
	CodeEventNotFound         = "EVENT_NOT_FOUND"
	CodeNotOrganizer          = "NOT_ORGANIZER"
	CodeAlreadyConfirmed      = "ALREADY_CONFIRMED"
	CodeAlreadyCheckedIn      = "ALREADY_CHECKED_IN"
	CodeNotAttending          = "NOT_ATTENDING"
	CodeNotWaitlisted         = "NOT_WAITLISTED"
	CodeWaitlistDisabled      = "WAITLIST_DISABLED"
	CodeInvalidFeedbackRating = "INVALID_FEEDBACK_RATING"
	CodeEventFull             = "EVENT_FULL"
	CodeEventInactive         = "EVENT_INACTIVE"
)

// DomainError is a business-rule violation. Handlers map these to HTTP
// statuses; anything that is not a DomainError is a 500.
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

var (
	ErrEventNotFound         = &DomainError{Code: CodeEventNotFound, Message: "event not found"}
	ErrNotOrganizer          = &DomainError{Code: CodeNotOrganizer, Message: "caller is not an organizer of this event"}
	ErrAlreadyConfirmed      = &DomainError{Code: CodeAlreadyConfirmed, Message: "RSVP is already confirmed"}
	ErrAlreadyCheckedIn      = &DomainError{Code: CodeAlreadyCheckedIn, Message: "participant is already checked in"}
	ErrNotAttending          = &DomainError{Code: CodeNotAttending, Message: "participant has no active RSVP for this event"}
	ErrNotWaitlisted         = &DomainError{Code: CodeNotWaitlisted, Message: "participant is not on the waitlist"}
	ErrWaitlistDisabled      = &DomainError{Code: CodeWaitlistDisabled, Message: "waitlist is disabled for this event"}
	ErrInvalidFeedbackRating = &DomainError{Code: CodeInvalidFeedbackRating, Message: "rating must be between 1 and 5"}
	ErrEventFull             = &DomainError{Code: CodeEventFull, Message: "event is at capacity"}
	ErrEventInactive         = &DomainError{Code: CodeEventInactive, Message: "event is no longer active"}
)

// AsDomainError unwraps err into a DomainError if it is one.
func AsDomainError(err error) (*DomainError, bool) {
	var de *DomainError
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}

// HTTPStatus maps a service error to the status code the API returns.
func HTTPStatus(err error) int {
	de, ok := AsDomainError(err)
	if !ok {
		return http.StatusInternalServerError
	}
	switch de.Code {
	case CodeEventNotFound:
		return http.StatusNotFound
	case CodeNotOrganizer:
		return http.StatusForbidden
	case CodeAlreadyConfirmed, CodeAlreadyCheckedIn, CodeNotAttending,
		CodeNotWaitlisted, CodeWaitlistDisabled, CodeInvalidFeedbackRating:
		return http.StatusConflict
	default:
		return http.StatusBadRequest
	}
}
