package failure

import (
	"errors"
	"net/http"
)

// Failure is a wrapper for error messages and codes using standard HTTP response codes.
// Kind identifies a domain failure independently of the message, so callers can branch on it.
type Failure struct {
	Code    int            `json:"code"`
	Kind    string         `json:"kind,omitempty"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

const (
	KindInvalidBloodType        = "invalid_blood_type"
	KindIncompatibleBloodType   = "incompatible_blood_type"
	KindTooEarlyToDonate        = "too_early_to_donate"
	KindSlotUnavailable         = "slot_unavailable"
	KindInvalidStatusTransition = "invalid_status_transition"
	KindNeedNotFound            = "need_not_found"
	KindStoreUnavailable        = "store_unavailable"
)

var InvalidPageParam = &Failure{Code: http.StatusBadRequest, Message: "invalid page parameter"}
var InvalidLimitParam = &Failure{Code: http.StatusBadRequest, Message: "invalid limit parameter"}
var ForbiddenError = &Failure{Code: http.StatusForbidden, Message: "You don't have the required permissions"}
var ResourceRestrictedError = &Failure{Code: http.StatusForbidden, Message: "You don't have permission to access this resource"}

// Error returns the error code and message in a formatted string.
func (e *Failure) Error() string {
	return e.Message
}

// Is reports whether target is a Failure of the same kind.
func (e *Failure) Is(target error) bool {
	var other *Failure
	if !errors.As(target, &other) {
		return false
	}

	return e.Kind != "" && e.Kind == other.Kind
}

// BadRequest returns a new Failure with code for bad requests.
func BadRequest(err error) error {
	if err != nil {
		return &Failure{
			Code:    http.StatusBadRequest,
			Message: err.Error(),
		}
	}

	return nil
}

// BadRequestFromString returns a new Failure with code for bad requests with message set from string.
func BadRequestFromString(msg string) error {
	return &Failure{
		Code:    http.StatusBadRequest,
		Message: msg,
	}
}

// Unauthorized returns a new Failure with code for unauthorized requests.
func Unauthorized(msg string) error {
	return &Failure{
		Code:    http.StatusUnauthorized,
		Message: msg,
	}
}

// NotFound returns a new Failure with code for entity not found.
func NotFound(entityName string) error {
	return &Failure{
		Code:    http.StatusNotFound,
		Message: entityName,
	}
}

// Conflict returns a new Failure with code for conflict situations.
func Conflict(message string) error {
	return &Failure{
		Code:    http.StatusConflict,
		Message: message,
	}
}

func Forbidden(msg string) error {
	return &Failure{
		Code:    http.StatusForbidden,
		Message: msg,
	}
}

// Unprocessable returns a new Failure of the given kind for requests that are well-formed but refused by a business rule.
func Unprocessable(kind, msg string) *Failure {
	return &Failure{
		Code:    http.StatusUnprocessableEntity,
		Kind:    kind,
		Message: msg,
	}
}

// StoreUnavailable returns a retryable Failure for transient persistence errors.
func StoreUnavailable(err error) error {
	msg := "storage is temporarily unavailable, please retry"
	if err != nil {
		msg = msg + ": " + err.Error()
	}

	return &Failure{
		Code:    http.StatusServiceUnavailable,
		Kind:    KindStoreUnavailable,
		Message: msg,
	}
}

// GetCode returns the error code of an error interface.
func GetCode(err error) int {
	var fail *Failure
	if errors.As(err, &fail) {
		return fail.Code
	}

	return http.StatusInternalServerError
}

// GetKind returns the kind of a Failure, or an empty string for other errors.
func GetKind(err error) string {
	var fail *Failure
	if errors.As(err, &fail) {
		return fail.Kind
	}

	return ""
}

// IsRetryable reports whether the error is a transient store failure.
func IsRetryable(err error) bool {
	return GetKind(err) == KindStoreUnavailable
}
