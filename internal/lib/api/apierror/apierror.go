// Package apierror defines the closed set of API error kinds and their
// mapping to HTTP statuses and stable numeric application codes. The
// mapping is a pure lookup: one kind, one status, one code, one message.
package apierror

import (
	"errors"
	"net/http"
)

type Kind int

const (
	KindInternal Kind = iota
	KindAPINotFound
	KindMethodNotAllowed
	KindInvalidJSONBody
	KindInvalidParameter
	KindMissingParameter
	KindValidation
	KindForbidden
	KindStorage
	KindGenerateToken
	KindInvalidToken
	KindMissingToken
	KindWrongTokenFormat
	KindLocked
	KindIncorrectCredentials
	KindUserNotFound
	KindEmailAlreadyRegistered
)

type def struct {
	status  int
	code    uint16
	message string
}

// table must stay total: every Kind has exactly one entry. Codes are part
// of the public API and never change.
var table = map[Kind]def{
	KindInternal:               {http.StatusInternalServerError, 1000, "internal server error"},
	KindAPINotFound:            {http.StatusNotFound, 1001, "API not found"},
	KindMethodNotAllowed:       {http.StatusMethodNotAllowed, 1002, "method not allowed"},
	KindInvalidJSONBody:        {http.StatusBadRequest, 1003, "invalid JSON body"},
	KindInvalidParameter:       {http.StatusBadRequest, 1004, "invalid parameter"},
	KindMissingParameter:       {http.StatusBadRequest, 1005, "missing parameter"},
	KindValidation:             {http.StatusBadRequest, 1006, "validation failed"},
	KindForbidden:              {http.StatusForbidden, 1007, "forbidden"},
	KindStorage:                {http.StatusInternalServerError, 2000, "storage error"},
	KindGenerateToken:          {http.StatusInternalServerError, 3000, "failed to generate access token"},
	KindInvalidToken:           {http.StatusUnauthorized, 3001, "invalid access token"},
	KindMissingToken:           {http.StatusUnauthorized, 3002, "missing access token"},
	KindWrongTokenFormat:       {http.StatusUnauthorized, 3003, "unparseable authorization header"},
	KindLocked:                 {http.StatusForbidden, 3004, "user is locked"},
	KindIncorrectCredentials:   {http.StatusUnauthorized, 3005, "incorrect email or password"},
	KindUserNotFound:           {http.StatusNotFound, 4000, "user not found"},
	KindEmailAlreadyRegistered: {http.StatusConflict, 4001, "email already registered"},
}

// Error is a terminal API error: it is built at the failure site and
// rendered into the response envelope, never retried.
type Error struct {
	kind   Kind
	detail string
	cause  error
}

func (e *Error) Error() string { return e.Message() }

func (e *Error) Unwrap() error { return e.cause }

func (e *Error) Kind() Kind { return e.kind }

func (e *Error) HTTPStatus() int { return e.def().status }

func (e *Error) Code() uint16 { return e.def().code }

// Message is the human-readable text rendered to the client. The detail,
// when present, names the offending field or value; causes are never
// exposed.
func (e *Error) Message() string {
	msg := e.def().message
	if e.detail != "" {
		msg += ": " + e.detail
	}
	return msg
}

func (e *Error) def() def {
	if d, ok := table[e.kind]; ok {
		return d
	}
	return table[KindInternal]
}

func Internal() *Error { return &Error{kind: KindInternal} }

func APINotFound() *Error { return &Error{kind: KindAPINotFound} }

func MethodNotAllowed() *Error { return &Error{kind: KindMethodNotAllowed} }

func InvalidJSONBody() *Error { return &Error{kind: KindInvalidJSONBody} }

func GenerateToken() *Error { return &Error{kind: KindGenerateToken} }

func InvalidToken() *Error { return &Error{kind: KindInvalidToken} }

func MissingToken() *Error { return &Error{kind: KindMissingToken} }

func WrongTokenFormat() *Error { return &Error{kind: KindWrongTokenFormat} }

func Locked() *Error { return &Error{kind: KindLocked} }

func IncorrectCredentials() *Error { return &Error{kind: KindIncorrectCredentials} }

func UserNotFound() *Error { return &Error{kind: KindUserNotFound} }

func InvalidParameter(field string) *Error {
	return &Error{kind: KindInvalidParameter, detail: field}
}

func MissingParameter(field string) *Error {
	return &Error{kind: KindMissingParameter, detail: field}
}

func Validation(detail string) *Error {
	return &Error{kind: KindValidation, detail: detail}
}

func Forbidden(reason string) *Error {
	return &Error{kind: KindForbidden, detail: reason}
}

func Storage(cause error) *Error {
	return &Error{kind: KindStorage, cause: cause}
}

func EmailAlreadyRegistered(email string) *Error {
	return &Error{kind: KindEmailAlreadyRegistered, detail: email}
}

// From extracts an *Error from err, falling back to the internal kind so
// that unclassified failures never leak detail to the client.
func From(err error) *Error {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr
	}
	return Internal()
}
