package service

import (
	"github.com/pkg/errors"
)

type ErrorCode string

const (
	ErrorCodeBadRequest   ErrorCode = "BAD_REQUEST"
	ErrorCodeUnauthorized ErrorCode = "UNAUTHORIZED"
	ErrorCodeForbidden    ErrorCode = "FORBIDDEN"
	ErrorCodeNotFound     ErrorCode = "NOT_FOUND"
	ErrorCodeConflict     ErrorCode = "CONFLICT"
	ErrorCodeInternal     ErrorCode = "INTERNAL"
)

// Messages surfaced to clients verbatim.
const (
	MsgPermissionDenied     = "Permission denied"
	MsgInvalidCredentials   = "Invalid credentials"
	MsgCredentialsRequired  = "Username and password are required"
	MsgAdminExists          = "Admin user already exists"
	MsgUsernameExists       = "Username already exists"
	MsgTeamFieldsRequired   = "Team name and admin username are required"
	MsgTeamAdminNotFound    = "Team admin user not found"
	MsgTeamExists           = "Team name already exists"
	MsgUserHasTeam          = "User already belongs to a team"
	MsgTeamNotFound         = "Team not found"
	MsgBoardFieldsRequired  = "Board name and team ID are required"
	MsgBoardNotFound        = "Board not found"
	MsgListFieldsRequired   = "List name and board ID are required"
	MsgListNotFound         = "List not found"
	MsgTaskFieldsRequired   = "Title and list_id are required"
	MsgTaskNotFound         = "Task not found"
	MsgTaskFieldNotNullable = "Title and list_id cannot be empty"
	MsgTokenMissing         = "Token is missing!"
	MsgTokenInvalid         = "Token is invalid!"
	MsgTokenExpired         = "Token has expired!"
	MsgUserNotFound         = "User not found!"
	MsgInternal             = "An error occurred"
)

type Error struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`

	// Cause is kept for logs and never serialized.
	Cause error `json:"-"`
}

func NewError(code ErrorCode, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
	}
}

func (e *Error) WithCause(err error) *Error {
	e.Cause = err
	return e
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func internalError(err error) *Error {
	return NewError(ErrorCodeInternal, MsgInternal).WithCause(err)
}

func forbidden(err error) *Error {
	return NewError(ErrorCodeForbidden, MsgPermissionDenied).WithCause(err)
}

// asError extracts the *Error a transaction closure returned. Any other failure,
// such as a commit error, becomes INTERNAL instead of being dropped.
func asError(err error) *Error {
	if err == nil {
		return nil
	}
	var res *Error
	if errors.As(err, &res) {
		return res
	}
	return internalError(err)
}
