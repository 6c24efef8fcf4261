package services

import (
	"errors"
	"fmt"
)

// Категории ошибок. Обработчики HTTP сопоставляют статус только по ним.
var (
	ErrUnauthenticated = errors.New("please log in first")
	ErrNoActiveSport   = errors.New("please select a sport first")
	ErrForbidden       = errors.New("you do not have permission to access this resource")
	ErrNotFound        = errors.New("requested resource not found")
	ErrInvalidInput    = errors.New("invalid input")
	ErrStorageFailure  = errors.New("file storage operation failed")
)

// Ошибки конкретных сущностей.
var (
	ErrUserNotFound       = newError(ErrNotFound, "user not found")
	ErrSportNotFound      = newError(ErrNotFound, "sport not found")
	ErrPlayerNotFound     = newError(ErrNotFound, "player not found")
	ErrPlanNotFound       = newError(ErrNotFound, "training plan not found")
	ErrRecordNotFound     = newError(ErrNotFound, "training record not found")
	ErrFoodRecordNotFound = newError(ErrNotFound, "food record not found")
	ErrFileNotFound       = newError(ErrNotFound, "file not found")

	ErrImageTypeForbidden = newError(ErrForbidden, "file type is not allowed")

	ErrUsernameTaken      = newError(ErrInvalidInput, "username already exists")
	ErrEmailTaken         = newError(ErrInvalidInput, "email is already registered")
	ErrPasswordMismatch   = newError(ErrInvalidInput, "passwords do not match")
	ErrInvalidCredentials = newError(ErrInvalidInput, "invalid username or password")
	ErrInvalidWeight      = newError(ErrInvalidInput, "weight must be greater than 0")
	ErrInvalidPlanDate    = newError(ErrInvalidInput, "plan date must be in YYYY-MM-DD format")
	ErrImageRequired      = newError(ErrInvalidInput, "no file selected")
	ErrAvatarInUse        = newError(ErrInvalidInput, "avatar is already used by another player")
	ErrImageInUse         = newError(ErrInvalidInput, "image is already saved in another food record")
)

// kindError ties a user-facing message to one of the categories above.
type kindError struct {
	kind  error
	msg   string
	cause error
}

func newError(kind error, msg string) error {
	return &kindError{kind: kind, msg: msg}
}

func (e *kindError) Error() string { return e.msg }

func (e *kindError) Unwrap() []error {
	if e.cause == nil {
		return []error{e.kind}
	}
	return []error{e.kind, e.cause}
}

func invalidInputf(format string, args ...interface{}) error {
	return &kindError{kind: ErrInvalidInput, msg: fmt.Sprintf(format, args...)}
}

// invalidInput wraps a validation error from a lower layer.
func invalidInput(cause error) error {
	return &kindError{kind: ErrInvalidInput, msg: cause.Error(), cause: cause}
}

func storageFailure(op string, cause error) error {
	return &kindError{kind: ErrStorageFailure, msg: "failed to " + op, cause: cause}
}
