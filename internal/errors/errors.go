package errors

import (
	"errors"
	"net/http"
)

var (
	// ErrNotFound is returned when a record is absent or owned by another
	// user. The two cases are deliberately indistinguishable.
	ErrNotFound = errors.New("not found")
	// ErrInvalidCredentials is returned on any authentication failure.
	ErrInvalidCredentials = errors.New("unable to authenticate with provided credentials")
	// ErrEmailRequired is returned when a signup payload carries no email.
	ErrEmailRequired = errors.New("email is required")
	// ErrEmailTaken is returned when the email already has an account.
	ErrEmailTaken = errors.New("user with this email already exists")
	// ErrPasswordTooShort is returned when a password has fewer than 5 characters.
	ErrPasswordTooShort = errors.New("password must be at least 5 characters")
	// ErrNameRequired is returned when a tag or ingredient has an empty name.
	ErrNameRequired = errors.New("name is required")
	// ErrTitleRequired is returned when a recipe has an empty title.
	ErrTitleRequired = errors.New("title is required")
	// ErrInvalidTime is returned when time_minutes is negative.
	ErrInvalidTime = errors.New("time_minutes must not be negative")
	// ErrInvalidPrice is returned when price is negative.
	ErrInvalidPrice = errors.New("price must not be negative")
	// ErrUnknownTag is returned when a recipe references a tag id that does
	// not exist in the caller's scope.
	ErrUnknownTag = errors.New("unknown tag id")
	// ErrUnknownIngredient is the ingredient counterpart of ErrUnknownTag.
	ErrUnknownIngredient = errors.New("unknown ingredient id")
	// ErrInvalidImage is returned when an upload is not a decodable image.
	ErrInvalidImage = errors.New("uploaded file is not a valid image")
)

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Error: e.Message,
		Code:  e.Code,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors. Credential failures map
// to 400 rather than 401 so the token endpoint never hints at which part of
// the credentials was wrong.
func MapErrorToHTTP(err error) *HTTPError {
	switch {
	case errors.Is(err, ErrNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "NOT_FOUND")
	case errors.Is(err, ErrInvalidCredentials):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "INVALID_CREDENTIALS")
	case errors.Is(err, ErrEmailRequired):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "EMAIL_REQUIRED")
	case errors.Is(err, ErrEmailTaken):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "EMAIL_TAKEN")
	case errors.Is(err, ErrPasswordTooShort):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "PASSWORD_TOO_SHORT")
	case errors.Is(err, ErrNameRequired):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "NAME_REQUIRED")
	case errors.Is(err, ErrTitleRequired):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "TITLE_REQUIRED")
	case errors.Is(err, ErrInvalidTime):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "INVALID_TIME")
	case errors.Is(err, ErrInvalidPrice):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "INVALID_PRICE")
	case errors.Is(err, ErrUnknownTag):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "UNKNOWN_TAG")
	case errors.Is(err, ErrUnknownIngredient):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "UNKNOWN_INGREDIENT")
	case errors.Is(err, ErrInvalidImage):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "INVALID_IMAGE")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}
