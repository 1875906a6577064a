package model

import (
	"errors"
	"net/http"
)

// reason codes returned to API clients
var (
	ErrInvalidInput   = errors.New("INVALID_INPUT")
	ErrInvalidRepoURL = errors.New("INVALID_REPO_URL")
	ErrRepoNotFound   = errors.New("REPO_NOT_FOUND")
	ErrRateLimited    = errors.New("RATE_LIMIT_REACHED")
	ErrUpstream       = errors.New("FETCH_ERROR")
	ErrInternal       = errors.New("INTERNAL_ERROR")
)

type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}

// NewAPIError converts an error returned by services into the body sent to clients
func NewAPIError(errReason error) APIError {
	switch {
	case errReason == nil:
		return APIError{
			Code:    ErrInternal.Error(),
			Message: "internal server error. contact our support with the reason code for assistance",
		}

	case errors.Is(errReason, ErrInvalidRepoURL):
		return APIError{
			Code:    ErrInvalidRepoURL.Error(),
			Message: "repo_url must look like https://github.com/<owner>/<name>",
		}

	case errors.Is(errReason, ErrInvalidInput):
		return APIError{
			Code:    ErrInvalidInput.Error(),
			Message: "invalid request body",
			Detail:  errReason.Error(),
		}

	case errors.Is(errReason, ErrRepoNotFound):
		return APIError{
			Code:    ErrRepoNotFound.Error(),
			Message: "repository not found, private, or without a main/master branch",
		}

	case errors.Is(errReason, ErrRateLimited):
		return APIError{
			Code:    ErrRateLimited.Error(),
			Message: "github rate limit reached. consider using a token to increase the limit or wait few minutes and try again",
		}

	case errors.Is(errReason, ErrUpstream):
		return APIError{
			Code:    ErrUpstream.Error(),
			Message: "internal server error. contact our support with the reason code for assistance",
			Detail:  errReason.Error(),
		}

	default:
		return APIError{
			Code:    ErrInternal.Error(),
			Message: "internal server error. contact our support with the reason code for assistance",
			Detail:  errReason.Error(),
		}
	}
}

// StatusCode maps an error to the HTTP status sent with it
func StatusCode(err error) int {
	switch {
	case errors.Is(err, ErrInvalidRepoURL), errors.Is(err, ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, ErrRepoNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrRateLimited):
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}
