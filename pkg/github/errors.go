package github

import (
	"errors"
	"net/http"

	"github.com/google/go-github/v68/github"
)

// StatusCode returns the HTTP status of a go-github error response, or 0.
func StatusCode(err error) int {
	var ghErr *github.ErrorResponse
	if errors.As(err, &ghErr) && ghErr.Response != nil {
		return ghErr.Response.StatusCode
	}
	return 0
}

// IsNotFoundError returns true if the error is a not found error
func IsNotFoundError(err error) bool {
	return StatusCode(err) == http.StatusNotFound
}

// IsMergeConflictError returns true if a merge was rejected because of conflicts
func IsMergeConflictError(err error) bool {
	return StatusCode(err) == http.StatusConflict
}

// IsAuthenticationError returns true if the error is an authentication error
func IsAuthenticationError(err error) bool {
	var rateErr *github.RateLimitError
	if errors.As(err, &rateErr) {
		return false
	}
	code := StatusCode(err)
	return code == http.StatusUnauthorized || code == http.StatusForbidden
}
