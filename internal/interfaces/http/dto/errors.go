package dto

import (
	"net/http"

	"github.com/orderfeed/backend/internal/domain/shared"
)

// ErrorCodeHTTPStatus maps domain error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	shared.CodeUnauthorized:  http.StatusUnauthorized,
	shared.CodeBadRequest:    http.StatusBadRequest,
	shared.CodeNotAcceptable: http.StatusNotAcceptable,
	shared.CodeNotFound:      http.StatusNotFound,
	shared.CodeConfiguration: http.StatusInternalServerError,
	shared.CodePersistence:   http.StatusInternalServerError,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// Unknown codes map to 500.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// ErrorResponse is the JSON error body. Code mirrors the HTTP status.
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// NewErrorResponse creates an error response for status
func NewErrorResponse(status int, message string) ErrorResponse {
	return ErrorResponse{Code: status, Message: message}
}

// FromDomainError builds the status and body for a classified error
func FromDomainError(err *shared.DomainError) (int, ErrorResponse) {
	status := GetHTTPStatus(err.Code)
	return status, NewErrorResponse(status, err.Message)
}
