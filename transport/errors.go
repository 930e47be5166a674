package transport

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/vishalmysore/ucpexample/application/params"
	"github.com/vishalmysore/ucpexample/domain/entities"
	domainerrors "github.com/vishalmysore/ucpexample/domain/errors"
)

// JSON-RPC 2.0 error codes.
const (
	CodeParseError     = -32700
	CodeInvalidRequest = -32600
	CodeMethodNotFound = -32601
	CodeInvalidParams  = -32602
	CodeInternalError  = -32603
)

// ErrorResponse is the JSON body of a failed REST call.
type ErrorResponse struct {
	Details map[string]any `json:"details,omitempty"`

	// Error is a machine-readable error code (e.g., "capability_not_found").
	Error string `json:"error"`

	// Message is a human-readable error description.
	Message string `json:"message"`

	// Code is the HTTP status code.
	Code int `json:"code"`
}

// NewErrorResponse builds the REST error body for err.
func NewErrorResponse(err error) ErrorResponse {
	detail := domainerrors.ToErrorDetail(err)
	code := detail.Code
	if code == "" {
		code = detail.Type
	}
	return ErrorResponse{
		Error:   code,
		Message: detail.Message,
		Code:    StatusCode(err),
		Details: detail.Details,
	}
}

// StatusCode maps a dispatch error onto an HTTP status: 404 for unknown
// capabilities, 400 for argument problems, 500 for handler failures and
// anything unrecognized. A handler failure is 500 whatever its cause.
func StatusCode(err error) int {
	var (
		failure  *domainerrors.HandlerFailureError
		notFound *domainerrors.CapabilityNotFoundError
		mismatch *domainerrors.ArgumentMismatchError
		unknown  *params.UnknownParamError
		request  *requestError
	)
	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &failure):
		return http.StatusInternalServerError
	case errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.As(err, &mismatch), errors.As(err, &unknown), errors.As(err, &request):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// RPCCode maps a dispatch error onto a JSON-RPC error code.
func RPCCode(err error) int {
	switch StatusCode(err) {
	case http.StatusNotFound:
		return CodeMethodNotFound
	case http.StatusBadRequest:
		return CodeInvalidParams
	default:
		return CodeInternalError
	}
}

// encodeFailure reports a result that could not be written as JSON, such as
// a NaN or infinite number. The handler ran, so it counts as its failure.
func encodeFailure(name string, err error) error {
	return &domainerrors.HandlerFailureError{
		Capability: name,
		Cause:      fmt.Errorf("encode result: %w", err),
	}
}

// requestError reports a malformed request body.
type requestError struct {
	err error
}

func (e *requestError) Error() string { return "malformed request: " + e.err.Error() }

func (e *requestError) Unwrap() error { return e.err }

// ToErrorDetail implements errors.DetailedError.
func (e *requestError) ToErrorDetail() *entities.ErrorDetail {
	return &entities.ErrorDetail{Message: e.Error(), Type: "dispatch", Code: "malformed_request"}
}
