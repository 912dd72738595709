package errors

import (
	"fmt"
	"net/http"

	"google.golang.org/grpc/codes"
)

// validateCodeParams validates service, category, and sequence parameters.
func validateCodeParams(service, category, sequence int) {
	if service < 0 || service > 99 {
		panic(fmt.Sprintf("errors: service code must be 0-99, got %d", service))
	}
	if category < 0 || category > 99 {
		panic(fmt.Sprintf("errors: category code must be 0-99, got %d", category))
	}
	if sequence < 0 || sequence > 999 {
		panic(fmt.Sprintf("errors: sequence must be 0-999, got %d", sequence))
	}
}

// NewError creates and registers a new Errno with the given parameters.
// Panics if registration fails or if messageEN is empty.
//
// Example:
//
//	var ErrCustom = errors.NewError(ServiceTutor, errors.CategoryRequest, 9,
//	    http.StatusBadRequest, codes.InvalidArgument,
//	    "Custom error", "사용자 정의 오류")
func NewError(service, category, sequence int, httpStatus int, grpcCode codes.Code, messageEN, messageKO string) *Errno {
	validateCodeParams(service, category, sequence)
	if messageEN == "" {
		panic("errors: english message is required")
	}
	return Register(New(MakeCode(service, category, sequence), httpStatus, grpcCode, messageEN, messageKO))
}

// NewRequestErr creates and registers a request/validation error (HTTP 400).
func NewRequestErr(service, sequence int, en, ko string) *Errno {
	return NewError(service, CategoryRequest, sequence, http.StatusBadRequest, codes.InvalidArgument, en, ko)
}

// NewPermissionErr creates and registers a permission error (HTTP 403).
func NewPermissionErr(service, sequence int, en, ko string) *Errno {
	return NewError(service, CategoryPermission, sequence, http.StatusForbidden, codes.PermissionDenied, en, ko)
}

// NewNotFoundErr creates and registers a not found error (HTTP 404).
func NewNotFoundErr(service, sequence int, en, ko string) *Errno {
	return NewError(service, CategoryResource, sequence, http.StatusNotFound, codes.NotFound, en, ko)
}

// NewRateLimitErr creates and registers a rate limit error (HTTP 429).
func NewRateLimitErr(service, sequence int, en, ko string) *Errno {
	return NewError(service, CategoryRateLimit, sequence, http.StatusTooManyRequests, codes.ResourceExhausted, en, ko)
}

// NewInternalErr creates and registers an internal error (HTTP 500).
func NewInternalErr(service, sequence int, en, ko string) *Errno {
	return NewError(service, CategoryInternal, sequence, http.StatusInternalServerError, codes.Internal, en, ko)
}

// NewDatabaseErr creates and registers a database error (HTTP 500).
func NewDatabaseErr(service, sequence int, en, ko string) *Errno {
	return NewError(service, CategoryDatabase, sequence, http.StatusInternalServerError, codes.Internal, en, ko)
}

// NewUpstreamErr creates and registers an upstream dependency error (HTTP 502).
func NewUpstreamErr(service, sequence int, en, ko string) *Errno {
	return NewError(service, CategoryNetwork, sequence, http.StatusBadGateway, codes.Unavailable, en, ko)
}

// NewTimeoutErr creates and registers a timeout error (HTTP 504).
func NewTimeoutErr(service, sequence int, en, ko string) *Errno {
	return NewError(service, CategoryTimeout, sequence, http.StatusGatewayTimeout, codes.DeadlineExceeded, en, ko)
}
