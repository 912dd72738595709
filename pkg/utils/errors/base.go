package errors

import (
	"net/http"

	"google.golang.org/grpc/codes"
)

// OK represents a successful operation.
var OK = Register(&Errno{
	Code:      0,
	HTTP:      http.StatusOK,
	GRPCCode:  codes.OK,
	MessageEN: "Success",
	MessageKO: "성공",
})

// Request errors (category 01).
var (
	ErrBadRequest       = NewRequestErr(ServiceCommon, 0, "Bad request", "잘못된 요청입니다")
	ErrInvalidParam     = NewRequestErr(ServiceCommon, 1, "Invalid parameter", "매개변수가 올바르지 않습니다")
	ErrValidationFailed = NewRequestErr(ServiceCommon, 4, "Validation failed", "입력값 검증에 실패했습니다")
)

// Resource errors (category 04).
var (
	ErrNotFound      = NewNotFoundErr(ServiceCommon, 0, "Resource not found", "리소스를 찾을 수 없습니다")
	ErrRouteNotFound = NewNotFoundErr(ServiceCommon, 4, "Route not found", "경로를 찾을 수 없습니다")
)

// Rate limit errors (category 06).
var ErrTooManyRequests = NewRateLimitErr(ServiceCommon, 0, "Too many requests", "요청이 너무 많습니다")

// Internal errors (category 07).
var (
	ErrInternal = NewInternalErr(ServiceCommon, 0, "Internal server error", "서버 내부 오류")
	ErrPanic    = NewInternalErr(ServiceCommon, 2, "Internal server panic", "서버 내부 패닉")
)

// Infrastructure errors.
var (
	ErrDatabase = NewDatabaseErr(ServiceCommon, 0, "Database error", "데이터베이스 오류")
	ErrCache    = NewError(ServiceCommon, CategoryCache, 0, http.StatusInternalServerError, codes.Internal, "Cache error", "캐시 오류")
)

// Network errors (category 10).
var ErrServiceUnavailable = NewError(ServiceCommon, CategoryNetwork, 1, http.StatusServiceUnavailable, codes.Unavailable, "Service unavailable", "서비스를 사용할 수 없습니다")

// Timeout errors (category 11).
var ErrRequestTimeout = NewError(ServiceCommon, CategoryTimeout, 1, http.StatusRequestTimeout, codes.DeadlineExceeded, "Request timeout", "요청 시간이 초과되었습니다")
