package errors

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"google.golang.org/grpc/codes"
)

func TestMakeCode(t *testing.T) {
	code := MakeCode(ServiceTutor, CategoryNetwork, 2)
	assert.Equal(t, 2110002, code)

	service, category, sequence := ParseCode(code)
	assert.Equal(t, ServiceTutor, service)
	assert.Equal(t, CategoryNetwork, category)
	assert.Equal(t, 2, sequence)
}

func TestTutorCodes(t *testing.T) {
	tests := []struct {
		name     string
		err      *Errno
		http     int
		grpc     codes.Code
		category int
	}{
		{"学生不存在", ErrTutorStudentNotFound, http.StatusNotFound, codes.NotFound, CategoryResource},
		{"班级无文档", ErrTutorDocumentNotFound, http.StatusNotFound, codes.NotFound, CategoryResource},
		{"班级不匹配", ErrTutorClassMismatch, http.StatusForbidden, codes.PermissionDenied, CategoryPermission},
		{"回复生成失败", ErrTutorResponseGeneration, http.StatusBadGateway, codes.Unavailable, CategoryNetwork},
		{"保存失败", ErrTutorQuestionPersist, http.StatusInternalServerError, codes.Internal, CategoryInternal},
		{"限流", ErrTutorRateLimited, http.StatusTooManyRequests, codes.ResourceExhausted, CategoryRateLimit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.http, tt.err.HTTPStatus())
			assert.Equal(t, tt.grpc, tt.err.GRPCStatus())
			assert.Equal(t, tt.category, GetCategory(tt.err.Code))

			registered, ok := Lookup(tt.err.Code)
			assert.True(t, ok)
			assert.Same(t, tt.err, registered)
		})
	}
}

func TestErrno_WithCause(t *testing.T) {
	cause := fmt.Errorf("upstream 503")
	err := ErrTutorResponseGeneration.WithCause(cause)

	assert.NotSame(t, ErrTutorResponseGeneration, err)
	assert.True(t, stderrors.Is(err, ErrTutorResponseGeneration))
	assert.True(t, stderrors.Is(err, cause))
	assert.Contains(t, err.Error(), "upstream 503")
	assert.Nil(t, ErrTutorResponseGeneration.Unwrap(), "original must stay untouched")
}

func TestErrno_Message(t *testing.T) {
	assert.Equal(t, "Class not found", ErrTutorClassNotFound.Message("en"))
	assert.Equal(t, "학급을 찾을 수 없습니다", ErrTutorClassNotFound.Message("ko-KR"))
	assert.Equal(t, "학급을 찾을 수 없습니다", ErrTutorClassNotFound.Message("ko-KR,ko;q=0.9,en;q=0.8"))
	assert.Equal(t, "Class not found", ErrTutorClassNotFound.Message("en-US,ko;q=0.5"))

	custom := ErrInvalidParam.WithMessage("question is required")
	assert.Equal(t, "question is required", custom.Message("en"))
	assert.Equal(t, "매개변수가 올바르지 않습니다", custom.Message("ko"))
	assert.Equal(t, ErrInvalidParam.Code, custom.Code)
}

func TestFromError(t *testing.T) {
	assert.Nil(t, FromError(nil))

	wrapped := fmt.Errorf("chat turn: %w", ErrTutorStudentNotFound)
	assert.Equal(t, ErrTutorStudentNotFound.Code, FromError(wrapped).Code)

	timeout := fmt.Errorf("call: %w", context.DeadlineExceeded)
	assert.Equal(t, ErrRequestTimeout.Code, FromError(timeout).Code)

	plain := stderrors.New("boom")
	got := FromError(plain)
	assert.Equal(t, ErrInternal.Code, got.Code)
	assert.True(t, stderrors.Is(got, plain))
}

func TestIsCodeAndGetCode(t *testing.T) {
	err := fmt.Errorf("wrap: %w", ErrTutorNoQuestions)
	assert.True(t, IsCode(err, ErrTutorNoQuestions.Code))
	assert.False(t, IsCode(err, ErrTutorClassNotFound.Code))
	assert.Equal(t, ErrTutorNoQuestions.Code, GetCode(err))
	assert.Equal(t, -1, GetCode(stderrors.New("x")))
}

func TestRegister_DuplicatePanics(t *testing.T) {
	assert.Panics(t, func() {
		Register(New(ErrInternal.Code, http.StatusInternalServerError, codes.Internal, "dup", ""))
	})
}

func TestClientServerError(t *testing.T) {
	assert.True(t, IsClientError(ErrTutorInvalidRequest.Code))
	assert.False(t, IsServerError(ErrTutorInvalidRequest.Code))
	assert.True(t, IsServerError(ErrTutorQuestionPersist.Code))
}
