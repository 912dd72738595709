package response

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kart-io/tutor-x/pkg/utils/errors"
)

func TestSuccess(t *testing.T) {
	resp := Success(map[string]string{"questionType": "REASONING"})
	assert.True(t, resp.IsSuccess())
	assert.Equal(t, http.StatusOK, resp.HTTPStatus())
	assert.Equal(t, "success", resp.Message)
}

func TestErrWithLang(t *testing.T) {
	resp := ErrWithLang(errors.ErrTutorResponseGeneration, "ko")
	assert.False(t, resp.IsSuccess())
	assert.Equal(t, errors.ErrTutorResponseGeneration.Code, resp.Code)
	assert.Equal(t, http.StatusBadGateway, resp.HTTPStatus())
	assert.Equal(t, "AI 응답을 생성하지 못했습니다", resp.Message)

	assert.Equal(t, "Failed to generate AI response", Err(errors.ErrTutorResponseGeneration).Message)
	assert.True(t, Err(nil).IsSuccess())
}

func TestPage(t *testing.T) {
	resp := Page([]int{1, 2}, 21, 2, 10)
	data, ok := resp.Data.(*PageData)
	assert.True(t, ok)
	assert.Equal(t, 3, data.TotalPages)
	assert.Equal(t, int64(21), data.Total)

	empty := Page(nil, 0, 1, 0)
	assert.Equal(t, 0, empty.Data.(*PageData).TotalPages)
}

func TestHTTPStatus_Lookup(t *testing.T) {
	resp := &Response{Code: errors.ErrTutorClassNotFound.Code}
	assert.Equal(t, http.StatusNotFound, resp.HTTPStatus())

	unknown := &Response{Code: 9999999}
	assert.Equal(t, http.StatusInternalServerError, unknown.HTTPStatus())
}
