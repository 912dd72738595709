// Package httputils provides HTTP utility functions.
package httputils

import (
	stderrors "errors"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	playground "github.com/go-playground/validator/v10"
	"github.com/kart-io/logger"

	"github.com/kart-io/tutor-x/pkg/infra/middleware"
	"github.com/kart-io/tutor-x/pkg/utils/errors"
	"github.com/kart-io/tutor-x/pkg/utils/response"
	"github.com/kart-io/tutor-x/pkg/utils/validator"
)

// WriteResponse writes the response to the client.
// It handles both success and error cases, ensuring consistent response format.
func WriteResponse(c *gin.Context, err error, data interface{}) {
	lang := c.GetHeader("Accept-Language")

	var resp *response.Response
	switch {
	case err != nil:
		e := errors.FromError(err)
		resp = response.ErrWithLang(e, lang)
		if e.HTTPStatus() >= 500 {
			logger.Errorw("request failed",
				"path", c.FullPath(),
				"code", e.Code,
				"error", err.Error(),
				"request_id", middleware.GetRequestID(c.Request.Context()),
			)
		}
	default:
		// data can be *response.Response (e.g. from response.Page) or raw data
		if r, ok := data.(*response.Response); ok {
			resp = r
		} else {
			resp = response.Success(data)
		}
	}

	resp.WithRequestID(middleware.GetRequestID(c.Request.Context())).
		WithTimestamp(time.Now().UnixMilli())
	c.JSON(resp.HTTPStatus(), resp)
}

// WriteBindError renders a binding failure. Validation failures become
// ErrValidationFailed with translated field messages in data; anything else
// (malformed JSON, wrong types) becomes ErrInvalidParam.
func WriteBindError(c *gin.Context, err error) {
	lang := c.GetHeader("Accept-Language")

	var verrs playground.ValidationErrors
	if stderrors.As(err, &verrs) {
		resp := response.ErrWithLang(errors.ErrValidationFailed, lang)
		if v, ok := binding.Validator.(*validator.Validator); ok {
			resp.Data = v.Translate(err, lang)
		}
		resp.WithRequestID(middleware.GetRequestID(c.Request.Context())).
			WithTimestamp(time.Now().UnixMilli())
		c.JSON(resp.HTTPStatus(), resp)
		return
	}

	WriteResponse(c, errors.ErrInvalidParam.WithCause(err), nil)
}
