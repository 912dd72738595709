package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kart-io/tutor-x/pkg/utils/errors"
	"github.com/kart-io/tutor-x/pkg/utils/response"
)

// abortWith 以统一响应格式终止请求。
func abortWith(c *gin.Context, e *errors.Errno) {
	resp := response.ErrWithLang(e, c.GetHeader("Accept-Language")).
		WithRequestID(GetRequestID(c.Request.Context())).
		WithTimestamp(time.Now().UnixMilli())
	c.AbortWithStatusJSON(resp.HTTPStatus(), resp)
}
