package middleware

import (
	"fmt"
	"os"
	"runtime/debug"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/kart-io/logger"

	"github.com/kart-io/tutor-x/pkg/utils/errors"
)

// Recovery 捕获 panic，记录完整堆栈并返回 ErrPanic。
// enableStackTrace 仅在非生产环境生效。
func Recovery(enableStackTrace bool) gin.HandlerFunc {
	if enableStackTrace && isProduction() {
		logger.Warn("stack traces are never returned to clients in production")
		enableStackTrace = false
	}

	return func(c *gin.Context) {
		defer func() {
			r := recover()
			if r == nil {
				return
			}
			stack := debug.Stack()
			logger.Errorw("panic recovered",
				"panic", fmt.Sprint(r),
				"stack_trace", string(stack),
				"method", c.Request.Method,
				"path", c.Request.URL.Path,
				"request_id", GetRequestID(c.Request.Context()),
			)

			e := errors.ErrPanic
			if enableStackTrace {
				e = e.WithMessage(fmt.Sprintf("panic: %v\n%s", r, stack))
			}
			abortWith(c, e)
		}()
		c.Next()
	}
}

func isProduction() bool {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = os.Getenv("GO_ENV")
	}
	switch strings.ToLower(env) {
	case "production", "prod":
		return true
	}
	return false
}
