package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kart-io/tutor-x/pkg/utils/errors"
	"github.com/kart-io/tutor-x/pkg/utils/json"
	"github.com/kart-io/tutor-x/pkg/utils/response"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(engine *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) response.Response {
	t.Helper()
	var resp response.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestRequestID(t *testing.T) {
	engine := gin.New()
	engine.Use(RequestID(""))
	engine.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, GetRequestID(c.Request.Context()))
	})

	w := serve(engine, httptest.NewRequest(http.MethodGet, "/", nil))
	generated := w.Header().Get(HeaderXRequestID)
	assert.Len(t, generated, 36)
	assert.Equal(t, generated, w.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderXRequestID, "req-123")
	w = serve(engine, req)
	assert.Equal(t, "req-123", w.Header().Get(HeaderXRequestID))
	assert.Equal(t, "req-123", w.Body.String())
}

func TestRecovery(t *testing.T) {
	engine := gin.New()
	engine.Use(RequestID(""), Recovery(false))
	engine.GET("/boom", func(*gin.Context) { panic("kaboom") })

	w := serve(engine, httptest.NewRequest(http.MethodGet, "/boom", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	resp := decode(t, w)
	assert.Equal(t, errors.ErrPanic.Code, resp.Code)
	assert.NotContains(t, resp.Message, "kaboom")
	assert.NotEmpty(t, resp.RequestID)
}

func TestRecovery_StackTraceOutsideProduction(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	engine := gin.New()
	engine.Use(Recovery(true))
	engine.GET("/boom", func(*gin.Context) { panic("kaboom") })

	resp := decode(t, serve(engine, httptest.NewRequest(http.MethodGet, "/boom", nil)))
	assert.Contains(t, resp.Message, "kaboom")
}

func TestRecovery_NoStackTraceInProduction(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	engine := gin.New()
	engine.Use(Recovery(true))
	engine.GET("/boom", func(*gin.Context) { panic("kaboom") })

	resp := decode(t, serve(engine, httptest.NewRequest(http.MethodGet, "/boom", nil)))
	assert.NotContains(t, resp.Message, "kaboom")
}

func TestTimeout(t *testing.T) {
	engine := gin.New()
	engine.Use(Timeout(50 * time.Millisecond))
	engine.GET("/", func(c *gin.Context) {
		deadline, ok := c.Request.Context().Deadline()
		assert.True(t, ok)
		assert.WithinDuration(t, time.Now().Add(50*time.Millisecond), deadline, 50*time.Millisecond)

		<-c.Request.Context().Done()
		assert.ErrorIs(t, c.Request.Context().Err(), context.DeadlineExceeded)
		c.Status(http.StatusRequestTimeout)
	})

	w := serve(engine, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusRequestTimeout, w.Code)
}

func TestTimeout_Disabled(t *testing.T) {
	engine := gin.New()
	engine.Use(Timeout(0))
	engine.GET("/", func(c *gin.Context) {
		_, ok := c.Request.Context().Deadline()
		assert.False(t, ok)
		c.Status(http.StatusNoContent)
	})
	assert.Equal(t, http.StatusNoContent, serve(engine, httptest.NewRequest(http.MethodGet, "/", nil)).Code)
}

func TestKeyedLimiter(t *testing.T) {
	assert.Nil(t, NewKeyedLimiter(nil))
	assert.Nil(t, NewKeyedLimiter(&RateLimitOptions{Enabled: false}))

	var disabled *KeyedLimiter
	assert.True(t, disabled.Allow("anyone"))

	now := time.Unix(1_700_000_000, 0)
	l := NewKeyedLimiter(&RateLimitOptions{Enabled: true, RPS: 1, Burst: 2, IdleTTL: time.Minute})
	l.now = func() time.Time { return now }

	assert.True(t, l.Allow("stu-1"))
	assert.True(t, l.Allow("stu-1"))
	assert.False(t, l.Allow("stu-1"), "burst exhausted")
	assert.True(t, l.Allow("stu-2"), "keys are independent")

	now = now.Add(time.Second)
	assert.True(t, l.Allow("stu-1"), "one token refilled")

	now = now.Add(2 * time.Minute)
	assert.True(t, l.Allow("stu-3"))
	assert.Equal(t, 1, l.Len(), "idle keys are swept")
}

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewHTTPMetrics("test", reg)

	engine := gin.New()
	engine.Use(Metrics(m))
	engine.GET("/v1/classes/:classId", func(c *gin.Context) { c.Status(http.StatusOK) })

	serve(engine, httptest.NewRequest(http.MethodGet, "/v1/classes/c1", nil))
	serve(engine, httptest.NewRequest(http.MethodGet, "/v1/classes/c2", nil))
	serve(engine, httptest.NewRequest(http.MethodGet, "/nope", nil))

	assert.Equal(t, 2.0, testutil.ToFloat64(m.RequestsTotal.WithLabelValues("GET", "/v1/classes/:classId", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RequestsTotal.WithLabelValues("GET", "unmatched", "404")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.InFlight))
}

func TestTracing_PassesThrough(t *testing.T) {
	engine := gin.New()
	engine.Use(RequestID(""), Tracing("/health"))
	engine.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })
	engine.GET("/v1/x", func(c *gin.Context) { c.Status(http.StatusCreated) })

	assert.Equal(t, http.StatusOK, serve(engine, httptest.NewRequest(http.MethodGet, "/health", nil)).Code)
	assert.Equal(t, http.StatusCreated, serve(engine, httptest.NewRequest(http.MethodGet, "/v1/x", nil)).Code)
}

func TestLogger_DoesNotAlterResponse(t *testing.T) {
	engine := gin.New()
	engine.Use(Logger([]string{"/health"}))
	engine.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })
	engine.GET("/fail", func(c *gin.Context) { c.Status(http.StatusBadGateway) })

	assert.Equal(t, http.StatusOK, serve(engine, httptest.NewRequest(http.MethodGet, "/health", nil)).Code)
	assert.Equal(t, http.StatusBadGateway, serve(engine, httptest.NewRequest(http.MethodGet, "/fail", nil)).Code)
}

func TestOptions(t *testing.T) {
	opts := NewOptions()
	require.NoError(t, opts.Complete())
	assert.NoError(t, opts.Validate())

	opts.RateLimit.Enabled = true
	opts.RateLimit.RPS = 0
	opts.Timeout = -1
	err := opts.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rps")
	assert.Contains(t, err.Error(), "timeout")
}
