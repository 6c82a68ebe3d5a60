package logger

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNew_BuildsForEveryEnv(t *testing.T) {
	for _, env := range []string{"local", "dev", "staging", "production"} {
		l, err := New(env)
		require.NoError(t, err, env)
		require.NotNil(t, l)
	}
}

func TestFrom_FallsBackToGlobal(t *testing.T) {
	assert.Equal(t, zap.L(), From(context.Background()))

	l := zap.NewNop()
	assert.Same(t, l, From(With(context.Background(), l)))
}

func TestMiddleware_RequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Middleware(zap.NewNop()))

	var fromGin, fromCtx *zap.Logger
	r.GET("/ping", func(c *gin.Context) {
		fromGin = FromGin(c)
		fromCtx = From(c.Request.Context())
		c.Status(http.StatusNoContent)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.NotEmpty(t, w.Header().Get(headerRequestID))
	assert.NotNil(t, fromGin)
	assert.Same(t, fromGin, fromCtx)

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(headerRequestID, "rid-1")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "rid-1", w.Header().Get(headerRequestID))
}
