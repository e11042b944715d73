package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestRequestLogger_LevelsByStatus(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	e := echo.New()
	e.Use(RequestLogger(zap.New(core)))
	e.POST("/ok", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.POST("/bad", func(c echo.Context) error { return c.NoContent(http.StatusUnauthorized) })
	e.POST("/err", func(c echo.Context) error { return echo.NewHTTPError(http.StatusInternalServerError) })

	for _, p := range []string{"/ok", "/bad", "/err"} {
		req := httptest.NewRequest(http.MethodPost, p, strings.NewReader(`{"password":"hunter2"}`))
		e.ServeHTTP(httptest.NewRecorder(), req)
	}

	entries := logs.All()
	require.Len(t, entries, 3)
	assert.Equal(t, zapcore.InfoLevel, entries[0].Level)
	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
	assert.Equal(t, zapcore.ErrorLevel, entries[2].Level)
	assert.Equal(t, int64(500), entries[2].ContextMap()["status"])

	for _, en := range entries {
		for _, v := range en.ContextMap() {
			s, ok := v.(string)
			if ok {
				assert.NotContains(t, s, "hunter2")
			}
		}
	}
}
