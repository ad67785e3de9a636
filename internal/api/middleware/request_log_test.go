package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestRequestLogger(t *testing.T) {
	gin.SetMode(gin.TestMode)

	incoming := uuid.NewString()

	tests := []struct {
		name      string
		requestID string
		status    int
		wantLevel zapcore.Level
		keepID    bool
	}{
		{name: "Generates id", status: http.StatusOK, wantLevel: zapcore.InfoLevel},
		{name: "Reuses valid id", requestID: incoming, status: http.StatusOK, wantLevel: zapcore.InfoLevel, keepID: true},
		{name: "Replaces invalid id", requestID: "not-a-uuid", status: http.StatusOK, wantLevel: zapcore.InfoLevel},
		{name: "Client error logs warn", status: http.StatusBadRequest, wantLevel: zapcore.WarnLevel},
		{name: "Server error logs error", status: http.StatusBadGateway, wantLevel: zapcore.ErrorLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			core, logs := observer.New(zapcore.DebugLevel)

			r := gin.New()
			r.Use(RequestLogger(zap.New(core)))
			r.GET("/test", func(c *gin.Context) {
				c.Status(tt.status)
			})

			w := httptest.NewRecorder()
			req, _ := http.NewRequest("GET", "/test", nil)
			if tt.requestID != "" {
				req.Header.Set(RequestIDHeader, tt.requestID)
			}
			r.ServeHTTP(w, req)

			got := w.Header().Get(RequestIDHeader)
			_, err := uuid.Parse(got)
			require.NoError(t, err)
			if tt.keepID {
				assert.Equal(t, incoming, got)
			}

			entries := logs.All()
			require.Len(t, entries, 1)
			assert.Equal(t, tt.wantLevel, entries[0].Level)
			fields := entries[0].ContextMap()
			assert.Equal(t, got, fields["request_id"])
			assert.Equal(t, int64(tt.status), fields["status"])
		})
	}
}

func TestRecovery(t *testing.T) {
	gin.SetMode(gin.TestMode)
	core, logs := observer.New(zapcore.DebugLevel)

	r := gin.New()
	r.Use(Recovery(zap.New(core)))
	r.GET("/panic", func(c *gin.Context) {
		panic("boom")
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/panic", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"internal server error"}`, w.Body.String())

	entries := logs.FilterMessage("Panic recovered").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "boom", entries[0].ContextMap()["panic"])
}
