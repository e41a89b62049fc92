package logger

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestRequestID_FromPlainContext(t *testing.T) {
	ctx := WithRequestID(context.Background(), "abc")
	assert.Equal(t, "abc", RequestID(ctx))
	assert.Equal(t, "unknown", RequestID(context.Background()))
}

func TestRequestID_FromGinContext(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/", nil)
	c.Set(RequestIDKey, "rid-1")

	assert.Equal(t, "rid-1", RequestID(c))
}

func TestError_AttachesRequestIDAndError(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	restore := zap.ReplaceGlobals(zap.New(core))
	defer restore()

	Error(WithRequestID(context.Background(), "rid-2"), "boom", assert.AnError)

	entries := logs.All()
	if assert.Len(t, entries, 1) {
		fields := entries[0].ContextMap()
		assert.Equal(t, "rid-2", fields["request_id"])
		assert.Equal(t, assert.AnError.Error(), fields["error"])
	}
}

func TestInitialize_Production(t *testing.T) {
	restore := zap.ReplaceGlobals(zap.NewNop())
	defer restore()

	log := Initialize("production")
	assert.NotNil(t, log)
	assert.Same(t, log, L())
}
