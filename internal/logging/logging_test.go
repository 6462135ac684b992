package logging

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestInit(t *testing.T) {
	prev := Logger
	t.Cleanup(func() { Logger = prev })

	require.NoError(t, Init("debug", true))
	require.NoError(t, Init("warn", false))
	assert.Error(t, Init("loud", false))
}

func TestRequestID(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, "", RequestID(ctx))

	ctx = WithRequestID(ctx, "abc123")
	assert.Equal(t, "abc123", RequestID(ctx))
}

func TestFromContextTagsRequest(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	prev := Logger
	Logger = zap.New(core).Sugar()
	t.Cleanup(func() { Logger = prev })

	FromContext(WithRequestID(context.Background(), "rid-1")).LogInfof("generate", "template=%s", "chest-ct")
	FromContext(context.Background()).LogWarn("copy", "clipboard unavailable")

	entries := logs.All()
	require.Len(t, entries, 2)

	first := entries[0].ContextMap()
	assert.Equal(t, "rid-1", first["request_id"])
	assert.Equal(t, "generate", first["operation"])
	assert.Equal(t, "template=chest-ct", entries[0].Message)

	second := entries[1].ContextMap()
	assert.Equal(t, "unknown", second["request_id"])
	assert.Equal(t, "clipboard unavailable", entries[1].Message)
}
