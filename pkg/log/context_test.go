package log

import (
	"bytes"
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestCtxReturnsContextLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)
	ctx := WithLogger(context.Background(), logger)

	// Level methods chain directly off Ctx.
	Ctx(ctx).Error().Str("k", "v").Msg("boom")

	assert.Contains(t, buf.String(), `"level":"error"`)
	assert.Contains(t, buf.String(), `"k":"v"`)
	assert.Contains(t, buf.String(), "boom")
}

func TestCtxFallsBackToGlobal(t *testing.T) {
	l := Ctx(context.Background())
	assert.NotNil(t, l)
	// The fallback must be usable without panicking.
	l.Debug().Msg("fallback")
}
