package log

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zapcore"
)

func TestSetLevel(t *testing.T) {
	prev := Level()
	t.Cleanup(func() { atomicLevel.SetLevel(prev) })

	assert.True(t, SetLevel("DEBUG"))
	assert.Equal(t, zapcore.DebugLevel, Level())
	assert.True(t, L().Core().Enabled(zapcore.DebugLevel))

	assert.False(t, SetLevel("loud"))
	assert.Equal(t, zapcore.DebugLevel, Level())

	assert.True(t, SetLevel(" error "))
	assert.False(t, Named("custody").Core().Enabled(zapcore.WarnLevel))
}
