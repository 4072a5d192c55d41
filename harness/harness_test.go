package harness

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlushMeasurementsDefaultsToNoop(t *testing.T) {
	SetFlushHook(nil)
	assert.NoError(t, FlushMeasurements())
}

func TestFlushMeasurementsUsesHook(t *testing.T) {
	defer SetFlushHook(nil)

	calls := 0
	SetFlushHook(func() error { calls++; return nil })
	require.NoError(t, FlushMeasurements())
	require.NoError(t, FlushMeasurements())
	assert.Equal(t, 2, calls)

	hookErr := errors.New("flush failed")
	SetFlushHook(func() error { return hookErr })
	assert.ErrorIs(t, FlushMeasurements(), hookErr)
}
