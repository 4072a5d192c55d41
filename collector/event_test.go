package collector

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventKindLabels(t *testing.T) {
	want := map[EventKind]string{
		EventCall:       "call",
		EventLine:       "line",
		EventReturn:     "return",
		EventException:  "exception",
		EventCCall:      "c_call",
		EventCReturn:    "c_return",
		EventCException: "c_exception",
	}
	assert.Len(t, want, len(kindLabels))

	for kind, label := range want {
		assert.True(t, kind.IsValid())
		assert.Equal(t, label, kind.String())

		parsed, err := ParseEventKind(label)
		require.NoError(t, err)
		assert.Equal(t, kind, parsed)
	}
}

func TestEventKindOutOfDomain(t *testing.T) {
	k := EventKind(200)
	assert.False(t, k.IsValid())
	assert.Equal(t, "EventKind(200)", k.String())

	_, err := ParseEventKind("signal")
	assert.Error(t, err)
}
