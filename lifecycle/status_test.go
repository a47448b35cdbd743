package lifecycle

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransitionGrid(t *testing.T) {
	// Every legal edge; anything else must be rejected.
	legal := map[Status][]Status{
		StatusPending:   {StatusPaid, StatusCancelled},
		StatusPaid:      {StatusPreparing, StatusReady, StatusCancelled},
		StatusPreparing: {StatusReady, StatusCancelled},
		StatusReady:     {StatusDelivered},
		StatusDelivered: {},
		StatusCancelled: {},
	}

	for _, from := range Statuses {
		for _, to := range Statuses {
			want := false
			for _, next := range legal[from] {
				if next == to {
					want = true
				}
			}
			assert.Equalf(t, want, CanTransition(from, to), "%s -> %s", from, to)
		}
	}
}

func TestKitchenMaySkipPreparing(t *testing.T) {
	// PAID -> READY is a deliberate shortcut, not a bug.
	assert.True(t, CanTransition(StatusPaid, StatusReady))
}

func TestTerminalStatuses(t *testing.T) {
	assert.True(t, StatusDelivered.Terminal())
	assert.True(t, StatusCancelled.Terminal())
	assert.False(t, StatusPending.Terminal())
	assert.False(t, StatusPaid.Terminal())
	assert.False(t, StatusPreparing.Terminal())
	assert.False(t, StatusReady.Terminal())

	assert.Empty(t, AllowedTargets(StatusDelivered))
	assert.Empty(t, AllowedTargets(StatusCancelled))
}

func TestParseStatus(t *testing.T) {
	s, err := ParseStatus("READY")
	assert.NoError(t, err)
	assert.Equal(t, StatusReady, s)

	_, err = ParseStatus("ready")
	assert.Error(t, err)

	_, err = ParseStatus("SHIPPED")
	assert.Error(t, err)
}
