package order

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusChain(t *testing.T) {
	assert.True(t, StatusPending.CanTransition(StatusConfirmed))
	assert.True(t, StatusConfirmed.CanTransition(StatusPreparing))
	assert.True(t, StatusPreparing.CanTransition(StatusShipped))
	assert.True(t, StatusShipped.CanTransition(StatusDelivered))

	// no skipping ahead or moving backwards
	assert.False(t, StatusPending.CanTransition(StatusPreparing))
	assert.False(t, StatusPending.CanTransition(StatusShipped))
	assert.False(t, StatusShipped.CanTransition(StatusConfirmed))
	assert.False(t, StatusDelivered.CanTransition(StatusDelivered))
}

func TestCancellationReachableFromAnyNonTerminalStatus(t *testing.T) {
	for _, s := range []Status{StatusPending, StatusConfirmed, StatusPreparing, StatusShipped} {
		assert.True(t, s.CanTransition(StatusCancelled), "from %s", s)
	}
}

func TestTerminalStatusesAbsorb(t *testing.T) {
	for _, terminal := range []Status{StatusDelivered, StatusCancelled} {
		assert.True(t, terminal.Terminal())
		for _, to := range []Status{StatusPending, StatusConfirmed, StatusPreparing, StatusShipped, StatusDelivered, StatusCancelled} {
			assert.False(t, terminal.CanTransition(to), "%s -> %s", terminal, to)
		}
	}
}
