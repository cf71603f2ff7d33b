package tickqueue

import (
	"testing"

	"github.com/mossforge/duskstep/internal/action"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewQueueStartsAtTickOne(t *testing.T) {
	q := New()
	assert.Equal(t, uint64(0), q.LastSimulatedTick())
	assert.Equal(t, uint64(0), q.LastFinalizedTick())
	assert.Equal(t, uint64(1), q.NextUnfinalizedTick())
}

// TestBasicSequence mirrors original_source's tick_queue.rs basic_test: two
// ticks finalized with actions, a third finalized empty, then three
// advances checking the current tick's actions at each step.
func TestBasicSequence(t *testing.T) {
	q := New()

	jump := action.NewJump().ForPlayer(1)
	fire := action.NewReleaseFire().ForPlayer(1)
	startRight := action.NewStartMoving(action.DirRight).ForPlayer(1)

	q.FinalizeTickWithActions(1, []action.Action{jump})
	q.FinalizeTickWithActions(2, []action.Action{fire, startRight})
	q.FinalizeTick(3)

	assert.True(t, q.IsNextTickFinalized())
	actions := q.CurrentTickActions()
	assert.Len(t, actions, 1)
	q.Advance(0)

	assert.True(t, q.IsNextTickFinalized())
	actions = q.CurrentTickActions()
	assert.Len(t, actions, 2)
	q.Advance(0)

	assert.True(t, q.IsNextTickFinalized())
	actions = q.CurrentTickActions()
	assert.Len(t, actions, 0)
	q.Advance(0)

	assert.Equal(t, uint64(3), q.LastSimulatedTick())
	assert.Equal(t, uint64(3), q.LastFinalizedTick())
}

func TestFinalizeTickAdvancesThroughContiguousRun(t *testing.T) {
	q := New()
	q.FinalizeTick(2)
	assert.Equal(t, uint64(0), q.LastFinalizedTick(), "tick 1 not finalized yet, so 2 cannot roll lastFinalizedTick forward")

	q.FinalizeTick(1)
	assert.Equal(t, uint64(2), q.LastFinalizedTick())
}

func TestEnqueueActionImmediatelyTargetsFirstUnfinalized(t *testing.T) {
	q := New()
	q.FinalizeTick(1)
	q.EnqueueActionImmediately(action.NewJump().ForPlayer(1))

	q.FinalizeTick(2)
	assert.Equal(t, uint64(2), q.LastFinalizedTick())
	actions := q.LastFinalizedTickActions()
	require.Len(t, actions, 1)
}

func TestResetThroughClearsConsumedSlots(t *testing.T) {
	q := New()
	q.FinalizeTickWithActions(1, []action.Action{action.NewJump().ForPlayer(1)})
	q.Advance(0)

	q.ResetThrough(1)
	// ResetThrough's bound is exclusive: only tick 0's slot is reset, tick
	// 1's slot keeps its action, and the queue's simulation position is
	// unaffected.
	assert.Equal(t, uint64(1), q.LastSimulatedTick())
}

func TestSetLastSimulatedTickResetsWindow(t *testing.T) {
	q := New()
	q.FinalizeTickWithActions(1, []action.Action{action.NewJump().ForPlayer(1)})
	q.Advance(0)

	q.SetLastSimulatedTick(50)
	assert.Equal(t, uint64(50), q.LastSimulatedTick())
	assert.Equal(t, uint64(50), q.LastFinalizedTick())
	assert.Equal(t, uint64(51), q.NextUnfinalizedTick())
}

func TestMakeTickFinalizationMessages(t *testing.T) {
	q := New()
	q.FinalizeTickWithActions(1, []action.Action{action.NewJump().ForPlayer(1)})
	q.FinalizeTickWithActions(2, []action.Action{action.NewReleaseFire().ForPlayer(1)})

	through, messages, err := q.MakeTickFinalizationMessages(1)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), through)
	require.Len(t, messages, 2)
	assert.Equal(t, uint64(1), messages[0].Tick)
	assert.Equal(t, uint64(2), messages[1].Tick)
}

func TestMakeTickFinalizationMessagesEmptyWhenNothingNew(t *testing.T) {
	q := New()
	q.FinalizeTick(1)
	through, messages, err := q.MakeTickFinalizationMessages(2)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), through)
	assert.Empty(t, messages)
}

func TestMakeTickFinalizationMessagesErrorsWhenWatermarkRecycled(t *testing.T) {
	q := New()
	for i := uint64(1); i <= Slots+5; i++ {
		q.FinalizeTick(i)
		q.Advance(0)
		q.ResetSimulated()
	}
	_, _, err := q.MakeTickFinalizationMessages(1)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvariant)
}

func TestAdvanceBeyondLastFinalizedPanics(t *testing.T) {
	q := New()
	assert.Panics(t, func() {
		q.Advance(0)
	})
}

func TestFinalizeAlreadyFinalizedPanics(t *testing.T) {
	q := New()
	q.FinalizeTick(1)
	assert.Panics(t, func() {
		q.FinalizeTick(1)
	})
}
