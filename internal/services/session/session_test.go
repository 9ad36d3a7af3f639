package session

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ternarybob/atlas/internal/models"
)

func TestSession_BeginEnd(t *testing.T) {
	s := newSession("abc")

	require.NoError(t, s.Begin())
	assert.True(t, s.Busy())
	assert.ErrorIs(t, s.Begin(), ErrBusy)

	s.End()
	assert.False(t, s.Busy())
	assert.NoError(t, s.Begin())
}

func TestSession_OnlyOneConcurrentBegin(t *testing.T) {
	s := newSession("abc")

	var wins int32
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if s.Begin() == nil {
				atomic.AddInt32(&wins, 1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), wins)
}

func TestSession_RecordAndLastSuccess(t *testing.T) {
	s := newSession("abc")
	sel := models.Selection{Country: "Japan", Category: "Culture"}

	_, ok := s.LastSuccess()
	assert.False(t, ok)

	s.Record(sel, "prompt", models.Success("Day 1"))
	state, ok := s.LastSuccess()
	require.True(t, ok)
	assert.Equal(t, "Day 1", state.Result.Text)
	assert.Equal(t, sel, state.Selection)

	s.Record(sel, "prompt", models.Failure(models.FailureNetwork, "connection refused"))
	_, ok = s.LastSuccess()
	assert.False(t, ok, "a failure replaces the previous success")

	snap := s.Snapshot()
	require.NotNil(t, snap.Result)
	assert.Equal(t, "connection refused", snap.Result.Reason)
}

func TestSession_SnapshotIsCopy(t *testing.T) {
	s := newSession("abc")
	s.Record(models.Selection{Country: "Japan"}, "p", models.Success("Day 1"))

	snap := s.Snapshot()
	snap.Result.Text = "changed"

	assert.Equal(t, "Day 1", s.Snapshot().Result.Text)
}

func TestStore_GetOrCreate(t *testing.T) {
	store := NewStore(time.Hour, time.Minute)

	first, created := store.GetOrCreate("")
	require.True(t, created)
	assert.NotEmpty(t, first.ID)

	again, created := store.GetOrCreate(first.ID)
	assert.False(t, created)
	assert.Same(t, first, again)

	other, created := store.GetOrCreate("unknown-id")
	assert.True(t, created)
	assert.NotEqual(t, "unknown-id", other.ID)
	assert.Equal(t, 2, store.Count())

	store.Delete(first.ID)
	_, ok := store.Get(first.ID)
	assert.False(t, ok)
}

func TestStore_Expiry(t *testing.T) {
	store := NewStore(20*time.Millisecond, time.Hour)

	sess, _ := store.GetOrCreate("")
	time.Sleep(50 * time.Millisecond)

	_, ok := store.Get(sess.ID)
	assert.False(t, ok)
}
