package session

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/deskbrief/core"
)

func primingPair() []core.Content {
	return []core.Content{
		core.NewUserContent("you are an assistant"),
		core.NewModelContent("understood"),
	}
}

func TestStore_GetOrCreateGeneratesID(t *testing.T) {
	store := NewStore()

	sess, created, err := store.GetOrCreate("", core.ModeConversational, primingPair())
	require.NoError(t, err)
	assert.True(t, created)
	assert.NotEmpty(t, sess.ID)
	assert.Equal(t, 2, sess.TurnCount())

	again, created, err := store.GetOrCreate(sess.ID, core.ModeConversational, primingPair())
	require.NoError(t, err)
	assert.False(t, created)
	assert.Same(t, sess, again)
}

func TestStore_GetOrCreateUnknownIDCreates(t *testing.T) {
	store := NewStore()

	sess, created, err := store.GetOrCreate("caller-chosen", core.ModeExtraction, primingPair())
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "caller-chosen", sess.ID)
}

func TestStore_ModeMismatchFailsFast(t *testing.T) {
	store := NewStore()

	sess, _, err := store.GetOrCreate("", core.ModeConversational, primingPair())
	require.NoError(t, err)

	_, _, err = store.GetOrCreate(sess.ID, core.ModeExtraction, primingPair())
	assert.ErrorIs(t, err, core.ErrModeMismatch)
}

func TestStore_ReapRemovesIdleSessions(t *testing.T) {
	store := NewStore(func(o *Options) { o.TTL = time.Hour })

	idle, _, err := store.GetOrCreate("", core.ModeConversational, primingPair())
	require.NoError(t, err)

	removed := store.Reap(time.Now().Add(2 * time.Hour))
	assert.Equal(t, 1, removed)
	assert.Equal(t, 0, store.Len())

	_, err = store.Inspect(idle.ID)
	assert.ErrorIs(t, err, core.ErrSessionNotFound)

	err = store.AppendExchange(idle.ID, core.NewUserContent("hi"), core.NewModelContent("hello"))
	assert.ErrorIs(t, err, core.ErrSessionNotFound)
}

func TestStore_ReapKeepsActiveSessions(t *testing.T) {
	store := NewStore(func(o *Options) { o.TTL = time.Hour })

	active, _, err := store.GetOrCreate("", core.ModeConversational, primingPair())
	require.NoError(t, err)

	removed := store.Reap(time.Now().Add(30 * time.Minute))
	assert.Equal(t, 0, removed)

	_, err = store.Inspect(active.ID)
	assert.NoError(t, err)
}

func TestStore_InspectDoesNotTouchActivity(t *testing.T) {
	store := NewStore()

	sess, _, err := store.GetOrCreate("", core.ModeConversational, primingPair())
	require.NoError(t, err)
	before := sess.Updated()

	time.Sleep(5 * time.Millisecond)
	summary, err := store.Inspect(sess.ID)
	require.NoError(t, err)
	assert.Equal(t, before, summary.LastUpdated)
	assert.Equal(t, 2, summary.TurnCount)
	assert.Equal(t, sess.ID, summary.SessionID)
}

func TestStore_AppendExchangeKeepsAlternation(t *testing.T) {
	store := NewStore()

	sess, _, err := store.GetOrCreate("", core.ModeConversational, primingPair())
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		require.NoError(t, store.AppendExchange(sess.ID, core.NewUserContent("q"), core.NewModelContent("a")))
	}

	history := sess.History()
	require.Len(t, history, 8)
	for i, turn := range history {
		want := core.RoleUser
		if i%2 == 1 {
			want = core.RoleModel
		}
		assert.Equal(t, want, turn.Role, "turn %d", i)
	}
}

func TestStore_ConcurrentDistinctSessions(t *testing.T) {
	store := NewStore()

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sess, _, err := store.GetOrCreate("", core.ModeConversational, primingPair())
			if err != nil {
				t.Error(err)
				return
			}
			sess.BeginTurn()
			err = store.AppendExchange(sess.ID, core.NewUserContent("q"), core.NewModelContent("a"))
			sess.EndTurn()
			if err != nil {
				t.Error(err)
			}
			store.Reap(time.Now())
		}()
	}
	wg.Wait()

	assert.Equal(t, 32, store.Len())
}

func TestStore_ConcurrentSameID(t *testing.T) {
	store := NewStore()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sess, _, err := store.GetOrCreate("shared", core.ModeConversational, primingPair())
			if err != nil {
				t.Error(err)
				return
			}
			sess.BeginTurn()
			defer sess.EndTurn()
			if err := store.AppendExchange("shared", core.NewUserContent("q"), core.NewModelContent("a")); err != nil {
				t.Error(err)
			}
		}()
	}
	wg.Wait()

	sess, err := store.Get("shared")
	require.NoError(t, err)
	// Priming pair plus 16 serialized exchanges, strictly alternating.
	require.Equal(t, 34, sess.TurnCount())
	for i, turn := range sess.History() {
		want := core.RoleUser
		if i%2 == 1 {
			want = core.RoleModel
		}
		require.Equal(t, want, turn.Role, "turn %d", i)
	}
}
