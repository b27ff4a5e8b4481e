package gateway

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/deskbrief/core"
	"github.com/hupe1980/deskbrief/extract"
	"github.com/hupe1980/deskbrief/internal/testutil"
	"github.com/hupe1980/deskbrief/session"
)

const testBriefing = "COMPANY INFORMATION\nCompany: TechVision"

func newGateway(backend *testutil.ScriptedModel, optFns ...func(o *Options)) (*Gateway, *session.Store) {
	store := session.NewStore()
	return New(store, backend, testBriefing, optFns...), store
}

func TestChat_NewSessionSeedsPrimingPair(t *testing.T) {
	backend := testutil.NewScriptedModel("Hello! How can I help?")
	gw, store := newGateway(backend)

	got, err := gw.Chat(context.Background(), "", "Hi")
	require.NoError(t, err)
	assert.NotEmpty(t, got.SessionID)
	assert.Equal(t, "Hello! How can I help?", got.Response)

	sess, err := store.Get(got.SessionID)
	require.NoError(t, err)
	history := sess.History()
	// Priming pair plus one committed exchange.
	require.Len(t, history, 4)
	assert.Contains(t, history[0].Text(), testBriefing)
	assert.Equal(t, core.RoleModel, history[1].Role)
	assert.Equal(t, "Hi", history[2].Text())
	assert.Equal(t, "Hello! How can I help?", history[3].Text())
}

func TestChat_FollowUpSeesFullHistory(t *testing.T) {
	backend := testutil.NewScriptedModel("first reply", "second reply")
	gw, _ := newGateway(backend)

	first, err := gw.Chat(context.Background(), "", "Hi")
	require.NoError(t, err)

	_, err = gw.Chat(context.Background(), first.SessionID, "What did I just say?")
	require.NoError(t, err)

	req := backend.LastRequest()
	// Priming pair, first exchange, then the new user turn.
	require.Len(t, req.Contents, 5)
	assert.Equal(t, "Hi", req.Contents[2].Text())
	assert.Equal(t, "first reply", req.Contents[3].Text())
	assert.Equal(t, "What did I just say?", req.Contents[4].Text())
	require.NotNil(t, req.Temperature)
	assert.InDelta(t, DefaultTemperature, *req.Temperature, 1e-9)
	assert.Nil(t, req.ResponseSchema)
}

func TestChat_ModelFailureCommitsNothing(t *testing.T) {
	backend := testutil.NewScriptedModel("only reply")
	gw, store := newGateway(backend)

	first, err := gw.Chat(context.Background(), "", "Hi")
	require.NoError(t, err)
	sess, err := store.Get(first.SessionID)
	require.NoError(t, err)
	before := sess.TurnCount()

	backend.FailWith(fmt.Errorf("connection reset"))
	_, err = gw.Chat(context.Background(), first.SessionID, "again?")
	assert.ErrorIs(t, err, core.ErrModelUnavailable)
	assert.Equal(t, before, sess.TurnCount())
	assert.Equal(t, core.StateIdle, sess.State())
}

func TestChat_ModeMismatchRejected(t *testing.T) {
	backend := testutil.NewScriptedModel("reply")
	gw, _ := newGateway(backend)

	first, err := gw.Chat(context.Background(), "", "Hi")
	require.NoError(t, err)

	_, err = gw.StructuredChat(context.Background(), first.SessionID, "extract this")
	assert.ErrorIs(t, err, core.ErrModeMismatch)
}

func TestStructuredChat_ParsesAndCommitsRawTurn(t *testing.T) {
	reply := `{"action_points":[{"task":"Finish report","priority":"high","due":"2026-09-05T17:00:00Z"}],` +
		`"consider_points":[{"note":"Client is price-sensitive","category":"budget"}]}`
	backend := testutil.NewScriptedModel(reply)
	gw, store := newGateway(backend)

	got, err := gw.StructuredChat(context.Background(), "", "Finish report by Friday, high priority. Note: client is price-sensitive.")
	require.NoError(t, err)
	require.Len(t, got.Extraction.ActionPoints, 1)
	assert.Equal(t, extract.PriorityHigh, got.Extraction.ActionPoints[0].Priority)
	require.Len(t, got.Extraction.ConsiderPoints, 1)
	assert.Equal(t, "budget", got.Extraction.ConsiderPoints[0].Category)

	// The raw model turn is committed, not the parsed object.
	sess, err := store.Get(got.SessionID)
	require.NoError(t, err)
	history := sess.History()
	require.Len(t, history, 4)
	assert.Equal(t, reply, history[3].Text())
	// The user turn carries the extraction instruction wrapper.
	assert.Contains(t, history[2].Text(), "extract action points and consideration points")
	assert.Contains(t, history[2].Text(), "Finish report by Friday")

	// The backend was schema-constrained.
	req := backend.LastRequest()
	require.NotNil(t, req.ResponseSchema)
	assert.Equal(t, "object", req.ResponseSchema["type"])
}

func TestStructuredChat_InvalidReplyLeavesSessionUntouched(t *testing.T) {
	valid := `{"action_points":[],"consider_points":[]}`
	invalidEnum := `{"action_points":[{"task":"t","priority":"urgent"}],"consider_points":[]}`
	backend := testutil.NewScriptedModel(valid, invalidEnum)
	gw, store := newGateway(backend)

	first, err := gw.StructuredChat(context.Background(), "", "note a")
	require.NoError(t, err)
	sess, err := store.Get(first.SessionID)
	require.NoError(t, err)
	before := sess.TurnCount()

	_, err = gw.StructuredChat(context.Background(), first.SessionID, "note b")
	assert.ErrorIs(t, err, core.ErrStructuredOutputInvalid)
	assert.Equal(t, before, sess.TurnCount())
}

func TestStructuredChat_ExtractionPriming(t *testing.T) {
	backend := testutil.NewScriptedModel(`{"action_points":[],"consider_points":[]}`)
	gw, store := newGateway(backend)

	got, err := gw.StructuredChat(context.Background(), "", "nothing to do")
	require.NoError(t, err)

	sess, err := store.Get(got.SessionID)
	require.NoError(t, err)
	assert.Equal(t, core.ModeExtraction, sess.Mode)
	assert.Contains(t, sess.History()[0].Text(), "You should extract action points and consideration points")
	assert.Contains(t, sess.History()[0].Text(), testBriefing)
}

func TestGateway_ReapsOnEveryRequest(t *testing.T) {
	backend := testutil.NewScriptedModel("r1", "r2")
	store := session.NewStore(func(o *session.Options) { o.TTL = time.Hour })

	clock := time.Now()
	gw := New(store, backend, testBriefing, func(o *Options) {
		o.Now = func() time.Time { return clock }
	})

	stale, err := gw.Chat(context.Background(), "", "Hi")
	require.NoError(t, err)

	// The next request arrives two hours later; the idle session must be gone.
	clock = clock.Add(2 * time.Hour)
	_, err = gw.Chat(context.Background(), "", "new conversation")
	require.NoError(t, err)

	_, err = gw.Inspect(stale.SessionID)
	assert.ErrorIs(t, err, core.ErrSessionNotFound)
}

func TestInspect_UnknownSession(t *testing.T) {
	gw, _ := newGateway(testutil.NewScriptedModel())

	_, err := gw.Inspect("unknown-id")
	assert.ErrorIs(t, err, core.ErrSessionNotFound)
}

func TestInspect_ReportsTurnCount(t *testing.T) {
	backend := testutil.NewScriptedModel("reply")
	gw, _ := newGateway(backend)

	got, err := gw.Chat(context.Background(), "", "Hi")
	require.NoError(t, err)

	summary, err := gw.Inspect(got.SessionID)
	require.NoError(t, err)
	assert.Equal(t, got.SessionID, summary.SessionID)
	assert.Equal(t, 4, summary.TurnCount)
}
