package gateway

import (
	"context"
	"fmt"
	"time"

	"github.com/hupe1980/deskbrief/core"
	"github.com/hupe1980/deskbrief/extract"
	"github.com/hupe1980/deskbrief/logging"
	"github.com/hupe1980/deskbrief/model"
	"github.com/hupe1980/deskbrief/session"
)

// DefaultTemperature is the generation temperature used when no override is
// configured.
const DefaultTemperature = 0.7

// Options holds configuration overrides passed to New.
type Options struct {
	// Temperature is forwarded to the model backend on every call.
	Temperature float64
	// Logger receives request and model-call diagnostics.
	Logger logging.Logger
	// Now overrides the clock used for reaping, for tests.
	Now func() time.Time
}

// Gateway routes inbound turns through the session store and the model
// backend. Safe for concurrent use: requests for the same session are
// serialized by the session's turn lock, requests for distinct sessions
// proceed fully in parallel.
type Gateway struct {
	store       *session.Store
	backend     model.Model
	briefing    string
	temperature float64
	logger      logging.Logger
	now         func() time.Time
}

// New constructs a Gateway over the given store, model backend and compiled
// knowledge briefing.
func New(store *session.Store, backend model.Model, briefing string, optFns ...func(o *Options)) *Gateway {
	opts := Options{
		Temperature: DefaultTemperature,
		Logger:      logging.NoOpLogger{},
		Now:         time.Now,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Gateway{
		store:       store,
		backend:     backend,
		briefing:    briefing,
		temperature: opts.Temperature,
		logger:      opts.Logger,
		now:         opts.Now,
	}
}

// ChatResult is the outcome of one conversational turn.
type ChatResult struct {
	Response  string
	SessionID string
}

// Chat runs one conversational turn: lookup-or-create the session, forward
// the full history plus the new message to the backend, and commit the
// exchange. The reply text is returned verbatim.
func (g *Gateway) Chat(ctx context.Context, sessionID, message string) (*ChatResult, error) {
	sess, err := g.beginRequest(sessionID, core.ModeConversational)
	if err != nil {
		return nil, err
	}
	defer sess.EndTurn()

	userTurn := core.NewUserContent(message)
	resp, err := g.generate(ctx, sess, userTurn)
	if err != nil {
		return nil, err
	}

	if err := g.store.AppendExchange(sess.ID, userTurn, resp.Content); err != nil {
		return nil, err
	}
	return &ChatResult{Response: resp.Content.Text(), SessionID: sess.ID}, nil
}

// StructuredResult is the outcome of one structured extraction turn.
type StructuredResult struct {
	Extraction *extract.Extraction
	SessionID  string
}

// StructuredChat runs one extraction turn: the caller message is wrapped in
// the extraction instruction template, the backend is constrained to the
// extraction schema, and the reply is strict-parsed. On parse failure the
// session's last committed state stays the pre-call state so the caller can
// retry; on success the raw model turn is committed to preserve replayable
// history and the parsed object is returned separately.
func (g *Gateway) StructuredChat(ctx context.Context, sessionID, message string) (*StructuredResult, error) {
	sess, err := g.beginRequest(sessionID, core.ModeExtraction)
	if err != nil {
		return nil, err
	}
	defer sess.EndTurn()

	userTurn := core.NewUserContent(extractionTurn(message))
	resp, err := g.generate(ctx, sess, userTurn, withSchema(extract.Schema()))
	if err != nil {
		return nil, err
	}

	raw := resp.Content.Text()
	parsed, err := extract.Parse([]byte(raw))
	if err != nil {
		g.logger.Error("structured reply violates contract",
			"session_id", sess.ID, "error", err, "raw", raw)
		return nil, fmt.Errorf("%w: %v", core.ErrStructuredOutputInvalid, err)
	}

	if err := g.store.AppendExchange(sess.ID, userTurn, resp.Content); err != nil {
		return nil, err
	}
	return &StructuredResult{Extraction: parsed, SessionID: sess.ID}, nil
}

// Inspect returns the debug summary for a session without touching its
// activity time.
func (g *Gateway) Inspect(sessionID string) (session.Summary, error) {
	return g.store.Inspect(sessionID)
}

// beginRequest reaps idle sessions, resolves or creates the session for the
// requested mode, and acquires its turn lock.
func (g *Gateway) beginRequest(sessionID string, mode core.Mode) (*core.Session, error) {
	g.store.Reap(g.now())

	sess, created, err := g.store.GetOrCreate(sessionID, mode, priming(mode, g.briefing))
	if err != nil {
		return nil, err
	}
	if created {
		g.logger.Info("session created", "session_id", sess.ID, "mode", mode)
	}
	sess.BeginTurn()
	return sess, nil
}

func withSchema(schema map[string]any) func(*model.Request) {
	return func(r *model.Request) { r.ResponseSchema = schema }
}

// generate forwards history plus the pending user turn to the backend.
// Nothing is committed here: the pending turn joins the session only after
// the backend reply passes the mode's contract, so a failed, rejected or
// aborted call never leaves a dangling user-only turn.
func (g *Gateway) generate(ctx context.Context, sess *core.Session, userTurn core.Content, reqFns ...func(*model.Request)) (*model.Response, error) {
	temp := g.temperature
	req := model.Request{
		Contents:    append(sess.History(), userTurn),
		Temperature: &temp,
	}
	for _, fn := range reqFns {
		fn(&req)
	}

	g.logger.Debug("forwarding context to model",
		"session_id", sess.ID, "turns", len(req.Contents), "model", g.backend.Info().Name)

	start := time.Now()
	resp, err := g.backend.Generate(ctx, req)
	logging.LogModelCall(g.logger, g.backend.Info().Name, time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrModelUnavailable, err)
	}
	return resp, nil
}
