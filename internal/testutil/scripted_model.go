package testutil

import (
	"context"
	"fmt"
	"sync"

	"github.com/hupe1980/deskbrief/core"
	"github.com/hupe1980/deskbrief/model"
)

// ScriptedModel is a model.Model that replays queued replies in order and can
// be told to fail. It records every request it receives so tests can assert
// on the exact context the gateway assembled.
type ScriptedModel struct {
	mu       sync.Mutex
	replies  []string
	err      error
	Requests []model.Request
}

// Interface compliance check.
var _ model.Model = (*ScriptedModel)(nil)

// NewScriptedModel constructs a ScriptedModel with the given replies queued.
func NewScriptedModel(replies ...string) *ScriptedModel {
	return &ScriptedModel{replies: replies}
}

// Queue appends further replies to the script.
func (m *ScriptedModel) Queue(replies ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.replies = append(m.replies, replies...)
}

// FailWith makes every subsequent Generate call return err until cleared
// with FailWith(nil).
func (m *ScriptedModel) FailWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Generate implements model.Model.
func (m *ScriptedModel) Generate(_ context.Context, req model.Request) (*model.Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Requests = append(m.Requests, req)
	if m.err != nil {
		return nil, m.err
	}
	if len(m.replies) == 0 {
		return nil, fmt.Errorf("scripted model exhausted after %d requests", len(m.Requests))
	}
	reply := m.replies[0]
	m.replies = m.replies[1:]
	return &model.Response{
		Content:      core.NewModelContent(reply),
		FinishReason: "stop",
	}, nil
}

// Info implements model.Model.
func (m *ScriptedModel) Info() model.Info {
	return model.Info{Name: "scripted", Provider: "mock", SupportsSchema: true}
}

// LastRequest returns the most recent request seen by the model.
func (m *ScriptedModel) LastRequest() model.Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Requests[len(m.Requests)-1]
}
