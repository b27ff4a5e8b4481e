// Package extract defines the structured extraction contract: the action and
// consideration point types, the JSON schema imposed on the model backend,
// and a strict parser for backend replies. Extraction values are transient —
// produced per request and returned to the caller, never persisted in the
// session beyond the raw model turn.
package extract

import (
	"encoding/json"
	"fmt"
)

// Priority is the closed priority enum for action points.
type Priority string

const (
	// PriorityLow marks a task that can wait.
	PriorityLow Priority = "low"
	// PriorityMedium marks a task of normal urgency.
	PriorityMedium Priority = "medium"
	// PriorityHigh marks a task that needs prompt attention.
	PriorityHigh Priority = "high"
)

// Valid reports whether the priority is part of the closed enum.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// ActionPoint is a task extracted from free text.
type ActionPoint struct {
	Task     string   `json:"task"`
	Priority Priority `json:"priority"`
	Due      string   `json:"due,omitempty"`     // ISO-8601 date-time string
	Context  string   `json:"context,omitempty"` // Free-text context
}

// ConsiderPoint is a note or observation extracted from free text.
type ConsiderPoint struct {
	Note            string `json:"note"`
	Category        string `json:"category"`
	RelatedToAction string `json:"related_to_action,omitempty"` // Task text of a related ActionPoint
}

// Extraction is the structured result of one extraction request.
type Extraction struct {
	ActionPoints   []ActionPoint   `json:"action_points"`
	ConsiderPoints []ConsiderPoint `json:"consider_points"`
}

// ErrInvalid is returned by Parse when the payload violates the contract
// (malformed encoding, missing required field, enum violation).
var ErrInvalid = fmt.Errorf("extraction does not match contract")

// Schema returns the JSON schema enforced on the model backend for
// structured replies.
func Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"action_points": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"task":     map[string]any{"type": "string"},
						"priority": map[string]any{"type": "string", "enum": []string{"low", "medium", "high"}},
						"due":      map[string]any{"type": "string", "format": "date-time"},
						"context":  map[string]any{"type": "string"},
					},
					"required": []string{"task", "priority"},
				},
			},
			"consider_points": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"note":              map[string]any{"type": "string"},
						"category":          map[string]any{"type": "string"},
						"related_to_action": map[string]any{"type": "string"},
					},
					"required": []string{"note", "category"},
				},
			},
		},
		"required": []string{"action_points", "consider_points"},
	}
}

// envelope mirrors Extraction with pointer slices so that absent required
// arrays can be told apart from empty ones.
type envelope struct {
	ActionPoints   *[]ActionPoint   `json:"action_points"`
	ConsiderPoints *[]ConsiderPoint `json:"consider_points"`
}

// Parse decodes raw as a document strictly matching the extraction contract.
// Any violation yields an error wrapping ErrInvalid.
func Parse(raw []byte) (*Extraction, error) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if env.ActionPoints == nil {
		return nil, fmt.Errorf("%w: missing required field action_points", ErrInvalid)
	}
	if env.ConsiderPoints == nil {
		return nil, fmt.Errorf("%w: missing required field consider_points", ErrInvalid)
	}
	for i, ap := range *env.ActionPoints {
		if ap.Task == "" {
			return nil, fmt.Errorf("%w: action_points[%d] has empty task", ErrInvalid, i)
		}
		if !ap.Priority.Valid() {
			return nil, fmt.Errorf("%w: action_points[%d] has priority %q outside enum", ErrInvalid, i, ap.Priority)
		}
	}
	for i, cp := range *env.ConsiderPoints {
		if cp.Note == "" {
			return nil, fmt.Errorf("%w: consider_points[%d] has empty note", ErrInvalid, i)
		}
		if cp.Category == "" {
			return nil, fmt.Errorf("%w: consider_points[%d] has empty category", ErrInvalid, i)
		}
	}
	return &Extraction{
		ActionPoints:   *env.ActionPoints,
		ConsiderPoints: *env.ConsiderPoints,
	}, nil
}
