package core

// Part represents a polymorphic segment of role-based content. Concrete part
// types implement the unexported isPart marker enabling a closed set.
type Part interface{ isPart() }

// TextPart is a plain text content segment.
type TextPart struct {
	Text string // Plain UTF-8 text
}

// isPart implements the Part interface for TextPart.
func (TextPart) isPart() {}

// DataPart is a structured data segment (e.g., a decoded JSON object).
type DataPart struct {
	Data map[string]any // Structured key/value payload
}

// isPart implements the Part interface for DataPart.
func (DataPart) isPart() {}

// Content holds role + ordered parts. It is the unit appended to a session's
// turn history and forwarded to model backends.
type Content struct {
	Role  string `json:"role"`  // Conversation role (RoleUser or RoleModel)
	Parts []Part `json:"parts"` // Ordered heterogeneous parts
}

// Conversation roles. The gateway only ever commits these two; backend
// adapters translate them to whatever the concrete SDK expects.
const (
	RoleUser  = "user"
	RoleModel = "model"
)

// NewUserContent builds a single text part user turn.
func NewUserContent(text string) Content {
	return Content{Role: RoleUser, Parts: []Part{TextPart{Text: text}}}
}

// NewModelContent builds a single text part model turn.
func NewModelContent(text string) Content {
	return Content{Role: RoleModel, Parts: []Part{TextPart{Text: text}}}
}

// Text concatenates all TextPart segments preserving their order.
func (c Content) Text() string {
	var out string
	for _, p := range c.Parts {
		if tp, ok := p.(TextPart); ok {
			out += tp.Text
		}
	}
	return out
}
