package rag

// Conversation roles. Anything else is dropped during history normalization.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// Turn is one message in a conversation, oldest-first ordering, owned by the
// caller and passed by value per request.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Request is the logical answer request. Messages is the preferred input;
// Question and Message are direct fallbacks for callers without a
// conversation (Message is the legacy field name kept for older widgets).
type Request struct {
	Question string `json:"question,omitempty"`
	Message  string `json:"message,omitempty"`
	Messages []Turn `json:"messages,omitempty"`
	TopK     int    `json:"top_k,omitempty"`
}

// Evidence is one retrieved passage, normalized from a backend row.
// Text is never empty; Source may be (unattributed evidence is valid).
type Evidence struct {
	Text   string
	Source string
	Score  float64
}

// Message is one role-tagged block of the assembled prompt. The assembled
// prompt is always: one system block, zero or more history blocks, and
// exactly one final user block carrying the evidence digest and the query.
type Message struct {
	Role    string
	Content string
}

// Reference is a citable source for the answer, aligned by position with
// the [#i] indices of the evidence digest.
type Reference struct {
	Source string  `json:"source"`
	Score  float64 `json:"score"`
}

// Meta is the observability surface for "why did it answer this way".
type Meta struct {
	TopK        int     `json:"top_k"`
	RPC         string  `json:"rpc"`
	Hits        int     `json:"hits"`
	Threshold   float64 `json:"threshold"`
	UsedHistory int     `json:"used_history"`
}

// Result is the structured answer returned to the caller. It is built once
// per request and not retained.
type Result struct {
	Answer     string      `json:"answer"`
	References []Reference `json:"references"`
	Meta       Meta        `json:"meta"`
}
