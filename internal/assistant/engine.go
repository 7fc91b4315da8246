// Package assistant is the sole protocol boundary with the remote coding
// assistant. A Session accepts a free-text instruction and returns a fully
// drained Reply: the intermediate assistant messages, in order, followed by
// one terminal signal carrying the success/error verdict.
package assistant

import "context"

// Terminal is the single authoritative end-of-turn signal for a request.
type Terminal struct {
	IsError bool
	Result  string
}

// Reply is the drained message stream for one instruction. Intermediates
// preserve arrival order and always precede the terminal signal.
type Reply struct {
	Intermediates []string
	Terminal      Terminal
}

// SessionOptions configures a new conversation session.
type SessionOptions struct {
	// WorkingDir is the project directory the assistant operates in.
	WorkingDir string

	// AgentsDir holds the generated agent persona documents; it is handed
	// to the assistant as an additional skill directory when non-empty.
	AgentsDir string

	// Model overrides the engine's default model when non-empty.
	Model string
}

// Session is one conversation with the assistant. Instructions sent on the
// same session share conversational context, which the cycle engine relies
// on across its four steps.
type Session interface {
	// Send issues one instruction and blocks until the reply stream
	// reaches its terminal message. Errors from the conversation itself
	// are reported through Reply.Terminal; a non-nil error means the
	// collaborator faulted before a terminal signal was produced.
	Send(ctx context.Context, prompt string) (*Reply, error)

	// Close releases session resources.
	Close() error
}

// Engine creates assistant sessions.
type Engine interface {
	// NewSession opens a fresh conversation.
	NewSession(ctx context.Context, opts SessionOptions) (Session, error)

	// Stop shuts the engine down and releases its resources.
	Stop() error
}
