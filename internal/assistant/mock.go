package assistant

import (
	"context"
	"fmt"
	"sync"
)

// ScriptedReply is one queued response for a MockEngine.
type ScriptedReply struct {
	Reply *Reply
	Err   error
}

// TextReply builds a successful scripted reply whose terminal result is the
// last of the given messages.
func TextReply(messages ...string) ScriptedReply {
	reply := &Reply{}
	if n := len(messages); n > 0 {
		reply.Intermediates = messages[:n-1]
		reply.Terminal.Result = messages[n-1]
	}
	return ScriptedReply{Reply: reply}
}

// ErrorReply builds a scripted reply whose terminal signals an error.
func ErrorReply(message string) ScriptedReply {
	return ScriptedReply{Reply: &Reply{
		Terminal: Terminal{IsError: true, Result: message},
	}}
}

// FaultReply builds a scripted collaborator fault: Send returns err instead
// of a reply.
func FaultReply(err error) ScriptedReply {
	return ScriptedReply{Err: err}
}

// MockEngine replays scripted replies in order. Sessions share the queue,
// so a script covers a whole multi-cycle run. When the queue is exhausted,
// Send answers with a generic success reply, which makes the engine usable
// for offline dry runs via --engine mock.
type MockEngine struct {
	mu      sync.Mutex
	queue   []ScriptedReply
	prompts []string
	stopped bool
}

// NewMockEngine creates a mock engine with an optional reply script.
func NewMockEngine(script ...ScriptedReply) *MockEngine {
	return &MockEngine{queue: script}
}

// NewSession returns a session backed by the shared script.
func (m *MockEngine) NewSession(ctx context.Context, opts SessionOptions) (Session, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}
	return &mockSession{engine: m}, nil
}

// Stop marks the engine stopped.
func (m *MockEngine) Stop() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopped = true
	return nil
}

// Prompts returns every prompt sent through the engine, in order.
func (m *MockEngine) Prompts() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.prompts...)
}

// Stopped reports whether Stop was called.
func (m *MockEngine) Stopped() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stopped
}

func (m *MockEngine) next(prompt string) ScriptedReply {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.prompts = append(m.prompts, prompt)

	if len(m.queue) == 0 {
		return TextReply(fmt.Sprintf("Mock response for: %s", prompt))
	}

	head := m.queue[0]
	m.queue = m.queue[1:]
	return head
}

type mockSession struct {
	engine *MockEngine
}

func (s *mockSession) Send(ctx context.Context, prompt string) (*Reply, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	scripted := s.engine.next(prompt)
	if scripted.Err != nil {
		return nil, scripted.Err
	}
	return scripted.Reply, nil
}

func (s *mockSession) Close() error {
	return nil
}
