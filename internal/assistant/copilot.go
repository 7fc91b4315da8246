package assistant

import (
	"context"
	"fmt"
	"sync"

	copilot "github.com/github/copilot-sdk/go"
)

// CopilotEngine talks to the assistant through the GitHub Copilot SDK.
type CopilotEngine struct {
	defaultModelID string

	client copilotClient

	startOnce sync.Once
}

// CopilotEngineOptions allows tests to substitute the SDK client.
type CopilotEngineOptions struct {
	NewCopilotClient func(clientOptions *copilot.ClientOptions) copilotClient
}

// NewCopilotEngine creates an engine.
//   - defaultModelID - used if no model ID is specified in session creation.
//     Can be blank, which means the copilot CLI will choose its own fallback
//     model.
func NewCopilotEngine(defaultModelID string, options *CopilotEngineOptions) *CopilotEngine {
	copilotOptions := &copilot.ClientOptions{
		// working directory is set at the session level, not the client.
		LogLevel:  "error",
		AutoStart: copilot.Bool(false),
	}

	var client copilotClient

	if options == nil || options.NewCopilotClient == nil {
		client = newCopilotClient(copilotOptions)
	} else {
		client = options.NewCopilotClient(copilotOptions)
	}

	return &CopilotEngine{
		defaultModelID: defaultModelID,
		client:         client,
	}
}

// NewSession starts the SDK client on first use and opens a conversation
// rooted at the project directory.
func (e *CopilotEngine) NewSession(ctx context.Context, opts SessionOptions) (Session, error) {
	var startErr error

	e.startOnce.Do(func() {
		// NOTE: the copilot client has an 'autostart' feature, but it runs
		// into issues when it tries to autostart from separate goroutines.
		startErr = e.client.Start(ctx)
	})

	if startErr != nil {
		return nil, fmt.Errorf("copilot failed to start: %w", startErr)
	}

	modelID := e.defaultModelID
	if opts.Model != "" {
		modelID = opts.Model
	}

	skillDirs := []string{opts.WorkingDir}
	if opts.AgentsDir != "" && opts.AgentsDir != opts.WorkingDir {
		skillDirs = append(skillDirs, opts.AgentsDir)
	}

	sess, err := e.client.CreateSession(ctx, &copilot.SessionConfig{
		Model: modelID,

		OnPermissionRequest: allowAllTools,

		SkillDirectories: skillDirs,
		WorkingDirectory: opts.WorkingDir,
	})

	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return &copilotAssistantSession{inner: sess}, nil
}

// Stop shuts down the SDK client.
func (e *CopilotEngine) Stop() error {
	return e.client.Stop()
}

// copilotAssistantSession adapts a copilot session to the Session interface.
type copilotAssistantSession struct {
	inner copilotSession
}

// Send issues the prompt and drains the event stream to its terminal
// signal. Errors the SDK reports inline as part of the conversation come
// back in the returned error of SendAndWait; those are folded into the
// terminal signal rather than returned, so the caller sees exactly one
// authoritative verdict per instruction.
func (s *copilotAssistantSession) Send(ctx context.Context, prompt string) (*Reply, error) {
	collector := newReplyCollector()

	unsubscribe := s.inner.On(collector.On)
	defer unsubscribe()

	unsubscribe = s.inner.On(eventToSlog)
	defer unsubscribe()

	_, err := s.inner.SendAndWait(ctx, copilot.MessageOptions{
		Prompt: prompt,
	})

	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return collector.Reply(err.Error()), nil
	}

	return collector.Reply(""), nil
}

// Close is a no-op: the copilot CLI process owns session lifetime, and
// Stop on the engine tears everything down.
func (s *copilotAssistantSession) Close() error {
	return nil
}

func allowAllTools(request copilot.PermissionRequest, invocation copilot.PermissionInvocation) (copilot.PermissionRequestResult, error) {
	// value for 'Kind' came from the permissions_test.go in the Copilot SDK.
	return copilot.PermissionRequestResult{Kind: "approved"}, nil
}
