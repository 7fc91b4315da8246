package assistant

import (
	"context"
	"log/slog"

	copilot "github.com/github/copilot-sdk/go"
)

const sessionFailedUnknown = "session failed with unknown error"

// replyCollector accumulates assistant messages from a session's event
// stream and remembers the error message of a SessionError, if one arrives.
type replyCollector struct {
	messages []string
	errMsg   string
}

func newReplyCollector() *replyCollector {
	return &replyCollector{}
}

// On is a callback, intended to be passed to [copilot.Session.On] to receive
// events in real-time.
func (c *replyCollector) On(event copilot.SessionEvent) {
	switch event.Type {
	case copilot.AssistantMessage:
		if event.Data.Content != nil && *event.Data.Content != "" {
			c.messages = append(c.messages, *event.Data.Content)
		}

	case copilot.SessionError:
		if event.Data.Message == nil || *event.Data.Message == "" {
			c.errMsg = sessionFailedUnknown
		} else {
			c.errMsg = *event.Data.Message
		}
	}
}

// Reply assembles the drained stream into a Reply. The last assistant
// message is the terminal result; everything before it is intermediate.
// sendErr is the error string SendAndWait returned, "" for a clean turn.
func (c *replyCollector) Reply(sendErr string) *Reply {
	reply := &Reply{}

	if n := len(c.messages); n > 0 {
		reply.Intermediates = c.messages[:n-1]
		reply.Terminal.Result = c.messages[n-1]
	}

	switch {
	case c.errMsg != "":
		reply.Terminal.IsError = true
		reply.Terminal.Result = c.errMsg
	case sendErr != "":
		reply.Terminal.IsError = true
		reply.Terminal.Result = sendErr
	}

	return reply
}

// eventToSlog mirrors raw session events to the debug log.
func eventToSlog(event copilot.SessionEvent) {
	if !slog.Default().Enabled(context.Background(), slog.LevelDebug) {
		return
	}

	attrs := []any{
		"type", event.Type,
	}

	attrs = addIf(attrs, "content", event.Data.Content)
	attrs = addIf(attrs, "toolName", event.Data.ToolName)
	attrs = addIf(attrs, "toolCallID", event.Data.ToolCallID)
	attrs = addIf(attrs, "message", event.Data.Message)

	slog.Debug("Event received", attrs...)
}

func addIf[T any](attrs []any, name string, v *T) []any {
	if v != nil {
		attrs = append(attrs, name)
		attrs = append(attrs, *v)
	}

	return attrs
}
