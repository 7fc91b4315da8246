// Package cycle runs one complete work cycle against an assistant session:
// pick a task, implement it, commit it, mark it done. The engine is a small
// closed state machine; every fault is converted into data on the Result,
// and Run never returns an error or lets a panic escape.
package cycle

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/fatih/color"

	"github.com/autocoder-ai/autocoder/internal/assistant"
	"github.com/autocoder-ai/autocoder/internal/extract"
	"github.com/autocoder-ai/autocoder/internal/gitinfo"
)

// State identifies where a cycle is, or how it ended.
type State string

const (
	StateIdle         State = "idle"
	StateSelecting    State = "selecting"
	StateImplementing State = "implementing"
	StateCommitting   State = "committing"
	StateFinalizing   State = "finalizing"
	StateNoTask       State = "no_task_available"
	StateFailed       State = "failed"
	StateSucceeded    State = "succeeded"
)

// Terminal reports whether the state ends a cycle.
func (s State) Terminal() bool {
	switch s {
	case StateNoTask, StateFailed, StateSucceeded:
		return true
	default:
		return false
	}
}

// Step indices. The sequence is fixed; adding a step means a new constant,
// a new state, and one more case in Run's switch.
const (
	StepSelect    = 1
	StepImplement = 2
	StepCommit    = 3
	StepFinalize  = 4
)

var stepNames = map[int]string{
	StepSelect:    "select",
	StepImplement: "implement",
	StepCommit:    "commit",
	StepFinalize:  "finalize",
}

// The four instructions sent to the assistant, one per step.
const (
	promptSelect = "Use the todo-agent persona to review the status of todo.md, pick the " +
		"next uncompleted task with the highest priority, and mark it as [~] in progress. " +
		"If there are no uncompleted tasks left, say so explicitly with the phrase " +
		"\"NO TASKS REMAINING\"."

	promptImplement = "Implement the task that was just selected from todo.md. Write clean " +
		"code, test it, and ensure it works correctly."

	promptCommit = "Use the git-agent persona to stage and commit all changes made for the " +
		"implemented task. Use the appropriate conventional commit format."

	promptFinalize = "Use the todo-agent persona to mark the just-implemented task as " +
		"completed in todo.md. Use the appropriate completion format for this project."
)

// StepOutcome records one step's timing and verdict. Outcomes are appended
// in step order and never mutated after creation.
type StepOutcome struct {
	Step      int
	Name      string
	StartedAt time.Time
	Duration  time.Duration
	IsError   bool
	RawText   string
}

// Result is the immutable outcome of one cycle.
type Result struct {
	State         State
	Steps         []StepOutcome
	SelectedTask  string
	Commit        *gitinfo.CommitInfo
	Duration      time.Duration
	FailureReason string
}

// Succeeded reports whether all four steps completed.
func (r *Result) Succeeded() bool {
	return r.State == StateSucceeded
}

// NoTask reports whether the cycle stopped because the task list had no
// uncompleted entries. This is a normal stop, not a failure.
func (r *Result) NoTask() bool {
	return r.State == StateNoTask
}

// Engine drives the four-step sequence on a single assistant session.
type Engine struct {
	session assistant.Session
	git     *gitinfo.Inspector
	log     *slog.Logger
	out     io.Writer
}

// Options configures an Engine.
type Options struct {
	// Git resolves commit identity after the commit step. Optional; when
	// nil the commit step succeeds without a CommitInfo.
	Git *gitinfo.Inspector

	// Log receives one structured entry per significant event.
	Log *slog.Logger

	// Out receives the per-step console status lines.
	Out io.Writer
}

// New creates an Engine for one cycle on the given session.
func New(session assistant.Session, opts Options) *Engine {
	log := opts.Log
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	out := opts.Out
	if out == nil {
		out = io.Discard
	}
	return &Engine{
		session: session,
		git:     opts.Git,
		log:     log,
		out:     out,
	}
}

// Run executes the cycle and always returns a Result: any fault raised by
// the collaborator, including a panic, is caught here and recorded as a
// failed cycle.
func (e *Engine) Run(ctx context.Context) (result *Result) {
	start := time.Now()
	result = &Result{State: StateIdle}

	defer func() {
		if r := recover(); r != nil {
			result.State = StateFailed
			result.FailureReason = fmt.Sprintf("cycle panicked: %v", r)
			e.log.Error("cycle panicked", "reason", result.FailureReason)
		}
		result.Duration = time.Since(start)
	}()

	state := StateSelecting
	for !state.Terminal() {
		switch state {
		case StateSelecting:
			state = e.selectTask(ctx, result)
		case StateImplementing:
			state = e.implement(ctx, result)
		case StateCommitting:
			state = e.commit(ctx, result)
		case StateFinalizing:
			state = e.finalize(ctx, result)
		default:
			result.FailureReason = fmt.Sprintf("unknown cycle state %q", state)
			state = StateFailed
		}
	}

	result.State = state
	return result
}

// step sends one instruction, waits for the drained reply, and appends the
// outcome to the result. A non-nil error from Send is a collaborator fault:
// the returned reply is nil and the outcome is marked failed with the
// fault's description.
func (e *Engine) step(ctx context.Context, result *Result, step int, prompt string) (*assistant.Reply, StepOutcome) {
	startedAt := time.Now()

	reply, err := e.session.Send(ctx, prompt)

	outcome := StepOutcome{
		Step:      step,
		Name:      stepNames[step],
		StartedAt: startedAt,
		Duration:  time.Since(startedAt),
	}

	if err != nil {
		outcome.IsError = true
		outcome.RawText = err.Error()
		reply = nil
	} else {
		outcome.IsError = reply.Terminal.IsError
		outcome.RawText = reply.Terminal.Result

		// Intermediate messages are drained before the terminal signal;
		// they go to the log in arrival order.
		for _, msg := range reply.Intermediates {
			e.log.Info(fmt.Sprintf("Step %d response", step),
				"text", extract.Truncate(msg, extract.MaxLogText))
		}
	}

	result.Steps = append(result.Steps, outcome)
	return reply, outcome
}

func (e *Engine) selectTask(ctx context.Context, result *Result) State {
	fmt.Fprintf(e.out, "\n📋 Step 1: Checking todo list...\n")

	reply, outcome := e.step(ctx, result, StepSelect, promptSelect)

	if outcome.IsError {
		e.failStep(outcome)
		result.FailureReason = outcome.RawText
		return StateFailed
	}

	if extract.NoTasksRemaining(outcome.RawText) {
		fmt.Fprintf(e.out, "  ℹ️  No tasks found or all completed! (%.1fs)\n", outcome.Duration.Seconds())
		e.log.Info("no uncompleted tasks remain",
			"step", StepSelect, "duration", formatSeconds(outcome.Duration))
		return StateNoTask
	}

	// The extracted description is advisory: it enriches logs and the
	// summary, but a miss never changes control flow. The authoritative
	// task state lives in todo.md.
	if found := extract.TaskDescription(fullText(reply)); found.Found() {
		result.SelectedTask = found.Description
	}

	e.passStep(outcome, "Task selected")
	e.log.Info("task selected",
		"step", StepSelect,
		"duration", formatSeconds(outcome.Duration),
		"task", extract.Truncate(result.SelectedTask, extract.MaxLogText))

	return StateImplementing
}

func (e *Engine) implement(ctx context.Context, result *Result) State {
	fmt.Fprintf(e.out, "\n💻 Step 2: Implementing task...\n")

	_, outcome := e.step(ctx, result, StepImplement, promptImplement)

	if outcome.IsError {
		e.failStep(outcome)
		result.FailureReason = outcome.RawText
		return StateFailed
	}

	e.passStep(outcome, "Implementation complete")
	e.log.Info("implementation complete",
		"step", StepImplement, "duration", formatSeconds(outcome.Duration))

	return StateCommitting
}

func (e *Engine) commit(ctx context.Context, result *Result) State {
	fmt.Fprintf(e.out, "\n📦 Step 3: Committing changes...\n")

	reply, outcome := e.step(ctx, result, StepCommit, promptCommit)

	if outcome.IsError {
		e.failStep(outcome)
		result.FailureReason = outcome.RawText
		return StateFailed
	}

	e.passStep(outcome, "Changes committed")

	attrs := []any{"step", StepCommit, "duration", formatSeconds(outcome.Duration)}
	if msg := extract.CommitMessage(fullText(reply)); msg != "" {
		attrs = append(attrs, "message", extract.Truncate(msg, extract.MaxLogText))
	}

	// Commit identity lookup is best-effort: the commit already happened,
	// so a lookup failure is informational, never fatal.
	if e.git != nil {
		info, err := e.git.Head(ctx)
		if err != nil {
			e.log.Warn("commit lookup failed", "step", StepCommit, "error", err.Error())
		} else {
			result.Commit = info
			attrs = append(attrs, "commit", info.ShortHash)
			if info.URL != "" {
				attrs = append(attrs, "url", info.URL)
			}
		}
	}

	e.log.Info("changes committed", attrs...)
	return StateFinalizing
}

func (e *Engine) finalize(ctx context.Context, result *Result) State {
	fmt.Fprintf(e.out, "\n✏️  Step 4: Updating todo status...\n")

	_, outcome := e.step(ctx, result, StepFinalize, promptFinalize)

	if outcome.IsError {
		e.failStep(outcome)
		result.FailureReason = outcome.RawText
		return StateFailed
	}

	e.passStep(outcome, "Todo updated")
	e.log.Info("todo updated",
		"step", StepFinalize, "duration", formatSeconds(outcome.Duration))

	fmt.Fprintf(e.out, "\n🎉 Work cycle completed successfully!\n")
	return StateSucceeded
}

var (
	statusPass = color.New(color.FgGreen)
	statusFail = color.New(color.FgRed)
)

func (e *Engine) passStep(outcome StepOutcome, label string) {
	statusPass.Fprintf(e.out, "  ✅ %s (%.1fs)\n", label, outcome.Duration.Seconds()) //nolint:errcheck
}

func (e *Engine) failStep(outcome StepOutcome) {
	statusFail.Fprintf(e.out, "  ❌ Step %d (%s) failed (%.1fs)\n", outcome.Step, outcome.Name, outcome.Duration.Seconds()) //nolint:errcheck
	e.log.Error(fmt.Sprintf("step %d failed", outcome.Step),
		"step", outcome.Step,
		"name", outcome.Name,
		"duration", formatSeconds(outcome.Duration),
		"error", extract.Truncate(outcome.RawText, extract.MaxLogText))
}

// fullText joins a reply's messages for the extractor heuristics.
func fullText(reply *assistant.Reply) string {
	if reply == nil {
		return ""
	}
	text := ""
	for _, msg := range reply.Intermediates {
		text += msg + "\n"
	}
	return text + reply.Terminal.Result
}

func formatSeconds(d time.Duration) string {
	return fmt.Sprintf("%.1fs", d.Seconds())
}
