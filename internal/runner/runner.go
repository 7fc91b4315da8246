// Package runner repeats work cycles against the assistant until the task
// list is exhausted, a cycle fails, or the requested cycle count is reached.
package runner

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/autocoder-ai/autocoder/internal/assistant"
	"github.com/autocoder-ai/autocoder/internal/cycle"
	"github.com/autocoder-ai/autocoder/internal/gitinfo"
	"github.com/autocoder-ai/autocoder/internal/logging"
)

// DefaultPause is the courtesy delay between successful cycles. It rate
// limits the remote collaborator; it is not a correctness requirement.
const DefaultPause = 3 * time.Second

// Summary aggregates a session's cycles. The success rate denominator is
// the originally requested count, not the attempted count, so an early stop
// shows up as a lower rate.
type Summary struct {
	CyclesRequested int
	CyclesCompleted int
	TotalDuration   time.Duration
	SuccessRate     float64

	// FailureReason is set when the session stopped on a failed cycle.
	// It stays empty for a clean finish or a no-tasks stop.
	FailureReason string
}

// Failed reports whether the session stopped because a cycle failed.
func (s *Summary) Failed() bool {
	return s.FailureReason != ""
}

// Runner owns one autonomous session.
type Runner struct {
	engine assistant.Engine
	git    *gitinfo.Inspector
	log    *slog.Logger
	out    io.Writer
	pause  time.Duration

	projectDir string
	agentsDir  string
	model      string
}

// Options configures a Runner.
type Options struct {
	// Git is handed to each cycle for commit identity lookup. Optional.
	Git *gitinfo.Inspector

	// Log receives structured entries; defaults to a discard logger.
	Log *slog.Logger

	// Out receives console status output; defaults to io.Discard.
	Out io.Writer

	// Pause overrides the inter-cycle delay; DefaultPause when zero.
	Pause time.Duration

	// ProjectDir is the directory the assistant works in.
	ProjectDir string

	// AgentsDir holds the agent persona documents.
	AgentsDir string

	// Model overrides the engine's default model when non-empty.
	Model string
}

// New creates a Runner driving the given assistant engine.
func New(engine assistant.Engine, opts Options) *Runner {
	log := opts.Log
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	out := opts.Out
	if out == nil {
		out = io.Discard
	}
	pause := opts.Pause
	if pause == 0 {
		pause = DefaultPause
	}
	return &Runner{
		engine:     engine,
		git:        opts.Git,
		log:        log,
		out:        out,
		pause:      pause,
		projectDir: opts.ProjectDir,
		agentsDir:  opts.AgentsDir,
		model:      opts.Model,
	}
}

// Run executes up to maxCycles cycles, stopping early on the first cycle
// that does not succeed. It always returns a Summary; the error is non-nil
// only for an invalid request or a context cancellation.
func (r *Runner) Run(ctx context.Context, maxCycles int) (*Summary, error) {
	if maxCycles < 1 {
		return nil, fmt.Errorf("maxCycles must be positive, got %d", maxCycles)
	}

	log := r.log.With(logging.Component("session"))

	start := time.Now()
	summary := &Summary{CyclesRequested: maxCycles}
	defer func() {
		summary.TotalDuration = time.Since(start)
		summary.SuccessRate = float64(summary.CyclesCompleted) / float64(summary.CyclesRequested) * 100
		r.printSummary(summary)
	}()

	log.Info("session starting", "max_cycles", maxCycles, "project", r.projectDir)

	for n := 1; n <= maxCycles; n++ {
		fmt.Fprintf(r.out, "\n%s\n🔁 Cycle %d/%d\n%s\n", divider, n, maxCycles, divider)

		result := r.runCycle(ctx, n)

		switch {
		case result.Succeeded():
			summary.CyclesCompleted++
			log.Info("cycle completed",
				"cycle", n,
				"duration", fmt.Sprintf("%.1fs", result.Duration.Seconds()))

			if n < maxCycles {
				fmt.Fprintf(r.out, "\n⏸  Pausing before next cycle...\n")
				if err := sleepCtx(ctx, r.pause); err != nil {
					log.Warn("session cancelled during pause", "cycle", n)
					return summary, err
				}
			}

		case result.NoTask():
			fmt.Fprintf(r.out, "\n📊 No more tasks to work on\n")
			log.Info("stopping: no uncompleted tasks remain", "cycle", n)
			return summary, nil

		default:
			summary.FailureReason = result.FailureReason
			if summary.FailureReason == "" {
				summary.FailureReason = fmt.Sprintf("cycle %d failed", n)
			}
			fmt.Fprintf(r.out, "\n📊 Cycle failed\n")
			log.Error("stopping: cycle failed",
				"cycle", n,
				"reason", summary.FailureReason)
			return summary, nil
		}
	}

	return summary, nil
}

// runCycle opens a fresh session, runs one cycle on it, and closes it.
// Session creation failure is a collaborator fault and yields a failed
// cycle result rather than an error.
func (r *Runner) runCycle(ctx context.Context, n int) *cycle.Result {
	log := r.log.With(logging.Component(fmt.Sprintf("cycle %d", n)))

	sess, err := r.engine.NewSession(ctx, assistant.SessionOptions{
		WorkingDir: r.projectDir,
		AgentsDir:  r.agentsDir,
		Model:      r.model,
	})
	if err != nil {
		log.Error("failed to open assistant session", "error", err.Error())
		return &cycle.Result{
			State:         cycle.StateFailed,
			FailureReason: fmt.Sprintf("opening assistant session: %v", err),
		}
	}
	defer sess.Close() //nolint:errcheck

	return cycle.New(sess, cycle.Options{
		Git: r.git,
		Log: log,
		Out: r.out,
	}).Run(ctx)
}

const divider = "============================================================"

func (r *Runner) printSummary(summary *Summary) {
	var b strings.Builder
	fmt.Fprintf(&b, "\n%s\n", divider)
	fmt.Fprintf(&b, "📈 Session Summary\n")
	fmt.Fprintf(&b, "   Requested cycles: %d\n", summary.CyclesRequested)
	fmt.Fprintf(&b, "   Completed cycles: %d\n", summary.CyclesCompleted)
	fmt.Fprintf(&b, "   Success rate:     %.1f%%\n", summary.SuccessRate)
	fmt.Fprintf(&b, "   Total time:       %.1fs\n", summary.TotalDuration.Seconds())
	fmt.Fprintf(&b, "%s\n", divider)
	io.WriteString(r.out, b.String()) //nolint:errcheck

	r.log.With(logging.Component("session")).Info("session finished",
		"requested", summary.CyclesRequested,
		"completed", summary.CyclesCompleted,
		"success_rate", fmt.Sprintf("%.1f%%", summary.SuccessRate),
		"duration", fmt.Sprintf("%.1fs", summary.TotalDuration.Seconds()))
}

// sleepCtx waits for d or until ctx is cancelled.
func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
