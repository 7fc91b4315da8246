// Package extract pulls advisory facts out of free-form assistant replies.
// Everything here is best-effort and logging-quality only: control flow in
// the cycle engine depends solely on the terminal success/error signal,
// never on what these heuristics find.
package extract

import (
	"regexp"
	"strings"
)

// MaxLogText caps extracted text that ends up in log lines.
const MaxLogText = 160

// Confidence says how an extraction was produced.
type Confidence string

const (
	// ConfidenceNone means no match was found.
	ConfidenceNone Confidence = "none"
	// ConfidenceHeuristic means a line/regex heuristic matched.
	ConfidenceHeuristic Confidence = "heuristic"
)

// Extracted is the result of a task-description scan.
type Extracted struct {
	Description string
	Confidence  Confidence
}

// Found reports whether the scan produced a description.
func (e Extracted) Found() bool {
	return e.Confidence != ConfidenceNone
}

var taskLabelPrefixes = []string{
	"task:",
	"selected task:",
	"next task:",
	"picked task:",
}

// TaskDescription scans reply lines for an in-progress marking or an
// explicit "task:" label. First match wins; the matched line, trimmed of
// its marker, is the description.
func TaskDescription(text string) Extracted {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		// A task list line the agent just flipped to in-progress,
		// e.g. "- [~] **P0** Implement main functionality".
		if idx := strings.Index(line, "[~]"); idx >= 0 {
			desc := strings.TrimSpace(line[idx+len("[~]"):])
			if desc != "" {
				return Extracted{Description: desc, Confidence: ConfidenceHeuristic}
			}
			continue
		}

		lower := strings.ToLower(line)
		for _, prefix := range taskLabelPrefixes {
			if strings.HasPrefix(lower, prefix) {
				desc := strings.TrimSpace(line[len(prefix):])
				if desc != "" {
					return Extracted{Description: desc, Confidence: ConfidenceHeuristic}
				}
			}
		}
	}

	return Extracted{Confidence: ConfidenceNone}
}

var noTaskMarkers = []string{
	"no tasks remaining",
	"no uncompleted tasks",
	"no remaining tasks",
	"all tasks are complete",
	"all tasks completed",
	"all tasks complete",
}

// NoTasksRemaining reports whether the reply states that the task list has
// no uncompleted entries. The todo agent is instructed to say so explicitly
// when nothing is left to pick.
func NoTasksRemaining(text string) bool {
	lower := strings.ToLower(text)
	for _, marker := range noTaskMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

var (
	// A git commit invocation with a quoted message argument, e.g.
	//   git commit -m "feat(api): add pagination"
	commitInvocationRe = regexp.MustCompile(`git commit\s+(?:-\w+\s+)*-m\s+"([^"]+)"`)

	// A bare conventional-commit line, used as a fallback when the reply
	// describes the commit without quoting the command.
	conventionalCommitRe = regexp.MustCompile(`(?m)^(?:feat|fix|docs|style|refactor|test|chore)(?:\([^)]*\))?!?: .+$`)
)

// CommitMessage scans reply text for the commit message the assistant used.
// First regex match wins; returns "" when nothing matches.
func CommitMessage(text string) string {
	if m := commitInvocationRe.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}
	if m := conventionalCommitRe.FindString(text); m != "" {
		return strings.TrimSpace(m)
	}
	return ""
}

// Truncate caps s at n runes, appending an ellipsis when text was dropped.
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "…"
}
