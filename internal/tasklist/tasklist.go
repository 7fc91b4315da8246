// Package tasklist parses the todo.md task list into structured tasks and
// renders progress views of it.
package tasklist

import (
	"fmt"
	"io"
	"os"
	"regexp"
	"sort"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// Status is the checkbox state of a task.
type Status string

const (
	StatusNotStarted Status = "not_started" // [ ]
	StatusInProgress Status = "in_progress" // [~]
	StatusDone       Status = "done"        // [x]
)

// Marker returns the checkbox form of the status.
func (s Status) Marker() string {
	switch s {
	case StatusInProgress:
		return "[~]"
	case StatusDone:
		return "[x]"
	default:
		return "[ ]"
	}
}

// Task is one recognized task list entry.
type Task struct {
	Priority    string // P0..P3
	Status      Status
	Description string
}

// Done reports whether the task is completed.
func (t Task) Done() bool { return t.Status == StatusDone }

// taskItemRe recognizes the body of a task list item: a checkbox marker
// followed by a bold priority tag and a description. List items without the
// priority tag (legend entries, notes) are ignored.
var taskItemRe = regexp.MustCompile(`^\[([ ~xX])\]\s+\*\*(P[0-3])\*\*\s+(.+)$`)

// Parse extracts tasks from markdown source, in document order.
func Parse(source []byte) []Task {
	md := goldmark.New()
	doc := md.Parser().Parse(text.NewReader(source))

	var tasks []Task
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		item, ok := n.(*ast.ListItem)
		if !ok {
			return ast.WalkContinue, nil
		}

		line := itemFirstLine(item, source)
		m := taskItemRe.FindStringSubmatch(line)
		if m == nil {
			return ast.WalkContinue, nil
		}

		tasks = append(tasks, Task{
			Priority:    m[2],
			Status:      markerStatus(m[1]),
			Description: strings.TrimSpace(m[3]),
		})
		// The checkbox only appears on the item's first line; no need to
		// descend into nested content.
		return ast.WalkSkipChildren, nil
	})
	return tasks
}

// ParseFile reads and parses a task list file.
func ParseFile(path string) ([]Task, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading task list: %w", err)
	}
	return Parse(data), nil
}

// itemFirstLine returns the raw text of the list item's first line.
func itemFirstLine(item *ast.ListItem, source []byte) string {
	child := item.FirstChild()
	if child == nil {
		return ""
	}
	lines := child.Lines()
	if lines == nil || lines.Len() == 0 {
		return ""
	}
	seg := lines.At(0)
	return strings.TrimSpace(string(seg.Value(source)))
}

func markerStatus(marker string) Status {
	switch marker {
	case "~":
		return StatusInProgress
	case "x", "X":
		return StatusDone
	default:
		return StatusNotStarted
	}
}

// Stats summarizes a parsed task list.
type Stats struct {
	Total      int
	NotStarted int
	InProgress int
	Done       int
}

// Percent returns the completion percentage, 0 for an empty list.
func (s Stats) Percent() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Done) / float64(s.Total) * 100
}

// Summarize counts tasks by status.
func Summarize(tasks []Task) Stats {
	stats := Stats{Total: len(tasks)}
	for _, t := range tasks {
		switch t.Status {
		case StatusInProgress:
			stats.InProgress++
		case StatusDone:
			stats.Done++
		default:
			stats.NotStarted++
		}
	}
	return stats
}

// Next returns the task the orchestration loop would pick: the topmost
// uncompleted task of the highest priority. An in-progress task wins over a
// not-started one at the same priority. ok is false when nothing remains.
func Next(tasks []Task) (task Task, ok bool) {
	var open []Task
	for _, t := range tasks {
		if !t.Done() {
			open = append(open, t)
		}
	}
	if len(open) == 0 {
		return Task{}, false
	}

	sort.SliceStable(open, func(i, j int) bool {
		if open[i].Priority != open[j].Priority {
			return open[i].Priority < open[j].Priority
		}
		return open[i].Status == StatusInProgress && open[j].Status != StatusInProgress
	})
	return open[0], true
}

// RenderTable writes a human-readable table of the tasks followed by a
// one-line progress summary.
func RenderTable(w io.Writer, tasks []Task) {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleLight)
	tw.AppendHeader(table.Row{"#", "Priority", "Status", "Task"})

	for i, t := range tasks {
		tw.AppendRow(table.Row{i + 1, t.Priority, t.Status.Marker(), t.Description})
	}
	tw.Render()

	stats := Summarize(tasks)
	fmt.Fprintf(w, "%d tasks: %d done, %d in progress, %d not started (%.0f%% complete)\n",
		stats.Total, stats.Done, stats.InProgress, stats.NotStarted, stats.Percent())
}
