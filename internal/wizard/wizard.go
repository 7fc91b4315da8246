// Package wizard collects project setup answers interactively for init.
package wizard

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"

	"github.com/autocoder-ai/autocoder/internal/scaffold"
)

// ProjectSpec holds the answers collected by the init wizard.
type ProjectSpec struct {
	Name        string
	Language    string
	IncludeDocs bool
}

// TodoSpec converts the wizard answers into a task list template spec.
func (s *ProjectSpec) TodoSpec() scaffold.TodoSpec {
	return scaffold.TodoSpec{
		ProjectName: s.Name,
		Language:    s.Language,
		IncludeDocs: s.IncludeDocs,
		Date:        time.Now().Format("2006-01-02"),
	}
}

// RunProjectWizard runs an interactive huh form to collect project metadata.
// If initialName is non-empty, it pre-populates the name field.
func RunProjectWizard(in io.Reader, out io.Writer, initialName string) (*ProjectSpec, error) {
	var (
		name        = initialName
		language    string
		includeDocs = true
	)

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Project name").
				Description("Used as the task list heading").
				Placeholder("my-project").
				Value(&name).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("project name is required")
					}
					return nil
				}),
			huh.NewInput().
				Title("Primary language").
				Description("Leave blank if the project is not language-specific").
				Placeholder("Go").
				Value(&language),
			huh.NewConfirm().
				Title("Seed a documentation phase?").
				Description("Adds README and documentation tasks to the initial list").
				Value(&includeDocs),
		),
	).
		WithInput(in).
		WithOutput(out)

	// Use accessible mode for non-TTY input (e.g., tests, piped input).
	if f, ok := in.(*os.File); !ok || !term.IsTerminal(int(f.Fd())) {
		form = form.WithAccessible(true)
	}

	if err := form.Run(); err != nil {
		return nil, fmt.Errorf("wizard failed: %w", err)
	}

	return &ProjectSpec{
		Name:        strings.TrimSpace(name),
		Language:    strings.TrimSpace(language),
		IncludeDocs: includeDocs,
	}, nil
}
