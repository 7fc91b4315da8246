// Package scaffold generates the static project artifacts the orchestration
// loop depends on: the todo.md task list template and the three agent
// persona documents (todo-agent, developer, git-agent).
package scaffold

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"
	"time"
)

// TaskFileName is the task list artifact at the project root.
const TaskFileName = "todo.md"

// agentFiles lists the persona documents in the order they are created and
// reported.
var agentFiles = []struct {
	name     string
	generate func() string
}{
	{"todo-agent.md", TodoAgentMD},
	{"developer.md", DeveloperMD},
	{"git-agent.md", GitAgentMD},
}

// TodoSpec customizes the generated todo.md.
type TodoSpec struct {
	ProjectName string
	Language    string
	IncludeDocs bool
	Date        string
}

// DefaultTodoSpec returns the spec used by non-interactive init.
func DefaultTodoSpec() TodoSpec {
	return TodoSpec{
		ProjectName: "Project",
		IncludeDocs: true,
		Date:        time.Now().Format("2006-01-02"),
	}
}

const todoTemplate = `# {{ .ProjectName }} Todo List

## Task Status
- [ ] Not started
- [~] In progress
- [x] Completed

## Priority Levels
- **P0** - Critical
- **P1** - High
- **P2** - Medium
- **P3** - Low

## Tasks

### Phase 1: Setup
- [ ] **P0** Initialize project structure
- [ ] **P1** Set up development environment
- [ ] **P1** Configure linting and formatting

### Phase 2: Core Features
- [ ] **P0** Implement main functionality{{ if .Language }} in {{ .Language }}{{ end }}
- [ ] **P1** Add error handling
- [ ] **P1** Write unit tests
{{- if .IncludeDocs }}

### Phase 3: Documentation
- [ ] **P2** Create README
- [ ] **P2** Add code documentation
- [ ] **P3** Create examples
{{- end }}

## Notes
Last updated: {{ .Date }}
`

// TodoMD renders the initial todo.md for the given spec.
func TodoMD(spec TodoSpec) (string, error) {
	tmpl, err := template.New("todo").Parse(todoTemplate)
	if err != nil {
		return "", fmt.Errorf("parsing todo template: %w", err)
	}
	if spec.ProjectName == "" {
		spec.ProjectName = "Project"
	}
	if spec.Date == "" {
		spec.Date = time.Now().Format("2006-01-02")
	}

	var buf strings.Builder
	if err := tmpl.Execute(&buf, spec); err != nil {
		return "", fmt.Errorf("rendering todo template: %w", err)
	}
	return buf.String(), nil
}

// TodoAgentMD returns the todo management persona document.
func TodoAgentMD() string {
	return `---
name: todo-agent
description: Todo list manager that maintains todo.md, picks next tasks, and tracks progress
tools: Read, Edit, Write
model: inherit
---

You are the Todo Agent responsible for managing the project's todo.md file.

## Primary Responsibilities
1. **Pick Next Task**: Identify the highest priority uncompleted task
2. **Update Status**: Mark tasks as [~] when starting and [x] when complete
3. **Track Progress**: Keep accurate record of what's done
4. **Add Tasks**: Add new tasks discovered during development

## Task Selection Process
1. Read todo.md
2. Find all uncompleted tasks ([ ])
3. Select highest priority (P0 > P1 > P2 > P3)
4. Within same priority, pick topmost task
5. Return task description clearly
6. If no uncompleted tasks exist, reply with the exact phrase "NO TASKS REMAINING"

## Status Management
- ` + "`[ ]`" + ` → ` + "`[~]`" + ` when starting work
- ` + "`[~]`" + ` → ` + "`[x]`" + ` when work complete
- Add completion timestamp when marking done

## Output Format
When picking a task, output:
- Task description
- Priority level
- Location in todo.md

When updating, confirm what was changed.

Remember: You are the single source of truth for project progress.
`
}

// DeveloperMD returns the developer persona document.
func DeveloperMD() string {
	return `---
name: developer
description: Expert developer that implements tasks with clean, production-ready code
tools: Read, Write, Edit, MultiEdit, Bash, Glob, Grep
model: inherit
---

You are the Developer Agent responsible for implementing all coding tasks.

## Core Principles
1. **Quality First**: Write clean, maintainable code
2. **Test Everything**: Ensure code works before marking complete
3. **Follow Standards**: Use project conventions and best practices
4. **Document Well**: Add clear comments and documentation

## Implementation Process
1. Understand the task requirements
2. Review existing code structure
3. Plan the implementation approach
4. Write the code incrementally
5. Test functionality
6. Refactor if needed

## Communication
- Explain what you're implementing
- Report any blockers or issues
- Confirm when task is complete

Remember: Every line of code should be production-ready.
`
}

// GitAgentMD returns the git specialist persona document.
func GitAgentMD() string {
	return `---
name: git-agent
description: Git specialist that commits changes with conventional commits and manages version control
tools: Bash, Read
model: inherit
---

You are the Git Agent responsible for version control and commits.

## Commit Standards
Use conventional commit format:
` + "```" + `
<type>(<scope>): <description>

[optional body]
` + "```" + `

Types:
- feat: New feature
- fix: Bug fix
- docs: Documentation
- style: Formatting
- refactor: Code restructuring
- test: Adding tests
- chore: Maintenance

## Commit Process
1. ` + "`git status`" + ` - See what changed
2. ` + "`git add .`" + ` - Stage changes (or specific files)
3. ` + "`git commit -m \"type: description\"`" + ` - Commit with message
4. ` + "`git push`" + ` - Push if remote exists (handle gracefully if not)

## Error Handling
- If no git repo exists, initialize it
- If no remote, commit locally
- Report any issues clearly

Remember: Good commits tell the story of the project.
`
}

// EnsureProject creates the task list and agent persona documents under
// projectDir, skipping anything that already exists. It returns the paths
// of files it created.
func EnsureProject(projectDir, agentsDir string, spec TodoSpec) ([]string, error) {
	if err := os.MkdirAll(filepath.Join(projectDir, agentsDir), 0o755); err != nil {
		return nil, fmt.Errorf("creating agents directory: %w", err)
	}

	var created []string

	todoPath := filepath.Join(projectDir, TaskFileName)
	if _, err := os.Stat(todoPath); os.IsNotExist(err) {
		content, err := TodoMD(spec)
		if err != nil {
			return created, err
		}
		if err := os.WriteFile(todoPath, []byte(content), 0o644); err != nil {
			return created, fmt.Errorf("writing %s: %w", TaskFileName, err)
		}
		created = append(created, todoPath)
	}

	for _, agent := range agentFiles {
		path := filepath.Join(projectDir, agentsDir, agent.name)
		if _, err := os.Stat(path); err == nil {
			continue
		}
		if err := os.WriteFile(path, []byte(agent.generate()), 0o644); err != nil {
			return created, fmt.Errorf("writing agent %s: %w", agent.name, err)
		}
		created = append(created, path)
	}

	return created, nil
}
