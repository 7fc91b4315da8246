package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/autocoder-ai/autocoder/internal/projectconfig"
	"github.com/autocoder-ai/autocoder/internal/scaffold"
	"github.com/autocoder-ai/autocoder/internal/wizard"
)

func newInitCommand() *cobra.Command {
	var interactive bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a project for autonomous work cycles",
		Long: `Initialize a project directory with a todo.md task list template and
the agent persona documents the work cycles rely on.

Use --interactive to run a guided wizard that customizes the task list
template. Existing files are never overwritten.

If no directory is specified, the current directory is used.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return initCommandE(cmd, args, interactive)
		},
	}

	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "Run guided project setup wizard")

	return cmd
}

func initCommandE(cmd *cobra.Command, args []string, interactive bool) error {
	dir := "."
	if len(args) > 0 {
		dir = args[0]
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	todoSpec := scaffold.DefaultTodoSpec()
	if interactive {
		spec, err := wizard.RunProjectWizard(cmd.InOrStdin(), cmd.OutOrStdout(), "")
		if err != nil {
			return err
		}
		todoSpec = spec.TodoSpec()
	}

	created, err := scaffold.EnsureProject(dir, projectconfig.DefaultAgentsDir, todoSpec)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(created) == 0 {
		fmt.Fprintln(out, "Project already initialized; nothing to do.") //nolint:errcheck
		return nil
	}

	fmt.Fprintln(out, "Initialized project:") //nolint:errcheck
	for _, path := range created {
		fmt.Fprintf(out, "  %s\n", path) //nolint:errcheck
	}
	return nil
}
