package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/autocoder-ai/autocoder/internal/projectconfig"
	"github.com/autocoder-ai/autocoder/internal/tasklist"
)

func newTasksCommand() *cobra.Command {
	var projectDir string

	cmd := &cobra.Command{
		Use:   "tasks",
		Short: "Show the task list and its progress",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return tasksCommandE(cmd, projectDir)
		},
	}

	cmd.Flags().StringVarP(&projectDir, "project", "p", ".", "Project directory to read the task list from")

	return cmd
}

func tasksCommandE(cmd *cobra.Command, projectDir string) error {
	projCfg, err := projectconfig.Load(projectDir)
	if err != nil {
		return err
	}

	tasks, err := tasklist.ParseFile(filepath.Join(projectDir, projCfg.TaskFile))
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(tasks) == 0 {
		fmt.Fprintf(out, "No tasks found in %s.\n", projCfg.TaskFile) //nolint:errcheck
		return nil
	}

	tasklist.RenderTable(out, tasks)

	if next, ok := tasklist.Next(tasks); ok {
		fmt.Fprintf(out, "Next up: [%s] %s\n", next.Priority, next.Description) //nolint:errcheck
	} else {
		fmt.Fprintln(out, "All tasks completed! 🎉") //nolint:errcheck
	}
	return nil
}
