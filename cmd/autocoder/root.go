package main

import (
	"log/slog"

	"github.com/spf13/cobra"
)

var version = "dev"

var debugLogging bool

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "autocoder",
		Short: "Autocoder - autonomous coding sessions driven by a todo list",
		Long: `Autocoder drives a conversational coding assistant through repeated
work cycles: pick the next task from todo.md, implement it, commit it,
and mark it done.

Cycles repeat until the task list is exhausted, a cycle fails, or the
requested cycle count is reached.`,
		Version:      version,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().BoolVar(&debugLogging, "debug", false, "Enable debug logging")
	cmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		if debugLogging {
			slog.SetLogLoggerLevel(slog.LevelDebug)
		}
	}

	// Add subcommands
	cmd.AddCommand(newRunCommand())
	cmd.AddCommand(newInitCommand())
	cmd.AddCommand(newTasksCommand())
	cmd.AddCommand(newConfigCommand())

	return cmd
}

func execute() error {
	rootCmd := newRootCommand()
	return rootCmd.Execute()
}
