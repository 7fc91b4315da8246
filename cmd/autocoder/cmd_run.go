package main

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/autocoder-ai/autocoder/internal/assistant"
	"github.com/autocoder-ai/autocoder/internal/config"
	"github.com/autocoder-ai/autocoder/internal/gitinfo"
	"github.com/autocoder-ai/autocoder/internal/logging"
	"github.com/autocoder-ai/autocoder/internal/projectconfig"
	"github.com/autocoder-ai/autocoder/internal/runner"
	"github.com/autocoder-ai/autocoder/internal/scaffold"
)

func newRunCommand() *cobra.Command {
	var (
		projectDir   string
		cycles       int
		engineType   string
		model        string
		pauseSeconds int
		logDir       string
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run autonomous work cycles against the task list",
		Long: `Run one or more work cycles in the project directory.

Each cycle asks the assistant to pick the next task from todo.md,
implement it, commit the changes, and mark the task completed. The
session stops early when the task list is exhausted or a cycle fails.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCommandE(cmd, projectDir, cycles, engineType, model, pauseSeconds, logDir)
		},
	}

	cmd.Flags().StringVarP(&projectDir, "project", "p", ".", "Project directory to work in")
	cmd.Flags().IntVarP(&cycles, "cycles", "n", 0, "Number of cycles to run (default from .autocoder.yaml)")
	cmd.Flags().StringVar(&engineType, "engine", "", "Assistant engine: copilot-sdk, mock")
	cmd.Flags().StringVar(&model, "model", "", "Model to use (overrides project config)")
	cmd.Flags().IntVar(&pauseSeconds, "pause", 0, "Seconds to pause between cycles")
	cmd.Flags().StringVar(&logDir, "log-dir", "", "Log directory (default: ~/.autocoder/logs)")

	return cmd
}

func runCommandE(cmd *cobra.Command, projectDir string, cycles int, engineType, model string, pauseSeconds int, logDir string) error {
	absProject, err := filepath.Abs(projectDir)
	if err != nil {
		return fmt.Errorf("resolving project directory: %w", err)
	}

	projCfg, err := projectconfig.Load(absProject)
	if err != nil {
		return err
	}

	// CLI flags override project config
	if cycles == 0 {
		cycles = projCfg.Loop.Cycles
	}
	if engineType == "" {
		engineType = projCfg.Engine
	}
	if model == "" {
		model = projCfg.Model
	}
	if pauseSeconds == 0 {
		pauseSeconds = projCfg.Loop.PauseSeconds
	}
	if logDir == "" {
		logDir = projCfg.LogDir
	}

	envCfg, err := config.Resolve(absProject)
	if err != nil {
		return fmt.Errorf("resolving environment config: %w", err)
	}
	if model == "" {
		model = envCfg.Model
	}

	engine, err := newEngine(engineType, model)
	if err != nil {
		return err
	}
	defer engine.Stop() //nolint:errcheck

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "🤖 Provider: %s (%s)\n", envCfg.Provider(), envCfg.Endpoint())
	if envCfg.APIKey != "" {
		fmt.Fprintf(out, "🔑 API key: %s\n", config.MaskSecret(envCfg.APIKey))
	}
	if model != "" {
		fmt.Fprintf(out, "🧠 Model: %s\n", model)
	}

	// Make sure the task list and agent personas exist before the first
	// cycle asks for them.
	created, err := scaffold.EnsureProject(absProject, projCfg.AgentsDir, scaffold.DefaultTodoSpec())
	if err != nil {
		return fmt.Errorf("preparing project structure: %w", err)
	}
	for _, path := range created {
		fmt.Fprintf(out, "📄 Created %s\n", path)
	}

	if logDir == "" {
		logDir, err = logging.DefaultDir()
		if err != nil {
			return err
		}
	}
	level := slog.LevelInfo
	if debugLogging {
		level = slog.LevelDebug
	}
	sink, err := logging.Open(logDir, level)
	if err != nil {
		return err
	}
	defer sink.Close() //nolint:errcheck
	fmt.Fprintf(out, "📝 Logging to %s\n", sink.Path)

	r := runner.New(engine, runner.Options{
		Git:        gitinfo.NewInspector(&gitinfo.ExecRunner{Dir: absProject}),
		Log:        sink.Logger,
		Out:        out,
		Pause:      time.Duration(pauseSeconds) * time.Second,
		ProjectDir: absProject,
		AgentsDir:  filepath.Join(absProject, projCfg.AgentsDir),
		Model:      model,
	})

	summary, err := r.Run(cmd.Context(), cycles)
	if err != nil {
		return err
	}

	if summary.Failed() {
		return &CycleFailureError{Message: summary.FailureReason}
	}
	return nil
}

// newEngine picks the assistant engine implementation by name.
func newEngine(engineType, model string) (assistant.Engine, error) {
	switch engineType {
	case "", projectconfig.DefaultEngine:
		return assistant.NewCopilotEngine(model, nil), nil
	case "mock":
		return assistant.NewMockEngine(), nil
	default:
		return nil, fmt.Errorf("unknown engine type %q (expected copilot-sdk or mock)", engineType)
	}
}
