// Package projectconfig provides the ProjectConfig struct and loader for
// .autocoder.yaml project-level configuration files.
package projectconfig

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Default values for project configuration. These are the single source of
// truth — New() references them and no other code should duplicate them.
const (
	DefaultCycles       = 1
	DefaultPauseSeconds = 3
	DefaultTaskFile     = "todo.md"
	DefaultAgentsDir    = ".autocoder/agents"
	DefaultEngine       = "copilot-sdk"
)

// LoopConfig holds cycle loop parameters.
type LoopConfig struct {
	Cycles       int `yaml:"cycles,omitempty"`
	PauseSeconds int `yaml:"pause_seconds,omitempty"`
}

// ProjectConfig is the top-level configuration loaded from .autocoder.yaml.
type ProjectConfig struct {
	Engine    string     `yaml:"engine,omitempty"`
	Model     string     `yaml:"model,omitempty"`
	TaskFile  string     `yaml:"task_file,omitempty"`
	AgentsDir string     `yaml:"agents_dir,omitempty"`
	LogDir    string     `yaml:"log_dir,omitempty"`
	Loop      LoopConfig `yaml:"loop,omitempty"`
}

// New returns a ProjectConfig with all hard-coded defaults populated.
func New() *ProjectConfig {
	return &ProjectConfig{
		Engine:    DefaultEngine,
		TaskFile:  DefaultTaskFile,
		AgentsDir: DefaultAgentsDir,
		Loop: LoopConfig{
			Cycles:       DefaultCycles,
			PauseSeconds: DefaultPauseSeconds,
		},
	}
}

// Load finds .autocoder.yaml by walking up from startDir (max 10 levels),
// unmarshals it, and fills in missing fields with defaults. If no config
// file is found, returns defaults with a nil error. Real I/O errors
// (e.g. permission denied) are returned to the caller.
func Load(startDir string) (*ProjectConfig, error) {
	cfg := New()

	data, err := findConfigFile(startDir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil // no file found → return defaults
		}
		return nil, fmt.Errorf("loading .autocoder.yaml: %w", err)
	}

	var fileCfg ProjectConfig
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return nil, fmt.Errorf("parsing .autocoder.yaml: %w", err)
	}

	mergeConfig(cfg, &fileCfg)
	return cfg, nil
}

// findConfigFile walks up from dir looking for .autocoder.yaml (max 10
// levels). Returns os.ErrNotExist if no config file is found.
func findConfigFile(dir string) ([]byte, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving path %q: %w", dir, err)
	}
	dir = absDir

	for i := 0; i < 10; i++ {
		p := filepath.Join(dir, ".autocoder.yaml")
		data, err := os.ReadFile(p)
		if err == nil {
			return data, nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("reading %q: %w", p, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break // reached filesystem root
		}
		dir = parent
	}
	return nil, os.ErrNotExist
}

// mergeConfig overlays non-zero values from src onto dst.
func mergeConfig(dst, src *ProjectConfig) {
	if src.Engine != "" {
		dst.Engine = src.Engine
	}
	if src.Model != "" {
		dst.Model = src.Model
	}
	if src.TaskFile != "" {
		dst.TaskFile = src.TaskFile
	}
	if src.AgentsDir != "" {
		dst.AgentsDir = src.AgentsDir
	}
	if src.LogDir != "" {
		dst.LogDir = src.LogDir
	}
	if src.Loop.Cycles != 0 {
		dst.Loop.Cycles = src.Loop.Cycles
	}
	if src.Loop.PauseSeconds != 0 {
		dst.Loop.PauseSeconds = src.Loop.PauseSeconds
	}
}
