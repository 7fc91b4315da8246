package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/autocoder-ai/autocoder/internal/config"
)

func newConfigCommand() *cobra.Command {
	var projectDir string

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show the resolved assistant configuration",
		Long: `Show the assistant endpoint, provider, and credential configuration
resolved from the environment and the project's .env file.

Secret values are masked.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return configCommandE(cmd, projectDir)
		},
	}

	cmd.Flags().StringVarP(&projectDir, "project", "p", ".", "Project directory to read .env from")

	return cmd
}

func configCommandE(cmd *cobra.Command, projectDir string) error {
	cfg, err := config.Resolve(projectDir)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Provider: %s\n", cfg.Provider()) //nolint:errcheck
	fmt.Fprintf(out, "Endpoint: %s\n", cfg.Endpoint()) //nolint:errcheck

	masked := cfg.Masked()
	if len(masked) == 0 {
		fmt.Fprintln(out, "No custom settings configured.") //nolint:errcheck
		return nil
	}

	keys := make([]string, 0, len(masked))
	for k := range masked {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	fmt.Fprintln(out, "Settings:") //nolint:errcheck
	for _, k := range keys {
		fmt.Fprintf(out, "  %s: %s\n", k, masked[k]) //nolint:errcheck
	}
	return nil
}
