package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"shopping-agent/pkg/registry"
)

var registryPath string

var registryCmd = &cobra.Command{
	Use:   "registry",
	Short: "Inspect the stage activity registry",
}

var registryListCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered stage activities",
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, err := loadRegistry()
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "TASK TYPE\tCATEGORY\tTIMEOUT\tRETRIES\tSTATUS")
		for _, a := range reg.Activities {
			fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n", a.TaskType, a.Category, a.Timeout, a.Retries, a.ImplementationStatus)
		}
		return w.Flush()
	},
}

var registryShowCmd = &cobra.Command{
	Use:   "show <task-type>",
	Short: "Print one activity with its schemas as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, err := loadRegistry()
		if err != nil {
			return err
		}
		a, err := reg.Find(args[0])
		if err != nil {
			return err
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(a)
	},
}

var registryExportCmd = &cobra.Command{
	Use:   "export <file>",
	Short: "Write the built-in registry as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		reg := registry.Default()
		reg.LastUpdated = time.Now().Format("2006-01-02")

		if err := os.MkdirAll(filepath.Dir(args[0]), 0o755); err != nil {
			return fmt.Errorf("create directory: %w", err)
		}
		if err := reg.Save(args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %d activities to %s\n", len(reg.Activities), args[0])
		return nil
	},
}

var registryValidateCmd = &cobra.Command{
	Use:   "validate <file>",
	Short: "Validate a registry file against the stages this build serves",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, err := registry.LoadRegistry(args[0])
		if err != nil {
			return fmt.Errorf("registry validation failed: %w", err)
		}
		builtin := registry.Default()
		for _, taskType := range reg.TaskTypes() {
			if _, err := builtin.Find(taskType); err != nil {
				return fmt.Errorf("registry validation failed: %w", err)
			}
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Registry validation passed. Found %d activities.\n", len(reg.Activities))
		return nil
	},
}

func init() {
	registryCmd.PersistentFlags().StringVar(&registryPath, "path", "", "registry file (default: built-in registry)")
	registryCmd.AddCommand(registryListCmd, registryShowCmd, registryExportCmd, registryValidateCmd)
	rootCmd.AddCommand(registryCmd)
}

func loadRegistry() (*registry.ActivityRegistry, error) {
	if registryPath == "" {
		return registry.Default(), nil
	}
	return registry.LoadRegistry(registryPath)
}
