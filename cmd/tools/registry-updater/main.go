// cmd/tools/registry-updater/main.go
package main

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"career-chat-workers/pkg/registry"
)

var registryPath string

var rootCmd = &cobra.Command{
	Use:   "registry-updater",
	Short: "Inspect and maintain the activity registry",
	Long: `Inspect and maintain configs/activity-registry.json, the list of Zeebe
task types this repository implements.`,
	SilenceUsage: true,
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered activities",
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, err := registry.LoadRegistry(registryPath)
		if err != nil {
			return fmt.Errorf("failed to load registry: %w", err)
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "TASK TYPE\tCATEGORY\tSTATUS\tVERSION")
		for _, a := range reg.Activities {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", a.TaskType, a.Category, a.ImplementationStatus, a.Version)
		}
		return w.Flush()
	},
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the registry file",
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, err := registry.LoadRegistry(registryPath)
		if err != nil {
			return fmt.Errorf("failed to load registry: %w", err)
		}
		if err := reg.Validate(); err != nil {
			return fmt.Errorf("registry validation failed: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Registry validation passed. Found %d activities.\n", len(reg.Activities))
		return nil
	},
}

var setStatusCmd = &cobra.Command{
	Use:   "set-status <taskType> <status>",
	Short: "Set an activity's implementation status",
	Long: `Set an activity's implementation status.

Statuses: planned, in-progress, completed, verified`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, err := registry.LoadRegistry(registryPath)
		if err != nil {
			return fmt.Errorf("failed to load registry: %w", err)
		}
		if err := reg.SetStatus(args[0], args[1], time.Now()); err != nil {
			return err
		}
		if err := registry.SaveRegistry(reg, registryPath); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Updated %s status to %s\n", args[0], args[1])
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&registryPath, "path", "p", "configs/activity-registry.json", "Path to registry file")
	rootCmd.AddCommand(listCmd, validateCmd, setStatusCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
