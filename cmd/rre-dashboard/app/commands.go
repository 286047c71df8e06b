// Package app provides the command line interface of the dashboard client.
package app

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/stacklok/rre-dashboard/internal/versions"
)

var rootCmd = &cobra.Command{
	Use:               "rre-dashboard",
	DisableAutoGenTag: true,
	Short:             "Client for the RRE evaluation dashboard",
	Long: `rre-dashboard polls an RRE evaluation server, keeps the metric, version,
corpus, topic and query group filter lists up to date and exposes them over a
small control API.`,
	Run: func(cmd *cobra.Command, _ []string) {
		if err := cmd.Help(); err != nil {
			slog.Error("Error displaying help", "error", err)
		}
	},
}

// NewRootCmd creates a new root command for the dashboard client.
func NewRootCmd() *cobra.Command {
	rootCmd.PersistentFlags().String("config", "", "Path to configuration file (YAML format)")
	if err := viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config")); err != nil {
		slog.Error("Error binding config flag", "error", err)
	}

	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(snapshotCmd)
	rootCmd.AddCommand(versionCmd)

	return rootCmd
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	RunE: func(cmd *cobra.Command, _ []string) error {
		format, err := cmd.Flags().GetString("format")
		if err != nil {
			return err
		}
		return printVersion(cmd, versions.GetVersionInfo(), format)
	},
}

func init() {
	versionCmd.Flags().String("format", "", "Output format (json|yaml)")
}

func printVersion(cmd *cobra.Command, info versions.VersionInfo, format string) error {
	out := cmd.OutOrStdout()
	switch format {
	case "json":
		output, err := json.MarshalIndent(info, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to format version info as JSON: %w", err)
		}
		_, err = fmt.Fprintln(out, string(output))
		return err
	case "yaml":
		return encodeYAML(out, info)
	case "":
		_, err := fmt.Fprintf(out, "rre-dashboard %s (commit %s, built %s, %s %s)\n",
			info.Version, info.Commit, info.BuildDate, info.GoVersion, info.Platform)
		return err
	default:
		return fmt.Errorf("unsupported format %q", format)
	}
}
