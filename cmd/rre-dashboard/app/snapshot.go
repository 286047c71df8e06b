package app

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"github.com/stacklok/rre-dashboard/internal/dashboard"
	"github.com/stacklok/rre-dashboard/internal/status"
	"github.com/stacklok/rre-dashboard/internal/telemetry"
	"github.com/stacklok/rre-dashboard/internal/versions"
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Run one refresh cycle and print every list",
	Long: `Run a single full refresh cycle against the evaluation server and print the
resulting filter lists. Fetch failures are reported but do not fail the command.`,
	RunE: runSnapshot,
}

func init() {
	snapshotCmd.Flags().String("format", "table", "Output format (table|json|yaml)")
}

// snapshotOutput is the document printed by the json and yaml formats
type snapshotOutput struct {
	dashboard.Snapshot `yaml:",inline"`
	LatestVersion      string                 `json:"latestVersion,omitempty" yaml:"latestVersion,omitempty"`
	Status             []status.RefreshStatus `json:"status" yaml:"status"`
}

func runSnapshot(cmd *cobra.Command, _ []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return err
	}
	if format != "table" && format != "json" && format != "yaml" {
		return fmt.Errorf("unsupported format %q", format)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	// telemetry stays off for one-shot runs
	tel, err := telemetry.New(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tel.Shutdown(ctx) }()

	comps, err := buildComponents(cfg, tel)
	if err != nil {
		return err
	}

	if err := comps.synchronizer.RunCycle(ctx); err != nil {
		slog.Warn("Refresh cycle completed with errors", "error", err)
	}

	out := snapshotOutput{
		Snapshot:      comps.state.Snapshot(),
		LatestVersion: versions.LatestVersion(comps.state.SelectedNames(dashboard.KindVersion)),
		Status:        comps.tracker.All(),
	}
	return renderSnapshot(cmd.OutOrStdout(), out, format, isTerminal(cmd.OutOrStdout()))
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func renderSnapshot(w io.Writer, out snapshotOutput, format string, styled bool) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	case "yaml":
		return encodeYAML(w, out)
	default:
		return renderTables(w, out, styled)
	}
}

func renderTables(w io.Writer, out snapshotOutput, styled bool) error {
	heading := func(s string) string { return s }
	if styled {
		style := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
		heading = func(s string) string { return style.Render(s) }
	}

	_, _ = fmt.Fprintf(w, "%s\ngeneration %d, %d metrics in payload",
		heading("RRE evaluation"), out.Generation, out.MetricsCount)
	if out.LatestVersion != "" {
		_, _ = fmt.Fprintf(w, ", latest version %s", out.LatestVersion)
	}
	_, _ = fmt.Fprintln(w)

	flat := []struct {
		title string
		items []dashboard.FilterItem
	}{
		{"Metrics", out.Metrics},
		{"Versions", out.Versions},
		{"Corpora", out.Corpora},
	}
	for _, section := range flat {
		rows := make([][]string, 0, len(section.items))
		for _, it := range section.items {
			rows = append(rows, []string{it.Name, strconv.FormatBool(it.Selected)})
		}
		if err := writeTable(w, heading(section.title), []string{"Name", "Selected"}, rows); err != nil {
			return err
		}
	}

	topics := make([][]string, 0, len(out.Topics))
	for _, it := range out.Topics {
		topics = append(topics, []string{it.ID, it.Corpus, it.Name, strconv.FormatBool(it.Selected)})
	}
	if err := writeTable(w, heading("Topics"), []string{"ID", "Corpus", "Name", "Selected"}, topics); err != nil {
		return err
	}

	groups := make([][]string, 0, len(out.QueryGroups))
	for _, it := range out.QueryGroups {
		groups = append(groups, []string{it.ID, it.Corpus, it.Topic, it.Name, strconv.FormatBool(it.Selected)})
	}
	if err := writeTable(w, heading("Query groups"),
		[]string{"ID", "Corpus", "Topic", "Name", "Selected"}, groups); err != nil {
		return err
	}

	statuses := make([][]string, 0, len(out.Status))
	for _, st := range out.Status {
		statuses = append(statuses, []string{string(st.Kind), string(st.Phase), strconv.Itoa(st.ItemCount), st.LastError})
	}
	return writeTable(w, heading("Refresh status"), []string{"Kind", "Phase", "Items", "Last error"}, statuses)
}

func writeTable(w io.Writer, title string, header []string, rows [][]string) error {
	_, _ = fmt.Fprintf(w, "\n%s\n", title)
	if len(rows) == 0 {
		_, _ = fmt.Fprintln(w, "(empty)")
		return nil
	}

	table := tablewriter.NewWriter(w)
	table.Header(header)
	for _, row := range rows {
		if err := table.Append(row); err != nil {
			return fmt.Errorf("failed to append table row: %w", err)
		}
	}
	return table.Render()
}

// encodeYAML writes v as one YAML document; Close flushes the stream end
func encodeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		_ = enc.Close()
		return fmt.Errorf("failed to encode yaml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("failed to flush yaml: %w", err)
	}
	return nil
}
