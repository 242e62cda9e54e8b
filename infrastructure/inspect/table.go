package inspect

import (
	"fmt"
	"io"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/mizan-eval/mizan/internal/domain"
	"github.com/mizan-eval/mizan/internal/ports"
)

// newTable creates a table writer with the left-aligned layout all
// inventory tables share.
func newTable(w io.Writer) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignLeft
	})
	return table
}

// WriteMetrics renders the metric inventory.
func WriteMetrics(w io.Writer, reader ports.SchemaReader, opts *Options) error {
	metrics := reader.Metrics()

	if opts.format() == FormatJSON {
		return writeJSON(w, metrics)
	}

	nameColor, _ := opts.palette()
	descWidth := maxDescriptionWidth(opts)

	table := newTable(w)
	table.Header([]string{"Name", "Display name", "Direction", "Description"})

	var data [][]string
	for _, metric := range metrics {
		direction := "higher is better"
		if metric.LowerIsBetter {
			direction = "lower is better"
		}
		data = append(data, []string{
			nameColor(metric.Name),
			metric.DisplayName,
			direction,
			truncateText(metric.Description, descWidth),
		})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	_, err := fmt.Fprintf(w, "%d metrics\n", len(metrics))
	return err
}

// WritePerturbations renders the perturbation inventory.
func WritePerturbations(w io.Writer, reader ports.SchemaReader, opts *Options) error {
	perturbations := reader.Perturbations()

	if opts.format() == FormatJSON {
		return writeJSON(w, perturbations)
	}

	if len(perturbations) == 0 {
		_, err := fmt.Fprintln(w, "no perturbations defined")
		return err
	}

	nameColor, _ := opts.palette()
	descWidth := maxDescriptionWidth(opts)

	table := newTable(w)
	table.Header([]string{"Name", "Display name", "Description"})

	var data [][]string
	for _, perturbation := range perturbations {
		data = append(data, []string{
			nameColor(perturbation.Name),
			perturbation.DisplayName,
			truncateText(perturbation.Description, descWidth),
		})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	_, err := fmt.Fprintf(w, "%d perturbations\n", len(perturbations))
	return err
}

// WriteMetricGroups renders the metric-group inventory with each group's
// references in declaration order.
func WriteMetricGroups(w io.Writer, reader ports.SchemaReader, opts *Options) error {
	groups := reader.MetricGroups()

	if opts.format() == FormatJSON {
		return writeJSON(w, groups)
	}

	nameColor, _ := opts.palette()
	refWidth := maxDescriptionWidth(opts)

	table := newTable(w)
	table.Header([]string{"Name", "Display name", "Strategies", "Win rates", "Metrics"})

	var data [][]string
	for _, group := range groups {
		winRates := "shown"
		if group.HideWinRates {
			winRates = "hidden"
		}
		data = append(data, []string{
			nameColor(group.Name),
			group.Label(),
			joinStrategies(group.AggregationStrategies),
			winRates,
			truncateText(joinRefs(group.Metrics), refWidth),
		})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	_, err := fmt.Fprintf(w, "%d metric groups\n", len(groups))
	return err
}

// WriteRunGroups renders the run-group inventory with each group's
// metric-group references and headline binding.
func WriteRunGroups(w io.Writer, reader ports.SchemaReader, opts *Options) error {
	groups := reader.RunGroups()

	if opts.format() == FormatJSON {
		return writeJSON(w, groups)
	}

	nameColor, bindingColor := opts.palette()

	table := newTable(w)
	table.Header([]string{"Name", "Display name", "Category", "Metric groups", "Subgroups", "Main metric"})

	var data [][]string
	for _, group := range groups {
		data = append(data, []string{
			nameColor(group.Name),
			group.Label(),
			group.Category,
			strings.Join(group.MetricGroups, ", "),
			strings.Join(group.Subgroups, ", "),
			bindingColor(group.Environment["main_name"]),
		})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	_, err := fmt.Fprintf(w, "%d run groups\n", len(groups))
	return err
}

// inventory is the JSON shape of a full schema dump.
type inventory struct {
	Metrics       []domain.Metric       `json:"metrics"`
	Perturbations []domain.Perturbation `json:"perturbations"`
	MetricGroups  []domain.MetricGroup  `json:"metric_groups"`
	RunGroups     []domain.RunGroup     `json:"run_groups"`
}

// WriteSection renders one named section, or every section when the name
// is empty. Valid names are the document's own section keys.
func WriteSection(w io.Writer, reader ports.SchemaReader, section string, opts *Options) error {
	switch section {
	case "metrics":
		return WriteMetrics(w, reader, opts)
	case "perturbations":
		return WritePerturbations(w, reader, opts)
	case "metric_groups":
		return WriteMetricGroups(w, reader, opts)
	case "run_groups":
		return WriteRunGroups(w, reader, opts)
	case "":
		if opts.format() == FormatJSON {
			return writeJSON(w, inventory{
				Metrics:       reader.Metrics(),
				Perturbations: reader.Perturbations(),
				MetricGroups:  reader.MetricGroups(),
				RunGroups:     reader.RunGroups(),
			})
		}
		for _, write := range []func(io.Writer, ports.SchemaReader, *Options) error{
			WriteMetrics, WritePerturbations, WriteMetricGroups, WriteRunGroups,
		} {
			if err := write(w, reader, opts); err != nil {
				return err
			}
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("unknown section %q (valid sections: metrics, perturbations, metric_groups, run_groups)", section)
	}
}

// WriteResolvedRunGroup resolves every metric group of the named run group
// and renders the concrete metric references.
func WriteResolvedRunGroup(w io.Writer, reader ports.SchemaReader, runGroup string, opts *Options) error {
	resolved, err := reader.ResolveRunGroup(runGroup)
	if err != nil {
		return err
	}

	if opts.format() == FormatJSON {
		return writeJSON(w, resolved)
	}

	nameColor, bindingColor := opts.palette()

	table := newTable(w)
	table.Header([]string{"Group", "Metric", "Split", "Perturbation", "Direction"})

	var data [][]string
	for _, group := range resolved {
		for _, entry := range group.Entries {
			direction := "higher is better"
			if entry.Metric.LowerIsBetter {
				direction = "lower is better"
			}
			data = append(data, []string{
				nameColor(group.Name),
				bindingColor(entry.Metric.Name),
				entry.Split,
				entry.PerturbationName,
				direction,
			})
		}
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	_, err = fmt.Fprintf(w, "%d metric groups resolved for %s\n", len(resolved), runGroup)
	return err
}

// joinStrategies renders an aggregation strategy list for a table cell.
func joinStrategies(strategies []domain.AggregationStrategy) string {
	parts := make([]string, len(strategies))
	for i, strategy := range strategies {
		parts[i] = string(strategy)
	}
	return strings.Join(parts, ", ")
}

// joinRefs renders a metric reference list for a table cell.
func joinRefs(refs []domain.MetricRef) string {
	parts := make([]string, len(refs))
	for i, ref := range refs {
		parts[i] = ref.String()
	}
	return strings.Join(parts, "; ")
}
