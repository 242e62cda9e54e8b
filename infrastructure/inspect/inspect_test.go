package inspect

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mizan-eval/mizan/internal/domain"
	"github.com/mizan-eval/mizan/internal/ports"
)

// fixtureReader builds a small schema with every section populated.
func fixtureReader(t *testing.T) ports.SchemaReader {
	t.Helper()

	metrics := []domain.Metric{
		{
			Name:             "exact_match",
			DisplayName:      "Exact match",
			ShortDisplayName: "EM",
			Description:      "Fraction of instances answered exactly correctly.",
		},
		{
			Name:        "quasi_exact_match",
			DisplayName: "Quasi-exact match",
			Description: "Fraction of instances answered correctly up to light processing.",
		},
		{
			Name:          "inference_runtime",
			DisplayName:   "Observed inference runtime (s)",
			Description:   "Average observed time to process a request.",
			LowerIsBetter: true,
		},
	}
	perturbations := []domain.Perturbation{
		{
			Name:        "robustness",
			DisplayName: "Robustness",
			Description: "Worst case over robustness perturbations.",
		},
	}
	metricGroups := []domain.MetricGroup{
		{
			Name:        "accuracy",
			DisplayName: "Accuracy",
			AggregationStrategies: []domain.AggregationStrategy{
				domain.StrategyMean, domain.StrategyWinRate,
			},
			Metrics: []domain.MetricRef{{Name: "${main_name}", Split: "${main_split}"}},
		},
		{
			Name:         "efficiency",
			DisplayName:  "Efficiency",
			HideWinRates: true,
			Metrics:      []domain.MetricRef{{Name: "inference_runtime", Split: "${main_split}"}},
		},
	}
	runGroups := []domain.RunGroup{
		{
			Name:        "arabic_scenarios",
			DisplayName: "Arabic Scenarios",
			Category:    "All scenarios",
			Subgroups:   []string{"mmmlu", "aratrust"},
		},
		{
			Name:         "mmmlu",
			DisplayName:  "MMMLU",
			MetricGroups: []string{"accuracy", "efficiency"},
			Environment:  domain.Environment{"main_name": "exact_match", "main_split": "test"},
		},
		{
			Name:         "aratrust",
			DisplayName:  "AraTrust",
			MetricGroups: []string{"accuracy"},
			Environment:  domain.Environment{"main_name": "quasi_exact_match", "main_split": "test"},
		},
	}

	schema, err := domain.NewSchema(metrics, perturbations, metricGroups, runGroups)
	require.NoError(t, err, "fixture schema should build")
	return schema
}

// plainOptions renders tables without colors at a fixed width so output
// is deterministic regardless of the test terminal.
func plainOptions() *Options {
	return &Options{Width: 120}
}

func TestWriteMetricsTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteMetrics(&buf, fixtureReader(t), plainOptions()))

	out := buf.String()
	assert.Contains(t, out, "exact_match", "metric names should appear")
	assert.Contains(t, out, "Observed inference runtime (s)", "display names should appear")
	assert.Contains(t, out, "lower is better", "ranking direction should appear")
	assert.Contains(t, out, "higher is better", "default direction should appear")
	assert.Contains(t, out, "3 metrics", "summary line should appear")
}

func TestWriteMetricsJSON(t *testing.T) {
	var buf bytes.Buffer
	opts := &Options{Format: FormatJSON}
	require.NoError(t, WriteMetrics(&buf, fixtureReader(t), opts))

	var result []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &result))
	require.Len(t, result, 3)

	assert.Equal(t, "exact_match", result[0]["name"])
	assert.Equal(t, "EM", result[0]["short_display_name"])
	assert.Equal(t, true, result[2]["lower_is_better"])
}

func TestWritePerturbations(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WritePerturbations(&buf, fixtureReader(t), plainOptions()))

	out := buf.String()
	assert.Contains(t, out, "robustness")
	assert.Contains(t, out, "1 perturbations")
}

func TestWritePerturbationsEmpty(t *testing.T) {
	schema, err := domain.NewSchema(
		[]domain.Metric{{Name: "exact_match", DisplayName: "Exact match", Description: "d"}},
		nil, nil, nil,
	)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WritePerturbations(&buf, schema, plainOptions()))
	assert.Equal(t, "no perturbations defined\n", buf.String())
}

func TestWriteMetricGroups(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteMetricGroups(&buf, fixtureReader(t), plainOptions()))

	out := buf.String()
	assert.Contains(t, out, "accuracy")
	assert.Contains(t, out, "mean, win_rate", "strategies should be joined")
	assert.Contains(t, out, "hidden", "suppressed win rates should be labeled")
	assert.Contains(t, out, "${main_name} (split ${main_split})", "references should render templated")
	assert.Contains(t, out, "2 metric groups")
}

func TestWriteRunGroups(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteRunGroups(&buf, fixtureReader(t), plainOptions()))

	out := buf.String()
	assert.Contains(t, out, "arabic_scenarios")
	assert.Contains(t, out, "All scenarios")
	assert.Contains(t, out, "mmmlu, aratrust", "subgroups should be joined")
	assert.Contains(t, out, "quasi_exact_match", "headline bindings should appear")
	assert.Contains(t, out, "3 run groups")
}

func TestWriteSection(t *testing.T) {
	reader := fixtureReader(t)

	t.Run("single section", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteSection(&buf, reader, "metrics", plainOptions()))
		assert.Contains(t, buf.String(), "3 metrics")
	})

	t.Run("all sections", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteSection(&buf, reader, "", plainOptions()))

		out := buf.String()
		assert.Contains(t, out, "3 metrics")
		assert.Contains(t, out, "1 perturbations")
		assert.Contains(t, out, "2 metric groups")
		assert.Contains(t, out, "3 run groups")
	})

	t.Run("all sections as JSON", func(t *testing.T) {
		var buf bytes.Buffer
		opts := &Options{Format: FormatJSON}
		require.NoError(t, WriteSection(&buf, reader, "", opts))

		var result map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &result))
		assert.Len(t, result, 4, "full dumps should carry all four sections")
		assert.Contains(t, result, "metrics")
		assert.Contains(t, result, "run_groups")
	})

	t.Run("unknown section", func(t *testing.T) {
		var buf bytes.Buffer
		err := WriteSection(&buf, reader, "scores", plainOptions())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown section")
	})
}

func TestWriteRunGroupTree(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteRunGroupTree(&buf, fixtureReader(t), plainOptions()))

	want := "arabic_scenarios (Arabic Scenarios)\n" +
		"├── mmmlu (MMMLU) main: exact_match\n" +
		"└── aratrust (AraTrust) main: quasi_exact_match\n"
	assert.Equal(t, want, buf.String(), "tree layout mismatch")
}

func TestWriteRunGroupTreeJSON(t *testing.T) {
	var buf bytes.Buffer
	opts := &Options{Format: FormatJSON}
	require.NoError(t, WriteRunGroupTree(&buf, fixtureReader(t), opts))

	var nodes []treeNode
	require.NoError(t, json.Unmarshal(buf.Bytes(), &nodes))
	require.Len(t, nodes, 1, "one root expected")

	assert.Equal(t, "arabic_scenarios", nodes[0].Name)
	require.Len(t, nodes[0].Subgroups, 2)
	assert.Equal(t, "mmmlu", nodes[0].Subgroups[0].Name)
	assert.Equal(t, "exact_match", nodes[0].Subgroups[0].MainMetric)
}

func TestWriteResolvedRunGroup(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteResolvedRunGroup(&buf, fixtureReader(t), "mmmlu", plainOptions()))

	out := buf.String()
	assert.Contains(t, out, "accuracy")
	assert.Contains(t, out, "exact_match")
	assert.Contains(t, out, "test")
	assert.Contains(t, out, "2 metric groups resolved for mmmlu")
}

func TestWriteResolvedRunGroupUnknown(t *testing.T) {
	var buf bytes.Buffer
	err := WriteResolvedRunGroup(&buf, fixtureReader(t), "ghost", plainOptions())
	require.Error(t, err, "unknown run groups should fail")

	var notFound *domain.NotFoundError
	assert.ErrorAs(t, err, &notFound, "error should carry the lookup failure")
}

func TestTruncateText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		max  int
		want string
	}{
		{"short text unchanged", "accuracy", 20, "accuracy"},
		{"exact fit unchanged", "accuracy", 8, "accuracy"},
		{"long text truncated", "a very long description text", 10, "a very ..."},
		{"tiny width", "accuracy", 2, "ac"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, truncateText(tt.in, tt.max))
		})
	}
}
