package application

// Document is the raw, decoded form of a presentation-schema file and the
// primary configuration entry point for the loader. Its four sections
// mirror the document's top-level keys; field shapes are enforced by
// struct tags and the section cross-references by semantic validation.
type Document struct {
	// Metrics defines every measurable quantity the leaderboard can show.
	// A document without metrics has nothing to present, so at least one
	// entry is required.
	Metrics []MetricSpec `yaml:"metrics" validate:"required,min=1,dive"`

	// Perturbations defines named input transformations referenced by
	// perturbed metric columns. Most documents leave this empty.
	Perturbations []PerturbationSpec `yaml:"perturbations" validate:"omitempty,dive"`

	// MetricGroups defines reusable column blocks that run groups pull in
	// by name.
	MetricGroups []MetricGroupSpec `yaml:"metric_groups" validate:"omitempty,dive"`

	// RunGroups defines the benchmark scenarios and their groupings.
	RunGroups []RunGroupSpec `yaml:"run_groups" validate:"omitempty,dive"`
}

// MetricSpec describes one metric definition as written in the document.
type MetricSpec struct {
	// Name is the unique key other sections reference. It must be a
	// snake_case identifier.
	Name string `yaml:"name" validate:"required,schemaname,max=120"`

	// DisplayName is the human-readable column heading.
	DisplayName string `yaml:"display_name" validate:"required,max=255"`

	// ShortDisplayName is a compact heading for dense tables.
	ShortDisplayName string `yaml:"short_display_name,omitempty" validate:"max=255"`

	// Description explains what the metric measures.
	Description string `yaml:"description" validate:"required,max=2000"`

	// LowerIsBetter inverts the ranking direction for this metric.
	LowerIsBetter bool `yaml:"lower_is_better,omitempty"`
}

// PerturbationSpec describes one perturbation definition.
type PerturbationSpec struct {
	// Name is the unique key perturbed metric references use.
	Name string `yaml:"name" validate:"required,schemaname,max=120"`

	// DisplayName is the human-readable label.
	DisplayName string `yaml:"display_name,omitempty" validate:"max=255"`

	// Description explains what the perturbation does to inputs.
	Description string `yaml:"description,omitempty" validate:"max=2000"`
}

// MetricRefSpec references a metric from inside a metric group. Each field
// may contain "${var}" placeholders resolved later against a run group's
// environment, so only placeholder syntax is checked here.
type MetricRefSpec struct {
	// Name is the referenced metric name, possibly templated.
	Name string `yaml:"name" validate:"required,templateexpr,max=255"`

	// Split restricts the reference to one dataset split, possibly
	// templated.
	Split string `yaml:"split,omitempty" validate:"omitempty,templateexpr,max=255"`

	// PerturbationName restricts the reference to results under one
	// perturbation, possibly templated.
	PerturbationName string `yaml:"perturbation_name,omitempty" validate:"omitempty,templateexpr,max=255"`
}

// MetricGroupSpec describes one metric group as written in the document.
// Only the name is mandatory; display fields fall back to the name when
// omitted.
type MetricGroupSpec struct {
	// Name is the unique key run groups reference.
	Name string `yaml:"name" validate:"required,schemaname,max=120"`

	// DisplayName is the human-readable block heading.
	DisplayName string `yaml:"display_name,omitempty" validate:"max=255"`

	// ShortDisplayName is a compact heading for dense tables.
	ShortDisplayName string `yaml:"short_display_name,omitempty" validate:"max=255"`

	// Description explains what the group covers.
	Description string `yaml:"description,omitempty" validate:"max=2000"`

	// AggregationStrategies lists how to aggregate each column's values.
	// Only the known strategy tags are accepted.
	AggregationStrategies []string `yaml:"aggregation_strategies,omitempty" validate:"omitempty,dive,oneof=mean win_rate"`

	// HideWinRates suppresses win-rate columns for this group.
	HideWinRates bool `yaml:"hide_win_rates,omitempty"`

	// Metrics lists the group's metric references in presentation order.
	Metrics []MetricRefSpec `yaml:"metrics,omitempty" validate:"omitempty,dive"`
}

// TaxonomySpec carries the descriptive fields attached to a run group.
// Values are display strings and are not machine-validated beyond shape.
type TaxonomySpec struct {
	// Task names the task category, e.g. "question answering".
	Task string `yaml:"task,omitempty" validate:"max=255"`

	// What describes the subject matter of the scenario.
	What string `yaml:"what,omitempty" validate:"max=500"`

	// Who describes the origin of the scenario's text.
	Who string `yaml:"who,omitempty" validate:"max=500"`

	// When describes the time period the text was produced.
	When string `yaml:"when,omitempty" validate:"max=255"`

	// Language names the natural language of the scenario.
	Language string `yaml:"language,omitempty" validate:"max=255"`
}

// RunGroupSpec describes one run group as written in the document. Only
// the name is mandatory.
type RunGroupSpec struct {
	// Name is the unique key subgroup references use.
	Name string `yaml:"name" validate:"required,schemaname,max=120"`

	// DisplayName is the human-readable heading.
	DisplayName string `yaml:"display_name,omitempty" validate:"max=255"`

	// ShortDisplayName is a compact heading for dense tables.
	ShortDisplayName string `yaml:"short_display_name,omitempty" validate:"max=255"`

	// Description explains what the run group covers.
	Description string `yaml:"description,omitempty" validate:"max=2000"`

	// Category groups related run groups in navigation.
	Category string `yaml:"category,omitempty" validate:"max=255"`

	// MetricGroups lists metric-group names shown for this run group.
	MetricGroups []string `yaml:"metric_groups,omitempty" validate:"omitempty,dive,schemaname"`

	// Subgroups lists child run-group names. The subgroup relation across
	// the document must stay acyclic.
	Subgroups []string `yaml:"subgroups,omitempty" validate:"omitempty,dive,schemaname"`

	// Environment binds template variables for this run group's metric
	// references. Keys must be valid template variable names.
	Environment map[string]string `yaml:"environment,omitempty" validate:"omitempty,dive,keys,templatevar,endkeys,max=255"`

	// Taxonomy carries descriptive fields for scenario browsing.
	Taxonomy *TaxonomySpec `yaml:"taxonomy,omitempty"`
}
