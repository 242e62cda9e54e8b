// Package domain defines the presentation-schema model for benchmark
// leaderboards: metric definitions, metric groupings, run-group taxonomies,
// and the template resolution that ties them together. A Schema is built
// once by the loader, is immutable afterward, and may be shared freely
// across goroutines for the duration of a reporting run.
package domain

import (
	"fmt"
	"strings"
)

// Kind identifies which top-level section a schema entity belongs to.
type Kind string

const (
	// KindMetric identifies entries of the "metrics" section.
	KindMetric Kind = "metric"

	// KindPerturbation identifies entries of the "perturbations" section.
	KindPerturbation Kind = "perturbation"

	// KindMetricGroup identifies entries of the "metric_groups" section.
	KindMetricGroup Kind = "metric_group"

	// KindRunGroup identifies entries of the "run_groups" section.
	KindRunGroup Kind = "run_group"
)

// Section returns the document section name for the kind,
// e.g. KindMetric.Section() == "metrics".
func (k Kind) Section() string { return string(k) + "s" }

// Entity is implemented by every named schema entity, allowing
// kind-dispatched lookup without reflection.
type Entity interface {
	// Key returns the entity's unique name within its section.
	Key() string

	// Kind reports which section the entity belongs to.
	Kind() Kind
}

// AggregationStrategy names a way to aggregate per-run metric values into a
// single leaderboard cell.
type AggregationStrategy string

const (
	// StrategyMean averages values across runs.
	StrategyMean AggregationStrategy = "mean"

	// StrategyWinRate reports the fraction of head-to-head comparisons won.
	StrategyWinRate AggregationStrategy = "win_rate"
)

// Metric defines a single measurable quantity and how to present it.
type Metric struct {
	// Name uniquely identifies this metric within the schema.
	Name string `json:"name"`

	// DisplayName is the human-readable column heading.
	DisplayName string `json:"display_name"`

	// ShortDisplayName is a compact heading for dense tables.
	ShortDisplayName string `json:"short_display_name,omitempty"`

	// Description explains what the metric measures.
	Description string `json:"description"`

	// LowerIsBetter inverts the ranking direction. Defaults to false,
	// meaning higher values rank higher.
	LowerIsBetter bool `json:"lower_is_better,omitempty"`
}

// Key returns the metric's unique name.
func (m Metric) Key() string { return m.Name }

// Kind reports KindMetric.
func (m Metric) Kind() Kind { return KindMetric }

// Label returns the preferred heading for this metric: the short display
// name when set, otherwise the display name, otherwise the raw name.
func (m Metric) Label() string {
	if m.ShortDisplayName != "" {
		return m.ShortDisplayName
	}
	if m.DisplayName != "" {
		return m.DisplayName
	}
	return m.Name
}

// Perturbation defines a named input transformation whose effect on metrics
// a leaderboard may report alongside unperturbed results.
type Perturbation struct {
	// Name uniquely identifies this perturbation within the schema.
	Name string `json:"name"`

	// DisplayName is the human-readable label.
	DisplayName string `json:"display_name,omitempty"`

	// Description explains what the perturbation does to inputs.
	Description string `json:"description,omitempty"`
}

// Key returns the perturbation's unique name.
func (p Perturbation) Key() string { return p.Name }

// Kind reports KindPerturbation.
func (p Perturbation) Kind() Kind { return KindPerturbation }

// MetricRef references a metric from inside a metric group. Name, Split,
// and PerturbationName may contain "${var}" placeholders that are resolved
// against a run group's environment.
type MetricRef struct {
	// Name is the referenced metric name, possibly templated.
	Name string `json:"name"`

	// Split restricts the reference to one dataset split, possibly
	// templated. Empty means the reference is split-agnostic.
	Split string `json:"split,omitempty"`

	// PerturbationName restricts the reference to results under one
	// perturbation, possibly templated. Empty means unperturbed results.
	PerturbationName string `json:"perturbation_name,omitempty"`
}

// String renders the reference for diagnostics,
// e.g. `${main_name} (split ${main_split})`.
func (r MetricRef) String() string {
	var b strings.Builder
	b.WriteString(r.Name)
	if r.Split != "" {
		fmt.Fprintf(&b, " (split %s)", r.Split)
	}
	if r.PerturbationName != "" {
		fmt.Fprintf(&b, " (perturbation %s)", r.PerturbationName)
	}
	return b.String()
}

// Templated reports whether any field of the reference contains a
// placeholder and therefore needs an environment to resolve.
func (r MetricRef) Templated() bool {
	return HasPlaceholders(r.Name) || HasPlaceholders(r.Split) || HasPlaceholders(r.PerturbationName)
}

// MetricGroup is an ordered collection of metric references presented as
// one block of leaderboard columns.
type MetricGroup struct {
	// Name uniquely identifies this group within the schema.
	Name string `json:"name"`

	// DisplayName is the human-readable block heading.
	DisplayName string `json:"display_name,omitempty"`

	// ShortDisplayName is a compact heading for dense tables.
	ShortDisplayName string `json:"short_display_name,omitempty"`

	// Description explains what the group covers.
	Description string `json:"description,omitempty"`

	// AggregationStrategies lists how to aggregate each metric's values,
	// in presentation order.
	AggregationStrategies []AggregationStrategy `json:"aggregation_strategies,omitempty"`

	// HideWinRates suppresses win-rate columns for this group even when a
	// win-rate strategy is in effect.
	HideWinRates bool `json:"hide_win_rates,omitempty"`

	// Metrics lists the group's metric references in presentation order.
	Metrics []MetricRef `json:"metrics,omitempty"`
}

// Key returns the group's unique name.
func (g MetricGroup) Key() string { return g.Name }

// Kind reports KindMetricGroup.
func (g MetricGroup) Kind() Kind { return KindMetricGroup }

// Label returns the preferred heading for this group, falling back to the
// raw name when no display name is set.
func (g MetricGroup) Label() string {
	if g.ShortDisplayName != "" {
		return g.ShortDisplayName
	}
	if g.DisplayName != "" {
		return g.DisplayName
	}
	return g.Name
}

// Taxonomy carries free-form descriptive fields attached to a run group.
// Values are display strings; only presence is machine-checked.
type Taxonomy struct {
	// Task names the task category, e.g. "question answering".
	Task string `json:"task,omitempty"`

	// What describes the subject matter of the scenario.
	What string `json:"what,omitempty"`

	// Who describes the origin of the scenario's text.
	Who string `json:"who,omitempty"`

	// When describes the time period the text was produced.
	When string `json:"when,omitempty"`

	// Language names the natural language of the scenario.
	Language string `json:"language,omitempty"`
}

// Environment maps template-variable names to values, scoped to one run
// group. It resolves "${var}" placeholders in that group's metric
// references.
type Environment map[string]string

// RunGroup is a benchmark scenario or a named collection of scenarios. A
// run group with subgroups aggregates its children on the leaderboard; a
// leaf run group carries the environment its metric references resolve
// against.
type RunGroup struct {
	// Name uniquely identifies this run group within the schema.
	Name string `json:"name"`

	// DisplayName is the human-readable heading.
	DisplayName string `json:"display_name,omitempty"`

	// ShortDisplayName is a compact heading for dense tables.
	ShortDisplayName string `json:"short_display_name,omitempty"`

	// Description explains what the run group covers.
	Description string `json:"description,omitempty"`

	// Category groups related run groups in navigation, e.g. "Scenarios".
	Category string `json:"category,omitempty"`

	// MetricGroups lists the metric groups shown for this run group, in
	// presentation order.
	MetricGroups []string `json:"metric_groups,omitempty"`

	// Subgroups lists child run-group names, in presentation order. The
	// subgroup relation across the whole schema must stay acyclic.
	Subgroups []string `json:"subgroups,omitempty"`

	// Environment binds template variables for this run group's metric
	// references.
	Environment Environment `json:"environment,omitempty"`

	// Taxonomy carries descriptive fields for scenario browsing.
	Taxonomy *Taxonomy `json:"taxonomy,omitempty"`
}

// Key returns the run group's unique name.
func (g RunGroup) Key() string { return g.Name }

// Kind reports KindRunGroup.
func (g RunGroup) Kind() Kind { return KindRunGroup }

// Label returns the preferred heading for this run group, falling back to
// the raw name when no display name is set.
func (g RunGroup) Label() string {
	if g.ShortDisplayName != "" {
		return g.ShortDisplayName
	}
	if g.DisplayName != "" {
		return g.DisplayName
	}
	return g.Name
}

// Schema is the validated, cross-referenced model of one presentation
// document. It is immutable after construction; accessors return copies,
// and entities obtained from it must be treated as read-only.
type Schema struct {
	metrics       []Metric
	perturbations []Perturbation
	metricGroups  []MetricGroup
	runGroups     []RunGroup

	metricIndex       map[string]int
	perturbationIndex map[string]int
	metricGroupIndex  map[string]int
	runGroupIndex     map[string]int

	// referenced marks run groups that appear as someone's subgroup,
	// leaving the rest as roots.
	referenced map[string]bool
}

// NewSchema builds a Schema from the four sections, preserving document
// order. It enforces name uniqueness per section and returns a
// DuplicateNameError on the first collision; referential and cycle
// invariants are the loader's responsibility.
func NewSchema(metrics []Metric, perturbations []Perturbation, metricGroups []MetricGroup, runGroups []RunGroup) (*Schema, error) {
	s := &Schema{
		metrics:           append([]Metric(nil), metrics...),
		perturbations:     append([]Perturbation(nil), perturbations...),
		metricGroups:      append([]MetricGroup(nil), metricGroups...),
		runGroups:         append([]RunGroup(nil), runGroups...),
		metricIndex:       make(map[string]int, len(metrics)),
		perturbationIndex: make(map[string]int, len(perturbations)),
		metricGroupIndex:  make(map[string]int, len(metricGroups)),
		runGroupIndex:     make(map[string]int, len(runGroups)),
		referenced:        make(map[string]bool),
	}

	for i, m := range s.metrics {
		if _, ok := s.metricIndex[m.Name]; ok {
			return nil, NewDuplicateNameError(KindMetric.Section(), m.Name)
		}
		s.metricIndex[m.Name] = i
	}
	for i, p := range s.perturbations {
		if _, ok := s.perturbationIndex[p.Name]; ok {
			return nil, NewDuplicateNameError(KindPerturbation.Section(), p.Name)
		}
		s.perturbationIndex[p.Name] = i
	}
	for i, g := range s.metricGroups {
		if _, ok := s.metricGroupIndex[g.Name]; ok {
			return nil, NewDuplicateNameError(KindMetricGroup.Section(), g.Name)
		}
		s.metricGroupIndex[g.Name] = i
	}
	for i, g := range s.runGroups {
		if _, ok := s.runGroupIndex[g.Name]; ok {
			return nil, NewDuplicateNameError(KindRunGroup.Section(), g.Name)
		}
		s.runGroupIndex[g.Name] = i
	}

	for _, g := range s.runGroups {
		for _, sub := range g.Subgroups {
			s.referenced[sub] = true
		}
	}
	return s, nil
}

// Metric returns the metric with the given name.
func (s *Schema) Metric(name string) (Metric, error) {
	i, ok := s.metricIndex[name]
	if !ok {
		return Metric{}, NewNotFoundError(KindMetric, name, s.metricNames())
	}
	return s.metrics[i], nil
}

// Perturbation returns the perturbation with the given name.
func (s *Schema) Perturbation(name string) (Perturbation, error) {
	i, ok := s.perturbationIndex[name]
	if !ok {
		return Perturbation{}, NewNotFoundError(KindPerturbation, name, s.perturbationNames())
	}
	return s.perturbations[i], nil
}

// MetricGroup returns the metric group with the given name.
func (s *Schema) MetricGroup(name string) (MetricGroup, error) {
	i, ok := s.metricGroupIndex[name]
	if !ok {
		return MetricGroup{}, NewNotFoundError(KindMetricGroup, name, s.metricGroupNames())
	}
	return s.metricGroups[i], nil
}

// RunGroup returns the run group with the given name.
func (s *Schema) RunGroup(name string) (RunGroup, error) {
	i, ok := s.runGroupIndex[name]
	if !ok {
		return RunGroup{}, NewNotFoundError(KindRunGroup, name, s.runGroupNames())
	}
	return s.runGroups[i], nil
}

// Lookup returns the entity of the given kind and name.
func (s *Schema) Lookup(kind Kind, name string) (Entity, error) {
	switch kind {
	case KindMetric:
		return s.Metric(name)
	case KindPerturbation:
		return s.Perturbation(name)
	case KindMetricGroup:
		return s.MetricGroup(name)
	case KindRunGroup:
		return s.RunGroup(name)
	default:
		return nil, fmt.Errorf("unknown entity kind %q", kind)
	}
}

// Metrics returns all metrics in document order.
func (s *Schema) Metrics() []Metric {
	return append([]Metric(nil), s.metrics...)
}

// Perturbations returns all perturbations in document order.
func (s *Schema) Perturbations() []Perturbation {
	return append([]Perturbation(nil), s.perturbations...)
}

// MetricGroups returns all metric groups in document order.
func (s *Schema) MetricGroups() []MetricGroup {
	return append([]MetricGroup(nil), s.metricGroups...)
}

// RunGroups returns all run groups in document order.
func (s *Schema) RunGroups() []RunGroup {
	return append([]RunGroup(nil), s.runGroups...)
}

// Roots returns the run groups that no other run group lists as a
// subgroup, in document order. These are the top-level leaderboard pages.
func (s *Schema) Roots() []RunGroup {
	var roots []RunGroup
	for _, g := range s.runGroups {
		if !s.referenced[g.Name] {
			roots = append(roots, g)
		}
	}
	return roots
}

// Subgroups returns the direct children of the named run group, in the
// order the group lists them.
func (s *Schema) Subgroups(name string) ([]RunGroup, error) {
	g, err := s.RunGroup(name)
	if err != nil {
		return nil, err
	}
	children := make([]RunGroup, 0, len(g.Subgroups))
	for _, sub := range g.Subgroups {
		child, err := s.RunGroup(sub)
		if err != nil {
			return nil, err
		}
		children = append(children, child)
	}
	return children, nil
}

// Descendants returns the named run group and every run group reachable
// through subgroup references, in pre-order. Groups reachable along more
// than one path appear once, at their first visit.
func (s *Schema) Descendants(name string) ([]RunGroup, error) {
	root, err := s.RunGroup(name)
	if err != nil {
		return nil, err
	}
	seen := map[string]bool{root.Name: true}
	out := []RunGroup{root}

	var walk func(g RunGroup) error
	walk = func(g RunGroup) error {
		for _, sub := range g.Subgroups {
			if seen[sub] {
				continue
			}
			child, err := s.RunGroup(sub)
			if err != nil {
				return err
			}
			seen[sub] = true
			out = append(out, child)
			if err := walk(child); err != nil {
				return err
			}
		}
		return nil
	}
	if err := walk(root); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Schema) metricNames() []string {
	names := make([]string, len(s.metrics))
	for i, m := range s.metrics {
		names[i] = m.Name
	}
	return names
}

func (s *Schema) perturbationNames() []string {
	names := make([]string, len(s.perturbations))
	for i, p := range s.perturbations {
		names[i] = p.Name
	}
	return names
}

func (s *Schema) metricGroupNames() []string {
	names := make([]string, len(s.metricGroups))
	for i, g := range s.metricGroups {
		names[i] = g.Name
	}
	return names
}

func (s *Schema) runGroupNames() []string {
	names := make([]string, len(s.runGroups))
	for i, g := range s.runGroups {
		names[i] = g.Name
	}
	return names
}
