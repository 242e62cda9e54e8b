package domain

import (
	"errors"
	"fmt"
)

// ResolvedMetricRef is a MetricRef after template resolution: every field
// is a literal, and the metric name has been dereferenced to its
// definition.
type ResolvedMetricRef struct {
	// Metric is the referenced metric definition.
	Metric Metric `json:"metric"`

	// Split is the resolved dataset split, empty when split-agnostic.
	Split string `json:"split,omitempty"`

	// PerturbationName is the resolved perturbation, empty for
	// unperturbed results.
	PerturbationName string `json:"perturbation_name,omitempty"`
}

// ResolvedMetricGroup is one metric group resolved against one run group's
// environment, ready for a report builder to turn into a column block.
type ResolvedMetricGroup struct {
	// RunGroup is the run group whose environment was used.
	RunGroup string `json:"run_group"`

	// Name is the metric group's name.
	Name string `json:"name"`

	// DisplayName is the metric group's preferred heading.
	DisplayName string `json:"display_name"`

	// AggregationStrategies lists how to aggregate each column's values.
	AggregationStrategies []AggregationStrategy `json:"aggregation_strategies,omitempty"`

	// HideWinRates suppresses win-rate columns for this block.
	HideWinRates bool `json:"hide_win_rates,omitempty"`

	// Entries lists the resolved metric references in presentation order.
	Entries []ResolvedMetricRef `json:"entries"`
}

// ResolveMetricGroup resolves the named metric group against the named run
// group's environment. Each reference's Name, Split, and PerturbationName
// have their "${var}" placeholders substituted from the run group's
// environment; the resolved metric name must then denote an existing
// metric, and a resolved non-empty perturbation name an existing
// perturbation.
//
// The metric group does not need to appear in the run group's metric_groups
// list; callers that want that restriction check it themselves.
//
// Fails with NotFoundError when either name is unknown,
// UnresolvedPlaceholderError when a placeholder has no binding, and
// DanglingReferenceError when a resolved reference has no target.
func (s *Schema) ResolveMetricGroup(runGroupName, metricGroupName string) (*ResolvedMetricGroup, error) {
	rg, err := s.RunGroup(runGroupName)
	if err != nil {
		return nil, err
	}
	mg, err := s.MetricGroup(metricGroupName)
	if err != nil {
		return nil, err
	}

	from := fmt.Sprintf("run_group %s, metric_group %s", rg.Name, mg.Name)
	resolved := &ResolvedMetricGroup{
		RunGroup:              rg.Name,
		Name:                  mg.Name,
		DisplayName:           mg.Label(),
		AggregationStrategies: append([]AggregationStrategy(nil), mg.AggregationStrategies...),
		HideWinRates:          mg.HideWinRates,
		Entries:               make([]ResolvedMetricRef, 0, len(mg.Metrics)),
	}

	for _, ref := range mg.Metrics {
		name, err := resolveField(ref.Name, rg.Environment, ref)
		if err != nil {
			return nil, err
		}
		split, err := resolveField(ref.Split, rg.Environment, ref)
		if err != nil {
			return nil, err
		}
		perturbation, err := resolveField(ref.PerturbationName, rg.Environment, ref)
		if err != nil {
			return nil, err
		}

		metric, err := s.Metric(name)
		if err != nil {
			return nil, NewDanglingReferenceError(KindMetric, from, name, s.metricNames())
		}
		if perturbation != "" {
			if _, err := s.Perturbation(perturbation); err != nil {
				return nil, NewDanglingReferenceError(KindPerturbation, from, perturbation, s.perturbationNames())
			}
		}

		resolved.Entries = append(resolved.Entries, ResolvedMetricRef{
			Metric:           metric,
			Split:            split,
			PerturbationName: perturbation,
		})
	}
	return resolved, nil
}

// ResolveRunGroup resolves every metric group the named run group lists, in
// order. It is the eager counterpart of ResolveMetricGroup, used to
// preflight a whole leaderboard page before report generation.
func (s *Schema) ResolveRunGroup(runGroupName string) ([]*ResolvedMetricGroup, error) {
	rg, err := s.RunGroup(runGroupName)
	if err != nil {
		return nil, err
	}
	groups := make([]*ResolvedMetricGroup, 0, len(rg.MetricGroups))
	for _, mgName := range rg.MetricGroups {
		resolved, err := s.ResolveMetricGroup(rg.Name, mgName)
		if err != nil {
			return nil, err
		}
		groups = append(groups, resolved)
	}
	return groups, nil
}

// resolveField resolves one templatable reference field, attaching the full
// reference as context when a placeholder is unbound.
func resolveField(raw string, env Environment, ref MetricRef) (string, error) {
	if raw == "" {
		return "", nil
	}
	value, err := ResolveString(raw, env)
	if err != nil {
		var unresolved *UnresolvedPlaceholderError
		if errors.As(err, &unresolved) {
			return "", NewUnresolvedPlaceholderError(unresolved.Variable, ref.String())
		}
		return "", err
	}
	return value, nil
}
