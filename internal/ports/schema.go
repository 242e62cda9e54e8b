// Package ports defines the boundary interfaces between the schema
// toolkit's application core and its consumers: loading on one side,
// read-only schema access on the other.
package ports

import (
	"context"
	"io"

	"github.com/mizan-eval/mizan/internal/domain"
)

// SchemaLoader loads presentation-schema documents from raw sources and
// produces validated, immutable schemas. Implementations cache validated
// schemas and must be safe for concurrent use.
type SchemaLoader interface {
	// Load parses, validates, and caches a schema from raw bytes.
	// The returned schema is shared and must be treated as read-only.
	Load(ctx context.Context, data []byte) (*domain.Schema, error)

	// LoadFromFile loads a schema from a YAML file on disk.
	LoadFromFile(ctx context.Context, path string) (*domain.Schema, error)

	// LoadFromReader loads a schema from any reader, draining it fully.
	LoadFromReader(ctx context.Context, r io.Reader) (*domain.Schema, error)

	// ClearCache drops all cached schemas, forcing revalidation.
	ClearCache()
}

// SchemaReader is the read-only view a reporting collaborator needs:
// lookup by name or kind, document-order iteration, run-group tree walks,
// and environment resolution. domain.Schema is the canonical
// implementation.
type SchemaReader interface {
	// Metric returns the metric with the given name.
	Metric(name string) (domain.Metric, error)

	// Perturbation returns the perturbation with the given name.
	Perturbation(name string) (domain.Perturbation, error)

	// MetricGroup returns the metric group with the given name.
	MetricGroup(name string) (domain.MetricGroup, error)

	// RunGroup returns the run group with the given name.
	RunGroup(name string) (domain.RunGroup, error)

	// Lookup returns the entity of the given kind and name.
	Lookup(kind domain.Kind, name string) (domain.Entity, error)

	// Metrics returns all metrics in document order.
	Metrics() []domain.Metric

	// Perturbations returns all perturbations in document order.
	Perturbations() []domain.Perturbation

	// MetricGroups returns all metric groups in document order.
	MetricGroups() []domain.MetricGroup

	// RunGroups returns all run groups in document order.
	RunGroups() []domain.RunGroup

	// Roots returns the run groups no other run group lists as a
	// subgroup.
	Roots() []domain.RunGroup

	// Subgroups returns the direct children of the named run group.
	Subgroups(name string) ([]domain.RunGroup, error)

	// Descendants returns the named run group and everything reachable
	// below it, in pre-order.
	Descendants(name string) ([]domain.RunGroup, error)

	// ResolveMetricGroup resolves one metric group against one run
	// group's environment.
	ResolveMetricGroup(runGroupName, metricGroupName string) (*domain.ResolvedMetricGroup, error)

	// ResolveRunGroup resolves every metric group the named run group
	// lists.
	ResolveRunGroup(runGroupName string) ([]*domain.ResolvedMetricGroup, error)
}

// domain.Schema is the canonical SchemaReader.
var _ SchemaReader = (*domain.Schema)(nil)
