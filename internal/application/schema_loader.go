package application

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/singleflight"
	"gopkg.in/yaml.v3"

	"github.com/mizan-eval/mizan/internal/domain"
	"github.com/mizan-eval/mizan/internal/ports"
)

// SchemaLoader parses, validates, and caches presentation-schema documents,
// transforming declarative YAML into immutable domain.Schema values.
// Use SchemaLoader to load schemas from files, readers, or raw bytes while
// benefiting from SHA256-based caching and full referential validation.
type SchemaLoader struct {
	// validator performs struct field validation and the custom rules for
	// schema documents (snake_case names, placeholder syntax).
	validator *validator.Validate
	// metrics receives load counters, latencies, and cache statistics.
	// A nil collector disables recording.
	metrics ports.MetricsCollector
	// tracer emits spans around load and validation.
	tracer trace.Tracer
	// cache stores validated schemas indexed by SHA256 hash of the
	// normalized source so identical documents validate once.
	// Cached schemas are immutable and safe to share.
	cache map[string]*domain.Schema
	// cacheMu provides thread-safe access to the cache map.
	cacheMu sync.RWMutex
	// sf prevents duplicate validation when multiple goroutines request
	// the same document simultaneously.
	sf singleflight.Group
}

// Compile-time checks that SchemaLoader satisfies its ports.
var (
	_ ports.SchemaLoader = (*SchemaLoader)(nil)
)

// NewSchemaLoader creates a schema loader with an empty cache, ready to
// load documents. The metrics collector may be nil, which disables metric
// recording.
// NewSchemaLoader returns an error if custom validator registration fails.
func NewSchemaLoader(metrics ports.MetricsCollector) (*SchemaLoader, error) {
	v := validator.New()
	if err := registerSchemaValidators(v); err != nil {
		return nil, fmt.Errorf("failed to register validators: %w", err)
	}

	return &SchemaLoader{
		validator: v,
		metrics:   metrics,
		tracer:    otel.Tracer("schema-loader"),
		cache:     make(map[string]*domain.Schema),
	}, nil
}

// Parse decodes raw bytes into a Document and checks its shape.
// Decoding is strict: unknown keys are rejected so typos surface instead
// of being silently dropped.
// Parse fails with a ParseError for malformed YAML and a SchemaError for a
// well-formed document whose fields are missing or misshapen; referential
// checks are left to Validate.
func (sl *SchemaLoader) Parse(data []byte) (*Document, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, domain.NewParseError(domain.ErrEmptyDocument)
	}

	var doc Document
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Strict mode - fail on unknown fields.

	if err := decoder.Decode(&doc); err != nil {
		// A TypeError means the document decoded but a field has the
		// wrong structure, e.g. a scalar where a sequence belongs. That
		// is a shape violation, not a syntax one.
		var typeErr *yaml.TypeError
		if errors.As(err, &typeErr) {
			return nil, domain.NewSchemaError("document", "", "", strings.Join(typeErr.Errors, "; "))
		}
		return nil, domain.NewParseError(err)
	}

	if err := sl.validator.Struct(&doc); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return nil, schemaErrorFromValidation(&doc, verrs)
		}
		return nil, fmt.Errorf("struct validation failed: %w", err)
	}

	return &doc, nil
}

// Validate checks the cross-section invariants of a parsed document and
// builds the immutable schema: names unique per section, untemplated
// metric references resolvable, run-group references intact, and the
// subgroup graph acyclic.
// The first violation is returned as a DuplicateNameError,
// DanglingReferenceError, or CyclicSubgroupError; nothing partial is
// produced.
func (sl *SchemaLoader) Validate(ctx context.Context, doc *Document) (*domain.Schema, error) {
	_, span := sl.tracer.Start(ctx, "SchemaLoader.Validate")
	defer span.End()

	if doc == nil {
		err := fmt.Errorf("document cannot be nil")
		span.RecordError(err)
		return nil, err
	}

	span.SetAttributes(
		attribute.Int("schema.metrics", len(doc.Metrics)),
		attribute.Int("schema.perturbations", len(doc.Perturbations)),
		attribute.Int("schema.metric_groups", len(doc.MetricGroups)),
		attribute.Int("schema.run_groups", len(doc.RunGroups)),
	)

	// NewSchema enforces per-section name uniqueness while building the
	// lookup indexes the reference checks need.
	schema, err := buildSchema(doc)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	if err := validateReferences(doc, schema); err != nil {
		span.RecordError(err)
		return nil, err
	}

	if cycle := newSubgroupGraph(doc.RunGroups).findCycle(); cycle != nil {
		err := domain.NewCyclicSubgroupError(cycle)
		span.RecordError(err)
		return nil, err
	}

	return schema, nil
}

// Load runs the full pipeline on raw bytes: parse, validate, and cache.
// Documents are cached by SHA256 hash of their normalized re-encoding, so
// formatting differences do not defeat the cache, and singleflight
// collapses concurrent loads of the same document into one validation.
// The returned schema is immutable and shared; callers must treat it as
// read-only.
func (sl *SchemaLoader) Load(ctx context.Context, data []byte) (*domain.Schema, error) {
	ctx, span := sl.tracer.Start(ctx, "SchemaLoader.Load",
		trace.WithAttributes(attribute.Int("document.bytes", len(data))),
	)
	defer span.End()

	start := time.Now()

	doc, err := sl.Parse(data)
	if err != nil {
		span.RecordError(err)
		sl.recordLoad("parse_error", len(data), time.Since(start))
		return nil, err
	}

	hash, err := sl.documentHash(doc)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	if schema, ok := sl.getCachedSchema(hash); ok {
		span.SetAttributes(attribute.Bool("cache.hit", true))
		sl.recordCacheHit()
		sl.recordLoad("success", len(data), time.Since(start))
		return schema, nil
	}
	span.SetAttributes(attribute.Bool("cache.hit", false))

	v, err, _ := sl.sf.Do(hash, func() (any, error) {
		// Re-check inside singleflight to handle the race between the
		// cache probe and group execution.
		if schema, ok := sl.getCachedSchema(hash); ok {
			return schema, nil
		}

		schema, err := sl.Validate(ctx, doc)
		if err != nil {
			return nil, err
		}

		sl.cacheSchema(hash, schema)
		return schema, nil
	})
	if err != nil {
		span.RecordError(err)
		sl.recordLoad("validation_error", len(data), time.Since(start))
		return nil, err
	}

	sl.recordLoad("success", len(data), time.Since(start))
	return v.(*domain.Schema), nil
}

// LoadFromFile loads and validates a schema document from a YAML file.
// See Load for caching and sharing semantics.
func (sl *SchemaLoader) LoadFromFile(ctx context.Context, path string) (*domain.Schema, error) {
	cleanPath := filepath.Clean(path)

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	return sl.Load(ctx, data)
}

// LoadFromReader loads and validates a schema document from any reader.
// The reader is drained into memory first; see Load for caching and
// sharing semantics.
func (sl *SchemaLoader) LoadFromReader(ctx context.Context, r io.Reader) (*domain.Schema, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read data: %w", err)
	}

	return sl.Load(ctx, data)
}

// Encode renders a document as normalized YAML: two-space indentation,
// struct field order, optional fields omitted when zero. Load hashes this
// form for the cache; it also serves tooling that re-emits documents.
func (sl *SchemaLoader) Encode(doc *Document) ([]byte, error) {
	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2) // Use consistent 2-space indentation.

	if err := encoder.Encode(doc); err != nil {
		return nil, fmt.Errorf("failed to encode document: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize encoding: %w", err)
	}
	return buf.Bytes(), nil
}

// ClearCache removes all cached schemas, forcing subsequent loads to
// revalidate from source. It is safe for concurrent use.
func (sl *SchemaLoader) ClearCache() {
	sl.cacheMu.Lock()
	sl.cache = make(map[string]*domain.Schema)
	sl.cacheMu.Unlock()

	if sl.metrics != nil {
		sl.metrics.RecordGauge("schema_cache_entries", 0, nil)
	}
}

// documentHash computes the SHA256 hash of a document's normalized
// encoding, so semantically identical documents share a cache slot
// regardless of whitespace or key-order differences in the source.
func (sl *SchemaLoader) documentHash(doc *Document) (string, error) {
	normalized, err := sl.Encode(doc)
	if err != nil {
		return "", fmt.Errorf("failed to encode document for hashing: %w", err)
	}
	hash := sha256.Sum256(normalized)
	return hex.EncodeToString(hash[:]), nil
}

// getCachedSchema retrieves a previously validated schema by hash.
// It is safe for concurrent use.
func (sl *SchemaLoader) getCachedSchema(hash string) (*domain.Schema, bool) {
	sl.cacheMu.RLock()
	defer sl.cacheMu.RUnlock()

	schema, ok := sl.cache[hash]
	return schema, ok
}

// cacheSchema stores a validated schema under its source hash.
// It is safe for concurrent use.
func (sl *SchemaLoader) cacheSchema(hash string, schema *domain.Schema) {
	sl.cacheMu.Lock()
	sl.cache[hash] = schema
	entries := len(sl.cache)
	sl.cacheMu.Unlock()

	if sl.metrics != nil {
		sl.metrics.RecordGauge("schema_cache_entries", float64(entries), nil)
	}
}

// recordLoad reports one load attempt to the metrics collector.
func (sl *SchemaLoader) recordLoad(status string, size int, elapsed time.Duration) {
	if sl.metrics == nil {
		return
	}
	labels := map[string]string{"status": status}
	sl.metrics.RecordCounter("schema_loads_total", 1, labels)
	sl.metrics.RecordLatency("schema_load", elapsed, labels)
	sl.metrics.RecordHistogram("schema_document_bytes", float64(size), nil)
}

// recordCacheHit reports one cache hit to the metrics collector.
func (sl *SchemaLoader) recordCacheHit() {
	if sl.metrics == nil {
		return
	}
	sl.metrics.RecordCounter("schema_cache_hits_total", 1, nil)
}

// buildSchema converts a shape-valid document into the immutable domain
// model. Slices and maps are copied so later caller mutation of the
// document cannot reach the schema.
func buildSchema(doc *Document) (*domain.Schema, error) {
	metrics := make([]domain.Metric, 0, len(doc.Metrics))
	for _, spec := range doc.Metrics {
		metrics = append(metrics, domain.Metric{
			Name:             spec.Name,
			DisplayName:      spec.DisplayName,
			ShortDisplayName: spec.ShortDisplayName,
			Description:      spec.Description,
			LowerIsBetter:    spec.LowerIsBetter,
		})
	}

	perturbations := make([]domain.Perturbation, 0, len(doc.Perturbations))
	for _, spec := range doc.Perturbations {
		perturbations = append(perturbations, domain.Perturbation{
			Name:        spec.Name,
			DisplayName: spec.DisplayName,
			Description: spec.Description,
		})
	}

	metricGroups := make([]domain.MetricGroup, 0, len(doc.MetricGroups))
	for _, spec := range doc.MetricGroups {
		strategies := make([]domain.AggregationStrategy, 0, len(spec.AggregationStrategies))
		for _, s := range spec.AggregationStrategies {
			strategies = append(strategies, domain.AggregationStrategy(s))
		}
		refs := make([]domain.MetricRef, 0, len(spec.Metrics))
		for _, ref := range spec.Metrics {
			refs = append(refs, domain.MetricRef{
				Name:             ref.Name,
				Split:            ref.Split,
				PerturbationName: ref.PerturbationName,
			})
		}
		metricGroups = append(metricGroups, domain.MetricGroup{
			Name:                  spec.Name,
			DisplayName:           spec.DisplayName,
			ShortDisplayName:      spec.ShortDisplayName,
			Description:           spec.Description,
			AggregationStrategies: strategies,
			HideWinRates:          spec.HideWinRates,
			Metrics:               refs,
		})
	}

	runGroups := make([]domain.RunGroup, 0, len(doc.RunGroups))
	for _, spec := range doc.RunGroups {
		group := domain.RunGroup{
			Name:             spec.Name,
			DisplayName:      spec.DisplayName,
			ShortDisplayName: spec.ShortDisplayName,
			Description:      spec.Description,
			Category:         spec.Category,
			MetricGroups:     append([]string(nil), spec.MetricGroups...),
			Subgroups:        append([]string(nil), spec.Subgroups...),
		}
		if spec.Environment != nil {
			group.Environment = domain.Environment(maps.Clone(spec.Environment))
		}
		if spec.Taxonomy != nil {
			group.Taxonomy = &domain.Taxonomy{
				Task:     spec.Taxonomy.Task,
				What:     spec.Taxonomy.What,
				Who:      spec.Taxonomy.Who,
				When:     spec.Taxonomy.When,
				Language: spec.Taxonomy.Language,
			}
		}
		runGroups = append(runGroups, group)
	}

	return domain.NewSchema(metrics, perturbations, metricGroups, runGroups)
}

// validateReferences checks every cross-section reference that can be
// checked without an environment: untemplated metric and perturbation
// references inside metric groups, and the metric-group and subgroup
// references of every run group. Templated references are checked at
// resolution time, once an environment gives them a concrete value.
func validateReferences(doc *Document, schema *domain.Schema) error {
	metricNames := names(schema.Metrics(), domain.Metric.Key)
	perturbationNames := names(schema.Perturbations(), domain.Perturbation.Key)
	metricGroupNames := names(schema.MetricGroups(), domain.MetricGroup.Key)
	runGroupNames := names(schema.RunGroups(), domain.RunGroup.Key)

	for _, group := range doc.MetricGroups {
		for i, ref := range group.Metrics {
			from := fmt.Sprintf("metric_group %s, entry %d", group.Name, i)
			if !domain.HasPlaceholders(ref.Name) {
				if _, err := schema.Metric(ref.Name); err != nil {
					return domain.NewDanglingReferenceError(domain.KindMetric, from, ref.Name, metricNames)
				}
			}
			if ref.PerturbationName != "" && !domain.HasPlaceholders(ref.PerturbationName) {
				if _, err := schema.Perturbation(ref.PerturbationName); err != nil {
					return domain.NewDanglingReferenceError(domain.KindPerturbation, from, ref.PerturbationName, perturbationNames)
				}
			}
		}
	}

	for _, group := range doc.RunGroups {
		from := fmt.Sprintf("run_group %s", group.Name)
		for _, mg := range group.MetricGroups {
			if _, err := schema.MetricGroup(mg); err != nil {
				return domain.NewDanglingReferenceError(domain.KindMetricGroup, from, mg, metricGroupNames)
			}
		}
		for _, sub := range group.Subgroups {
			if _, err := schema.RunGroup(sub); err != nil {
				return domain.NewDanglingReferenceError(domain.KindRunGroup, from, sub, runGroupNames)
			}
		}
	}

	return nil
}

// names projects a slice of entities onto their keys.
func names[T any](entities []T, key func(T) string) []string {
	out := make([]string, len(entities))
	for i, e := range entities {
		out[i] = key(e)
	}
	return out
}
