//go:build go1.18
// +build go1.18

package application

import (
	"context"
	"strings"
	"testing"
)

// FuzzSchemaLoaderLoad feeds random documents through the full load
// pipeline to uncover panics in parsing, validation, or the read
// operations of a successfully built schema.
func FuzzSchemaLoaderLoad(f *testing.F) {
	// Seed with valid and invalid documents to guide the fuzzer.
	testcases := []string{
		sampleSchemaYAML,

		// Invalid YAML syntax.
		`metrics: [`,

		// Missing required fields.
		`metrics:
  - name: only_name
`,

		// Wrong shapes.
		`metrics: true
run_groups: "nope"
`,

		// Unknown keys.
		`metricz: []
`,

		// Duplicate names.
		`metrics:
  - name: twice
    display_name: Twice
    description: Defined twice.
  - name: twice
    display_name: Twice again
    description: Defined twice.
`,

		// Cyclic subgroups.
		`metrics:
  - name: exact_match
    display_name: Exact match
    description: Fraction of instances answered exactly correctly.
run_groups:
  - name: a
    subgroups: [b]
  - name: b
    subgroups: [a]
`,

		// Placeholders and unicode display text.
		`metrics:
  - name: exact_match
    display_name: "تطابق تام"
    description: "نسبة الإجابات المطابقة تمامًا"
metric_groups:
  - name: accuracy
    metrics:
      - name: ${main_name}
        split: ${main_split}
`,
	}

	for _, tc := range testcases {
		f.Add(tc)
	}

	loader, err := NewSchemaLoader(nil)
	if err != nil {
		f.Fatal(err)
	}

	f.Fuzz(func(t *testing.T, yamlInput string) {
		reader := strings.NewReader(yamlInput)
		schema, err := loader.LoadFromReader(context.Background(), reader)

		// A schema that loads must survive its read operations. Resolution
		// errors are expected for unbound placeholders; only panics count.
		if err == nil && schema != nil {
			_ = schema.Roots()
			for _, rg := range schema.RunGroups() {
				_, _ = schema.Subgroups(rg.Name)
				_, _ = schema.Descendants(rg.Name)
				_, _ = schema.ResolveRunGroup(rg.Name)
			}
		}

		// Keep the cache from growing across iterations.
		loader.ClearCache()
	})
}
