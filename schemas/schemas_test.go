package schemas

import (
	"context"
	"errors"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mizan-eval/mizan/internal/application"
	"github.com/mizan-eval/mizan/internal/domain"
)

func TestEmbeddedDocuments(t *testing.T) {
	assert.Contains(t, Names(), ArabicFile, "the Arabic schema should be embedded")
	assert.NotEmpty(t, Arabic(), "the Arabic schema should have content")

	data, err := Read(ArabicFile)
	require.NoError(t, err)
	assert.Equal(t, Arabic(), data, "Read should return the same bytes as Arabic")

	_, err = Read("missing.yaml")
	require.Error(t, err, "unknown names should fail")
	assert.True(t, errors.Is(err, fs.ErrNotExist), "unknown names should wrap fs.ErrNotExist")
}

// loadArabic loads the embedded Arabic schema through the full pipeline.
func loadArabic(t *testing.T) *domain.Schema {
	t.Helper()

	loader, err := application.NewSchemaLoader(nil)
	require.NoError(t, err, "loader construction should succeed")

	schema, err := loader.Load(context.Background(), Arabic())
	require.NoError(t, err, "the embedded Arabic schema must load cleanly")
	return schema
}

func TestArabicSchemaStructure(t *testing.T) {
	schema := loadArabic(t)

	groupNames := make([]string, 0)
	for _, group := range schema.MetricGroups() {
		groupNames = append(groupNames, group.Name)
	}
	assert.Equal(t, []string{"accuracy", "efficiency", "general_information"}, groupNames,
		"metric group inventory mismatch")

	runGroupNames := make([]string, 0)
	for _, group := range schema.RunGroups() {
		runGroupNames = append(runGroupNames, group.Name)
	}
	assert.Equal(t,
		[]string{"arabic_scenarios", "mmmlu", "arabic_mmlu", "alghafa", "exams_multilingual", "aratrust"},
		runGroupNames, "run group inventory mismatch")

	parent, err := schema.RunGroup("arabic_scenarios")
	require.NoError(t, err)
	assert.Equal(t,
		[]string{"mmmlu", "arabic_mmlu", "alghafa", "exams_multilingual", "aratrust"},
		parent.Subgroups, "arabic_scenarios should list every leaf scenario")

	roots := schema.Roots()
	require.Len(t, roots, 1, "every leaf should be reachable from the single root")
	assert.Equal(t, "arabic_scenarios", roots[0].Name)

	descendants, err := schema.Descendants("arabic_scenarios")
	require.NoError(t, err)
	assert.Len(t, descendants, 5, "descendant count mismatch")
}

func TestArabicSchemaLeafEnvironments(t *testing.T) {
	schema := loadArabic(t)

	parent, err := schema.RunGroup("arabic_scenarios")
	require.NoError(t, err)

	for _, name := range parent.Subgroups {
		leaf, err := schema.RunGroup(name)
		require.NoError(t, err, "subgroup %s should exist", name)

		assert.Equal(t, "exact_match", leaf.Environment["main_name"],
			"%s should use exact match as its headline metric", name)
		assert.Equal(t, "test", leaf.Environment["main_split"],
			"%s should evaluate on the test split", name)
		assert.NotNil(t, leaf.Taxonomy, "%s should carry a taxonomy", name)
		assert.Equal(t, "Arabic", leaf.Taxonomy.Language,
			"%s should be an Arabic-language scenario", name)
	}
}

func TestArabicSchemaResolves(t *testing.T) {
	schema := loadArabic(t)

	metric, err := schema.Metric("exact_match")
	require.NoError(t, err)
	assert.Equal(t, "EM", metric.ShortDisplayName)

	assert.Empty(t, schema.Perturbations(), "the Arabic schema defines no perturbations")

	resolved, err := schema.ResolveMetricGroup("mmmlu", "accuracy")
	require.NoError(t, err, "accuracy should resolve against mmmlu")
	require.Len(t, resolved.Entries, 1)
	assert.Equal(t, "exact_match", resolved.Entries[0].Metric.Name)
	assert.Equal(t, "test", resolved.Entries[0].Split)

	parent, err := schema.RunGroup("arabic_scenarios")
	require.NoError(t, err)

	// Every metric group of every leaf must resolve against the leaf's
	// environment without dangling references.
	for _, name := range parent.Subgroups {
		groups, err := schema.ResolveRunGroup(name)
		require.NoError(t, err, "run group %s should resolve", name)
		assert.Len(t, groups, 3, "run group %s should resolve all of its metric groups", name)

		for _, group := range groups {
			assert.NotEmpty(t, group.Entries, "%s/%s should have entries", name, group.Name)
		}
	}
}
