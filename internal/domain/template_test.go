package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTemplate(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		wantVars []string
		wantErr  bool
	}{
		{
			name:     "literal only",
			raw:      "exact_match",
			wantVars: nil,
		},
		{
			name:     "single placeholder",
			raw:      "${main_name}",
			wantVars: []string{"main_name"},
		},
		{
			name:     "placeholder with surrounding text",
			raw:      "prefix_${main_name}_suffix",
			wantVars: []string{"main_name"},
		},
		{
			name:     "multiple placeholders",
			raw:      "${main_name}_${main_split}",
			wantVars: []string{"main_name", "main_split"},
		},
		{
			name:     "repeated placeholder reported once",
			raw:      "${x}_${x}",
			wantVars: []string{"x"},
		},
		{
			name:     "dollar without brace is literal",
			raw:      "cost_$5",
			wantVars: nil,
		},
		{
			name:     "empty string",
			raw:      "",
			wantVars: nil,
		},
		{
			name:    "unterminated placeholder",
			raw:     "${main_name",
			wantErr: true,
		},
		{
			name:    "empty placeholder",
			raw:     "${}",
			wantErr: true,
		},
		{
			name:    "placeholder with space",
			raw:     "${main name}",
			wantErr: true,
		},
		{
			name:    "placeholder starting with digit",
			raw:     "${1st}",
			wantErr: true,
		},
		{
			name:    "placeholder with dash",
			raw:     "${main-name}",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tpl, err := ParseTemplate(tt.raw)

			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrInvalidTemplate), "Should wrap ErrInvalidTemplate")
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.raw, tpl.Raw(), "Raw mismatch")
			assert.Equal(t, tt.wantVars, tpl.Vars(), "Vars mismatch")
			assert.Equal(t, len(tt.wantVars) > 0, tpl.HasVars(), "HasVars mismatch")
		})
	}
}

func TestTemplateResolve(t *testing.T) {
	env := Environment{
		"main_name":  "exact_match",
		"main_split": "test",
	}

	tests := []struct {
		name    string
		raw     string
		want    string
		wantVar string
	}{
		{
			name: "literal passes through",
			raw:  "quasi_exact_match",
			want: "quasi_exact_match",
		},
		{
			name: "single substitution",
			raw:  "${main_name}",
			want: "exact_match",
		},
		{
			name: "substitution inside literal text",
			raw:  "metric_${main_name}_v2",
			want: "metric_exact_match_v2",
		},
		{
			name: "two substitutions",
			raw:  "${main_name}:${main_split}",
			want: "exact_match:test",
		},
		{
			name:    "unbound variable",
			raw:     "${undefined_var}",
			wantVar: "undefined_var",
		},
		{
			name:    "one bound one unbound",
			raw:     "${main_name}_${missing}",
			wantVar: "missing",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tpl, err := ParseTemplate(tt.raw)
			require.NoError(t, err)

			got, err := tpl.Resolve(env)

			if tt.wantVar != "" {
				require.Error(t, err)
				var unresolved *UnresolvedPlaceholderError
				require.True(t, errors.As(err, &unresolved), "Should be UnresolvedPlaceholderError")
				assert.Equal(t, tt.wantVar, unresolved.Variable, "Variable mismatch")
				assert.Equal(t, tt.raw, unresolved.Entry, "Entry should carry the raw template")
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got, "Resolved value mismatch")
		})
	}
}

func TestTemplateResolveNilEnvironment(t *testing.T) {
	// A literal template needs no environment at all.
	got, err := ResolveString("exact_match", nil)
	require.NoError(t, err)
	assert.Equal(t, "exact_match", got)

	// A templated one against a nil environment reports the variable.
	_, err = ResolveString("${main_name}", nil)
	var unresolved *UnresolvedPlaceholderError
	require.True(t, errors.As(err, &unresolved))
	assert.Equal(t, "main_name", unresolved.Variable)
}

func TestHasPlaceholders(t *testing.T) {
	assert.True(t, HasPlaceholders("${main_name}"))
	assert.True(t, HasPlaceholders("x${y}z"))
	assert.False(t, HasPlaceholders("plain"))
	assert.False(t, HasPlaceholders("$notatemplate"))
	assert.False(t, HasPlaceholders(""))
}
