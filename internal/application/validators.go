package application

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/mizan-eval/mizan/internal/domain"
)

// registerSchemaValidators registers the document-specific validation
// functions with the validator instance so they can be referenced from
// struct tags.
// registerSchemaValidators returns an error if any registration fails.
func registerSchemaValidators(v *validator.Validate) error {
	if err := v.RegisterValidation("schemaname", validateSchemaName); err != nil {
		return fmt.Errorf("failed to register schemaname validator: %w", err)
	}
	if err := v.RegisterValidation("templateexpr", validateTemplateExpr); err != nil {
		return fmt.Errorf("failed to register templateexpr validator: %w", err)
	}
	if err := v.RegisterValidation("templatevar", validateTemplateVar); err != nil {
		return fmt.Errorf("failed to register templatevar validator: %w", err)
	}
	return nil
}

// validateSchemaName validates that a string is a snake_case identifier
// (^[a-z][a-z0-9_]*$), the form every entity name and section-level
// reference uses.
// validateSchemaName is a validator.Func registered as "schemaname".
func validateSchemaName(fl validator.FieldLevel) bool {
	name := fl.Field().String()
	if name == "" {
		return false
	}
	for i := 0; i < len(name); i++ {
		c := name[i]
		switch {
		case 'a' <= c && c <= 'z':
		case c == '_', '0' <= c && c <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}

// validateTemplateExpr validates that a templatable field parses: literal
// text with well-formed "${var}" placeholders. Whether the placeholders
// resolve is a per-run-group question answered later.
// validateTemplateExpr is a validator.Func registered as "templateexpr".
func validateTemplateExpr(fl validator.FieldLevel) bool {
	_, err := domain.ParseTemplate(fl.Field().String())
	return err == nil
}

// validateTemplateVar validates that an environment key can serve as a
// template variable name.
// validateTemplateVar is a validator.Func registered as "templatevar".
func validateTemplateVar(fl validator.FieldLevel) bool {
	return domain.IsIdentifier(fl.Field().String())
}

// schemaErrorFromValidation converts the first field failure reported by
// the struct validator into a SchemaError that locates the violation in
// the source document: section, entity name when one is known, and the
// field path in the document's own vocabulary.
func schemaErrorFromValidation(doc *Document, verrs validator.ValidationErrors) *domain.SchemaError {
	fe := verrs[0]
	section, entity, field := locateField(doc, fe.StructNamespace())
	return domain.NewSchemaError(section, entity, field, describeFailure(fe))
}

// locateField translates a validator struct namespace such as
// "Document.MetricGroups[0].Metrics[1].Name" into the document's own terms:
// section "metric_groups", the named entity at index 0, and field path
// "metrics[1].name".
func locateField(doc *Document, namespace string) (section, entity, field string) {
	parts := strings.Split(namespace, ".")
	if len(parts) < 2 {
		return "document", "", ""
	}

	base, bracket := splitBracket(parts[1])
	section = yamlName(base)
	if idx, ok := bracketIndex(bracket); ok {
		entity = entityNameAt(doc, section, idx)
	}

	if len(parts) == 2 {
		return section, entity, ""
	}

	segments := make([]string, 0, len(parts)-2)
	for _, part := range parts[2:] {
		b, br := splitBracket(part)
		segments = append(segments, yamlName(b)+br)
	}
	return section, entity, strings.Join(segments, ".")
}

// describeFailure renders one validator failure as a human-readable detail
// string.
func describeFailure(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "required field is missing"
	case "min":
		if fe.Kind() == reflect.Slice || fe.Kind() == reflect.Map {
			return fmt.Sprintf("must have at least %s entries", fe.Param())
		}
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		if fe.Kind() == reflect.Slice || fe.Kind() == reflect.Map {
			return fmt.Sprintf("must have at most %s entries", fe.Param())
		}
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of [%s]", fe.Param())
	case "schemaname":
		return "must be a snake_case identifier"
	case "templateexpr":
		return "placeholder syntax is malformed"
	case "templatevar":
		return "must be a valid template variable name"
	default:
		return fmt.Sprintf("failed %q validation", fe.Tag())
	}
}

// entityNameAt returns the name of the idx-th entry of the given section,
// or "" when the index is out of range or the section is unknown.
func entityNameAt(doc *Document, section string, idx int) string {
	if doc == nil || idx < 0 {
		return ""
	}
	switch section {
	case "metrics":
		if idx < len(doc.Metrics) {
			return doc.Metrics[idx].Name
		}
	case "perturbations":
		if idx < len(doc.Perturbations) {
			return doc.Perturbations[idx].Name
		}
	case "metric_groups":
		if idx < len(doc.MetricGroups) {
			return doc.MetricGroups[idx].Name
		}
	case "run_groups":
		if idx < len(doc.RunGroups) {
			return doc.RunGroups[idx].Name
		}
	}
	return ""
}

// splitBracket splits "Metrics[2]" into "Metrics" and "[2]". Strings
// without a bracket come back unchanged with an empty suffix.
func splitBracket(s string) (base, bracket string) {
	if i := strings.IndexByte(s, '['); i >= 0 {
		return s[:i], s[i:]
	}
	return s, ""
}

// bracketIndex parses "[2]" into 2. Non-numeric bracket contents, such as
// map keys, report false.
func bracketIndex(bracket string) (int, bool) {
	if len(bracket) < 3 || bracket[0] != '[' || bracket[len(bracket)-1] != ']' {
		return 0, false
	}
	idx, err := strconv.Atoi(bracket[1 : len(bracket)-1])
	if err != nil {
		return 0, false
	}
	return idx, true
}

// fieldNames maps struct field names to the document's key vocabulary.
// Fields not listed fall back to lowercasing, which matches single-word
// keys like "name" and "description".
var fieldNames = map[string]string{
	"MetricGroups":          "metric_groups",
	"RunGroups":             "run_groups",
	"DisplayName":           "display_name",
	"ShortDisplayName":      "short_display_name",
	"LowerIsBetter":         "lower_is_better",
	"AggregationStrategies": "aggregation_strategies",
	"HideWinRates":          "hide_win_rates",
	"PerturbationName":      "perturbation_name",
}

// yamlName returns the document key for a struct field name.
func yamlName(field string) string {
	if name, ok := fieldNames[field]; ok {
		return name
	}
	return strings.ToLower(field)
}
