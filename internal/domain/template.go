package domain

import (
	"fmt"
	"strings"
)

// Template is a parsed templated string. Placeholders take the form
// "${var}", where var is an identifier ([A-Za-z_][A-Za-z0-9_]*); everything
// else is literal text, including "$" not followed by "{". Substitution is
// purely literal; there is no expression language.
type Template struct {
	raw      string
	segments []segment
}

// segment is one run of a template: either literal text or the name of a
// placeholder variable.
type segment struct {
	text        string
	placeholder bool
}

// HasPlaceholders reports whether s contains placeholder syntax and
// therefore needs an environment to resolve.
func HasPlaceholders(s string) bool { return strings.Contains(s, "${") }

// ParseTemplate parses raw into a Template. An unterminated "${", an empty
// "${}", or a non-identifier variable name fails with an error wrapping
// ErrInvalidTemplate.
func ParseTemplate(raw string) (Template, error) {
	t := Template{raw: raw}
	rest := raw
	for {
		open := strings.Index(rest, "${")
		if open < 0 {
			if rest != "" {
				t.segments = append(t.segments, segment{text: rest})
			}
			return t, nil
		}
		if open > 0 {
			t.segments = append(t.segments, segment{text: rest[:open]})
		}
		rest = rest[open+2:]
		clos := strings.IndexByte(rest, '}')
		if clos < 0 {
			return Template{}, fmt.Errorf("%w: unterminated placeholder in %q", ErrInvalidTemplate, raw)
		}
		name := rest[:clos]
		if name == "" {
			return Template{}, fmt.Errorf("%w: empty placeholder in %q", ErrInvalidTemplate, raw)
		}
		if !IsIdentifier(name) {
			return Template{}, fmt.Errorf("%w: placeholder %q in %q is not an identifier", ErrInvalidTemplate, name, raw)
		}
		t.segments = append(t.segments, segment{text: name, placeholder: true})
		rest = rest[clos+1:]
	}
}

// Raw returns the original templated string.
func (t Template) Raw() string { return t.raw }

// HasVars reports whether the template contains any placeholders.
func (t Template) HasVars() bool {
	for _, seg := range t.segments {
		if seg.placeholder {
			return true
		}
	}
	return false
}

// Vars returns the placeholder names in order of first appearance.
func (t Template) Vars() []string {
	var names []string
	seen := make(map[string]bool)
	for _, seg := range t.segments {
		if seg.placeholder && !seen[seg.text] {
			seen[seg.text] = true
			names = append(names, seg.text)
		}
	}
	return names
}

// Resolve substitutes every placeholder from env and returns the resulting
// string. A placeholder with no binding fails with an
// UnresolvedPlaceholderError naming the variable.
func (t Template) Resolve(env Environment) (string, error) {
	if !t.HasVars() {
		return t.raw, nil
	}
	var b strings.Builder
	for _, seg := range t.segments {
		if !seg.placeholder {
			b.WriteString(seg.text)
			continue
		}
		value, ok := env[seg.text]
		if !ok {
			return "", NewUnresolvedPlaceholderError(seg.text, t.raw)
		}
		b.WriteString(value)
	}
	return b.String(), nil
}

// ResolveString parses raw and resolves it against env in one step.
func ResolveString(raw string, env Environment) (string, error) {
	t, err := ParseTemplate(raw)
	if err != nil {
		return "", err
	}
	return t.Resolve(env)
}

// IsIdentifier reports whether name matches [A-Za-z_][A-Za-z0-9_]*, the
// form required of template variables and environment keys.
func IsIdentifier(name string) bool {
	if name == "" {
		return false
	}
	for i := 0; i < len(name); i++ {
		c := name[i]
		switch {
		case c == '_', 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z':
		case '0' <= c && c <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}
