// Package inspect renders schema inventories for command line tools:
// per-section tables, the run-group tree, and resolved metric groups.
package inspect

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// Format selects an output encoding for the rendering functions.
type Format string

const (
	// FormatTable renders a human-readable table.
	FormatTable Format = "table"
	// FormatJSON renders indented JSON.
	FormatJSON Format = "json"
)

// Options configures how inventories are rendered.
type Options struct {
	// Format selects the output encoding. The zero value renders tables.
	Format Format

	// UseColors enables ANSI colors on names and bindings in table and
	// tree output. JSON output is never colored.
	UseColors bool

	// Width overrides the detected terminal width when positive.
	Width int
}

// format returns the effective output format.
func (o *Options) format() Format {
	if o == nil || o.Format == "" {
		return FormatTable
	}
	return o.Format
}

// palette returns the sprint functions for names and bindings, honoring
// the color toggle.
func (o *Options) palette() (name, binding func(...any) string) {
	if o != nil && o.UseColors {
		return color.New(color.FgCyan).SprintFunc(), color.New(color.FgGreen).SprintFunc()
	}
	return fmt.Sprint, fmt.Sprint
}

// writeJSON is a generic JSON encoder that handles indentation consistently.
func writeJSON(w io.Writer, data any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// maxDescriptionWidth calculates how many columns a description cell may
// take before truncation, based on terminal width and the fixed columns
// around it.
func maxDescriptionWidth(opts *Options) int {
	termWidth := 0
	if opts != nil && opts.Width > 0 {
		termWidth = opts.Width
	}

	if termWidth == 0 {
		detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
		if err != nil || detectedWidth <= 0 {
			// Conservative default for narrow terminals and CI.
			termWidth = 80
		} else {
			termWidth = detectedWidth
		}
	}

	// Reserve space for the name and display columns plus borders.
	available := termWidth - 50
	if available < 20 {
		return 20
	}
	if available > 70 {
		return 70
	}
	return available
}

// truncateText shortens s to at most max runes, marking the cut with an
// ellipsis.
func truncateText(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max <= 3 {
		return string(runes[:max])
	}
	return string(runes[:max-3]) + "..."
}
