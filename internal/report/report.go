// Package report renders the result of a check run.
package report

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/shaoshing/jscs-jsdoc/internal/index"
)

const (
	FormatText = "text"
	FormatJSON = "json"
)

var (
	colorLocation = lipgloss.Color("#20B9B4")
	colorMessage  = lipgloss.Color("#E74C3C")
	colorMuted    = lipgloss.Color("#7F8C8D")
	colorSuccess  = lipgloss.Color("#2CD7C7")
)

type styles struct {
	location lipgloss.Style
	message  lipgloss.Style
	muted    lipgloss.Style
	success  lipgloss.Style
	bold     lipgloss.Style
}

func newStyles(r *lipgloss.Renderer) styles {
	return styles{
		location: r.NewStyle().Foreground(colorLocation),
		message:  r.NewStyle().Foreground(colorMessage),
		muted:    r.NewStyle().Foreground(colorMuted),
		success:  r.NewStyle().Foreground(colorSuccess).Bold(true),
		bold:     r.NewStyle().Bold(true),
	}
}

// Formatter writes violations and file errors to an output stream.
type Formatter interface {
	Format(violations []index.Entry, errs []index.FileError) error
}

// NewFormatter returns the formatter for format. Color only applies to text.
func NewFormatter(format string, w io.Writer, color bool) (Formatter, error) {
	switch format {
	case FormatText, "":
		return &TextFormatter{w: w, color: color, styles: newStyles(lipgloss.NewRenderer(w))}, nil
	case FormatJSON:
		return &JSONFormatter{w: w}, nil
	default:
		return nil, fmt.Errorf("unknown output format %q", format)
	}
}

// TextFormatter prints one line per violation followed by a summary.
type TextFormatter struct {
	w      io.Writer
	color  bool
	styles styles
}

func (f *TextFormatter) paint(s lipgloss.Style, text string) string {
	if !f.color {
		return text
	}
	return s.Render(text)
}

func (f *TextFormatter) Format(violations []index.Entry, errs []index.FileError) error {
	for _, fe := range errs {
		if _, err := fmt.Fprintf(f.w, "%s  %s\n", f.paint(f.styles.location, fe.Path), f.paint(f.styles.message, fe.Message)); err != nil {
			return err
		}
	}

	for _, v := range violations {
		loc := fmt.Sprintf("%s:%d:%d", v.File, v.Line, v.Column)
		line := f.paint(f.styles.location, loc) + "  " + f.paint(f.styles.message, v.Message)
		if v.Function != "" {
			line += "  " + f.paint(f.styles.bold, "("+v.Function+")")
		}
		line += "  " + f.paint(f.styles.muted, "["+v.Rule+"]")
		if _, err := fmt.Fprintln(f.w, line); err != nil {
			return err
		}
	}

	_, err := fmt.Fprintln(f.w, f.summary(len(violations), len(errs)))
	return err
}

func (f *TextFormatter) summary(violations, errs int) string {
	if violations == 0 && errs == 0 {
		return f.paint(f.styles.success, "No jsdoc violations found")
	}
	text := fmt.Sprintf("%d %s", violations, plural(violations, "violation", "violations"))
	if errs > 0 {
		text += fmt.Sprintf(", %d %s", errs, plural(errs, "file error", "file errors"))
	}
	return f.paint(f.styles.bold, text)
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

// JSONFormatter writes a single JSON document.
type JSONFormatter struct {
	w io.Writer
}

type jsonReport struct {
	Violations []index.Entry     `json:"violations"`
	Errors     []index.FileError `json:"errors"`
}

func (f *JSONFormatter) Format(violations []index.Entry, errs []index.FileError) error {
	out := jsonReport{Violations: violations, Errors: errs}
	if out.Violations == nil {
		out.Violations = []index.Entry{}
	}
	if out.Errors == nil {
		out.Errors = []index.FileError{}
	}

	enc := json.NewEncoder(f.w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
