package output

import (
	"fmt"
	"io"
	"strings"
	"text/template"
	"time"
)

// LineFormatter writes one line per frame, for piping into other tools.
type LineFormatter struct {
	opts     FormatterOptions
	template *template.Template
}

// NewLineFormatter creates a new line formatter.
func NewLineFormatter(opts FormatterOptions) *LineFormatter {
	f := &LineFormatter{opts: opts}

	// Parse custom template if provided
	if opts.Template != "" {
		tmpl, err := template.New("line").Funcs(templateFuncs()).Parse(opts.Template)
		if err == nil {
			f.template = tmpl
		}
	}

	return f
}

// Format writes frames one per line.
func (f *LineFormatter) Format(w io.Writer, frames []Frame) error {
	for _, fr := range frames {
		line := f.formatLine(&fr)
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// formatLine formats a single frame line.
func (f *LineFormatter) formatLine(fr *Frame) string {
	// Use custom template if available
	if f.template != nil {
		var buf strings.Builder
		if err := f.template.Execute(&buf, fr); err == nil {
			return buf.String()
		}
	}

	// Default format: [step] [offset] [position] toast, toast
	var parts []string
	sep := f.opts.Separator
	if sep == "" {
		sep = " | "
	}

	if f.opts.ShowIndex {
		parts = append(parts, fmt.Sprintf("%d", fr.Step))
	}
	parts = append(parts, formatOffset(fr.At), fr.Position)

	toasts := make([]string, len(fr.Toasts))
	for i, t := range fr.Toasts {
		toasts[i] = sanitizeBody(t.Content, f.opts.BodyMaxLen, f.opts.IncludeNewline)
	}
	parts = append(parts, strings.Join(toasts, ", "))

	return strings.Join(parts, sep)
}

// templateFuncs returns template helper functions.
func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"truncate": func(s string, maxLen int) string {
			if maxLen <= 0 || len(s) <= maxLen {
				return s
			}
			if maxLen <= 3 {
				return s[:maxLen]
			}
			return s[:maxLen-3] + "..."
		},
		"offset": formatOffset,
		"names": func(toasts []Toast) string {
			names := make([]string, len(toasts))
			for i, t := range toasts {
				names[i] = t.Name
			}
			return strings.Join(names, ",")
		},
	}
}

// formatOffset renders a replay offset, e.g. "0s" or "3.5s".
func formatOffset(d time.Duration) string {
	return d.Round(time.Millisecond).String()
}

// sanitizeBody cleans up content for single-line display.
func sanitizeBody(body string, maxLen int, includeNewline bool) string {
	// Replace newlines with spaces unless explicitly included
	if !includeNewline {
		body = strings.ReplaceAll(body, "\n", " ")
		body = strings.ReplaceAll(body, "\r", "")
	}

	// Collapse multiple spaces
	for strings.Contains(body, "  ") {
		body = strings.ReplaceAll(body, "  ", " ")
	}

	body = strings.TrimSpace(body)

	// Truncate if needed
	if maxLen > 0 && len(body) > maxLen {
		if maxLen <= 3 {
			return body[:maxLen]
		}
		return body[:maxLen-3] + "..."
	}

	return body
}
