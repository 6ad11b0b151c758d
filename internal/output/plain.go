package output

import (
	"fmt"
	"io"
	"strings"
	"text/template"
)

// PlainFormatter formats frames as indented plain text blocks.
type PlainFormatter struct {
	opts     FormatterOptions
	template *template.Template
}

// NewPlainFormatter creates a new plain text formatter.
func NewPlainFormatter(opts FormatterOptions) *PlainFormatter {
	f := &PlainFormatter{opts: opts}

	// Parse custom template if provided
	if opts.Template != "" {
		tmpl, err := template.New("plain").Funcs(templateFuncs()).Parse(opts.Template)
		if err == nil {
			f.template = tmpl
		}
	}

	return f
}

// Format writes frames as plain text.
func (f *PlainFormatter) Format(w io.Writer, frames []Frame) error {
	for _, fr := range frames {
		if err := f.formatFrame(w, &fr); err != nil {
			return err
		}
	}
	return nil
}

func (f *PlainFormatter) formatFrame(w io.Writer, fr *Frame) error {
	if f.template != nil {
		return f.template.Execute(w, fr)
	}

	var sb strings.Builder

	if f.opts.ShowIndex {
		sb.WriteString(fmt.Sprintf("[%d] ", fr.Step))
	}
	sb.WriteString(fmt.Sprintf("t=%s bottom=%s active=%d", formatOffset(fr.At), fr.Position, fr.Active))
	if fr.Label != "" {
		sb.WriteString(" (" + fr.Label + ")")
	}
	sb.WriteString("\n")

	for _, t := range fr.Toasts {
		content := sanitizeBody(t.Content, f.opts.BodyMaxLen, f.opts.IncludeNewline)
		sb.WriteString(fmt.Sprintf("    %s %s: %s", t.Key, t.Name, content))
		if f.opts.ShowAge && t.Age != "" {
			sb.WriteString(fmt.Sprintf(" (%s)", t.Age))
		}
		sb.WriteString("\n")
	}

	_, err := w.Write([]byte(sb.String()))
	return err
}
