// Package output provides formatters for replay frames.
package output

import (
	"io"
	"time"
)

// Toast is one visible notification within a frame.
type Toast struct {
	Key     string `json:"key"`
	Name    string `json:"name"`
	Content string `json:"content"`
	Age     string `json:"age,omitempty"`
}

// Frame is the tray state captured at one point of a replay.
type Frame struct {
	Step     int
	At       time.Duration // Offset from the start of the replay
	Label    string
	Position string
	Active   int
	Toasts   []Toast
}

// Formatter formats frames for output.
type Formatter interface {
	// Format writes formatted frames to the writer.
	Format(w io.Writer, frames []Frame) error
}

// FormatType represents an output format type.
type FormatType string

const (
	FormatPlain FormatType = "plain"
	FormatJSON  FormatType = "json"
	FormatLine  FormatType = "line"
	FormatNames FormatType = "names"
)

// ValidFormats returns all supported format types.
func ValidFormats() []FormatType {
	return []FormatType{FormatPlain, FormatJSON, FormatLine, FormatNames}
}

// NewFormatter creates a formatter for the specified format type.
func NewFormatter(format FormatType, opts FormatterOptions) Formatter {
	switch format {
	case FormatJSON:
		return NewJSONFormatter(opts)
	case FormatLine:
		return NewLineFormatter(opts)
	case FormatNames:
		return NewNamesFormatter()
	case FormatPlain:
		fallthrough
	default:
		return NewPlainFormatter(opts)
	}
}

// FormatterOptions configures formatter behavior.
type FormatterOptions struct {
	Template       string // Custom template for line/plain format
	ShowIndex      bool   // Show step index prefix
	ShowAge        bool   // Show toast age
	BodyMaxLen     int    // Maximum content length (0 = unlimited)
	Separator      string // Field separator for line format
	IncludeNewline bool   // Include newlines in content (default: replace with space)
}

// DefaultFormatterOptions returns sensible defaults.
func DefaultFormatterOptions() FormatterOptions {
	return FormatterOptions{
		ShowIndex:      true,
		ShowAge:        true,
		BodyMaxLen:     80,
		Separator:      " | ",
		IncludeNewline: false,
	}
}
