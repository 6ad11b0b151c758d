package output

import (
	"encoding/json"
	"io"
)

// JSONFormatter formats frames as JSON.
type JSONFormatter struct {
	opts FormatterOptions
}

// NewJSONFormatter creates a new JSON formatter.
func NewJSONFormatter(opts FormatterOptions) *JSONFormatter {
	return &JSONFormatter{opts: opts}
}

// Format writes frames as a JSON array. Frame offsets are written in
// milliseconds.
func (f *JSONFormatter) Format(w io.Writer, frames []Frame) error {
	out := make([]jsonFrame, len(frames))
	for i, fr := range frames {
		out[i] = toJSON(fr)
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(out)
}

// FormatSingle writes a single frame as JSON.
func (f *JSONFormatter) FormatSingle(w io.Writer, fr Frame) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(toJSON(fr))
}

type jsonFrame struct {
	Step     int     `json:"step"`
	AtMS     int64   `json:"at_ms"`
	Label    string  `json:"label,omitempty"`
	Position string  `json:"position"`
	Active   int     `json:"active"`
	Toasts   []Toast `json:"toasts"`
}

func toJSON(fr Frame) jsonFrame {
	toasts := fr.Toasts
	if toasts == nil {
		toasts = []Toast{}
	}
	return jsonFrame{
		Step:     fr.Step,
		AtMS:     fr.At.Milliseconds(),
		Label:    fr.Label,
		Position: fr.Position,
		Active:   fr.Active,
		Toasts:   toasts,
	}
}
