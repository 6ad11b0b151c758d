package output

import (
	"fmt"
	"io"
	"strings"
)

// NamesFormatter outputs just the visible notification names per frame,
// most recent first, comma separated. An empty tray prints "-".
type NamesFormatter struct{}

// NewNamesFormatter creates a new names formatter.
func NewNamesFormatter() *NamesFormatter {
	return &NamesFormatter{}
}

// Format writes one line of names per frame.
func (f *NamesFormatter) Format(w io.Writer, frames []Frame) error {
	for _, fr := range frames {
		names := make([]string, len(fr.Toasts))
		for i, t := range fr.Toasts {
			names[i] = t.Name
		}
		line := strings.Join(names, ",")
		if line == "" {
			line = "-"
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
