// Package replay drives a notification controller through a scripted
// scenario on a manual clock and records the tray state as frames.
package replay

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/jmylchreest/toastq/internal/config"
)

// Clear targets.
const (
	ClearCache = "cache"
	ClearAll   = "all"
)

// Script is a replay scenario.
type Script struct {
	Interval   config.Duration `yaml:"interval"`
	CacheScope string          `yaml:"cache_scope"`
	KeyPrefix  string          `yaml:"key_prefix"`
	End        config.Duration `yaml:"end"` // capture a final frame here (0 = none)
	Steps      []Step          `yaml:"steps"`
}

// Step is one timed action. Exactly one of Add, Scroll, Clear or Snapshot
// is set.
type Step struct {
	At       config.Duration `yaml:"at"`
	Add      *Add            `yaml:"add,omitempty"`
	Scroll   *int            `yaml:"scroll,omitempty"`
	Clear    string          `yaml:"clear,omitempty"`
	Snapshot bool            `yaml:"snapshot,omitempty"`
	Label    string          `yaml:"label,omitempty"`
}

// Add raises a notification.
type Add struct {
	Name     string `yaml:"name"`
	Body     string `yaml:"body"`
	Forced   bool   `yaml:"forced"`
	Repeated bool   `yaml:"repeated"`
}

// Kind returns the action name of the step.
func (s Step) Kind() string {
	switch {
	case s.Add != nil:
		return "add"
	case s.Scroll != nil:
		return "scroll"
	case s.Clear != "":
		return "clear"
	case s.Snapshot:
		return "snapshot"
	default:
		return ""
	}
}

func (s Step) actions() int {
	n := 0
	if s.Add != nil {
		n++
	}
	if s.Scroll != nil {
		n++
	}
	if s.Clear != "" {
		n++
	}
	if s.Snapshot {
		n++
	}
	return n
}

// Load reads and validates a script file.
func Load(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read script: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a script. Unknown keys are rejected.
func Parse(data []byte) (*Script, error) {
	var s Script
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil && !errors.Is(err, io.EOF) {
		return nil, &ScriptError{Message: "invalid YAML", Cause: err}
	}

	if s.Interval == 0 {
		s.Interval = config.Duration(config.DefaultInterval)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate checks the script for structural errors.
func (s *Script) Validate() error {
	if s.Interval.Duration() <= 0 {
		return &ScriptError{Message: "interval must be positive"}
	}
	switch config.CacheScope(s.CacheScope) {
	case "", config.CacheScopeShared, config.CacheScopeInstance:
	default:
		return &ScriptError{Message: fmt.Sprintf("unknown cache_scope %q", s.CacheScope)}
	}
	if len(s.Steps) == 0 {
		return &ScriptError{Message: "no steps"}
	}

	var last time.Duration
	for i, step := range s.Steps {
		n := i + 1
		if step.At.Duration() < 0 {
			return &ScriptError{Step: n, Message: "at must not be negative"}
		}
		if step.At.Duration() < last {
			return &ScriptError{Step: n, Message: fmt.Sprintf("at %s is before the previous step", step.At.Duration())}
		}
		last = step.At.Duration()

		switch step.actions() {
		case 0:
			return &ScriptError{Step: n, Message: "no action (want add, scroll, clear or snapshot)"}
		case 1:
		default:
			return &ScriptError{Step: n, Message: "more than one action"}
		}

		if step.Add != nil && step.Add.Name == "" {
			return &ScriptError{Step: n, Message: "add requires a name"}
		}
		if step.Clear != "" && step.Clear != ClearCache && step.Clear != ClearAll {
			return &ScriptError{Step: n, Message: fmt.Sprintf("clear must be %q or %q, got %q", ClearCache, ClearAll, step.Clear)}
		}
	}

	if s.End != 0 && s.End.Duration() < last {
		return &ScriptError{Message: "end is before the last step"}
	}
	return nil
}
