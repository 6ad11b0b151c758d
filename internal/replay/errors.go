package replay

import "fmt"

// ScriptError reports an invalid replay script. Step is 1-based; zero
// means the error concerns the script as a whole.
type ScriptError struct {
	Step    int
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *ScriptError) Error() string {
	prefix := "script"
	if e.Step > 0 {
		prefix = fmt.Sprintf("step %d", e.Step)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.Message, e.Cause)
	}
	return prefix + ": " + e.Message
}

// Unwrap returns the underlying error.
func (e *ScriptError) Unwrap() error {
	return e.Cause
}
