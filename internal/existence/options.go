package existence

import "fmt"

// Mode selects which functions must carry a doc-comment.
type Mode int

const (
	// ModeAll requires documentation on every qualifying function.
	ModeAll Mode = iota
	// ModeExceptExports exempts functions assigned directly to module.exports.
	ModeExceptExports
)

func (m Mode) String() string {
	switch m {
	case ModeAll:
		return "true"
	case ModeExceptExports:
		return "exceptExports"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode accepts the values allowed for enforceExistence.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "true":
		return ModeAll, nil
	case "exceptExports":
		return ModeExceptExports, nil
	}
	return ModeAll, fmt.Errorf("enforceExistence: unsupported value %q (allowed: true, \"exceptExports\")", s)
}

// Options configures the validator. The validator only reads them.
type Options struct {
	EnforceExistence Mode
	// Except holds function names that never need documentation, including
	// functions nested inside them.
	Except  map[string]struct{}
	Verbose bool
}

// NewExceptSet builds the Except set from a list of names.
func NewExceptSet(names ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		set[n] = struct{}{}
	}
	return set
}

func (o Options) excluded(name string) bool {
	_, ok := o.Except[name]
	return ok
}
