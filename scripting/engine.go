package scripting

import (
	"context"
)

// Engine represents a scripting engine (e.g., JavaScript) used to run
// post-extraction normalization rules against a record.
type Engine interface {
	// Execute executes a script in the context of the registered record.
	Execute(ctx context.Context, script string) (interface{}, error)

	// RegisterRecord exposes the extraction record to the engine.
	RegisterRecord(rec Record) error
}

// Record exposes the extraction result to scripts. It provides a safe,
// controlled API: field access by name only, no reflection over internals.
type Record interface {
	// GetField returns a field value by name and whether it is populated.
	GetField(name string) (string, bool)

	// SetField updates a field by name; false means the name is unknown.
	SetField(name, value string) bool
}
