package routes

import "log/slog"

// ConflictPolicy controls what happens when two definitions disagree about
// the same trie position.
type ConflictPolicy string

const (
	// ConflictStrict rejects the table: differing parameter names on one
	// edge, two definitions for one path, or a repeated route name.
	ConflictStrict ConflictPolicy = "strict"

	// ConflictOverride keeps the last declaration and logs a warning.
	ConflictOverride ConflictPolicy = "override"
)

func (p ConflictPolicy) normalize() ConflictPolicy {
	if p == ConflictOverride {
		return ConflictOverride
	}
	return ConflictStrict
}

func (p ConflictPolicy) String() string {
	return string(p.normalize())
}

// ParseConflictPolicy converts a config value into a policy. The empty
// string selects ConflictStrict.
func ParseConflictPolicy(s string) (ConflictPolicy, bool) {
	switch s {
	case "", string(ConflictStrict):
		return ConflictStrict, true
	case string(ConflictOverride):
		return ConflictOverride, true
	}
	return "", false
}

// Options configures a Table.
type Options struct {
	// TrailingSlash appends "/" to every rendered path.
	TrailingSlash bool

	// Conflicts selects the conflict policy (default: ConflictStrict).
	Conflicts ConflictPolicy

	// Logger receives construction diagnostics (default: slog.Default()).
	Logger *slog.Logger

	// Observer is notified of renders and failures (default: none).
	Observer Observer
}

// Option configures a Table.
type Option func(*Options)

// WithTrailingSlash makes rendered paths end in "/".
func WithTrailingSlash(enabled bool) Option {
	return func(o *Options) {
		o.TrailingSlash = enabled
	}
}

// WithConflictPolicy sets the conflict policy.
func WithConflictPolicy(p ConflictPolicy) Option {
	return func(o *Options) {
		o.Conflicts = p
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *Options) {
		o.Logger = l
	}
}

// WithObserver sets the observer.
func WithObserver(obs Observer) Option {
	return func(o *Options) {
		o.Observer = obs
	}
}

func defaultOptions() Options {
	return Options{
		Conflicts: ConflictStrict,
		Logger:    slog.Default(),
		Observer:  nopObserver{},
	}
}

// Observer is notified about rendering activity. Implementations must be
// safe for concurrent use; see package observe.
type Observer interface {
	// Rendered is called after a URL was produced for pattern.
	Rendered(pattern string)

	// Failed is called when op (call, query, render, lookup) fails.
	Failed(op string, err error)
}

type nopObserver struct{}

func (nopObserver) Rendered(string)      {}
func (nopObserver) Failed(string, error) {}
