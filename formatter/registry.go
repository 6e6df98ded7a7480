package formatter

import (
	"errors"
	"fmt"
	"strings"
	"sync"
)

// ErrUnknownFormatter is returned by Lookup when no formatter is
// registered under the requested name.
var ErrUnknownFormatter = errors.New("formatter: unknown formatter")

// Registry is a named set of formatters. Names are matched
// case-insensitively. Lookups happen once, when a sink is built.
type Registry struct {
	mu    sync.RWMutex
	byKey map[string]Formatter
	names []string
}

// NewRegistry returns a registry holding fs.
func NewRegistry(fs ...Formatter) *Registry {
	r := &Registry{byKey: make(map[string]Formatter, len(fs))}
	for _, f := range fs {
		r.Register(f)
	}
	return r
}

// DefaultRegistry returns a new registry with the built-in "simple" and
// "json" formatters.
func DefaultRegistry() *Registry {
	return NewRegistry(NewSimpleFormatter(Config{}), NewJSONFormatter(Config{}))
}

// Register adds f, replacing any formatter with the same name.
func (r *Registry) Register(f Formatter) {
	key := strings.ToLower(f.Name())
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byKey[key]; !exists {
		r.names = append(r.names, f.Name())
	}
	r.byKey[key] = f
}

// Lookup returns the formatter registered under name.
func (r *Registry) Lookup(name string) (Formatter, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if f, ok := r.byKey[strings.ToLower(name)]; ok {
		return f, nil
	}
	return nil, fmt.Errorf("%w %q (registered: %s)", ErrUnknownFormatter, name, strings.Join(r.names, ", "))
}

// Names returns the registered names in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.names...)
}
