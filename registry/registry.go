// Package registry holds the singleton instances created by the container.
package registry

import (
	"reflect"
	"sync"

	"github.com/kbukum/iockit/catalog"
	"github.com/kbukum/iockit/errors"
	"github.com/kbukum/iockit/logger"
)

// Entry is a stored singleton.
type Entry struct {
	Type     *catalog.ComponentType
	Instance any
}

// Registry maps component types, and optionally names, to their single
// instance. Entries are kept in insertion order and are never replaced.
type Registry struct {
	entries []Entry
	byType  map[reflect.Type]any
	byName  map[string]any
	mu      sync.RWMutex
	log     *logger.Logger
}

// New creates an empty registry. A nil logger discards output.
func New(log *logger.Logger) *Registry {
	if log == nil {
		log = logger.NewNop()
	}
	return &Registry{
		entries: make([]Entry, 0),
		byType:  make(map[reflect.Type]any),
		byName:  make(map[string]any),
		log:     log,
	}
}

// Put stores instance for ct. A declared name already bound to another type
// keeps its first binding.
func (r *Registry) Put(ct *catalog.ComponentType, instance any) error {
	if ct == nil || instance == nil {
		return errors.InvalidArgument("entry", "type and instance must not be nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byType[ct.Type]; exists {
		return errors.AlreadyExists("singleton", ct.QualifiedName)
	}
	r.entries = append(r.entries, Entry{Type: ct, Instance: instance})
	r.byType[ct.Type] = instance

	if ct.Name != "" {
		if _, taken := r.byName[ct.Name]; taken {
			r.log.Warn("Bean name already bound, keeping first binding", map[string]interface{}{
				logger.FieldBeanName: ct.Name,
				logger.FieldType:     ct.QualifiedName,
			})
		} else {
			r.byName[ct.Name] = instance
		}
	}

	r.log.Debug("Singleton registered", map[string]interface{}{
		logger.FieldType:     ct.QualifiedName,
		logger.FieldBeanName: ct.Name,
	})
	return nil
}

// Get returns the instance stored for t.
func (r *Registry) Get(t reflect.Type) (any, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	inst, ok := r.byType[t]
	return inst, ok
}

// GetByName returns the instance bound to a declared name.
func (r *Registry) GetByName(name string) (any, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	inst, ok := r.byName[name]
	return inst, ok
}

// Count returns the number of stored singletons. Name aliases are not
// counted.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// Snapshot returns a copy of all entries in insertion order.
func (r *Registry) Snapshot() []Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Entry, len(r.entries))
	copy(out, r.entries)
	return out
}
