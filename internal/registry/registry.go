// Package registry provides an in-memory store mapping generated
// identifiers and optional human-readable aliases to arbitrary values.
package registry

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// Registry errors.
var (
	ErrNotFound   = errors.New("registry entry not found")
	ErrAliasTaken = errors.New("alias already registered")
	ErrNilValue   = errors.New("cannot register nil value")
)

// Registry is a thread-safe associative store. Entries are keyed by a
// generated identifier; an alias is an optional second key resolving to
// the same entry. The zero value is not usable, use New.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]any
	aliases map[string]string
}

// New creates an empty Registry.
func New() *Registry {
	return &Registry{
		entries: make(map[string]any),
		aliases: make(map[string]string),
	}
}

// Register stores value under a freshly generated identifier and
// returns that identifier.
func (r *Registry) Register(value any) (string, error) {
	if value == nil {
		return "", ErrNilValue
	}

	id := uuid.NewString()

	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries[id] = value
	return id, nil
}

// RegisterAlias stores value under a generated identifier and records
// alias as an alternate key. An empty alias is equivalent to Register.
// A taken alias is an error and nothing is stored.
func (r *Registry) RegisterAlias(value any, alias string) (string, error) {
	if value == nil {
		return "", ErrNilValue
	}
	if alias == "" {
		return r.Register(value)
	}

	id := uuid.NewString()

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.aliases[alias]; exists {
		return "", fmt.Errorf("%w: %s", ErrAliasTaken, alias)
	}

	r.entries[id] = value
	r.aliases[alias] = id
	return id, nil
}

// Get resolves key as an alias first, then as an identifier, and
// returns the stored value.
func (r *Registry) Get(key string) (any, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if id, ok := r.aliases[key]; ok {
		key = id
	}
	value, ok := r.entries[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	return value, nil
}

// MustGet is like Get but panics on unknown keys. Intended for
// startup wiring where a missing entry is a programming error.
func (r *Registry) MustGet(key string) any {
	value, err := r.Get(key)
	if err != nil {
		panic(fmt.Sprintf("registry: %v", err))
	}
	return value
}

// Has reports whether key resolves to an entry.
func (r *Registry) Has(key string) bool {
	_, err := r.Get(key)
	return err == nil
}

// Remove deletes the entry key resolves to, along with any aliases
// pointing at it. Unknown keys are a no-op.
func (r *Registry) Remove(key string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := key
	if aliased, ok := r.aliases[key]; ok {
		id = aliased
	}
	if _, ok := r.entries[id]; !ok {
		return
	}

	delete(r.entries, id)
	for alias, target := range r.aliases {
		if target == id {
			delete(r.aliases, alias)
		}
	}
}

// Clear removes every entry and alias.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries = make(map[string]any)
	r.aliases = make(map[string]string)
}

// Len returns the number of stored entries.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// IDs returns the identifiers of all stored entries, sorted.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.entries))
	for id := range r.entries {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Aliases returns all registered aliases, sorted.
func (r *Registry) Aliases() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	aliases := make([]string, 0, len(r.aliases))
	for alias := range r.aliases {
		aliases = append(aliases, alias)
	}
	sort.Strings(aliases)
	return aliases
}
