package registry

import (
	"sort"
	"strings"
	"sync"
)

// GlobalScope is the scope path of keys that belong to no scope
const GlobalScope = "__global"

// KeyRegistry receives the keys found in templates. Implementations decide
// retention and deduplication. A registry shared between goroutines must be
// safe for concurrent use; one owned by a single extraction, like a per-file
// Recorder, need not be.
type KeyRegistry interface {
	Add(scopePath, key, defaultValue string)
}

// Discard is a KeyRegistry that drops every key
var Discard KeyRegistry = discard{}

type discard struct{}

func (discard) Add(scopePath, key, defaultValue string) {}

// AddKeyParams are the parameters of AddKey
type AddKeyParams struct {
	Registry        KeyRegistry
	Scopes          *Scopes
	DefaultValue    string
	KeyWithoutScope string
	ScopeAlias      string
}

// AddKey registers a resolved key under its scope path, or under GlobalScope
// when it has no alias. Blank keys are dropped.
func AddKey(params AddKeyParams) {
	if strings.TrimSpace(params.KeyWithoutScope) == "" || params.Registry == nil {
		return
	}
	scopePath := GlobalScope
	if params.ScopeAlias != "" {
		if path, ok := params.Scopes.ScopePath(params.ScopeAlias); ok {
			scopePath = path
		}
	}
	params.Registry.Add(scopePath, params.KeyWithoutScope, ResolveDefaultValue(params.DefaultValue, params.KeyWithoutScope, scopePath))
}

// ResolveDefaultValue expands the `{{key}}` and `{{scope}}` placeholders of
// a configured default value.
func ResolveDefaultValue(defaultValue, key, scopePath string) string {
	if !strings.Contains(defaultValue, "{{") {
		return defaultValue
	}
	scope := scopePath
	if scope == GlobalScope {
		scope = ""
	}
	return strings.NewReplacer("{{key}}", key, "{{ key }}", key, "{{scope}}", scope, "{{ scope }}", scope).Replace(defaultValue)
}

// ScopeMap is an in-memory KeyRegistry keyed by scope path then key. The
// first default value registered for a key wins.
type ScopeMap struct {
	mu   sync.RWMutex
	keys map[string]map[string]string
}

// NewScopeMap creates an empty ScopeMap
func NewScopeMap() *ScopeMap {
	return &ScopeMap{keys: make(map[string]map[string]string)}
}

// Add implements KeyRegistry
func (m *ScopeMap) Add(scopePath, key, defaultValue string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	scope, ok := m.keys[scopePath]
	if !ok {
		scope = make(map[string]string)
		m.keys[scopePath] = scope
	}
	if _, exists := scope[key]; !exists {
		scope[key] = defaultValue
	}
}

// Scopes returns the scope paths holding at least one key, sorted
func (m *ScopeMap) Scopes() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	scopes := make([]string, 0, len(m.keys))
	for scope := range m.keys {
		scopes = append(scopes, scope)
	}
	sort.Strings(scopes)
	return scopes
}

// Keys returns a copy of the keys of scopePath with their default values
func (m *ScopeMap) Keys(scopePath string) map[string]string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	keys := make(map[string]string, len(m.keys[scopePath]))
	for k, v := range m.keys[scopePath] {
		keys[k] = v
	}
	return keys
}

// Len returns the number of keys across all scopes
func (m *ScopeMap) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n := 0
	for _, scope := range m.keys {
		n += len(scope)
	}
	return n
}

// Entry is one registration
type Entry struct {
	ScopePath    string
	Key          string
	DefaultValue string
}

// Recorder is a KeyRegistry that keeps every registration in call order,
// duplicates included. It is not safe for concurrent use and is meant to be
// owned by one extraction.
type Recorder struct {
	Entries []Entry
}

// Add implements KeyRegistry
func (r *Recorder) Add(scopePath, key, defaultValue string) {
	r.Entries = append(r.Entries, Entry{ScopePath: scopePath, Key: key, DefaultValue: defaultValue})
}

// ReplayInto registers the recorded entries, in order, with target
func (r *Recorder) ReplayInto(target KeyRegistry) {
	for _, e := range r.Entries {
		target.Add(e.ScopePath, e.Key, e.DefaultValue)
	}
}

// Tee registers every key with all of its registries
type Tee []KeyRegistry

// Add implements KeyRegistry
func (t Tee) Add(scopePath, key, defaultValue string) {
	for _, r := range t {
		r.Add(scopePath, key, defaultValue)
	}
}
