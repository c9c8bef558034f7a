package registry

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Scopes holds the configured translation scopes. A scope is a path in the
// manifest tree (`admin/users`) reachable from templates through its alias
// (`adminUsers`).
type Scopes struct {
	ScopeToAlias map[string]string
	AliasToScope map[string]string
}

// NewScopes builds Scopes from a scope path to alias map. A scope without an
// alias gets the camelCase form of its path.
func NewScopes(scopeToAlias map[string]string) *Scopes {
	s := &Scopes{
		ScopeToAlias: make(map[string]string, len(scopeToAlias)),
		AliasToScope: make(map[string]string, len(scopeToAlias)),
	}
	for scope, alias := range scopeToAlias {
		if alias == "" {
			alias = toCamelCase(scope)
		}
		s.ScopeToAlias[scope] = alias
		s.AliasToScope[alias] = scope
	}
	return s
}

// ScopePath returns the scope path of alias
func (s *Scopes) ScopePath(alias string) (string, bool) {
	if s == nil {
		return "", false
	}
	path, ok := s.AliasToScope[alias]
	return path, ok
}

// Paths returns the configured scope paths, sorted
func (s *Scopes) Paths() []string {
	if s == nil {
		return nil
	}
	paths := make([]string, 0, len(s.ScopeToAlias))
	for path := range s.ScopeToAlias {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}

// toCamelCase turns `admin/user-list` into `adminUserList`
func toCamelCase(path string) string {
	words := strings.FieldsFunc(path, func(r rune) bool {
		return r == '/' || r == '-' || r == '_' || r == '.' || r == ' '
	})
	var sb strings.Builder
	for i, word := range words {
		r, size := utf8.DecodeRuneInString(word)
		if i == 0 {
			r = unicode.ToLower(r)
		} else {
			r = unicode.ToUpper(r)
		}
		sb.WriteRune(r)
		sb.WriteString(word[size:])
	}
	return sb.String()
}

// ResolveAliasAndKey splits key on its first `.`. When the prefix is a
// configured scope alias it returns the rest of the key and the alias,
// otherwise the key is global and the alias is empty.
func ResolveAliasAndKey(key string, scopes *Scopes) (string, string) {
	alias, rest, found := strings.Cut(key, ".")
	if !found {
		return key, ""
	}
	if _, ok := scopes.ScopePath(alias); ok {
		return rest, alias
	}
	return key, ""
}
