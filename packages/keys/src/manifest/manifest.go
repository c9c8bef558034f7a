package manifest

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"ngkeys-go/packages/keys/src/keys_builder/registry"
)

// Options configures how manifests are written
type Options struct {
	// Output is the root directory of the translation files
	Output string
	Langs  []string
	// Sort orders the keys of every written file alphabetically
	Sort bool
	// Unflat writes dotted keys as nested objects
	Unflat bool
	// Replace drops the keys no longer found in templates
	Replace bool
	Logger  *slog.Logger
}

func (o *Options) logger() *slog.Logger {
	if o.Logger == nil {
		return slog.Default()
	}
	return o.Logger
}

// FilePath returns the translation file of scopePath in lang. Global keys
// live at the root of output.
func FilePath(output, scopePath, lang string) string {
	if scopePath == registry.GlobalScope {
		return filepath.Join(output, lang+".json")
	}
	return filepath.Join(output, filepath.FromSlash(scopePath), lang+".json")
}

// FileChange describes a written translation file
type FileChange struct {
	Path    string
	Added   []string
	Removed []string
}

// ReadTranslation reads the translation file at path. A missing file is an
// empty translation.
func ReadTranslation(path string) (*Translation, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return NewTranslation(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	t, err := ParseTranslation(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// Write merges the keys of every scope into its translation files, one per
// language. Existing values are kept and new keys get their default value.
// Files whose content does not change are left untouched.
func Write(keys *registry.ScopeMap, opts Options) ([]FileChange, error) {
	var changes []FileChange
	for _, scope := range keys.Scopes() {
		found := keys.Keys(scope)
		for _, lang := range opts.Langs {
			path := FilePath(opts.Output, scope, lang)
			change, err := writeFile(path, found, &opts)
			if err != nil {
				return changes, err
			}
			if change != nil {
				changes = append(changes, *change)
			}
		}
	}
	return changes, nil
}

func writeFile(path string, found map[string]string, opts *Options) (*FileChange, error) {
	translation, err := ReadTranslation(path)
	if err != nil {
		return nil, err
	}

	change := &FileChange{Path: path}
	for _, key := range sortedKeys(found) {
		if _, ok := translation.Get(key); !ok {
			translation.Set(key, found[key])
			change.Added = append(change.Added, key)
		}
	}
	if opts.Replace {
		for _, key := range translation.Keys() {
			if _, ok := found[key]; !ok {
				translation.Delete(key)
				change.Removed = append(change.Removed, key)
			}
		}
	}
	if opts.Sort {
		translation.Sort()
	}

	data, err := translation.Marshal(opts.Unflat)
	if err != nil {
		return nil, fmt.Errorf("failed to render %s: %w", path, err)
	}
	existing, err := os.ReadFile(path)
	if err == nil && bytes.Equal(existing, data) {
		return nil, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create directory for %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return nil, fmt.Errorf("failed to write %s: %w", path, err)
	}
	opts.logger().Debug("wrote translation file",
		"path", path,
		"added", len(change.Added),
		"removed", len(change.Removed),
	)
	return change, nil
}

// Missing is a key used in templates but absent from a translation file
type Missing struct {
	Path  string
	Scope string
	Lang  string
	Key   string
	// Suggestion is the closest unused key of the file, if any
	Suggestion string
}

// Find reports the keys missing from the translation files without writing
// anything.
func Find(keys *registry.ScopeMap, opts Options) ([]Missing, error) {
	var missing []Missing
	for _, scope := range keys.Scopes() {
		found := keys.Keys(scope)
		for _, lang := range opts.Langs {
			path := FilePath(opts.Output, scope, lang)
			translation, err := ReadTranslation(path)
			if err != nil {
				return nil, err
			}

			var unused []string
			for _, key := range translation.Keys() {
				if _, ok := found[key]; !ok {
					unused = append(unused, key)
				}
			}
			for _, key := range sortedKeys(found) {
				if _, ok := translation.Get(key); ok {
					continue
				}
				missing = append(missing, Missing{
					Path:       path,
					Scope:      scope,
					Lang:       lang,
					Key:        key,
					Suggestion: closestKey(key, unused),
				})
			}
		}
	}
	return missing, nil
}

func closestKey(key string, candidates []string) string {
	if len(candidates) == 0 {
		return ""
	}
	ranks := fuzzy.RankFindFold(key, candidates)
	if len(ranks) == 0 {
		return ""
	}
	sort.Sort(ranks)
	return ranks[0].Target
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
