package keys_builder

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/typescript/typescript"
)

// Source is a file holding one or more templates
type Source struct {
	Path string
	// Inline is set for component files, whose templates are the inline
	// `template:` literals rather than the whole file.
	Inline bool
}

// IsTemplateSource reports whether path is a file BuildKeys reads
func IsTemplateSource(path string) bool {
	switch {
	case strings.HasSuffix(path, ".html"):
		return true
	case strings.HasSuffix(path, ".spec.ts"), strings.HasSuffix(path, ".d.ts"):
		return false
	case strings.HasSuffix(path, ".ts"):
		return true
	}
	return false
}

// DiscoverSources walks inputs and returns every template source below them,
// sorted by path. Inputs may be directories or files. Hidden directories and
// node_modules are skipped.
func DiscoverSources(inputs []string) ([]Source, error) {
	seen := make(map[string]bool)
	var sources []Source
	add := func(path string) {
		if seen[path] || !IsTemplateSource(path) {
			return
		}
		seen[path] = true
		sources = append(sources, Source{Path: path, Inline: strings.HasSuffix(path, ".ts")})
	}

	for _, input := range inputs {
		info, err := os.Stat(input)
		if err != nil {
			return nil, fmt.Errorf("failed to stat input %s: %w", input, err)
		}
		if !info.IsDir() {
			add(filepath.Clean(input))
			continue
		}
		err = filepath.WalkDir(input, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if path != input && (d.Name() == "node_modules" || strings.HasPrefix(d.Name(), ".")) {
					return filepath.SkipDir
				}
				return nil
			}
			add(path)
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to walk input %s: %w", input, err)
		}
	}

	sort.Slice(sources, func(i, j int) bool { return sources[i].Path < sources[j].Path })
	return sources, nil
}

// Templates reads the templates of the source
func (s Source) Templates(ctx context.Context) ([]string, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", s.Path, err)
	}
	if !s.Inline {
		return []string{string(data)}, nil
	}
	templates, err := InlineTemplates(ctx, data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", s.Path, err)
	}
	return templates, nil
}

// InlineTemplates returns the `template:` literals of a component file, in
// source order. Only template strings and plain string literals are read;
// a template built from an expression is skipped.
func InlineTemplates(ctx context.Context, content []byte) ([]string, error) {
	// Parsers are not safe for concurrent use
	parser := sitter.NewParser()
	parser.SetLanguage(typescript.GetLanguage())

	tree, err := parser.ParseCtx(ctx, nil, content)
	if err != nil {
		return nil, fmt.Errorf("tree-sitter parse failed: %w", err)
	}
	defer tree.Close()

	var templates []string
	collectInlineTemplates(tree.RootNode(), content, &templates)
	return templates, nil
}

func collectInlineTemplates(node *sitter.Node, content []byte, templates *[]string) {
	if node == nil {
		return
	}
	if node.Type() == "pair" {
		key := node.ChildByFieldName("key")
		value := node.ChildByFieldName("value")
		if key != nil && value != nil && strings.Trim(key.Content(content), `'"`) == "template" {
			switch value.Type() {
			case "template_string", "string":
				raw := value.Content(content)
				if len(raw) >= 2 {
					*templates = append(*templates, unescapeLiteral(raw[1:len(raw)-1]))
				}
			}
		}
	}
	for i := 0; i < int(node.NamedChildCount()); i++ {
		collectInlineTemplates(node.NamedChild(i), content, templates)
	}
}

// unescapeLiteral decodes the escape sequences of the body of a string or
// template literal. Unknown escapes stand for the escaped character and an
// escaped line break is removed.
func unescapeLiteral(s string) string {
	if !strings.Contains(s, `\\`) {
		return s
	}
	var sb strings.Builder
	sb.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' || i+1 == len(s) {
			sb.WriteByte(c)
			continue
		}
		i++
		switch c = s[i]; c {
		case 'n':
			sb.WriteByte('\n')
		case 't':
			sb.WriteByte('\t')
		case 'r':
			sb.WriteByte('\r')
		case 'b':
			sb.WriteByte('\b')
		case 'f':
			sb.WriteByte('\f')
		case 'v':
			sb.WriteByte('\v')
		case '0':
			sb.WriteByte(0)
		case '\r':
			if i+1 < len(s) && s[i+1] == '\n' {
				i++
			}
		case '\n':
		case 'x':
			if r, ok := parseHex(s, i+1, i+3); ok {
				sb.WriteRune(r)
				i += 2
				continue
			}
			sb.WriteByte(c)
		case 'u':
			if i+1 < len(s) && s[i+1] == '{' {
				if end := strings.IndexByte(s[i:], '}'); end > 0 {
					if r, ok := parseHex(s, i+2, i+end); ok {
						sb.WriteRune(r)
						i += end
						continue
					}
				}
			} else if r, ok := parseHex(s, i+1, i+5); ok {
				sb.WriteRune(r)
				i += 4
				continue
			}
			sb.WriteByte(c)
		default:
			r, size := utf8.DecodeRuneInString(s[i:])
			sb.WriteRune(r)
			i += size - 1
		}
	}
	return sb.String()
}

func parseHex(s string, start, end int) (rune, bool) {
	if start >= end || end > len(s) {
		return 0, false
	}
	n, err := strconv.ParseUint(s[start:end], 16, 32)
	if err != nil || n > utf8.MaxRune {
		return 0, false
	}
	return rune(n), true
}
