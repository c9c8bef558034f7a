package manifest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
)

// Translation is a flat translation file: dotted keys with their JSON
// values, in file order.
type Translation struct {
	keys   []string
	values map[string]json.RawMessage
}

// NewTranslation creates an empty Translation
func NewTranslation() *Translation {
	return &Translation{values: make(map[string]json.RawMessage)}
}

// Set sets the string value of key, appending the key when it is new
func (t *Translation) Set(key, value string) {
	t.SetRaw(key, marshalString(value))
}

// SetRaw sets the JSON value of key as is
func (t *Translation) SetRaw(key string, value json.RawMessage) {
	if _, ok := t.values[key]; !ok {
		t.keys = append(t.keys, key)
	}
	t.values[key] = value
}

// Get returns the value of key. Strings are unquoted; other values are
// returned as JSON text.
func (t *Translation) Get(key string) (string, bool) {
	raw, ok := t.values[key]
	if !ok {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, true
	}
	return string(raw), true
}

// Delete removes key
func (t *Translation) Delete(key string) {
	if _, ok := t.values[key]; !ok {
		return
	}
	delete(t.values, key)
	for i, k := range t.keys {
		if k == key {
			t.keys = append(t.keys[:i], t.keys[i+1:]...)
			break
		}
	}
}

// Keys returns the keys in order
func (t *Translation) Keys() []string {
	return append([]string(nil), t.keys...)
}

// Len returns the number of keys
func (t *Translation) Len() int {
	return len(t.keys)
}

// Sort orders the keys alphabetically
func (t *Translation) Sort() {
	sort.Strings(t.keys)
}

// ParseTranslation reads a translation file. Nested objects are flattened
// into dotted keys; an empty object is kept as a `{}` value. Values other
// than strings keep their JSON text.
func ParseTranslation(data []byte) (*Translation, error) {
	t := NewTranslation()
	if len(bytes.TrimSpace(data)) == 0 {
		return t, nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("invalid translation file: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("invalid translation file: expected an object")
	}
	if err := t.readObject(dec, ""); err != nil {
		return nil, fmt.Errorf("invalid translation file: %w", err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("invalid translation file: trailing data")
	}
	return t, nil
}

func (t *Translation) readObject(dec *json.Decoder, prefix string) error {
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key := tok.(string)
		if prefix != "" {
			key = prefix + "." + key
		}

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return err
		}
		trimmed := bytes.TrimSpace(raw)
		if len(trimmed) == 0 || trimmed[0] != '{' {
			if len(trimmed) > 0 && trimmed[0] == '[' {
				return fmt.Errorf("unsupported array value for %q", key)
			}
			t.SetRaw(key, append(json.RawMessage(nil), trimmed...))
			continue
		}

		n := t.Len()
		if err := t.readNested(trimmed, key); err != nil {
			return err
		}
		if t.Len() == n {
			t.SetRaw(key, json.RawMessage("{}"))
		}
	}
	// closing brace
	_, err := dec.Token()
	return err
}

func (t *Translation) readNested(data []byte, prefix string) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if _, err := dec.Token(); err != nil {
		return err
	}
	return t.readObject(dec, prefix)
}

// Marshal renders the translation as indented JSON. With unflat set, dotted
// keys become nested objects, except for keys under a prefix that is itself
// a key: those stay flat.
func (t *Translation) Marshal(unflat bool) ([]byte, error) {
	root := &jsonObject{}
	for _, key := range t.keys {
		value := t.values[key]
		if !unflat || t.hasKeyPrefix(key) {
			root.set(key, value)
			continue
		}
		root.setPath(strings.Split(key, "."), value)
	}

	var buf bytes.Buffer
	if err := root.write(&buf, 1); err != nil {
		return nil, err
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

func (t *Translation) hasKeyPrefix(key string) bool {
	for i := strings.IndexByte(key, '.'); i >= 0; {
		if _, ok := t.values[key[:i]]; ok {
			return true
		}
		next := strings.IndexByte(key[i+1:], '.')
		if next < 0 {
			break
		}
		i += next + 1
	}
	return false
}

// jsonObject is an insertion ordered JSON object of raw values and objects
type jsonObject struct {
	keys     []string
	children map[string]interface{}
}

func (o *jsonObject) set(key string, value interface{}) {
	if o.children == nil {
		o.children = make(map[string]interface{})
	}
	if _, ok := o.children[key]; !ok {
		o.keys = append(o.keys, key)
	}
	o.children[key] = value
}

func (o *jsonObject) setPath(path []string, value json.RawMessage) {
	if len(path) == 1 {
		o.set(path[0], value)
		return
	}
	child, ok := o.children[path[0]].(*jsonObject)
	if !ok {
		child = &jsonObject{}
		o.set(path[0], child)
	}
	child.setPath(path[1:], value)
}

func (o *jsonObject) write(buf *bytes.Buffer, depth int) error {
	if len(o.keys) == 0 {
		buf.WriteString("{}")
		return nil
	}
	indent := strings.Repeat("  ", depth)
	buf.WriteString("{\n")
	for i, key := range o.keys {
		buf.WriteString(indent)
		buf.Write(marshalString(key))
		buf.WriteString(": ")
		switch v := o.children[key].(type) {
		case *jsonObject:
			if err := v.write(buf, depth+1); err != nil {
				return err
			}
		case json.RawMessage:
			buf.Write(v)
		}
		if i < len(o.keys)-1 {
			buf.WriteByte(',')
		}
		buf.WriteByte('\n')
	}
	buf.WriteString(strings.Repeat("  ", depth-1))
	buf.WriteByte('}')
	return nil
}

// marshalString quotes s without escaping markup. Encoding a string into a
// buffer cannot fail.
func marshalString(s string) json.RawMessage {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.Encode(s)
	return bytes.TrimRight(buf.Bytes(), "\n")
}
