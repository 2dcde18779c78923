package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Field is one top-level member of a JSON object body
type Field struct {
	Name  string
	Value any // string, json.Number, bool, nil, []any or map[string]any
}

// Patch is a JSON object whose members keep the order they had in the
// request body. Update placeholders are numbered in this order.
type Patch struct {
	fields []Field
	index  map[string]int
}

// ParsePatch decodes body, which must hold exactly one JSON object.
// A repeated key keeps its first position and its last value.
func ParsePatch(body string) (*Patch, error) {
	dec := json.NewDecoder(strings.NewReader(body))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("failed to parse request body: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("failed to parse request body: expected JSON object")
	}

	p := &Patch{index: make(map[string]int)}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("failed to parse request body: %w", err)
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("failed to parse request body: invalid object key %v", tok)
		}

		var value any
		if err := dec.Decode(&value); err != nil {
			return nil, fmt.Errorf("failed to parse request body: %w", err)
		}
		p.set(key, value)
	}

	// closing brace
	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("failed to parse request body: %w", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse request body: unexpected data after JSON object")
	}

	return p, nil
}

func (p *Patch) set(name string, value any) {
	if i, ok := p.index[name]; ok {
		p.fields[i].Value = value
		return
	}
	p.index[name] = len(p.fields)
	p.fields = append(p.fields, Field{Name: name, Value: value})
}

// Get returns the value of the named member
func (p *Patch) Get(name string) (any, bool) {
	i, ok := p.index[name]
	if !ok {
		return nil, false
	}
	return p.fields[i].Value, true
}

// Fields returns the members in body order
func (p *Patch) Fields() []Field {
	out := make([]Field, len(p.fields))
	copy(out, p.fields)
	return out
}

// Without returns the members in body order, minus the named one
func (p *Patch) Without(name string) []Field {
	out := make([]Field, 0, len(p.fields))
	for _, f := range p.fields {
		if f.Name != name {
			out = append(out, f)
		}
	}
	return out
}

// MarshalJSON encodes the object with its original member order
func (p *Patch) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range p.fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(f.Name)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(f.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// StringField returns the named member when it is a JSON string.
// A JSON null counts as absent. ok is false when the member is absent or has
// another type.
func (p *Patch) StringField(name string) (value string, present bool, ok bool) {
	raw, present := p.Get(name)
	if !present || raw == nil {
		return "", false, false
	}
	s, ok := raw.(string)
	return s, true, ok
}
