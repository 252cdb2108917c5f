package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// FoldedEntry is one key/value pair of a FoldedMap
type FoldedEntry struct {
	Key   string
	Value string
}

// FoldedMap is a JSON object of string values whose key order is kept
// through marshal and unmarshal
type FoldedMap []FoldedEntry

// Get returns the value stored under key
func (m FoldedMap) Get(key string) (string, bool) {
	for _, e := range m {
		if e.Key == key {
			return e.Value, true
		}
	}
	return "", false
}

// Set stores value under key. An existing key keeps its position.
func (m FoldedMap) Set(key, value string) FoldedMap {
	for i, e := range m {
		if e.Key == key {
			m[i].Value = value
			return m
		}
	}
	return append(m, FoldedEntry{Key: key, Value: value})
}

// MarshalJSON writes the entries as an object in order
func (m FoldedMap) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range m {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(e.Key)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(e.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads an object keeping the order keys appear in.
// Repeated keys keep the first position and the last value.
func (m *FoldedMap) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*m = nil
		return nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("folded map: expected object, got %v", tok)
	}

	out := FoldedMap{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("folded map: expected key, got %v", tok)
		}
		var value string
		if err := dec.Decode(&value); err != nil {
			return fmt.Errorf("folded map: value of %q: %w", key, err)
		}
		out = out.Set(key, value)
	}
	if _, err := dec.Token(); err != nil {
		return err
	}

	*m = out
	return nil
}
