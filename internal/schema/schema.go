package schema

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Kind is the shape of a form field's value
type Kind int

const (
	KindText Kind = iota
	KindEnum
	KindFile
	KindFileList
	KindGroup
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindEnum:
		return "enum"
	case KindFile:
		return "file"
	case KindFileList:
		return "file_list"
	case KindGroup:
		return "group"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// MarshalText renders the kind by name in JSON
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Format is an extra constraint on a text value
type Format int

const (
	FormatNone Format = iota
	FormatEmail
	FormatURL
	FormatYear
)

func (f Format) String() string {
	switch f {
	case FormatEmail:
		return "email"
	case FormatURL:
		return "url"
	case FormatYear:
		return "year"
	}
	return ""
}

// MarshalText renders the format by name in JSON
func (f Format) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

// SubField is one column of a repeating group item
type SubField struct {
	Name   string `json:"name"`
	Label  string `json:"label"`
	Format Format `json:"format,omitempty"`
}

// Field describes a single form field
type Field struct {
	Name     string   `json:"name"`
	Label    string   `json:"label"`
	Kind     Kind     `json:"kind"`
	Required bool     `json:"required"`
	Step     int      `json:"step"`
	Format   Format   `json:"format,omitempty"`
	Options  []string `json:"options,omitempty"`  // For enums
	MaxFiles int      `json:"max_files,omitempty"` // For file fields, 0 = unlimited
	Accept   []string `json:"accept,omitempty"`    // Content-type prefixes

	// For groups
	Item         []SubField `json:"item,omitempty"`
	ItemRequired string     `json:"item_required,omitempty"`
}

// Capacity returns how many files the field holds, 0 meaning unlimited
func (f Field) Capacity() int {
	if f.Kind == KindFile {
		return 1
	}
	return f.MaxFiles
}

// Accepts reports whether a file of the given content type may be attached
func (f Field) Accepts(contentType string) bool {
	if len(f.Accept) == 0 {
		return true
	}
	ct := strings.ToLower(contentType)
	for _, prefix := range f.Accept {
		if strings.HasPrefix(ct, prefix) {
			return true
		}
	}
	return false
}

// HasOption reports whether v is one of the enum's options
func (f Field) HasOption(v string) bool {
	for _, o := range f.Options {
		if o == v {
			return true
		}
	}
	return false
}

// Sub returns the group's sub-field by name
func (f Field) Sub(name string) (SubField, bool) {
	for _, s := range f.Item {
		if s.Name == name {
			return s, true
		}
	}
	return SubField{}, false
}

// Step is an ordered group of fields shown together
type Step struct {
	Index  int      `json:"index"`
	Title  string   `json:"title"`
	Fields []string `json:"fields"`
}

// Schema is the full, ordered field set of a wizard
type Schema struct {
	fields []Field
	byName map[string]int
	steps  []Step
}

// New builds a schema, checking that names are unique and that every
// field belongs to one of the steps 1..len(titles)
func New(titles []string, fields []Field) (*Schema, error) {
	if len(titles) == 0 {
		return nil, fmt.Errorf("schema has no steps")
	}

	s := &Schema{
		fields: make([]Field, 0, len(fields)),
		byName: make(map[string]int, len(fields)),
		steps:  make([]Step, len(titles)),
	}
	for i, t := range titles {
		s.steps[i] = Step{Index: i + 1, Title: t}
	}

	for _, f := range fields {
		if f.Name == "" {
			return nil, fmt.Errorf("field with empty name")
		}
		if _, dup := s.byName[f.Name]; dup {
			return nil, fmt.Errorf("duplicate field %q", f.Name)
		}
		if f.Step < 1 || f.Step > len(titles) {
			return nil, fmt.Errorf("field %q: step %d out of range 1..%d", f.Name, f.Step, len(titles))
		}
		if f.Kind == KindGroup {
			if len(f.Item) == 0 {
				return nil, fmt.Errorf("group %q has no sub-fields", f.Name)
			}
			if f.ItemRequired != "" {
				if _, ok := f.Sub(f.ItemRequired); !ok {
					return nil, fmt.Errorf("group %q: unknown required sub-field %q", f.Name, f.ItemRequired)
				}
			}
		}
		if f.Kind == KindEnum && len(f.Options) == 0 {
			return nil, fmt.Errorf("enum %q has no options", f.Name)
		}
		s.byName[f.Name] = len(s.fields)
		s.fields = append(s.fields, f)
		s.steps[f.Step-1].Fields = append(s.steps[f.Step-1].Fields, f.Name)
	}

	for _, st := range s.steps {
		if len(st.Fields) == 0 {
			return nil, fmt.Errorf("step %d (%s) owns no fields", st.Index, st.Title)
		}
	}

	return s, nil
}

// MustNew is New that panics, for hand-written schemas
func MustNew(titles []string, fields []Field) *Schema {
	s, err := New(titles, fields)
	if err != nil {
		panic(err)
	}
	return s
}

// Field looks up a field by name
func (s *Schema) Field(name string) (Field, bool) {
	i, ok := s.byName[name]
	if !ok {
		return Field{}, false
	}
	return s.fields[i], true
}

// Fields returns all fields in declaration order
func (s *Schema) Fields() []Field {
	out := make([]Field, len(s.fields))
	copy(out, s.fields)
	return out
}

// StepCount returns N, the number of steps
func (s *Schema) StepCount() int {
	return len(s.steps)
}

// Steps returns the ordered steps
func (s *Schema) Steps() []Step {
	out := make([]Step, len(s.steps))
	copy(out, s.steps)
	return out
}

// FieldsOf returns the fields owned by a step. Out of range steps own nothing.
func (s *Schema) FieldsOf(step int) []Field {
	if step < 1 || step > len(s.steps) {
		return nil
	}
	names := s.steps[step-1].Fields
	out := make([]Field, 0, len(names))
	for _, n := range names {
		out = append(out, s.fields[s.byName[n]])
	}
	return out
}

// MarshalJSON exposes the schema to form clients
func (s *Schema) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Steps  []Step  `json:"steps"`
		Fields []Field `json:"fields"`
	}{s.steps, s.fields})
}
