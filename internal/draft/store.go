package draft

import (
	"errors"
	"fmt"

	"github.com/meur/athletefolio/internal/schema"
)

var (
	// ErrUnknownField is returned for names the schema does not define
	ErrUnknownField = errors.New("unknown field")
	// ErrWrongKind is returned when an operation does not fit the field's kind
	ErrWrongKind = errors.New("operation does not match field kind")
)

// CapacityError reports files dropped because a field was full
type CapacityError struct {
	Field    string
	Capacity int
	Dropped  int
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("%s holds at most %d files, %d not added", e.Field, e.Capacity, e.Dropped)
}

// TypeError reports files skipped because of their content type
type TypeError struct {
	Field     string
	Filenames []string
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("%s does not accept %v", e.Field, e.Filenames)
}

// Store is the mutable draft of one wizard. It is not safe for
// concurrent use; one wizard owns one store.
type Store struct {
	schema *schema.Schema
	values Draft
}

// NewStore creates an empty draft store for a schema
func NewStore(s *schema.Schema) *Store {
	return &Store{schema: s, values: Draft{}}
}

// Schema returns the schema the store was built for
func (s *Store) Schema() *schema.Schema {
	return s.schema
}

// Get returns a field's value. Unknown fields are empty.
func (s *Store) Get(field string) Value {
	return s.values[field]
}

// Set overwrites a field's value
func (s *Store) Set(field string, v Value) error {
	if _, err := s.lookup(field); err != nil {
		return err
	}
	s.values[field] = v.Clone()
	return nil
}

// SetText sets a text or enum field
func (s *Store) SetText(field, text string) error {
	f, err := s.lookup(field)
	if err != nil {
		return err
	}
	if f.Kind != schema.KindText && f.Kind != schema.KindEnum {
		return fmt.Errorf("%s: %w", field, ErrWrongKind)
	}
	s.values[field] = Text(text)
	return nil
}

// Append adds an item to the end of a repeating group. A nil item adds an
// empty entry with every sub-field blank.
func (s *Store) Append(field string, item Item) error {
	f, err := s.group(field)
	if err != nil {
		return err
	}
	if item == nil {
		item = make(Item, len(f.Item))
		for _, sub := range f.Item {
			item[sub.Name] = ""
		}
	}
	v := s.values[field]
	s.values[field] = Value{Items: append(cloneItems(v.Items), item.Clone())}
	return nil
}

// RemoveAt drops the item at index i, keeping the order of the rest.
// Out of range indexes leave the group untouched.
func (s *Store) RemoveAt(field string, i int) error {
	if _, err := s.group(field); err != nil {
		return err
	}
	items := s.values[field].Items
	if i < 0 || i >= len(items) {
		return nil
	}
	out := make([]Item, 0, len(items)-1)
	for j, it := range items {
		if j != i {
			out = append(out, it)
		}
	}
	s.values[field] = Value{Items: out}
	return nil
}

// SetItemField edits one sub-field of one group item
func (s *Store) SetItemField(field string, i int, sub, value string) error {
	f, err := s.group(field)
	if err != nil {
		return err
	}
	if _, ok := f.Sub(sub); !ok {
		return fmt.Errorf("%s.%s: %w", field, sub, ErrUnknownField)
	}
	items := s.values[field].Items
	if i < 0 || i >= len(items) {
		return fmt.Errorf("%s: index %d out of range", field, i)
	}
	items = cloneItems(items)
	if items[i] == nil {
		items[i] = Item{}
	}
	items[i][sub] = value
	s.values[field] = Value{Items: items}
	return nil
}

// AttachFiles appends selected files to a file field. Files with a content
// type the field does not accept are skipped and reported with a
// *TypeError. When the selection exceeds the field's remaining capacity it
// is truncated, the accepted files are kept and a *CapacityError is
// returned. A single-file field is replaced by the new selection.
func (s *Store) AttachFiles(field string, files ...PendingFile) error {
	f, err := s.lookup(field)
	if err != nil {
		return err
	}
	if f.Kind != schema.KindFile && f.Kind != schema.KindFileList {
		return fmt.Errorf("%s: %w", field, ErrWrongKind)
	}

	var errs []error

	accepted := make([]PendingFile, 0, len(files))
	var rejected []string
	for _, pf := range files {
		if !f.Accepts(pf.ContentType) {
			rejected = append(rejected, pf.Filename)
			continue
		}
		accepted = append(accepted, pf)
	}
	if len(rejected) > 0 {
		errs = append(errs, &TypeError{Field: field, Filenames: rejected})
	}
	if len(accepted) == 0 {
		return errors.Join(errs...)
	}

	var existing []FileRef
	if f.Kind == schema.KindFileList {
		existing = s.values[field].Files
	}

	room := len(accepted)
	if c := f.Capacity(); c > 0 {
		room = c - len(existing)
		if room < 0 {
			room = 0
		}
	}
	if len(accepted) > room {
		errs = append(errs, &CapacityError{Field: field, Capacity: f.Capacity(), Dropped: len(accepted) - room})
		accepted = accepted[:room]
	}

	refs := make([]FileRef, 0, len(existing)+len(accepted))
	refs = append(refs, existing...)
	for _, pf := range accepted {
		refs = append(refs, Pending(pf))
	}
	s.values[field] = Value{Files: refs}

	return errors.Join(errs...)
}

// RemoveFile drops the file at index i from a file field
func (s *Store) RemoveFile(field string, i int) error {
	f, err := s.lookup(field)
	if err != nil {
		return err
	}
	if f.Kind != schema.KindFile && f.Kind != schema.KindFileList {
		return fmt.Errorf("%s: %w", field, ErrWrongKind)
	}
	files := s.values[field].Files
	if i < 0 || i >= len(files) {
		return nil
	}
	out := make([]FileRef, 0, len(files)-1)
	out = append(out, files[:i]...)
	out = append(out, files[i+1:]...)
	s.values[field] = Value{Files: out}
	return nil
}

// Hydrate replaces the whole draft, typically with a decoded record when
// the wizard opens in edit mode. Fields missing from d become empty, and
// names the schema does not know are dropped.
func (s *Store) Hydrate(d Draft) {
	values := make(Draft, len(d))
	for _, f := range s.schema.Fields() {
		values[f.Name] = d[f.Name].Clone()
	}
	s.values = values
}

// Snapshot returns a deep copy of the current draft
func (s *Store) Snapshot() Draft {
	return s.values.Clone()
}

func (s *Store) lookup(field string) (schema.Field, error) {
	f, ok := s.schema.Field(field)
	if !ok {
		return schema.Field{}, fmt.Errorf("%s: %w", field, ErrUnknownField)
	}
	return f, nil
}

func (s *Store) group(field string) (schema.Field, error) {
	f, err := s.lookup(field)
	if err != nil {
		return f, err
	}
	if f.Kind != schema.KindGroup {
		return f, fmt.Errorf("%s: %w", field, ErrWrongKind)
	}
	return f, nil
}

func cloneItems(items []Item) []Item {
	out := make([]Item, len(items))
	for i, it := range items {
		out[i] = it.Clone()
	}
	return out
}
