// Package draft holds the in-progress values of a form wizard, keyed by
// field name, before they become a persisted record.
package draft

// PendingFile is a file the user selected that has not been uploaded yet
type PendingFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

// FileRef points at a file either still pending or already in object storage
type FileRef struct {
	URI     string
	Pending *PendingFile
}

// Uploaded returns a reference to a stored object
func Uploaded(uri string) FileRef {
	return FileRef{URI: uri}
}

// Pending returns a reference to a file awaiting upload
func Pending(f PendingFile) FileRef {
	return FileRef{Pending: &f}
}

// IsPending reports whether the file still needs uploading
func (r FileRef) IsPending() bool {
	return r.URI == "" && r.Pending != nil
}

// IsZero reports whether the reference points nowhere
func (r FileRef) IsZero() bool {
	return r.URI == "" && r.Pending == nil
}

// Item is one entry of a repeating group, sub-field name to value
type Item map[string]string

// Clone copies the item
func (it Item) Clone() Item {
	if it == nil {
		return nil
	}
	out := make(Item, len(it))
	for k, v := range it {
		out[k] = v
	}
	return out
}

// Value is the current value of one field. Which part is meaningful
// depends on the field's kind: Text for text and enums, Files for file
// fields, Items for repeating groups. The zero Value is empty for every kind.
type Value struct {
	Text  string
	Files []FileRef
	Items []Item
}

// Text wraps a text or enum value
func Text(s string) Value {
	return Value{Text: s}
}

// Files wraps file references
func Files(refs ...FileRef) Value {
	return Value{Files: refs}
}

// Items wraps repeating group entries
func Items(items ...Item) Value {
	return Value{Items: items}
}

// IsEmpty reports whether the value holds nothing
func (v Value) IsEmpty() bool {
	return v.Text == "" && len(v.Files) == 0 && len(v.Items) == 0
}

// URIs returns the uploaded file URIs, skipping pending files
func (v Value) URIs() []string {
	var out []string
	for _, f := range v.Files {
		if f.URI != "" {
			out = append(out, f.URI)
		}
	}
	return out
}

// HasPending reports whether any file still needs uploading
func (v Value) HasPending() bool {
	for _, f := range v.Files {
		if f.IsPending() {
			return true
		}
	}
	return false
}

// Clone deep-copies the value. Pending file bytes are shared.
func (v Value) Clone() Value {
	out := Value{Text: v.Text}
	if v.Files != nil {
		out.Files = make([]FileRef, len(v.Files))
		copy(out.Files, v.Files)
	}
	if v.Items != nil {
		out.Items = make([]Item, len(v.Items))
		for i, it := range v.Items {
			out.Items[i] = it.Clone()
		}
	}
	return out
}

// Draft maps field names to values. Absent names read as empty.
type Draft map[string]Value

// Get returns the value of a field, empty when absent
func (d Draft) Get(field string) Value {
	return d[field]
}

// Clone deep-copies the draft
func (d Draft) Clone() Draft {
	out := make(Draft, len(d))
	for k, v := range d {
		out[k] = v.Clone()
	}
	return out
}
