package draft

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/meur/athletefolio/internal/schema"
)

// Parse reads a draft from its JSON wire form. Text and enum fields are
// strings, file fields a URI string, file lists an array of URI strings and
// groups an array of string-valued objects. Unknown field and sub-field
// names are rejected.
func Parse(s *schema.Schema, data []byte) (Draft, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("invalid draft: %w", err)
	}

	d := make(Draft, len(raw))
	for name, msg := range raw {
		f, ok := s.Field(name)
		if !ok {
			return nil, fmt.Errorf("%s: %w", name, ErrUnknownField)
		}
		if bytes.Equal(bytes.TrimSpace(msg), []byte("null")) {
			continue
		}
		v, err := parseValue(f, msg)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		d[name] = v
	}
	return d, nil
}

func parseValue(f schema.Field, msg json.RawMessage) (Value, error) {
	switch f.Kind {
	case schema.KindText, schema.KindEnum:
		var s string
		if err := json.Unmarshal(msg, &s); err != nil {
			return Value{}, err
		}
		return Text(s), nil

	case schema.KindFile:
		var uri string
		if err := json.Unmarshal(msg, &uri); err != nil {
			return Value{}, err
		}
		if uri == "" {
			return Value{}, nil
		}
		return Files(Uploaded(uri)), nil

	case schema.KindFileList:
		var uris []string
		if err := json.Unmarshal(msg, &uris); err != nil {
			return Value{}, err
		}
		var refs []FileRef
		for _, u := range uris {
			if u != "" {
				refs = append(refs, Uploaded(u))
			}
		}
		return Files(refs...), nil

	case schema.KindGroup:
		var items []Item
		if err := json.Unmarshal(msg, &items); err != nil {
			return Value{}, err
		}
		for i, it := range items {
			if it == nil {
				items[i] = Item{}
				continue
			}
			for sub := range it {
				if _, ok := f.Sub(sub); !ok {
					return Value{}, fmt.Errorf("item %d: %s: %w", i, sub, ErrUnknownField)
				}
			}
		}
		return Items(items...), nil
	}
	return Value{}, fmt.Errorf("unsupported kind %s", f.Kind)
}

// Marshal renders a draft in its JSON wire form. Pending files have no
// URI yet and are left out.
func Marshal(s *schema.Schema, d Draft) ([]byte, error) {
	out := make(map[string]any, len(d))
	for _, f := range s.Fields() {
		v, ok := d[f.Name]
		if !ok {
			continue
		}
		switch f.Kind {
		case schema.KindText, schema.KindEnum:
			out[f.Name] = v.Text
		case schema.KindFile:
			uri := ""
			if uris := v.URIs(); len(uris) > 0 {
				uri = uris[0]
			}
			out[f.Name] = uri
		case schema.KindFileList:
			uris := v.URIs()
			if uris == nil {
				uris = []string{}
			}
			out[f.Name] = uris
		case schema.KindGroup:
			items := v.Items
			if items == nil {
				items = []Item{}
			}
			out[f.Name] = items
		}
	}
	return json.Marshal(out)
}
