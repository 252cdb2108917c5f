package transcode

import (
	"regexp"
	"strings"
)

// Key is a decoded folded-map key. It is either Parsed, when the key has
// the "name (sub)" shape or no parentheses at all, or Unparsed, when the
// parentheses make the split ambiguous.
type Key interface {
	isKey()
}

// Parsed is a key that split cleanly
type Parsed struct {
	Name string
	Sub  string
}

// Unparsed is a key that could not be split, kept as written
type Unparsed struct {
	Raw string
}

func (Parsed) isKey()   {}
func (Unparsed) isKey() {}

var keyPattern = regexp.MustCompile(`^(.*) \(([^()]*)\)$`)

// FormatKey folds a name and its sub-field into one key. An empty sub
// leaves the bare name.
func FormatKey(name, sub string) string {
	if sub == "" {
		return name
	}
	return name + " (" + sub + ")"
}

// ParseKey splits a folded key. It is the inverse of FormatKey only when
// neither part contains parentheses.
func ParseKey(raw string) Key {
	if !strings.ContainsAny(raw, "()") {
		return Parsed{Name: raw}
	}
	m := keyPattern.FindStringSubmatch(raw)
	if m == nil || m[1] == "" || strings.ContainsAny(m[1], "()") {
		return Unparsed{Raw: raw}
	}
	return Parsed{Name: m[1], Sub: m[2]}
}

// Split returns the name and sub-field a key decodes to. Unparsed keys
// become the name with an empty sub-field.
func Split(k Key) (name, sub string) {
	switch k := k.(type) {
	case Parsed:
		return k.Name, k.Sub
	case Unparsed:
		return k.Raw, ""
	}
	return "", ""
}
