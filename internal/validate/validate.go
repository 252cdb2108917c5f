// Package validate checks a draft against its schema one wizard step at a
// time. Failures are returned as messages keyed by field, never as errors.
package validate

import (
	"fmt"
	"net/mail"
	"net/url"
	"regexp"
	"sort"
	"strings"

	"github.com/meur/athletefolio/internal/draft"
	"github.com/meur/athletefolio/internal/schema"
)

// Errors maps a field key to its message. Group sub-fields use keys of the
// form "field[i].sub".
type Errors map[string]string

// Valid reports whether there are no messages
func (e Errors) Valid() bool {
	return len(e) == 0
}

// Fields returns the offending keys, sorted
func (e Errors) Fields() []string {
	keys := make([]string, 0, len(e))
	for k := range e {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ItemKey builds the key for a sub-field of a group item
func ItemKey(field string, i int, sub string) string {
	return fmt.Sprintf("%s[%d].%s", field, i, sub)
}

var yearPattern = regexp.MustCompile(`^(19|20)\d{2}$`)

// Step checks the fields owned by step and ignores all others
func Step(s *schema.Schema, d draft.Draft, step int) Errors {
	errs := Errors{}
	for _, f := range s.FieldsOf(step) {
		checkField(errs, f, d.Get(f.Name))
	}
	return errs
}

// IsStepValid reports whether every field owned by step is valid
func IsStepValid(s *schema.Schema, d draft.Draft, step int) bool {
	return Step(s, d, step).Valid()
}

// CanAdvance reports whether the wizard may move forward past step.
// Moving backward never needs a check.
func CanAdvance(s *schema.Schema, d draft.Draft, step int) bool {
	return IsStepValid(s, d, step)
}

// All checks every step
func All(s *schema.Schema, d draft.Draft) Errors {
	errs := Errors{}
	for step := 1; step <= s.StepCount(); step++ {
		for k, msg := range Step(s, d, step) {
			errs[k] = msg
		}
	}
	return errs
}

func checkField(errs Errors, f schema.Field, v draft.Value) {
	switch f.Kind {
	case schema.KindText:
		text := strings.TrimSpace(v.Text)
		if text == "" {
			if f.Required {
				errs[f.Name] = f.Label + " is required"
			}
			return
		}
		if msg := checkFormat(f.Format, text); msg != "" {
			errs[f.Name] = msg
		}

	case schema.KindEnum:
		if v.Text == "" {
			if f.Required {
				errs[f.Name] = f.Label + " is required"
			}
			return
		}
		if !f.HasOption(v.Text) {
			errs[f.Name] = "Invalid " + strings.ToLower(f.Label)
		}

	case schema.KindFile, schema.KindFileList:
		n := 0
		for _, ref := range v.Files {
			if !ref.IsZero() {
				n++
			}
		}
		if n == 0 {
			if f.Required {
				errs[f.Name] = f.Label + " is required"
			}
			return
		}
		if c := f.Capacity(); c > 0 && n > c {
			errs[f.Name] = fmt.Sprintf("At most %d files allowed", c)
		}

	case schema.KindGroup:
		if len(v.Items) == 0 {
			if f.Required {
				errs[f.Name] = "At least one " + strings.ToLower(f.Label) + " is required"
			}
			return
		}
		for i, it := range v.Items {
			checkItem(errs, f, i, it)
		}
	}
}

func checkItem(errs Errors, f schema.Field, i int, it draft.Item) {
	for _, sub := range f.Item {
		val := strings.TrimSpace(it[sub.Name])
		if val == "" {
			if sub.Name == f.ItemRequired {
				errs[ItemKey(f.Name, i, sub.Name)] = sub.Label + " is required"
			}
			continue
		}
		if msg := checkFormat(sub.Format, val); msg != "" {
			errs[ItemKey(f.Name, i, sub.Name)] = msg
		}
	}
}

func checkFormat(format schema.Format, v string) string {
	switch format {
	case schema.FormatEmail:
		addr, err := mail.ParseAddress(v)
		if err != nil || addr.Address != v {
			return "Invalid email address"
		}
	case schema.FormatURL:
		u, err := url.Parse(v)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return "Invalid URL"
		}
	case schema.FormatYear:
		if !yearPattern.MatchString(v) {
			return "Invalid year"
		}
	}
	return ""
}
