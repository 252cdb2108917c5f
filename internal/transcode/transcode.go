// Package transcode converts between the wizard's draft shape and the
// denormalized profile record kept by the store.
//
// Teams and achievements are folded into "Name (Sub)" keyed objects. The
// fold only inverts when neither part contains parentheses; other keys
// decode best-effort and are reported as ambiguities.
package transcode

import (
	"strings"

	"go.uber.org/zap"

	"github.com/meur/athletefolio/internal/draft"
	"github.com/meur/athletefolio/internal/models"
	"github.com/meur/athletefolio/internal/schema"
)

// Ambiguity is a folded key that decoded to a guess
type Ambiguity struct {
	Field string
	Key   string
}

// Transcoder wraps Encode and Decode and logs decode ambiguities
type Transcoder struct {
	log *zap.Logger
}

// New creates a transcoder. A nil logger discards output.
func New(log *zap.Logger) *Transcoder {
	if log == nil {
		log = zap.NewNop()
	}
	return &Transcoder{log: log}
}

// Encode converts a draft to its record shape
func (t *Transcoder) Encode(d draft.Draft) models.Profile {
	return Encode(d)
}

// Decode converts a record back to a draft, logging every key that could
// only be guessed
func (t *Transcoder) Decode(p *models.Profile) draft.Draft {
	d, amb := Decode(p)
	for _, a := range amb {
		t.log.Warn("decode ambiguity",
			zap.String("profile", p.ID),
			zap.String("field", a.Field),
			zap.String("key", a.Key))
	}
	return d
}

// Encode converts a draft to its record shape. Scalar text is trimmed and
// left unset when blank; pending files are skipped.
func Encode(d draft.Draft) models.Profile {
	p := models.Profile{
		FirstName:      text(d, schema.FirstName),
		LastName:       text(d, schema.LastName),
		Sport:          text(d, schema.Sport),
		Position:       text(d, schema.Position),
		Email:          text(d, schema.Email),
		Phone:          text(d, schema.Phone),
		GraduationYear: text(d, schema.GraduationYear),
		Location:       text(d, schema.Location),

		AvatarURL: firstURI(d.Get(schema.ProfilePicture)),
		Gallery:   d.Get(schema.Gallery).URIs(),
		ResumeURL: firstURI(d.Get(schema.Resume)),
		HasLogo:   encodeYesNo(text(d, schema.HasLogo)),
		LogoURL:   firstURI(d.Get(schema.Logo)),

		JourneyTeams: fold(d.Get(schema.JourneyTeams).Items, "team", "position", "explanation"),
		Achievements: fold(d.Get(schema.Achievements).Items, "title", "year", "description"),

		Bio:           text(d, schema.Bio),
		Goals:         text(d, schema.Goals),
		Opportunities: text(d, schema.Opportunities),
	}

	for _, it := range d.Get(schema.EducationalBackground).Items {
		p.EducationalBackground = append(p.EducationalBackground, models.Education{
			School: it["school"],
			Degree: it["degree"],
			Years:  it["years"],
		})
	}
	p.TimelineTeams = encodeTimeline(d.Get(schema.TimelineTeams).Items)
	p.TimelineTournaments = encodeTimeline(d.Get(schema.TimelineTournaments).Items)

	p.VideoLinks = encodeLinks(d.Get(schema.VideoLinks).Items, "title")
	p.Press = encodeLinks(d.Get(schema.Press).Items, "title")
	p.MediaLinks = encodeLinks(d.Get(schema.MediaLinks).Items, "platform")

	return p
}

// Decode converts a record back to a draft. Only values present in the
// record are set; everything else reads as empty.
func Decode(p *models.Profile) (draft.Draft, []Ambiguity) {
	d := draft.Draft{}
	setText := func(field, v string) {
		if v != "" {
			d[field] = draft.Text(v)
		}
	}
	setFiles := func(field string, uris ...string) {
		var refs []draft.FileRef
		for _, u := range uris {
			if u != "" {
				refs = append(refs, draft.Uploaded(u))
			}
		}
		if len(refs) > 0 {
			d[field] = draft.Files(refs...)
		}
	}
	setItems := func(field string, items []draft.Item) {
		if len(items) > 0 {
			d[field] = draft.Items(items...)
		}
	}

	setText(schema.FirstName, p.FirstName)
	setText(schema.LastName, p.LastName)
	setText(schema.Sport, p.Sport)
	setText(schema.Position, p.Position)
	setText(schema.Email, p.Email)
	setText(schema.Phone, p.Phone)
	setText(schema.GraduationYear, p.GraduationYear)
	setText(schema.Location, p.Location)

	setFiles(schema.ProfilePicture, p.AvatarURL)
	setFiles(schema.Gallery, p.Gallery...)
	setFiles(schema.Resume, p.ResumeURL)
	setText(schema.HasLogo, decodeYesNo(p.HasLogo))
	setFiles(schema.Logo, p.LogoURL)

	var amb []Ambiguity
	teams, a := unfold(schema.JourneyTeams, p.JourneyTeams, "team", "position", "explanation")
	amb = append(amb, a...)
	setItems(schema.JourneyTeams, teams)
	achievements, a := unfold(schema.Achievements, p.Achievements, "title", "year", "description")
	amb = append(amb, a...)
	setItems(schema.Achievements, achievements)

	var edu []draft.Item
	for _, e := range p.EducationalBackground {
		edu = append(edu, draft.Item{"school": e.School, "degree": e.Degree, "years": e.Years})
	}
	setItems(schema.EducationalBackground, edu)
	setItems(schema.TimelineTeams, decodeTimeline(p.TimelineTeams))
	setItems(schema.TimelineTournaments, decodeTimeline(p.TimelineTournaments))

	setItems(schema.VideoLinks, decodeLinks(p.VideoLinks, "title"))
	setItems(schema.Press, decodeLinks(p.Press, "title"))
	setItems(schema.MediaLinks, decodeLinks(p.MediaLinks, "platform"))

	setText(schema.Bio, p.Bio)
	setText(schema.Goals, p.Goals)
	setText(schema.Opportunities, p.Opportunities)

	return d, amb
}

func text(d draft.Draft, field string) string {
	return strings.TrimSpace(d.Get(field).Text)
}

func firstURI(v draft.Value) string {
	if uris := v.URIs(); len(uris) > 0 {
		return uris[0]
	}
	return ""
}

func encodeYesNo(v string) *bool {
	var b bool
	switch v {
	case schema.Yes:
		b = true
	case schema.No:
		b = false
	default:
		return nil
	}
	return &b
}

func decodeYesNo(b *bool) string {
	switch {
	case b == nil:
		return ""
	case *b:
		return schema.Yes
	}
	return schema.No
}

// fold turns group items into a "name (sub)" -> value map. Items with no
// name or sub are skipped; a repeated key overwrites the earlier value.
func fold(items []draft.Item, name, sub, value string) models.FoldedMap {
	var m models.FoldedMap
	for _, it := range items {
		key := FormatKey(it[name], it[sub])
		if key == "" {
			continue
		}
		m = m.Set(key, it[value])
	}
	return m
}

func unfold(field string, m models.FoldedMap, name, sub, value string) ([]draft.Item, []Ambiguity) {
	var items []draft.Item
	var amb []Ambiguity
	for _, e := range m {
		k := ParseKey(e.Key)
		if _, ok := k.(Unparsed); ok {
			amb = append(amb, Ambiguity{Field: field, Key: e.Key})
		}
		n, s := Split(k)
		items = append(items, draft.Item{name: n, sub: s, value: e.Value})
	}
	return items, amb
}

func encodeTimeline(items []draft.Item) []models.TimelineItem {
	var out []models.TimelineItem
	for _, it := range items {
		out = append(out, models.TimelineItem{Name: it["name"], Year: it["year"]})
	}
	return out
}

func decodeTimeline(in []models.TimelineItem) []draft.Item {
	var out []draft.Item
	for _, t := range in {
		out = append(out, draft.Item{"name": t.Name, "year": t.Year})
	}
	return out
}

// encodeLinks maps link items; label is the sub-field naming the link,
// "title" or "platform"
func encodeLinks(items []draft.Item, label string) []models.Link {
	var out []models.Link
	for _, it := range items {
		l := models.Link{URL: it["url"]}
		if label == "platform" {
			l.Platform = it[label]
		} else {
			l.Title = it[label]
		}
		out = append(out, l)
	}
	return out
}

func decodeLinks(in []models.Link, label string) []draft.Item {
	var out []draft.Item
	for _, l := range in {
		text := l.Title
		if label == "platform" {
			text = l.Platform
		}
		out = append(out, draft.Item{label: text, "url": l.URL})
	}
	return out
}
