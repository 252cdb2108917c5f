// Package directory projects published profiles into athlete cards and
// filters them for browsing.
package directory

import (
	"net/url"
	"sort"
	"strings"

	"github.com/meur/athletefolio/internal/models"
)

// Wildcard is the selector value that matches every card
const Wildcard = "all"

// Criteria is a snapshot of the directory's filter inputs. Empty and
// "all" values never exclude a card.
type Criteria struct {
	Name     string `json:"name"`
	Sport    string `json:"sport"`
	Position string `json:"position"`
	Year     string `json:"year"`
	Location string `json:"location"`
}

// CriteriaFromQuery reads criteria from URL query parameters
func CriteriaFromQuery(q url.Values) Criteria {
	return Criteria{
		Name:     q.Get("name"),
		Sport:    q.Get("sport"),
		Position: q.Get("position"),
		Year:     q.Get("year"),
		Location: q.Get("location"),
	}
}

// Result is the visible subset of the directory
type Result struct {
	Cards []models.AthleteCard `json:"cards"`
	Count int                  `json:"count"`
}

// Apply keeps the cards matching every active criterion, in input order
func Apply(cards []models.AthleteCard, c Criteria) Result {
	name := strings.ToLower(strings.TrimSpace(c.Name))
	out := make([]models.AthleteCard, 0, len(cards))
	for _, card := range cards {
		if name != "" && !strings.Contains(strings.ToLower(card.Name), name) {
			continue
		}
		if !selects(c.Sport, card.Sport) ||
			!selects(c.Position, card.Position) ||
			!selects(c.Year, card.Year) ||
			!selects(c.Location, card.Location) {
			continue
		}
		out = append(out, card)
	}
	return Result{Cards: out, Count: len(out)}
}

func selects(want, got string) bool {
	want = strings.TrimSpace(want)
	if want == "" || strings.EqualFold(want, Wildcard) {
		return true
	}
	return strings.EqualFold(want, strings.TrimSpace(got))
}

// Facets lists the distinct values available to each selector
type Facets struct {
	Sports    []string `json:"sports"`
	Positions []string `json:"positions"`
	Years     []string `json:"years"`
	Locations []string `json:"locations"`
}

// Options collects sorted, case-folded distinct selector values
func Options(cards []models.AthleteCard) Facets {
	var sports, positions, years, locations distinct
	for _, card := range cards {
		sports.add(card.Sport)
		positions.add(card.Position)
		years.add(card.Year)
		locations.add(card.Location)
	}
	return Facets{
		Sports:    sports.sorted(),
		Positions: positions.sorted(),
		Years:     years.sorted(),
		Locations: locations.sorted(),
	}
}

// distinct keeps the first spelling of each value, compared without case
type distinct struct {
	seen   map[string]bool
	values []string
}

func (d *distinct) add(v string) {
	v = strings.TrimSpace(v)
	if v == "" {
		return
	}
	if d.seen == nil {
		d.seen = map[string]bool{}
	}
	k := strings.ToLower(v)
	if d.seen[k] {
		return
	}
	d.seen[k] = true
	d.values = append(d.values, v)
}

func (d *distinct) sorted() []string {
	out := append([]string{}, d.values...)
	sort.Slice(out, func(i, j int) bool {
		return strings.ToLower(out[i]) < strings.ToLower(out[j])
	})
	return out
}

// CardFromProfile projects a record into a directory card. profileBase is
// the path prefix profile pages are served under.
func CardFromProfile(p *models.Profile, profileBase string) models.AthleteCard {
	return models.AthleteCard{
		ID:         p.ID,
		Name:       p.FullName(),
		Sport:      p.Sport,
		Position:   p.Position,
		Year:       p.GraduationYear,
		Location:   p.Location,
		AvatarURL:  p.AvatarURL,
		ProfileURL: strings.TrimSuffix(profileBase, "/") + "/" + p.ID,
	}
}

// Cards projects every published profile, keeping order
func Cards(profiles []models.Profile, profileBase string) []models.AthleteCard {
	cards := make([]models.AthleteCard, 0, len(profiles))
	for i := range profiles {
		if !profiles[i].Published {
			continue
		}
		cards = append(cards, CardFromProfile(&profiles[i], profileBase))
	}
	return cards
}
