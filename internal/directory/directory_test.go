package directory

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/meur/athletefolio/internal/models"
)

func sampleCards() []models.AthleteCard {
	return []models.AthleteCard{
		{ID: "1", Name: "Alex Morgan", Sport: "Soccer", Position: "Forward", Year: "2026", Location: "Austin, TX"},
		{ID: "2", Name: "Jordan Reyes", Sport: "Basketball", Position: "Guard", Year: "2025", Location: "Dallas, TX"},
		{ID: "3", Name: "Sam Alexander", Sport: "soccer", Position: "Goalkeeper", Year: "2026", Location: "Austin, TX"},
	}
}

func ids(r Result) []string {
	out := []string{}
	for _, c := range r.Cards {
		out = append(out, c.ID)
	}
	return out
}

func TestApply(t *testing.T) {
	cards := sampleCards()

	tests := []struct {
		name string
		c    Criteria
		want []string
	}{
		{"empty criteria", Criteria{}, []string{"1", "2", "3"}},
		{"all wildcards", Criteria{Sport: "all", Position: "ALL", Year: "all", Location: "all"}, []string{"1", "2", "3"}},
		{"name substring any case", Criteria{Name: "alex"}, []string{"1", "3"}},
		{"name trimmed", Criteria{Name: "  REYES "}, []string{"2"}},
		{"sport case-insensitive", Criteria{Sport: "SOCCER"}, []string{"1", "3"}},
		{"selector exact not substring", Criteria{Position: "Goal"}, []string{}},
		{"combined", Criteria{Sport: "Soccer", Year: "2026", Name: "sam"}, []string{"3"}},
		{"location", Criteria{Location: "dallas, tx"}, []string{"2"}},
		{"no match", Criteria{Name: "zzz"}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Apply(cards, tt.c)
			assert.Equal(t, tt.want, ids(r))
			assert.Equal(t, len(tt.want), r.Count)
		})
	}
}

func TestApplyIdentityAndSubset(t *testing.T) {
	cards := sampleCards()
	assert.Equal(t, cards, Apply(cards, Criteria{}).Cards)

	r := Apply(cards, Criteria{Sport: "soccer"})
	for _, c := range r.Cards {
		assert.Contains(t, cards, c)
	}
	assert.LessOrEqual(t, r.Count, len(cards))
}

func TestCriteriaFromQuery(t *testing.T) {
	q := url.Values{"name": {"alex"}, "sport": {"all"}, "year": {"2026"}}
	assert.Equal(t, Criteria{Name: "alex", Sport: "all", Year: "2026"}, CriteriaFromQuery(q))
}

func TestOptions(t *testing.T) {
	f := Options(sampleCards())
	assert.Equal(t, []string{"Basketball", "Soccer"}, f.Sports)
	assert.Equal(t, []string{"Forward", "Goalkeeper", "Guard"}, f.Positions)
	assert.Equal(t, []string{"2025", "2026"}, f.Years)
	assert.Equal(t, []string{"Austin, TX", "Dallas, TX"}, f.Locations)

	assert.Equal(t, Facets{Sports: []string{}, Positions: []string{}, Years: []string{}, Locations: []string{}}, Options(nil))
}

func TestCardsKeepsPublishedOnly(t *testing.T) {
	profiles := []models.Profile{
		{ID: "a", FirstName: "Alex", LastName: "Morgan", Sport: "Soccer", GraduationYear: "2026", Published: true, AvatarURL: "/media/a.jpg"},
		{ID: "b", FirstName: "Hidden", Published: false},
		{ID: "c", LastName: "Reyes", Published: true},
	}
	cards := Cards(profiles, "/athletes/")
	assert.Equal(t, []models.AthleteCard{
		{ID: "a", Name: "Alex Morgan", Sport: "Soccer", Year: "2026", AvatarURL: "/media/a.jpg", ProfileURL: "/athletes/a"},
		{ID: "c", Name: "Reyes", ProfileURL: "/athletes/c"},
	}, cards)
}
