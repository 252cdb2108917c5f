package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meur/athletefolio/internal/draft"
	"github.com/meur/athletefolio/internal/schema"
)

func TestStepOneMissingFirstName(t *testing.T) {
	sc := schema.Athlete()
	d := draft.Draft{
		schema.FirstName: draft.Text(""),
		schema.LastName:  draft.Text("Doe"),
		schema.Sport:     draft.Text("Soccer"),
	}

	errs := Step(sc, d, 1)
	assert.False(t, IsStepValid(sc, d, 1))
	assert.False(t, CanAdvance(sc, d, 1))
	assert.Equal(t, Errors{schema.FirstName: "First name is required"}, errs)
}

func TestStepIgnoresOtherSteps(t *testing.T) {
	sc := schema.Athlete()
	d := draft.Draft{
		schema.FirstName: draft.Text("Jane"),
		schema.LastName:  draft.Text("Doe"),
		schema.Sport:     draft.Text("Soccer"),
		// Invalid, but owned by step 4
		schema.VideoLinks: draft.Items(draft.Item{"url": "not a url"}),
	}
	assert.True(t, IsStepValid(sc, d, 1))
	assert.False(t, IsStepValid(sc, d, 4))
}

func TestRequiredWhitespaceIsEmpty(t *testing.T) {
	sc := schema.Athlete()
	d := draft.Draft{
		schema.FirstName: draft.Text("   "),
		schema.LastName:  draft.Text("Doe"),
		schema.Sport:     draft.Text("Soccer"),
	}
	assert.Contains(t, Step(sc, d, 1), schema.FirstName)
}

func TestFormats(t *testing.T) {
	sc := schema.Athlete()
	base := func() draft.Draft {
		return draft.Draft{
			schema.FirstName: draft.Text("Jane"),
			schema.LastName:  draft.Text("Doe"),
			schema.Sport:     draft.Text("Soccer"),
		}
	}

	tests := []struct {
		name  string
		field string
		value string
		want  string
	}{
		{"good email", schema.Email, "jane@example.com", ""},
		{"bad email", schema.Email, "jane@", "Invalid email address"},
		{"display name email", schema.Email, "Jane <jane@example.com>", "Invalid email address"},
		{"good year", schema.GraduationYear, "2026", ""},
		{"bad year", schema.GraduationYear, "26", "Invalid year"},
		{"empty optional", schema.Email, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := base()
			d[tt.field] = draft.Text(tt.value)
			errs := Step(sc, d, 1)
			assert.Equal(t, tt.want, errs[tt.field])
		})
	}
}

func TestEnumOptions(t *testing.T) {
	sc := schema.Athlete()
	d := draft.Draft{
		schema.ProfilePicture: draft.Files(draft.Uploaded("/media/p.jpg")),
		schema.HasLogo:        draft.Text("Maybe"),
	}
	assert.Equal(t, "Invalid logo choice", Step(sc, d, 2)[schema.HasLogo])

	d[schema.HasLogo] = draft.Text(schema.Yes)
	assert.True(t, IsStepValid(sc, d, 2))
}

func TestRequiredFileAcceptsPending(t *testing.T) {
	sc := schema.Athlete()
	d := draft.Draft{}
	assert.Equal(t, Errors{schema.ProfilePicture: "Profile picture is required"}, Step(sc, d, 2))

	d[schema.ProfilePicture] = draft.Files(draft.Pending(draft.PendingFile{Filename: "me.png", ContentType: "image/png"}))
	assert.True(t, IsStepValid(sc, d, 2))
}

func TestGroupItems(t *testing.T) {
	sc := schema.Athlete()

	// Optional group with no items is fine
	assert.True(t, IsStepValid(sc, draft.Draft{}, 3))

	d := draft.Draft{
		schema.JourneyTeams: draft.Items(
			draft.Item{"team": "Tigers", "position": "Goalie"},
			draft.Item{"team": "", "position": "Wing"},
		),
		schema.TimelineTeams: draft.Items(draft.Item{"name": "Lions", "year": "later"}),
	}
	errs := Step(sc, d, 3)
	assert.Equal(t, Errors{
		"journeyTeams[1].team":  "Team is required",
		"timelineTeams[0].year": "Invalid year",
	}, errs)
	assert.Equal(t, []string{"journeyTeams[1].team", "timelineTeams[0].year"}, errs.Fields())
}

func TestRequiredGroupNeedsAnItem(t *testing.T) {
	sc, err := schema.New([]string{"Only"}, []schema.Field{{
		Name: "teams", Label: "Team", Kind: schema.KindGroup, Required: true, Step: 1,
		Item:         []schema.SubField{{Name: "team", Label: "Team"}},
		ItemRequired: "team",
	}})
	require.NoError(t, err)

	assert.Equal(t, Errors{"teams": "At least one team is required"}, Step(sc, draft.Draft{}, 1))

	d := draft.Draft{"teams": draft.Items(draft.Item{"team": ""})}
	assert.False(t, IsStepValid(sc, d, 1))

	d = draft.Draft{"teams": draft.Items(draft.Item{"team": "Tigers"})}
	assert.True(t, IsStepValid(sc, d, 1))
}

func TestLinkURLs(t *testing.T) {
	sc := schema.Athlete()
	d := draft.Draft{
		schema.VideoLinks: draft.Items(
			draft.Item{"title": "ok", "url": "https://youtube.com/watch?v=1"},
			draft.Item{"title": "bad", "url": "javascript:alert(1)"},
		),
		schema.MediaLinks: draft.Items(draft.Item{"platform": "IG"}),
	}
	assert.Equal(t, Errors{
		"videoLinks[1].url": "Invalid URL",
		"mediaLinks[0].url": "Link is required",
	}, Step(sc, d, 4))
}

// A step is invalid exactly when one of its required fields is empty,
// for drafts whose filled values are well formed.
func TestInvalidIffRequiredEmpty(t *testing.T) {
	sc := schema.Athlete()
	full := draft.Draft{
		schema.FirstName:      draft.Text("Jane"),
		schema.LastName:       draft.Text("Doe"),
		schema.Sport:          draft.Text("Soccer"),
		schema.ProfilePicture: draft.Files(draft.Uploaded("/media/p.jpg")),
	}
	for step := 1; step <= sc.StepCount(); step++ {
		assert.True(t, IsStepValid(sc, full, step), "step %d", step)
	}

	for _, f := range sc.Fields() {
		if !f.Required {
			continue
		}
		d := full.Clone()
		delete(d, f.Name)
		assert.False(t, IsStepValid(sc, d, f.Step), "without %s", f.Name)
		for step := 1; step <= sc.StepCount(); step++ {
			if step != f.Step {
				assert.True(t, IsStepValid(sc, d, step), "without %s, step %d", f.Name, step)
			}
		}
	}
}

func TestOutOfRangeStepIsValid(t *testing.T) {
	sc := schema.Athlete()
	assert.True(t, IsStepValid(sc, draft.Draft{}, 0))
	assert.True(t, IsStepValid(sc, draft.Draft{}, 99))
}

func TestAllCollectsEveryStep(t *testing.T) {
	errs := All(schema.Athlete(), draft.Draft{})
	assert.Equal(t, []string{schema.FirstName, schema.LastName, schema.ProfilePicture, schema.Sport}, errs.Fields())
}
