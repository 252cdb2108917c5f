package wizard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meur/athletefolio/internal/draft"
	"github.com/meur/athletefolio/internal/schema"
)

func fillBasics(t *testing.T, w *Wizard) {
	t.Helper()
	st := w.Store()
	require.NoError(t, st.SetText(schema.FirstName, "Jane"))
	require.NoError(t, st.SetText(schema.LastName, "Doe"))
	require.NoError(t, st.SetText(schema.Sport, "Soccer"))
}

func TestNextRefusedOnInvalidStep(t *testing.T) {
	w := New(schema.Athlete())
	require.NoError(t, w.Store().SetText(schema.LastName, "Doe"))
	require.NoError(t, w.Store().SetText(schema.Sport, "Soccer"))

	assert.False(t, w.Next())
	assert.Equal(t, 1, w.Current())
	assert.Equal(t, "First name is required", w.Errors()[schema.FirstName])

	require.NoError(t, w.Store().SetText(schema.FirstName, "Jane"))
	assert.True(t, w.Next())
	assert.Equal(t, 2, w.Current())
	assert.Nil(t, w.Errors())
}

func TestBackNeverValidates(t *testing.T) {
	w := New(schema.Athlete())
	fillBasics(t, w)
	require.True(t, w.Next())

	// Blank a required field on step 1, then step back anyway
	require.NoError(t, w.Store().SetText(schema.FirstName, ""))
	assert.True(t, w.Back())
	assert.Equal(t, 1, w.Current())

	assert.False(t, w.Back())
	assert.Equal(t, 1, w.Current())
}

func TestGoToForwardChecksEveryStepBetween(t *testing.T) {
	w := New(schema.Athlete())
	fillBasics(t, w)

	// Step 2 needs a profile picture
	assert.False(t, w.GoTo(4))
	assert.Equal(t, 1, w.Current())
	assert.Contains(t, w.Errors(), schema.ProfilePicture)

	require.NoError(t, w.Store().Set(schema.ProfilePicture, draft.Files(draft.Uploaded("/media/p.jpg"))))
	assert.True(t, w.GoTo(5))
	assert.True(t, w.IsLast())

	assert.False(t, w.Next())
	assert.False(t, w.GoTo(0))
	assert.True(t, w.GoTo(2))
	assert.Equal(t, 2, w.Current())
}

func TestEditHydrates(t *testing.T) {
	w := Edit(schema.Athlete(), draft.Draft{
		schema.FirstName: draft.Text("Jane"),
		"retiredField":   draft.Text("x"),
	})
	assert.Equal(t, 1, w.Current())
	assert.Equal(t, "Jane", w.Store().Get(schema.FirstName).Text)
	assert.Len(t, w.Store().Snapshot(), len(w.Schema().Fields()))
}
