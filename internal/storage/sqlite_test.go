package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meur/athletefolio/internal/models"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func boolPtr(b bool) *bool { return &b }

func TestSaveProfileCreates(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return at }

	saved, err := s.SaveProfile(ctx, "u1", &models.Profile{
		ID:           "ignored",
		Published:    false,
		FirstName:    "Jane",
		LastName:     "Doe",
		Sport:        "Soccer",
		HasLogo:      boolPtr(false),
		JourneyTeams: models.FoldedMap{{Key: "Tigers (Goalie)", Value: "Started"}},
	})
	require.NoError(t, err)
	assert.NotEqual(t, "ignored", saved.ID)
	assert.Equal(t, "u1", saved.OwnerID)
	assert.True(t, saved.Published)

	got, err := s.GetProfile(ctx, saved.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Jane", got.FirstName)
	assert.Equal(t, "u1", got.OwnerID)
	require.NotNil(t, got.HasLogo)
	assert.False(t, *got.HasLogo)
	assert.Equal(t, models.FoldedMap{{Key: "Tigers (Goalie)", Value: "Started"}}, got.JourneyTeams)
	assert.True(t, at.Equal(got.CreatedAt), "created_at %v", got.CreatedAt)

	byOwner, err := s.GetProfileByOwner(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, got.ID, byOwner.ID)
}

func TestGetMissingProfile(t *testing.T) {
	s := newTestStore(t)
	p, err := s.GetProfile(context.Background(), "nope")
	assert.NoError(t, err)
	assert.Nil(t, p)

	p, err = s.GetProfileByOwner(context.Background(), "nobody")
	assert.NoError(t, err)
	assert.Nil(t, p)
}

func TestSaveProfileMerges(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	first, err := s.SaveProfile(ctx, "u1", &models.Profile{
		FirstName: "Jane",
		LastName:  "Doe",
		Sport:     "Soccer",
		Bio:       "Forward",
		Gallery:   []string{"/media/1.jpg", "/media/2.jpg"},
		Press:     []models.Link{{Title: "Feature", URL: "https://news.example"}},
	})
	require.NoError(t, err)
	require.NoError(t, s.SetPublished(ctx, "u1", false))

	second, err := s.SaveProfile(ctx, "u1", &models.Profile{
		FirstName: "Janet",
		LastName:  "Doe",
		Sport:     "Soccer",
		Gallery:   []string{"/media/3.jpg"},
	})
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.False(t, second.Published, "save must not republish")
	assert.Equal(t, "Janet", second.FirstName)
	assert.Equal(t, "Forward", second.Bio, "absent scalar keeps stored value")
	assert.Equal(t, []string{"/media/3.jpg"}, second.Gallery, "lists are replaced")
	assert.Empty(t, second.Press, "an absent list was emptied")

	got, err := s.GetProfileByOwner(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, second.FirstName, got.FirstName)
	assert.Equal(t, "Forward", got.Bio)
	assert.Empty(t, got.Press)
}

func TestSaveProfileClearsRemovedFiles(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	yes := true

	_, err := s.SaveProfile(ctx, "u1", &models.Profile{
		FirstName: "Jane",
		Bio:       "Forward",
		AvatarURL: "/media/u1/avatar/a.jpg",
		ResumeURL: "/media/u1/resume/r.pdf",
		HasLogo:   &yes,
		LogoURL:   "/media/u1/logo/l.png",
	})
	require.NoError(t, err)

	no := false
	saved, err := s.SaveProfile(ctx, "u1", &models.Profile{
		FirstName: "Jane",
		AvatarURL: "/media/u1/avatar/b.jpg",
		HasLogo:   &no,
	})
	require.NoError(t, err)

	assert.Equal(t, "/media/u1/avatar/b.jpg", saved.AvatarURL)
	assert.Empty(t, saved.ResumeURL)
	assert.Empty(t, saved.LogoURL)
	assert.Equal(t, "Forward", saved.Bio, "absent scalar keeps stored value")

	got, err := s.GetProfileByOwner(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, got.ResumeURL)
	assert.Empty(t, got.LogoURL)
}

func TestListPublished(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for owner, p := range map[string]models.Profile{
		"u1": {FirstName: "Sam", LastName: "alexander"},
		"u2": {FirstName: "Alex", LastName: "Morgan"},
		"u3": {FirstName: "Hidden", LastName: "Athlete"},
		"u4": {FirstName: "Jordan", LastName: "Reyes"},
	} {
		_, err := s.SaveProfile(ctx, owner, &p)
		require.NoError(t, err)
	}
	require.NoError(t, s.SetPublished(ctx, "u3", false))

	list, err := s.ListPublished(ctx)
	require.NoError(t, err)
	var names []string
	for _, p := range list {
		assert.True(t, p.Published)
		names = append(names, p.FullName())
	}
	assert.Equal(t, []string{"Sam alexander", "Alex Morgan", "Jordan Reyes"}, names)
}

func TestSetPublishedAndDelete(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	assert.ErrorIs(t, s.SetPublished(ctx, "ghost", true), ErrNotFound)
	assert.ErrorIs(t, s.DeleteProfile(ctx, "ghost"), ErrNotFound)

	saved, err := s.SaveProfile(ctx, "u1", &models.Profile{FirstName: "Jane"})
	require.NoError(t, err)

	require.NoError(t, s.DeleteProfile(ctx, "u1"))
	p, err := s.GetProfile(ctx, saved.ID)
	require.NoError(t, err)
	assert.Nil(t, p)

	// A new save after delete creates a fresh record
	again, err := s.SaveProfile(ctx, "u1", &models.Profile{FirstName: "Jane"})
	require.NoError(t, err)
	assert.NotEqual(t, saved.ID, again.ID)
}

func TestBulkSaveProfiles(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	err := s.BulkSaveProfiles(ctx, []models.Profile{
		{OwnerID: "a", FirstName: "Ann", Published: true},
		{OwnerID: "b", FirstName: "Ben", Published: false},
	})
	require.NoError(t, err)

	list, err := s.ListPublished(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Ann", list[0].FirstName)

	b, err := s.GetProfileByOwner(ctx, "b")
	require.NoError(t, err)
	assert.False(t, b.Published)

	// The whole batch rolls back on a bad record
	err = s.BulkSaveProfiles(ctx, []models.Profile{
		{OwnerID: "c", FirstName: "Cal", Published: true},
		{FirstName: "No owner"},
	})
	assert.Error(t, err)
	c, err := s.GetProfileByOwner(ctx, "c")
	require.NoError(t, err)
	assert.Nil(t, c)
}

func TestSessions(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	token, err := s.CreateSession(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, token, 64)

	owner, err := s.OwnerForToken(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "u1", owner)

	owner, err = s.OwnerForToken(ctx, "bogus")
	require.NoError(t, err)
	assert.Empty(t, owner)

	require.NoError(t, s.DeleteSessions(ctx, "u1"))
	owner, err = s.OwnerForToken(ctx, token)
	require.NoError(t, err)
	assert.Empty(t, owner)

	_, err = s.CreateSession(ctx, "")
	assert.Error(t, err)
}
