package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAthletePartitionsFieldsIntoSteps(t *testing.T) {
	s := Athlete()
	require.Equal(t, 5, s.StepCount())

	seen := map[string]int{}
	for step := 1; step <= s.StepCount(); step++ {
		fields := s.FieldsOf(step)
		assert.NotEmpty(t, fields, "step %d", step)
		for _, f := range fields {
			assert.Equal(t, step, f.Step)
			seen[f.Name]++
		}
	}
	for _, f := range s.Fields() {
		assert.Equal(t, 1, seen[f.Name], "field %s", f.Name)
	}
}

func TestAthleteStepOneRequired(t *testing.T) {
	s := Athlete()
	var required []string
	for _, f := range s.FieldsOf(1) {
		if f.Required {
			required = append(required, f.Name)
		}
	}
	assert.Equal(t, []string{FirstName, LastName, Sport}, required)
}

func TestNewRejectsBrokenSchemas(t *testing.T) {
	tests := []struct {
		name   string
		titles []string
		fields []Field
	}{
		{"no steps", nil, []Field{{Name: "a", Step: 1}}},
		{"duplicate", []string{"One"}, []Field{{Name: "a", Step: 1}, {Name: "a", Step: 1}}},
		{"step out of range", []string{"One"}, []Field{{Name: "a", Step: 2}}},
		{"step zero", []string{"One"}, []Field{{Name: "a", Step: 0}}},
		{"empty step", []string{"One", "Two"}, []Field{{Name: "a", Step: 1}}},
		{"group without items", []string{"One"}, []Field{{Name: "g", Kind: KindGroup, Step: 1}}},
		{"unknown required sub", []string{"One"}, []Field{{
			Name: "g", Kind: KindGroup, Step: 1,
			Item: []SubField{{Name: "x"}}, ItemRequired: "y",
		}}},
		{"enum without options", []string{"One"}, []Field{{Name: "e", Kind: KindEnum, Step: 1}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.titles, tt.fields)
			assert.Error(t, err)
		})
	}
}

func TestFieldsOfOutOfRange(t *testing.T) {
	s := Athlete()
	assert.Nil(t, s.FieldsOf(0))
	assert.Nil(t, s.FieldsOf(s.StepCount()+1))
}

func TestFieldCapacityAndAccept(t *testing.T) {
	s := Athlete()

	pic, ok := s.Field(ProfilePicture)
	require.True(t, ok)
	assert.Equal(t, 1, pic.Capacity())
	assert.True(t, pic.Accepts("image/png"))
	assert.True(t, pic.Accepts("IMAGE/JPEG"))
	assert.False(t, pic.Accepts("application/pdf"))

	gallery, _ := s.Field(Gallery)
	assert.Equal(t, GalleryCapacity, gallery.Capacity())

	resume, _ := s.Field(Resume)
	assert.True(t, resume.Accepts("application/pdf"))
	assert.False(t, resume.Accepts("image/png"))

	_, ok = s.Field("nope")
	assert.False(t, ok)
}

func TestSchemaJSON(t *testing.T) {
	b, err := Athlete().MarshalJSON()
	require.NoError(t, err)
	assert.Contains(t, string(b), `"kind":"group"`)
	assert.Contains(t, string(b), `"title":"Basics"`)
	assert.Contains(t, string(b), `"format":"email"`)
}
