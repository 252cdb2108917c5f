package models

import (
	"time"
)

// Profile is the persisted athlete record. Optional scalars are omitted
// when empty.
type Profile struct {
	ID        string    `json:"id,omitempty"`
	OwnerID   string    `json:"owner_id,omitempty"`
	Published bool      `json:"published"`
	CreatedAt time.Time `json:"created_at,omitzero"`
	UpdatedAt time.Time `json:"updated_at,omitzero"`

	FirstName      string `json:"first_name,omitempty"`
	LastName       string `json:"last_name,omitempty"`
	Sport          string `json:"sport,omitempty"`
	Position       string `json:"position,omitempty"`
	Email          string `json:"email,omitempty"`
	Phone          string `json:"phone,omitempty"`
	GraduationYear string `json:"graduation_year,omitempty"`
	Location       string `json:"location,omitempty"`

	AvatarURL string   `json:"avatar_url,omitempty"`
	Gallery   []string `json:"gallery,omitempty"`
	ResumeURL string   `json:"resume_url,omitempty"`
	HasLogo   *bool    `json:"has_logo,omitempty"`
	LogoURL   string   `json:"logo_url,omitempty"`

	// "Team (Position)" -> explanation, "Title (Year)" -> description
	JourneyTeams FoldedMap `json:"journey_teams,omitempty"`
	Achievements FoldedMap `json:"achievements,omitempty"`

	EducationalBackground []Education    `json:"educational_background,omitempty"`
	TimelineTeams         []TimelineItem `json:"timeline_teams,omitempty"`
	TimelineTournaments   []TimelineItem `json:"timeline_tournaments,omitempty"`

	VideoLinks []Link `json:"video_links,omitempty"`
	Press      []Link `json:"press,omitempty"`
	MediaLinks []Link `json:"media_links,omitempty"`

	Bio           string `json:"bio,omitempty"`
	Goals         string `json:"goals,omitempty"`
	Opportunities string `json:"opportunities,omitempty"`
}

// FullName joins first and last name
func (p *Profile) FullName() string {
	switch {
	case p.FirstName == "":
		return p.LastName
	case p.LastName == "":
		return p.FirstName
	}
	return p.FirstName + " " + p.LastName
}

// Education is one school in the athlete's background
type Education struct {
	School string `json:"school"`
	Degree string `json:"degree"`
	Years  string `json:"years"`
}

// TimelineItem is a team or tournament on the athlete's timeline
type TimelineItem struct {
	Name string `json:"name"`
	Year string `json:"year"`
}

// Link is an external video, article or social profile
type Link struct {
	Title    string `json:"title,omitempty"`
	Platform string `json:"platform,omitempty"`
	URL      string `json:"url"`
}

// PublishUpdate is the request body for toggling directory visibility
type PublishUpdate struct {
	Published *bool `json:"published"`
}
