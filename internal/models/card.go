package models

// AthleteCard is the directory projection of a published profile
type AthleteCard struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Sport      string `json:"sport"`
	Position   string `json:"position"`
	Year       string `json:"year"`
	Location   string `json:"location"`
	AvatarURL  string `json:"avatar_url"`
	ProfileURL string `json:"profile_url"`
}
