package schema

// Field names of the athlete profile wizard
const (
	FirstName      = "firstName"
	LastName       = "lastName"
	Sport          = "sport"
	Position       = "position"
	Email          = "email"
	Phone          = "phone"
	GraduationYear = "graduationYear"
	Location       = "location"

	ProfilePicture = "profilePicture"
	Gallery        = "gallery"
	Resume         = "resume"
	HasLogo        = "hasLogo"
	Logo           = "logo"

	JourneyTeams          = "journeyTeams"
	Achievements          = "achievements"
	EducationalBackground = "educationalBackground"
	TimelineTeams         = "timelineTeams"
	TimelineTournaments   = "timelineTournaments"

	VideoLinks = "videoLinks"
	Press      = "press"
	MediaLinks = "mediaLinks"

	Bio           = "bio"
	Goals         = "goals"
	Opportunities = "opportunities"
)

// Enum tags
const (
	Yes = "Yes"
	No  = "No"
)

// GalleryCapacity is the most images an athlete may show
const GalleryCapacity = 4

var (
	imageTypes = []string{"image/"}
	pdfTypes   = []string{"application/pdf"}
	yesNo      = []string{Yes, No}
)

// Athlete returns the fixed athlete profile wizard
func Athlete() *Schema {
	return MustNew(
		[]string{"Basics", "Media", "Journey", "Links", "Goals"},
		[]Field{
			{Name: FirstName, Label: "First name", Kind: KindText, Required: true, Step: 1},
			{Name: LastName, Label: "Last name", Kind: KindText, Required: true, Step: 1},
			{Name: Sport, Label: "Sport", Kind: KindText, Required: true, Step: 1},
			{Name: Position, Label: "Position", Kind: KindText, Step: 1},
			{Name: Email, Label: "Email", Kind: KindText, Step: 1, Format: FormatEmail},
			{Name: Phone, Label: "Phone", Kind: KindText, Step: 1},
			{Name: GraduationYear, Label: "Graduation year", Kind: KindText, Step: 1, Format: FormatYear},
			{Name: Location, Label: "Location", Kind: KindText, Step: 1},

			{Name: ProfilePicture, Label: "Profile picture", Kind: KindFile, Required: true, Step: 2, Accept: imageTypes},
			{Name: Gallery, Label: "Gallery", Kind: KindFileList, Step: 2, MaxFiles: GalleryCapacity, Accept: imageTypes},
			{Name: Resume, Label: "Resume", Kind: KindFile, Step: 2, Accept: pdfTypes},
			{Name: HasLogo, Label: "Logo choice", Kind: KindEnum, Step: 2, Options: yesNo},
			{Name: Logo, Label: "Logo", Kind: KindFile, Step: 2, Accept: imageTypes},

			{
				Name: JourneyTeams, Label: "Team", Kind: KindGroup, Step: 3,
				Item: []SubField{
					{Name: "team", Label: "Team"},
					{Name: "position", Label: "Position"},
					{Name: "explanation", Label: "Explanation"},
				},
				ItemRequired: "team",
			},
			{
				Name: Achievements, Label: "Achievement", Kind: KindGroup, Step: 3,
				Item: []SubField{
					{Name: "title", Label: "Title"},
					{Name: "year", Label: "Year"},
					{Name: "description", Label: "Description"},
				},
				ItemRequired: "title",
			},
			{
				Name: EducationalBackground, Label: "School", Kind: KindGroup, Step: 3,
				Item: []SubField{
					{Name: "school", Label: "School"},
					{Name: "degree", Label: "Degree"},
					{Name: "years", Label: "Years"},
				},
				ItemRequired: "school",
			},
			{
				Name: TimelineTeams, Label: "Timeline team", Kind: KindGroup, Step: 3,
				Item: []SubField{
					{Name: "name", Label: "Team"},
					{Name: "year", Label: "Year", Format: FormatYear},
				},
				ItemRequired: "name",
			},
			{
				Name: TimelineTournaments, Label: "Tournament", Kind: KindGroup, Step: 3,
				Item: []SubField{
					{Name: "name", Label: "Tournament"},
					{Name: "year", Label: "Year", Format: FormatYear},
				},
				ItemRequired: "name",
			},

			{
				Name: VideoLinks, Label: "Video", Kind: KindGroup, Step: 4,
				Item: []SubField{
					{Name: "title", Label: "Title"},
					{Name: "url", Label: "Link", Format: FormatURL},
				},
				ItemRequired: "url",
			},
			{
				Name: Press, Label: "Press link", Kind: KindGroup, Step: 4,
				Item: []SubField{
					{Name: "title", Label: "Title"},
					{Name: "url", Label: "Link", Format: FormatURL},
				},
				ItemRequired: "url",
			},
			{
				Name: MediaLinks, Label: "Media link", Kind: KindGroup, Step: 4,
				Item: []SubField{
					{Name: "platform", Label: "Platform"},
					{Name: "url", Label: "Link", Format: FormatURL},
				},
				ItemRequired: "url",
			},

			{Name: Bio, Label: "Bio", Kind: KindText, Step: 5},
			{Name: Goals, Label: "Goals", Kind: KindText, Step: 5},
			{Name: Opportunities, Label: "Opportunities", Kind: KindEnum, Step: 5, Options: yesNo},
		},
	)
}
