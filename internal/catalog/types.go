package catalog

// Meeting is one recurring block of a section's weekly schedule. A nil Period
// marks an unscheduled ("TBA") meeting.
type Meeting struct {
	Period      *Period
	Days        []string // weekday letters drawn from M, T, W, R, F
	Room        string
	Location    *Location
	Instructors []string
	DateRange   DateRange
	FinalDate   string
	FinalTime   *Period
}

// Section is one offering of a course, identified term-wide by its CRN and
// within its course by its section ID (e.g. "A", "B1").
type Section struct {
	CRN          string
	ID           string
	Course       *Course
	ScheduleType string
	Campus       string
	DeliveryMode string
	GradeBasis   string
	CreditHours  float64
	Meetings     []Meeting
	Instructors  []string

	isLecture bool
	isLab     bool

	// AssociatedLabs is populated for lecture sections of courses with a
	// lecture/lab split; AssociatedLectures symmetrically for lab sections.
	AssociatedLabs     []*Section
	AssociatedLectures []*Section
}

// IsLecture reports whether the section's schedule type classifies it as a
// lecture. A section can be both lecture and lab at once.
func (s *Section) IsLecture() bool { return s.isLecture }

// IsLab reports whether the section's schedule type classifies it as a lab.
func (s *Section) IsLab() bool { return s.isLab }

// SectionGroup bundles sections of a no-lab course that share an identical
// meeting-time signature; exactly one member of a group is ever selected.
type SectionGroup struct {
	Signature string
	Sections  []*Section
}

// Course is one catalog entry with all of its sections.
type Course struct {
	ID          string // e.g. "CS 1331"
	Subject     string // e.g. "CS"
	Number      string // e.g. "1331"
	Title       string
	Description string
	Sections    []*Section

	// HasLab is true iff the course has at least one lecture-only and at
	// least one lab-only section. When true the partition below is
	// populated; otherwise SectionGroups is.
	HasLab       bool
	OnlyLectures []*Section
	OnlyLabs     []*Section
	AllInOnes    []*Section

	SectionGroups []*SectionGroup
}

// Event is an externally supplied recurring time block (not a catalog
// section) that selected sections must never conflict with.
type Event struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Period Period   `json:"period"`
	Days   []string `json:"days"`
}
