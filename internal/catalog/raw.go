package catalog

import (
	"encoding/json"
	"fmt"

	"github.com/mitchellh/mapstructure"
)

// The crawler emits courses as positional tuples whose numeric fields index
// into shared caches. Decoding resolves that encoding into the typed records
// below exactly once; nothing past this file touches indices.

// Location is a geocoded room record from the locations cache.
type Location struct {
	Lat  float64 `mapstructure:"lat"`
	Long float64 `mapstructure:"long"`
}

// Caches are the shared lookup tables the tuple indices point into.
type Caches struct {
	Periods       []string   `mapstructure:"periods"`
	DateRanges    []string   `mapstructure:"dateRanges"`
	ScheduleTypes []string   `mapstructure:"scheduleTypes"`
	Campuses      []string   `mapstructure:"campuses"`
	Attributes    []string   `mapstructure:"attributes"`
	GradeBases    []string   `mapstructure:"gradeBases"`
	Locations     []Location `mapstructure:"locations"`
	FinalDates    []string   `mapstructure:"finalDates"`
	FinalTimes    []string   `mapstructure:"finalTimes"`
}

// RawMeeting is a decoded MeetingTuple. Absent optional indices are -1.
type RawMeeting struct {
	PeriodIndex    int
	Days           string
	Room           string
	LocationIndex  int
	Instructors    []string
	DateRangeIndex int
	FinalDateIndex int
	FinalTimeIndex int
}

// RawSection is a decoded SectionTuple.
type RawSection struct {
	CRN               string
	Meetings          []RawMeeting
	CreditHours       float64
	ScheduleTypeIndex int
	CampusIndex       int
	AttributeIndices  []int
	GradeBaseIndex    int
}

// RawCourse is a decoded CourseTuple. Prerequisites are decoded but carried
// opaquely; no scheduling operation consumes them.
type RawCourse struct {
	FullTitle     string
	Sections      map[string]RawSection
	Prerequisites any
	Description   string
}

// RawCatalog is the fully decoded crawler output for one term. Courses whose
// tuples could not be decoded are absent from Courses and recorded in
// Malformed by course ID, so construction can log and carry on.
type RawCatalog struct {
	Courses   map[string]RawCourse
	Malformed map[string]error
	Caches    Caches
	UpdatedAt string
	Version   int
}

// DecodeJSON parses the crawler's JSON envelope into a RawCatalog.
func DecodeJSON(data []byte) (RawCatalog, error) {
	var envelope struct {
		Courses   map[string][]any `json:"courses"`
		Caches    map[string]any   `json:"caches"`
		UpdatedAt string           `json:"updatedAt"`
		Version   int              `json:"version"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return RawCatalog{}, fmt.Errorf("cannot parse catalog json: %w", err)
	}

	var caches Caches
	if err := mapstructure.Decode(envelope.Caches, &caches); err != nil {
		return RawCatalog{}, fmt.Errorf("cannot decode caches: %w", err)
	}

	courses := make(map[string]RawCourse, len(envelope.Courses))
	malformed := make(map[string]error)
	for id, tuple := range envelope.Courses {
		course, err := decodeCourseTuple(tuple)
		if err != nil {
			// One broken course must not take the term down with it.
			malformed[id] = err
			continue
		}
		courses[id] = course
	}

	return RawCatalog{
		Courses:   courses,
		Malformed: malformed,
		Caches:    caches,
		UpdatedAt: envelope.UpdatedAt,
		Version:   envelope.Version,
	}, nil
}

// CourseTuple = [fullTitle, sections, prerequisites?, description?]
func decodeCourseTuple(tuple []any) (RawCourse, error) {
	if len(tuple) < 2 {
		return RawCourse{}, fmt.Errorf("course tuple has %v elements, expected at least 2", len(tuple))
	}

	title, err := asString(tuple[0])
	if err != nil {
		return RawCourse{}, fmt.Errorf("full title: %w", err)
	}

	rawSections, ok := tuple[1].(map[string]any)
	if !ok {
		return RawCourse{}, fmt.Errorf("sections is %T, expected an object", tuple[1])
	}
	sections := make(map[string]RawSection, len(rawSections))
	for sectionID, value := range rawSections {
		sectionTuple, ok := value.([]any)
		if !ok {
			return RawCourse{}, fmt.Errorf("section %q is %T, expected a tuple", sectionID, value)
		}
		section, err := decodeSectionTuple(sectionTuple)
		if err != nil {
			return RawCourse{}, fmt.Errorf("section %q: %w", sectionID, err)
		}
		sections[sectionID] = section
	}

	course := RawCourse{FullTitle: title, Sections: sections}
	if len(tuple) > 2 {
		course.Prerequisites = tuple[2]
	}
	if len(tuple) > 3 && tuple[3] != nil {
		if course.Description, err = asString(tuple[3]); err != nil {
			return RawCourse{}, fmt.Errorf("description: %w", err)
		}
	}
	return course, nil
}

// SectionTuple = [crn, meetings, creditHours, scheduleTypeIndex, campusIndex,
// attributeIndices, gradeBaseIndex]
func decodeSectionTuple(tuple []any) (RawSection, error) {
	if len(tuple) < 7 {
		return RawSection{}, fmt.Errorf("section tuple has %v elements, expected 7", len(tuple))
	}

	var section RawSection
	var err error
	if section.CRN, err = asString(tuple[0]); err != nil {
		return RawSection{}, fmt.Errorf("crn: %w", err)
	}

	rawMeetings, ok := tuple[1].([]any)
	if !ok {
		return RawSection{}, fmt.Errorf("meetings is %T, expected a list", tuple[1])
	}
	for i, value := range rawMeetings {
		meetingTuple, ok := value.([]any)
		if !ok {
			return RawSection{}, fmt.Errorf("meeting %v is %T, expected a tuple", i, value)
		}
		meeting, err := decodeMeetingTuple(meetingTuple)
		if err != nil {
			return RawSection{}, fmt.Errorf("meeting %v: %w", i, err)
		}
		section.Meetings = append(section.Meetings, meeting)
	}

	if section.CreditHours, err = asFloat(tuple[2]); err != nil {
		return RawSection{}, fmt.Errorf("credit hours: %w", err)
	}
	if section.ScheduleTypeIndex, err = asInt(tuple[3]); err != nil {
		return RawSection{}, fmt.Errorf("schedule type index: %w", err)
	}
	if section.CampusIndex, err = asInt(tuple[4]); err != nil {
		return RawSection{}, fmt.Errorf("campus index: %w", err)
	}
	if section.AttributeIndices, err = asIntSlice(tuple[5]); err != nil {
		return RawSection{}, fmt.Errorf("attribute indices: %w", err)
	}
	if section.GradeBaseIndex, err = asInt(tuple[6]); err != nil {
		return RawSection{}, fmt.Errorf("grade basis index: %w", err)
	}
	return section, nil
}

// MeetingTuple = [periodIndex, days, room, locationIndex, instructors,
// dateRangeIndex, finalDateIndex?, finalTimeIndex?]
func decodeMeetingTuple(tuple []any) (RawMeeting, error) {
	if len(tuple) < 6 {
		return RawMeeting{}, fmt.Errorf("meeting tuple has %v elements, expected at least 6", len(tuple))
	}

	meeting := RawMeeting{FinalDateIndex: -1, FinalTimeIndex: -1}
	var err error
	if meeting.PeriodIndex, err = asInt(tuple[0]); err != nil {
		return RawMeeting{}, fmt.Errorf("period index: %w", err)
	}
	if meeting.Days, err = asString(tuple[1]); err != nil {
		return RawMeeting{}, fmt.Errorf("days: %w", err)
	}
	if meeting.Room, err = asString(tuple[2]); err != nil {
		return RawMeeting{}, fmt.Errorf("room: %w", err)
	}
	if meeting.LocationIndex, err = asInt(tuple[3]); err != nil {
		return RawMeeting{}, fmt.Errorf("location index: %w", err)
	}
	if meeting.Instructors, err = asStringSlice(tuple[4]); err != nil {
		return RawMeeting{}, fmt.Errorf("instructors: %w", err)
	}
	if meeting.DateRangeIndex, err = asInt(tuple[5]); err != nil {
		return RawMeeting{}, fmt.Errorf("date range index: %w", err)
	}
	if len(tuple) > 6 {
		if meeting.FinalDateIndex, err = asInt(tuple[6]); err != nil {
			return RawMeeting{}, fmt.Errorf("final date index: %w", err)
		}
	}
	if len(tuple) > 7 {
		if meeting.FinalTimeIndex, err = asInt(tuple[7]); err != nil {
			return RawMeeting{}, fmt.Errorf("final time index: %w", err)
		}
	}
	return meeting, nil
}

func asString(value any) (string, error) {
	str, ok := value.(string)
	if !ok {
		return "", fmt.Errorf("%T is not a string", value)
	}
	return str, nil
}

func asFloat(value any) (float64, error) {
	number, ok := value.(float64)
	if !ok {
		return 0, fmt.Errorf("%T is not a number", value)
	}
	return number, nil
}

func asInt(value any) (int, error) {
	number, err := asFloat(value)
	if err != nil {
		return 0, err
	}
	return int(number), nil
}

func asStringSlice(value any) ([]string, error) {
	list, ok := value.([]any)
	if !ok {
		return nil, fmt.Errorf("%T is not a list", value)
	}
	result := make([]string, 0, len(list))
	for _, element := range list {
		str, err := asString(element)
		if err != nil {
			return nil, err
		}
		result = append(result, str)
	}
	return result, nil
}

func asIntSlice(value any) ([]int, error) {
	list, ok := value.([]any)
	if !ok {
		return nil, fmt.Errorf("%T is not a list", value)
	}
	result := make([]int, 0, len(list))
	for _, element := range list {
		number, err := asInt(element)
		if err != nil {
			return nil, err
		}
		result = append(result, number)
	}
	return result, nil
}
