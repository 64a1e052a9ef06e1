package catalog

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/samber/lo"
	"go.uber.org/zap"
)

// Catalog is the immutable model of one term's offerings. It is built once
// per term from the crawler output and only ever read afterwards; a term
// change means constructing a new Catalog and discarding the old one.
type Catalog struct {
	UpdatedAt time.Time
	Version   int
	Courses   []*Course

	courseMap map[string]*Course
	crnMap    map[string]*Section
}

// New resolves a RawCatalog into a Catalog. Malformed cache entries and
// courses that fail to build are logged and skipped rather than aborting the
// whole load. A nil logger disables logging.
func New(raw RawCatalog, logger *zap.Logger) (*Catalog, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	catalog := &Catalog{
		Version:   raw.Version,
		courseMap: make(map[string]*Course),
		crnMap:    make(map[string]*Section),
	}

	if raw.UpdatedAt != "" {
		updatedAt, err := time.Parse(time.RFC3339, raw.UpdatedAt)
		if err != nil {
			logger.Warn("malformed updatedAt timestamp", zap.String("updatedAt", raw.UpdatedAt), zap.Error(err))
		} else {
			catalog.UpdatedAt = updatedAt
		}
	}

	malformedIDs := lo.Keys(raw.Malformed)
	slices.Sort(malformedIDs)
	for _, id := range malformedIDs {
		logger.Warn("skipping undecodable course", zap.String("course", id), zap.Error(raw.Malformed[id]))
	}

	resolver := newCacheResolver(raw.Caches, logger)

	// Map iteration order is random; sort so construction is deterministic.
	courseIDs := lo.Keys(raw.Courses)
	slices.Sort(courseIDs)

	for _, id := range courseIDs {
		course, err := buildCourse(id, raw.Courses[id], resolver)
		if err != nil {
			logger.Warn("skipping malformed course", zap.String("course", id), zap.Error(err))
			continue
		}
		catalog.Courses = append(catalog.Courses, course)
	}

	for _, course := range catalog.Courses {
		catalog.courseMap[course.ID] = course
		for _, section := range course.Sections {
			catalog.crnMap[section.CRN] = section
		}
	}

	return catalog, nil
}

// FindCourse returns the course with the given ID, or nil if absent.
func (c *Catalog) FindCourse(id string) *Course {
	return c.courseMap[id]
}

// FindSection returns the section with the given CRN, or nil if absent.
func (c *Catalog) FindSection(crn string) *Section {
	return c.crnMap[crn]
}

// IterateTimeBlocks calls fn once per weekday letter of every defined-period
// meeting belonging to the given CRNs and of every event. Unknown CRNs are
// skipped.
func (c *Catalog) IterateTimeBlocks(crns []string, events []Event, fn func(day string, period Period)) {
	for _, crn := range crns {
		section := c.FindSection(crn)
		if section == nil {
			continue
		}
		for _, meeting := range section.Meetings {
			if meeting.Period == nil {
				continue
			}
			for _, day := range meeting.Days {
				fn(day, *meeting.Period)
			}
		}
	}
	for _, event := range events {
		for _, day := range event.Days {
			fn(day, event.Period)
		}
	}
}

// cacheResolver turns cache indices into values, substituting safe fallbacks
// for out-of-range indices and malformed entries.
type cacheResolver struct {
	caches Caches
	logger *zap.Logger

	periods    []*Period
	dateRanges []DateRange
	finalTimes []*Period
}

func newCacheResolver(caches Caches, logger *zap.Logger) *cacheResolver {
	resolver := &cacheResolver{caches: caches, logger: logger}

	resolver.periods = lo.Map(caches.Periods, func(text string, _ int) *Period {
		period, err := ParsePeriod(text)
		if err != nil {
			logger.Warn("malformed period cache entry", zap.String("period", text), zap.Error(err))
			return nil
		}
		return period
	})
	resolver.dateRanges = lo.Map(caches.DateRanges, func(text string, _ int) DateRange {
		dateRange, err := ParseDateRange(text)
		if err != nil {
			logger.Warn("malformed date range cache entry", zap.String("dateRange", text), zap.Error(err))
			return DateRange{}
		}
		return dateRange
	})
	resolver.finalTimes = lo.Map(caches.FinalTimes, func(text string, _ int) *Period {
		period, err := ParsePeriod(text)
		if err != nil {
			logger.Warn("malformed final time cache entry", zap.String("finalTime", text), zap.Error(err))
			return nil
		}
		return period
	})

	return resolver
}

func (r *cacheResolver) string(cache []string, index int, what string) string {
	if index < 0 || index >= len(cache) {
		r.logger.Warn("cache index out of range", zap.String("cache", what), zap.Int("index", index))
		return ""
	}
	return cache[index]
}

func (r *cacheResolver) period(index int) *Period {
	if index < 0 || index >= len(r.periods) {
		return nil
	}
	return r.periods[index]
}

func (r *cacheResolver) dateRange(index int) DateRange {
	if index < 0 || index >= len(r.dateRanges) {
		return DateRange{}
	}
	return r.dateRanges[index]
}

func (r *cacheResolver) finalTime(index int) *Period {
	if index < 0 || index >= len(r.finalTimes) {
		return nil
	}
	return r.finalTimes[index]
}

func (r *cacheResolver) location(index int) *Location {
	if index < 0 || index >= len(r.caches.Locations) {
		return nil
	}
	return &r.caches.Locations[index]
}

func buildCourse(id string, raw RawCourse, resolver *cacheResolver) (*Course, error) {
	subject, number, _ := strings.Cut(id, " ")
	course := &Course{
		ID:          id,
		Subject:     subject,
		Number:      number,
		Title:       raw.FullTitle,
		Description: raw.Description,
	}

	sectionIDs := lo.Keys(raw.Sections)
	slices.Sort(sectionIDs)

	for _, sectionID := range sectionIDs {
		section, err := buildSection(sectionID, raw.Sections[sectionID], resolver)
		if err != nil {
			return nil, fmt.Errorf("section %q: %w", sectionID, err)
		}
		section.Course = course
		course.Sections = append(course.Sections, section)
	}

	classifySections(course)
	return course, nil
}

func buildSection(id string, raw RawSection, resolver *cacheResolver) (*Section, error) {
	if raw.CRN == "" {
		return nil, fmt.Errorf("section has no crn")
	}

	caches := resolver.caches
	section := &Section{
		CRN:          raw.CRN,
		ID:           id,
		ScheduleType: resolver.string(caches.ScheduleTypes, raw.ScheduleTypeIndex, "scheduleTypes"),
		Campus:       resolver.string(caches.Campuses, raw.CampusIndex, "campuses"),
		GradeBasis:   resolver.string(caches.GradeBases, raw.GradeBaseIndex, "gradeBases"),
		CreditHours:  raw.CreditHours,
	}

	attributes := lo.Map(raw.AttributeIndices, func(index int, _ int) string {
		return resolver.string(caches.Attributes, index, "attributes")
	})
	section.DeliveryMode = deriveDeliveryMode(attributes)

	for _, rawMeeting := range raw.Meetings {
		meeting := Meeting{
			Period:      resolver.period(rawMeeting.PeriodIndex),
			Days:        splitDays(rawMeeting.Days),
			Room:        rawMeeting.Room,
			Location:    resolver.location(rawMeeting.LocationIndex),
			Instructors: rawMeeting.Instructors,
			DateRange:   resolver.dateRange(rawMeeting.DateRangeIndex),
			FinalTime:   resolver.finalTime(rawMeeting.FinalTimeIndex),
		}
		if rawMeeting.FinalDateIndex >= 0 {
			meeting.FinalDate = resolver.string(caches.FinalDates, rawMeeting.FinalDateIndex, "finalDates")
		}
		section.Meetings = append(section.Meetings, meeting)
	}

	section.Instructors = lo.Uniq(lo.FlatMap(section.Meetings, func(meeting Meeting, _ int) []string {
		return meeting.Instructors
	}))

	section.isLecture = strings.Contains(section.ScheduleType, "Lecture")
	section.isLab = strings.Contains(section.ScheduleType, "Lab") ||
		strings.Contains(section.ScheduleType, "Studio")

	return section, nil
}

// deliveryModes are the attribute names that describe how a section is
// delivered, as opposed to attributes describing its content.
var deliveryModes = []string{
	"Hybrid Course",
	"Remote Asynchronous Course",
	"Remote Synchronous Course",
	"Residential Course",
}

// deriveDeliveryMode picks the first attribute naming a known delivery mode,
// or "" when the section carries none.
func deriveDeliveryMode(attributes []string) string {
	mode, _ := lo.Find(attributes, func(attribute string) bool {
		return slices.Contains(deliveryModes, attribute)
	})
	return mode
}

// splitDays turns a day string like "MWF" into its weekday letters. "TBA"
// and unknown letters yield no days.
func splitDays(days string) []string {
	result := make([]string, 0, len(days))
	for _, letter := range days {
		switch letter {
		case 'M', 'T', 'W', 'R', 'F':
			result = append(result, string(letter))
		}
	}
	return result
}

// classifySections partitions a course's sections by schedule type. Courses
// with both lecture-only and lab-only sections get lecture-lab associations;
// every other course gets section groups of interchangeable sections.
func classifySections(course *Course) {
	onlyLectures := lo.Filter(course.Sections, func(s *Section, _ int) bool { return s.isLecture && !s.isLab })
	onlyLabs := lo.Filter(course.Sections, func(s *Section, _ int) bool { return s.isLab && !s.isLecture })

	course.HasLab = len(onlyLectures) > 0 && len(onlyLabs) > 0
	if !course.HasLab {
		groupSections(course)
		return
	}

	course.OnlyLectures = onlyLectures
	course.OnlyLabs = onlyLabs
	course.AllInOnes = lo.Filter(course.Sections, func(s *Section, _ int) bool { return s.isLecture && s.isLab })

	// Naming convention: lab "A1" belongs to lecture "A".
	for _, lecture := range onlyLectures {
		lecture.AssociatedLabs = lo.Filter(onlyLabs, func(lab *Section, _ int) bool {
			return strings.HasPrefix(lab.ID, lecture.ID)
		})
	}
	for _, lab := range onlyLabs {
		lab.AssociatedLectures = lo.Filter(onlyLectures, func(lecture *Section, _ int) bool {
			return strings.HasPrefix(lab.ID, lecture.ID)
		})
	}

	// Sections the naming convention left lonely fall back to pairing with
	// every lonely counterpart they do not conflict with.
	lonelyLectures := lo.Filter(onlyLectures, func(s *Section, _ int) bool { return len(s.AssociatedLabs) == 0 })
	lonelyLabs := lo.Filter(onlyLabs, func(s *Section, _ int) bool { return len(s.AssociatedLectures) == 0 })

	for _, lecture := range lonelyLectures {
		lecture.AssociatedLabs = lo.Filter(lonelyLabs, func(lab *Section, _ int) bool {
			return !lecture.ConflictsWith(lab)
		})
	}
	for _, lab := range lonelyLabs {
		lab.AssociatedLectures = lo.Filter(lonelyLectures, func(lecture *Section, _ int) bool {
			return !lab.ConflictsWith(lecture)
		})
	}
}

// groupSections buckets sections sharing an identical ordered meeting-time
// signature; only one member of a bucket is ever offered to the search.
func groupSections(course *Course) {
	bySignature := make(map[string]*SectionGroup)
	for _, section := range course.Sections {
		signature := meetingSignature(section)
		group, ok := bySignature[signature]
		if !ok {
			group = &SectionGroup{Signature: signature}
			bySignature[signature] = group
			course.SectionGroups = append(course.SectionGroups, group)
		}
		group.Sections = append(group.Sections, section)
	}
}

func meetingSignature(section *Section) string {
	parts := lo.Map(section.Meetings, func(meeting Meeting, _ int) string {
		if meeting.Period == nil {
			return strings.Join(meeting.Days, "") + "|TBA"
		}
		return fmt.Sprintf("%v|%v-%v", strings.Join(meeting.Days, ""), meeting.Period.Start, meeting.Period.End)
	})
	return strings.Join(parts, ";")
}
