// Package engine enumerates and ranks conflict-free schedule combinations
// over an immutable catalog. It performs pure in-memory computation: no I/O,
// no shared state between calls.
package engine

import (
	"slices"

	"github.com/samber/lo"

	"courseplanner/internal/catalog"
)

// Combination is one candidate schedule: the CRNs selected for the desired
// courses (pinned CRNs are implicit) plus the earliest start and latest end
// per weekday across selected, pinned and event time blocks.
type Combination struct {
	CRNs     []string       `json:"crns"`
	StartMap map[string]int `json:"startMap"`
	EndMap   map[string]int `json:"endMap"`
	Factor   float64        `json:"factor"`
}

// Combinations returns every valid combination of sections for the desired
// courses, honoring pinned and excluded CRNs and never conflicting with the
// given events. Output order follows the traversal order: desired-course
// order, then lecture, lab and all-in-one order within each course. A
// desired course absent from the catalog silently yields no combinations.
func Combinations(cat *catalog.Catalog, desiredCourses, pinnedCRNs, excludedCRNs []string, events []catalog.Event) []Combination {
	search := searcher{
		catalog:      cat,
		desired:      desiredCourses,
		pinnedCRNs:   pinnedCRNs,
		excludedCRNs: excludedCRNs,
		events:       events,
		pinned: lo.FilterMap(pinnedCRNs, func(crn string, _ int) (*catalog.Section, bool) {
			section := cat.FindSection(crn)
			return section, section != nil
		}),
		combinations: []Combination{},
	}
	search.run(0)
	return search.combinations
}

// searcher carries one enumeration's accumulator state. The crns and chosen
// stacks are mutated during the depth-first descent and copied at emit, so
// results never alias the accumulator.
type searcher struct {
	catalog      *catalog.Catalog
	desired      []string
	pinnedCRNs   []string
	excludedCRNs []string
	events       []catalog.Event
	pinned       []*catalog.Section

	crns         []string
	chosen       []*catalog.Section
	combinations []Combination
}

func (s *searcher) run(courseIndex int) {
	if courseIndex == len(s.desired) {
		s.emit()
		return
	}

	course := s.catalog.FindCourse(s.desired[courseIndex])
	if course == nil {
		// The course was removed from the catalog after the user picked it.
		return
	}

	if course.HasLab {
		s.runLabCourse(courseIndex, course)
	} else {
		s.runPlainCourse(courseIndex, course)
	}
}

// runLabCourse branches a course with a lecture/lab split by what is already
// pinned: a complete pin recurses as-is, a half pin enumerates the missing
// counterpart, and no pin enumerates every lecture-lab pair plus every
// all-in-one section.
func (s *searcher) runLabCourse(courseIndex int, course *catalog.Course) {
	pinnedLecture, hasPinnedLecture := lo.Find(course.OnlyLectures, s.isPinned)
	pinnedLab, hasPinnedLab := lo.Find(course.OnlyLabs, s.isPinned)
	hasPinnedAllInOne := lo.SomeBy(course.AllInOnes, s.isPinned)

	switch {
	case (hasPinnedLecture && hasPinnedLab) || hasPinnedAllInOne:
		s.run(courseIndex + 1)

	case hasPinnedLecture:
		for _, lab := range pinnedLecture.AssociatedLabs {
			if s.isIncluded(lab) && !s.hasConflict(lab) {
				s.push(lab)
				s.run(courseIndex + 1)
				s.pop()
			}
		}

	case hasPinnedLab:
		for _, lecture := range pinnedLab.AssociatedLectures {
			if s.isIncluded(lecture) && !s.hasConflict(lecture) {
				s.push(lecture)
				s.run(courseIndex + 1)
				s.pop()
			}
		}

	default:
		for _, lecture := range course.OnlyLectures {
			if !s.isIncluded(lecture) || s.hasConflict(lecture) {
				continue
			}
			s.push(lecture)
			for _, lab := range lecture.AssociatedLabs {
				if s.isIncluded(lab) && !s.hasConflict(lab) {
					s.push(lab)
					s.run(courseIndex + 1)
					s.pop()
				}
			}
			s.pop()
		}
		for _, section := range course.AllInOnes {
			if s.isIncluded(section) && !s.hasConflict(section) {
				s.push(section)
				s.run(courseIndex + 1)
				s.pop()
			}
		}
	}
}

// runPlainCourse handles courses without a lecture/lab split: a pinned
// section covers the course outright, otherwise one representative per
// section group is tried.
func (s *searcher) runPlainCourse(courseIndex int, course *catalog.Course) {
	if lo.SomeBy(course.Sections, s.isPinned) {
		s.run(courseIndex + 1)
		return
	}

	for _, group := range course.SectionGroups {
		section, found := lo.Find(group.Sections, s.isIncluded)
		if !found || s.hasConflict(section) {
			continue
		}
		s.push(section)
		s.run(courseIndex + 1)
		s.pop()
	}
}

func (s *searcher) isPinned(section *catalog.Section) bool {
	return slices.Contains(s.pinnedCRNs, section.CRN)
}

func (s *searcher) isIncluded(section *catalog.Section) bool {
	return !slices.Contains(s.excludedCRNs, section.CRN)
}

// hasConflict reports whether the section collides with a pinned section, a
// section already chosen along this branch, or an event.
func (s *searcher) hasConflict(section *catalog.Section) bool {
	for _, other := range s.pinned {
		if section.ConflictsWith(other) {
			return true
		}
	}
	for _, other := range s.chosen {
		if section.ConflictsWith(other) {
			return true
		}
	}
	for _, event := range s.events {
		if section.ConflictsWithEvent(event) {
			return true
		}
	}
	return false
}

func (s *searcher) push(section *catalog.Section) {
	s.crns = append(s.crns, section.CRN)
	s.chosen = append(s.chosen, section)
}

func (s *searcher) pop() {
	s.crns = s.crns[:len(s.crns)-1]
	s.chosen = s.chosen[:len(s.chosen)-1]
}

func (s *searcher) emit() {
	crns := make([]string, len(s.crns))
	copy(crns, s.crns)

	startMap := make(map[string]int)
	endMap := make(map[string]int)
	s.catalog.IterateTimeBlocks(append(append(make([]string, 0, len(s.pinnedCRNs)+len(crns)), s.pinnedCRNs...), crns...), s.events, func(day string, period catalog.Period) {
		if start, ok := startMap[day]; !ok || period.Start < start {
			startMap[day] = period.Start
		}
		if end, ok := endMap[day]; !ok || period.End > end {
			endMap[day] = period.End
		}
	})

	s.combinations = append(s.combinations, Combination{
		CRNs:     crns,
		StartMap: startMap,
		EndMap:   endMap,
	})
}
