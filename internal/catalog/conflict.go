package catalog

import "github.com/samber/lo"

// periodsOverlap uses half-open intersection: touching endpoints do not
// overlap, so a 9:00-9:50 block composes with a 9:50-10:40 one.
func periodsOverlap(a, b Period) bool {
	return a.Start < b.End && b.Start < a.End
}

func shareDay(a, b []string) bool {
	return lo.Some(a, b)
}

// MeetingsConflict reports whether two meetings overlap in time on at least
// one common weekday. Meetings without a period never conflict.
func MeetingsConflict(a, b Meeting) bool {
	if a.Period == nil || b.Period == nil {
		return false
	}
	return shareDay(a.Days, b.Days) && periodsOverlap(*a.Period, *b.Period)
}

// ConflictsWith reports whether any meeting of s overlaps any meeting of
// other. Comparing a section against itself reports a conflict whenever the
// section has a scheduled meeting, which is correct: the same section cannot
// be selected twice.
func (s *Section) ConflictsWith(other *Section) bool {
	for _, meeting := range s.Meetings {
		for _, otherMeeting := range other.Meetings {
			if MeetingsConflict(meeting, otherMeeting) {
				return true
			}
		}
	}
	return false
}

// ConflictsWithEvent reports whether any meeting of s overlaps the given
// recurring event.
func (s *Section) ConflictsWithEvent(event Event) bool {
	for _, meeting := range s.Meetings {
		if meeting.Period == nil {
			continue
		}
		if shareDay(meeting.Days, event.Days) && periodsOverlap(*meeting.Period, event.Period) {
			return true
		}
	}
	return false
}
