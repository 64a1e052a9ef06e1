package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"courseplanner/internal/catalog"
)

// Periods: 0 = MWF-morning 9:00-9:50, 1 = afternoon 2:00-2:50,
// 2 = 9:30-10:20 (overlaps 0), 3 = 11:00-11:50.
func testCaches() catalog.Caches {
	return catalog.Caches{
		Periods: []string{
			"9:00 am - 9:50 am",
			"2:00 pm - 2:50 pm",
			"9:30 am - 10:20 am",
			"11:00 am - 11:50 am",
		},
		DateRanges:    []string{"Aug 17, 2020 - Dec 10, 2020"},
		ScheduleTypes: []string{"Lecture", "Supervised Lab", "Lecture/Supervised Lab"},
		Campuses:      []string{"Atlanta"},
		GradeBases:    []string{"Letter Grade"},
	}
}

func testMeeting(periodIndex int, days string) catalog.RawMeeting {
	return catalog.RawMeeting{
		PeriodIndex:    periodIndex,
		Days:           days,
		Room:           "Skiles 202",
		LocationIndex:  -1,
		DateRangeIndex: 0,
		FinalDateIndex: -1,
		FinalTimeIndex: -1,
	}
}

func testSection(crn string, scheduleTypeIndex int, meetings ...catalog.RawMeeting) catalog.RawSection {
	return catalog.RawSection{
		CRN:               crn,
		Meetings:          meetings,
		CreditHours:       3,
		ScheduleTypeIndex: scheduleTypeIndex,
		CampusIndex:       0,
		GradeBaseIndex:    0,
	}
}

func buildCatalog(t *testing.T, courses map[string]catalog.RawCourse) *catalog.Catalog {
	t.Helper()
	built, err := catalog.New(catalog.RawCatalog{Courses: courses, Caches: testCaches()}, nil)
	assert.Nil(t, err)
	return built
}

func crnLists(combinations []Combination) [][]string {
	lists := make([][]string, 0, len(combinations))
	for _, combination := range combinations {
		lists = append(lists, combination.CRNs)
	}
	return lists
}

func TestCombinationsLectureLab(t *testing.T) {
	t.Run("One lecture with its convention-named lab yields one pair", func(t *testing.T) {
		// Arrange
		cat := buildCatalog(t, map[string]catalog.RawCourse{
			"CS 1331": {FullTitle: "Intro to OOP", Sections: map[string]catalog.RawSection{
				"A":  testSection("11111", 0, testMeeting(0, "MW")),
				"A1": testSection("11112", 1, testMeeting(1, "T")),
			}},
		})

		// Act
		combinations := Combinations(cat, []string{"CS 1331"}, nil, nil, nil)

		// Assert
		assert.Equal(t, [][]string{{"11111", "11112"}}, crnLists(combinations))
		assert.Equal(t, map[string]int{"M": 540, "W": 540, "T": 840}, combinations[0].StartMap)
		assert.Equal(t, map[string]int{"M": 590, "W": 590, "T": 890}, combinations[0].EndMap)
	})

	t.Run("Every lecture pairs with every associated lab, plus all-in-ones", func(t *testing.T) {
		cat := buildCatalog(t, map[string]catalog.RawCourse{
			"ECE 2031": {FullTitle: "Digital Design Lab", Sections: map[string]catalog.RawSection{
				"A":  testSection("21111", 0, testMeeting(0, "MW")),
				"A1": testSection("21112", 1, testMeeting(1, "T")),
				"A2": testSection("21113", 1, testMeeting(1, "R")),
				"C":  testSection("21114", 2, testMeeting(3, "F")),
			}},
		})

		combinations := Combinations(cat, []string{"ECE 2031"}, nil, nil, nil)

		assert.Equal(t, [][]string{
			{"21111", "21112"},
			{"21111", "21113"},
			{"21114"},
		}, crnLists(combinations))
	})

	t.Run("Excluding a lab removes its pair", func(t *testing.T) {
		cat := buildCatalog(t, map[string]catalog.RawCourse{
			"CS 2110": {FullTitle: "Computer Organization", Sections: map[string]catalog.RawSection{
				"A":  testSection("31111", 0, testMeeting(0, "MW")),
				"A1": testSection("31112", 1, testMeeting(1, "T")),
				"A2": testSection("31113", 1, testMeeting(1, "R")),
			}},
		})

		combinations := Combinations(cat, []string{"CS 2110"}, nil, []string{"31112"}, nil)

		assert.Equal(t, [][]string{{"31111", "31113"}}, crnLists(combinations))
	})
}

func TestCombinationsPinning(t *testing.T) {
	cat := buildCatalog(t, map[string]catalog.RawCourse{
		// Lab "Z1" matches no lecture prefix, so the lonely fallback
		// associates it with both lectures.
		"PHYS 2211": {FullTitle: "Intro Physics I", Sections: map[string]catalog.RawSection{
			"A":  testSection("41111", 0, testMeeting(0, "MW")),
			"B":  testSection("41112", 0, testMeeting(2, "TR")),
			"Z1": testSection("41113", 1, testMeeting(1, "F")),
		}},
	})

	t.Run("Pinned lab fans out over its compatible lectures", func(t *testing.T) {
		combinations := Combinations(cat, []string{"PHYS 2211"}, []string{"41113"}, nil, nil)

		// The pinned lab is implicit in every combination; only the lecture
		// varies. Its time blocks still shape the day maps.
		assert.Equal(t, [][]string{{"41111"}, {"41112"}}, crnLists(combinations))
		for _, combination := range combinations {
			assert.Equal(t, 840, combination.StartMap["F"])
			assert.Equal(t, 890, combination.EndMap["F"])
		}
	})

	t.Run("Pinned lecture fans out over its labs", func(t *testing.T) {
		combinations := Combinations(cat, []string{"PHYS 2211"}, []string{"41111"}, nil, nil)

		assert.Equal(t, [][]string{{"41113"}}, crnLists(combinations))
	})

	t.Run("Pinned lecture and lab fix the course entirely", func(t *testing.T) {
		combinations := Combinations(cat, []string{"PHYS 2211"}, []string{"41111", "41113"}, nil, nil)

		assert.Equal(t, [][]string{{}}, crnLists(combinations))
		assert.Equal(t, map[string]int{"M": 540, "W": 540, "F": 840}, combinations[0].StartMap)
	})

	t.Run("Pinned all-in-one fixes the course entirely", func(t *testing.T) {
		allInOne := buildCatalog(t, map[string]catalog.RawCourse{
			"ECE 2031": {FullTitle: "Digital Design Lab", Sections: map[string]catalog.RawSection{
				"A":  testSection("51111", 0, testMeeting(0, "MW")),
				"A1": testSection("51112", 1, testMeeting(1, "T")),
				"C":  testSection("51113", 2, testMeeting(3, "F")),
			}},
		})

		combinations := Combinations(allInOne, []string{"ECE 2031"}, []string{"51113"}, nil, nil)

		assert.Equal(t, [][]string{{}}, crnLists(combinations))
	})

	t.Run("Pinned section of a plain course covers it", func(t *testing.T) {
		plain := buildCatalog(t, map[string]catalog.RawCourse{
			"ENGL 1101": {FullTitle: "English Composition I", Sections: map[string]catalog.RawSection{
				"A": testSection("61111", 0, testMeeting(0, "MWF")),
				"B": testSection("61112", 0, testMeeting(1, "MWF")),
			}},
		})

		combinations := Combinations(plain, []string{"ENGL 1101"}, []string{"61112"}, nil, nil)

		assert.Equal(t, [][]string{{}}, crnLists(combinations))
	})
}

func TestCombinationsSectionGroups(t *testing.T) {
	cat := buildCatalog(t, map[string]catalog.RawCourse{
		"ENGL 1101": {FullTitle: "English Composition I", Sections: map[string]catalog.RawSection{
			"A": testSection("71111", 0, testMeeting(0, "MWF")),
			"B": testSection("71112", 0, testMeeting(0, "MWF")), // duplicate of A
			"C": testSection("71113", 0, testMeeting(1, "MWF")),
		}},
	})

	t.Run("Only one representative per group is enumerated", func(t *testing.T) {
		combinations := Combinations(cat, []string{"ENGL 1101"}, nil, nil, nil)

		assert.Equal(t, [][]string{{"71111"}, {"71113"}}, crnLists(combinations))
	})

	t.Run("Excluding the representative promotes the next group member", func(t *testing.T) {
		combinations := Combinations(cat, []string{"ENGL 1101"}, nil, []string{"71111"}, nil)

		assert.Equal(t, [][]string{{"71112"}, {"71113"}}, crnLists(combinations))
	})
}

func TestCombinationsConflicts(t *testing.T) {
	t.Run("Sections conflicting across courses are pruned", func(t *testing.T) {
		cat := buildCatalog(t, map[string]catalog.RawCourse{
			"PHIL 3050": {FullTitle: "Political Philosophy", Sections: map[string]catalog.RawSection{
				"A": testSection("81111", 0, testMeeting(0, "MW")),
			}},
			"PSYC 1101": {FullTitle: "General Psychology", Sections: map[string]catalog.RawSection{
				"A": testSection("81112", 0, testMeeting(2, "MW")), // overlaps PHIL A
				"B": testSection("81113", 0, testMeeting(1, "TR")),
			}},
		})

		combinations := Combinations(cat, []string{"PHIL 3050", "PSYC 1101"}, nil, nil, nil)

		assert.Equal(t, [][]string{{"81111", "81113"}}, crnLists(combinations))
	})

	t.Run("Blocked events prune conflicting sections", func(t *testing.T) {
		cat := buildCatalog(t, map[string]catalog.RawCourse{
			"PHIL 3050": {FullTitle: "Political Philosophy", Sections: map[string]catalog.RawSection{
				"A": testSection("81111", 0, testMeeting(0, "MW")),
			}},
		})
		events := []catalog.Event{{ID: "e1", Name: "Work", Period: catalog.Period{Start: 500, End: 560}, Days: []string{"M"}}}

		combinations := Combinations(cat, []string{"PHIL 3050"}, nil, nil, events)

		assert.Empty(t, combinations)
	})

	t.Run("Pinned sections prune conflicting candidates", func(t *testing.T) {
		cat := buildCatalog(t, map[string]catalog.RawCourse{
			"PHIL 3050": {FullTitle: "Political Philosophy", Sections: map[string]catalog.RawSection{
				"A": testSection("81111", 0, testMeeting(0, "MW")),
				"B": testSection("81114", 0, testMeeting(1, "MW")),
			}},
			"PSYC 1101": {FullTitle: "General Psychology", Sections: map[string]catalog.RawSection{
				"A": testSection("81112", 0, testMeeting(2, "MW")), // overlaps PHIL A
				"B": testSection("81113", 0, testMeeting(1, "TR")),
			}},
		})

		combinations := Combinations(cat, []string{"PHIL 3050"}, []string{"81112"}, nil, nil)

		assert.Equal(t, [][]string{{"81114"}}, crnLists(combinations))
	})

	t.Run("No emitted combination contains a conflicting pair", func(t *testing.T) {
		cat := buildCatalog(t, map[string]catalog.RawCourse{
			"CS 2110": {FullTitle: "Computer Organization", Sections: map[string]catalog.RawSection{
				"A":  testSection("91111", 0, testMeeting(0, "MW")),
				"B":  testSection("91112", 0, testMeeting(2, "TR")),
				"A1": testSection("91113", 1, testMeeting(1, "T")),
				"B1": testSection("91114", 1, testMeeting(1, "F")),
			}},
			"MATH 1554": {FullTitle: "Linear Algebra", Sections: map[string]catalog.RawSection{
				"A": testSection("91115", 0, testMeeting(2, "MW")),
				"B": testSection("91116", 0, testMeeting(3, "MWF")),
				"C": testSection("91117", 0, testMeeting(1, "MW")),
			}},
		})

		combinations := Combinations(cat, []string{"CS 2110", "MATH 1554"}, nil, nil, nil)

		assert.NotEmpty(t, combinations)
		for _, combination := range combinations {
			for i, crn := range combination.CRNs {
				for _, otherCRN := range combination.CRNs[i+1:] {
					assert.False(t, cat.FindSection(crn).ConflictsWith(cat.FindSection(otherCRN)),
						"%v and %v conflict in %v", crn, otherCRN, combination.CRNs)
				}
			}
		}
	})
}

func TestCombinationsEdgeCases(t *testing.T) {
	cat := buildCatalog(t, map[string]catalog.RawCourse{
		"CS 1331": {FullTitle: "Intro to OOP", Sections: map[string]catalog.RawSection{
			"A": testSection("11111", 0, testMeeting(0, "MW")),
		}},
	})

	t.Run("A desired course missing from the catalog yields nothing", func(t *testing.T) {
		combinations := Combinations(cat, []string{"CS 1331", "CS 9999"}, nil, nil, nil)

		assert.Empty(t, combinations)
	})

	t.Run("No desired courses yields the empty combination", func(t *testing.T) {
		combinations := Combinations(cat, nil, nil, nil, nil)

		assert.Equal(t, [][]string{{}}, crnLists(combinations))
	})

	t.Run("Identical calls are idempotent", func(t *testing.T) {
		first := Combinations(cat, []string{"CS 1331"}, nil, nil, nil)
		second := Combinations(cat, []string{"CS 1331"}, nil, nil, nil)

		assert.Equal(t, first, second)
	})
}
