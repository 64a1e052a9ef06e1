package catalog

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Period is a daily time interval in minutes since midnight, with Start < End.
type Period struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// DateRange is the semester sub-range a meeting is active in.
type DateRange struct {
	From time.Time
	To   time.Time
}

const dateLayout = "Jan 2, 2006"

// ParseTime converts a clock string of the form "h:mm am|pm" into minutes
// since midnight.
func ParseTime(text string) (int, error) {
	fields := strings.Fields(strings.ToLower(strings.TrimSpace(text)))
	if len(fields) != 2 {
		return 0, fmt.Errorf("malformed time %q", text)
	}

	clock, meridiem := fields[0], fields[1]
	if meridiem != "am" && meridiem != "pm" {
		return 0, fmt.Errorf("malformed meridiem in time %q", text)
	}

	hourStr, minuteStr, found := strings.Cut(clock, ":")
	if !found {
		return 0, fmt.Errorf("malformed clock in time %q", text)
	}

	hour, err := strconv.Atoi(hourStr)
	if err != nil || hour < 1 || hour > 12 {
		return 0, fmt.Errorf("malformed hour in time %q", text)
	}
	minute, err := strconv.Atoi(minuteStr)
	if err != nil || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("malformed minute in time %q", text)
	}

	// 12 am is midnight and 12 pm is noon
	if hour == 12 {
		hour = 0
	}
	if meridiem == "pm" {
		hour += 12
	}

	return hour*60 + minute, nil
}

// ParsePeriod parses "h:mm am|pm - h:mm am|pm" into a Period. "TBA" and empty
// strings yield a nil period, which never conflicts with anything.
func ParsePeriod(text string) (*Period, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" || strings.EqualFold(trimmed, "TBA") {
		return nil, nil
	}

	startStr, endStr, found := strings.Cut(trimmed, " - ")
	if !found {
		return nil, fmt.Errorf("malformed period %q", text)
	}

	start, err := ParseTime(startStr)
	if err != nil {
		return nil, fmt.Errorf("period %q: %w", text, err)
	}
	end, err := ParseTime(endStr)
	if err != nil {
		return nil, fmt.Errorf("period %q: %w", text, err)
	}
	if start >= end {
		return nil, fmt.Errorf("period %q does not end after it starts", text)
	}

	return &Period{Start: start, End: end}, nil
}

// ParseDateRange parses "Jan 2, 2006 - Jan 2, 2006" into a DateRange.
func ParseDateRange(text string) (DateRange, error) {
	fromStr, toStr, found := strings.Cut(strings.TrimSpace(text), " - ")
	if !found {
		return DateRange{}, fmt.Errorf("malformed date range %q", text)
	}

	from, err := time.Parse(dateLayout, strings.TrimSpace(fromStr))
	if err != nil {
		return DateRange{}, fmt.Errorf("date range %q: %w", text, err)
	}
	to, err := time.Parse(dateLayout, strings.TrimSpace(toStr))
	if err != nil {
		return DateRange{}, fmt.Errorf("date range %q: %w", text, err)
	}

	return DateRange{From: from, To: to}, nil
}
