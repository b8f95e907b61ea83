package calendar

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/yemekhane/menucal/internal/meal"
)

const uidDomain = "kafeterya.metu.edu.tr"

var slotTimeRe = regexp.MustCompile(`^(\d{1,2}):(\d{2}) to (\d{1,2}):(\d{2}) GMT([+-]\d{1,2})$`)

// GenerateICS generates an iCalendar (.ics) file with the meals served on one date
func GenerateICS(res *meal.Result) string {
	if res == nil || res.Count() == 0 {
		return ""
	}

	var ics strings.Builder
	writeHeader(&ics, "")
	now := time.Now().UTC()
	for _, s := range meal.Slots {
		if rec := res.Get(s); rec != nil {
			writeEvent(&ics, s, rec, now)
		}
	}
	ics.WriteString("END:VCALENDAR\r\n")

	return ics.String()
}

// GenerateBulkICS generates a single iCalendar file for menus across many dates.
// Dates are emitted in chronological order. Returns "" if there are no meals.
func GenerateBulkICS(menus map[string]*meal.Result, calendarName string) string {
	now := time.Now().UTC()

	var events strings.Builder
	for _, date := range meal.SortedDates(menus) {
		res := menus[date]
		if res == nil {
			continue
		}
		for _, s := range meal.Slots {
			if rec := res.Get(s); rec != nil {
				writeEvent(&events, s, rec, now)
			}
		}
	}
	if events.Len() == 0 {
		return ""
	}

	var ics strings.Builder
	writeHeader(&ics, calendarName)
	ics.WriteString(events.String())
	ics.WriteString("END:VCALENDAR\r\n")

	return ics.String()
}

func writeHeader(ics *strings.Builder, calendarName string) {
	ics.WriteString("BEGIN:VCALENDAR\r\n")
	ics.WriteString("VERSION:2.0\r\n")
	ics.WriteString("PRODID:-//menucal//menucal//TR\r\n")
	ics.WriteString("CALSCALE:GREGORIAN\r\n")
	ics.WriteString("METHOD:PUBLISH\r\n")
	if calendarName != "" {
		ics.WriteString(fmt.Sprintf("X-WR-CALNAME:%s\r\n", escapeICS(calendarName)))
	}
}

func writeEvent(ics *strings.Builder, s meal.Slot, rec *meal.Record, now time.Time) {
	ics.WriteString("BEGIN:VEVENT\r\n")

	// UID stays stable when the menu for the same meal changes
	ics.WriteString(fmt.Sprintf("UID:%s@%s\r\n", meal.GenerateID(rec.Date, s), uidDomain))
	ics.WriteString(fmt.Sprintf("DTSTAMP:%s\r\n", formatICSTime(now)))

	start, end, err := EventTimes(rec.Date, rec.Time)
	if err == nil {
		ics.WriteString(fmt.Sprintf("DTSTART:%s\r\n", formatICSTime(start)))
		ics.WriteString(fmt.Sprintf("DTEND:%s\r\n", formatICSTime(end)))
	}

	summary := fmt.Sprintf("%s: %s", s.DisplayName(), rec.Title)
	ics.WriteString(fmt.Sprintf("SUMMARY:%s\r\n", escapeICS(summary)))
	ics.WriteString(fmt.Sprintf("DESCRIPTION:%s\r\n", escapeICS(rec.Description)))
	ics.WriteString("STATUS:CONFIRMED\r\n")
	ics.WriteString("TRANSP:TRANSPARENT\r\n")
	ics.WriteString("END:VEVENT\r\n")
}

// EventTimes resolves a DD/MM/YYYY date and a serving window such as
// "11:40 to 12:30 GMT+3" into absolute start and end times.
func EventTimes(date, window string) (time.Time, time.Time, error) {
	m := slotTimeRe.FindStringSubmatch(strings.TrimSpace(window))
	if m == nil {
		return time.Time{}, time.Time{}, fmt.Errorf("unrecognized serving window %q", window)
	}

	offset, _ := strconv.Atoi(m[5])
	loc := time.FixedZone(fmt.Sprintf("GMT%+d", offset), offset*3600)

	day, err := meal.ParseDate(date, loc)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}

	at := func(hh, mm string) (time.Time, error) {
		h, _ := strconv.Atoi(hh)
		mi, _ := strconv.Atoi(mm)
		if h > 23 || mi > 59 {
			return time.Time{}, fmt.Errorf("invalid time %s:%s in %q", hh, mm, window)
		}
		return time.Date(day.Year(), day.Month(), day.Day(), h, mi, 0, 0, loc), nil
	}

	start, err := at(m[1], m[2])
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err := at(m[3], m[4])
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if !end.After(start) {
		return time.Time{}, time.Time{}, fmt.Errorf("serving window %q ends before it starts", window)
	}
	return start, end, nil
}

// formatICSTime formats a time.Time as an iCalendar datetime string
func formatICSTime(t time.Time) string {
	return t.UTC().Format("20060102T150405Z")
}

// escapeICS escapes special characters for iCalendar format
func escapeICS(s string) string {
	// Replace special characters according to RFC 5545
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, ",", "\\,")
	s = strings.ReplaceAll(s, ";", "\\;")
	s = strings.ReplaceAll(s, "\n", "\\n")
	return s
}
