package meal

import (
	"strings"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Slot identifies one of the two meals served per day.
type Slot string

const (
	Lunch  Slot = "lunch"
	Dinner Slot = "dinner"
)

// Fixed serving windows, Turkey time.
const (
	LunchTime  = "11:40 to 12:30 GMT+3"
	DinnerTime = "17:40 to 18:30 GMT+3"
)

// Slots lists every slot in serving order.
var Slots = []Slot{Lunch, Dinner}

// TimeLabel returns the serving window label for the slot.
func (s Slot) TimeLabel() string {
	switch s {
	case Lunch:
		return LunchTime
	case Dinner:
		return DinnerTime
	default:
		return ""
	}
}

// DisplayName returns a human-readable name for the slot.
func (s Slot) DisplayName() string {
	switch s {
	case Lunch:
		return "Lunch"
	case Dinner:
		return "Dinner"
	default:
		return string(s)
	}
}

// Record is a single meal ready to become a calendar event.
type Record struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Date        string `json:"date"` // DD/MM/YYYY
	Time        string `json:"time"`
}

// Result holds the meals found for one date. A nil slot means the meal was not found.
type Result struct {
	Lunch  *Record `json:"lunch"`
	Dinner *Record `json:"dinner"`
}

// Get returns the record for the slot, or nil.
func (r *Result) Get(s Slot) *Record {
	switch s {
	case Lunch:
		return r.Lunch
	case Dinner:
		return r.Dinner
	default:
		return nil
	}
}

// Set stores rec in the slot, replacing whatever was there.
func (r *Result) Set(s Slot, rec *Record) {
	switch s {
	case Lunch:
		r.Lunch = rec
	case Dinner:
		r.Dinner = rec
	}
}

// Count returns how many slots are populated.
func (r *Result) Count() int {
	n := 0
	if r.Lunch != nil {
		n++
	}
	if r.Dinner != nil {
		n++
	}
	return n
}

// Equal reports whether two results carry the same records.
func (r *Result) Equal(other *Result) bool {
	if r == nil || other == nil {
		return r == other
	}
	return recordEqual(r.Lunch, other.Lunch) && recordEqual(r.Dinner, other.Dinner)
}

func recordEqual(a, b *Record) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// TitleCase upper-cases the first letter of every word in s and lower-cases the rest.
func TitleCase(s string) string {
	return cases.Title(language.Und).String(s)
}

// BuildRecord turns a non-empty, ordered item list into a Record.
// The title pairs the first two items ("A w/ B"); a single item becomes "A Menu".
// It returns nil if items is empty.
func BuildRecord(items []string, date, timeSlot string) *Record {
	if len(items) == 0 {
		return nil
	}

	var title string
	if len(items) >= 2 {
		title = TitleCase(items[0]) + " w/ " + TitleCase(items[1])
	} else {
		title = TitleCase(items[0]) + " Menu"
	}

	return &Record{
		Title:       title,
		Description: strings.Join(items, ", "),
		Date:        date,
		Time:        timeSlot,
	}
}

// namespace scopes record IDs so they never collide with other UUIDv5 users.
var namespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://kafeterya.metu.edu.tr/"))

// GenerateID creates a deterministic ID for the meal served in slot on date.
// The ID does not depend on the menu contents, so an updated menu keeps its ID.
func GenerateID(date string, s Slot) string {
	return uuid.NewSHA1(namespace, []byte(date+"|"+string(s))).String()
}
