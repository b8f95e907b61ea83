package meal

import (
	"sort"
	"time"
)

// Snapshot is the set of menus known at a point in time, keyed by DD/MM/YYYY date.
type Snapshot struct {
	Menus     map[string]*Result `json:"menus"`
	UpdatedAt string             `json:"updated_at"` // RFC3339 timestamp
}

// NewSnapshot creates an empty snapshot
func NewSnapshot() *Snapshot {
	return &Snapshot{
		Menus: make(map[string]*Result),
	}
}

// Change describes a meal that is new or whose menu differs from the previous snapshot.
type Change struct {
	ID         string    `json:"id"`
	Date       string    `json:"date"`
	Slot       Slot      `json:"slot"`
	ChangeType string    `json:"change_type"` // "new" or "updated"
	OldValue   string    `json:"old_value,omitempty"`
	NewValue   string    `json:"new_value"`
	DetectedAt time.Time `json:"detected_at"`
}

// Diff compares freshly fetched menus against a previous snapshot.
// Meals missing from current are not reported; the site drops old dates routinely.
func Diff(previous *Snapshot, current map[string]*Result) []*Change {
	if previous == nil {
		previous = NewSnapshot()
	}

	var changes []*Change
	now := time.Now().UTC()

	for date, res := range current {
		if res == nil {
			continue
		}
		prev := previous.Menus[date]
		for _, s := range Slots {
			cur := res.Get(s)
			if cur == nil {
				continue
			}
			var old *Record
			if prev != nil {
				old = prev.Get(s)
			}
			switch {
			case old == nil:
				changes = append(changes, &Change{
					ID:         GenerateID(date, s),
					Date:       date,
					Slot:       s,
					ChangeType: "new",
					NewValue:   cur.Description,
					DetectedAt: now,
				})
			case old.Description != cur.Description:
				changes = append(changes, &Change{
					ID:         GenerateID(date, s),
					Date:       date,
					Slot:       s,
					ChangeType: "updated",
					OldValue:   old.Description,
					NewValue:   cur.Description,
					DetectedAt: now,
				})
			}
		}
	}

	sort.Slice(changes, func(i, j int) bool {
		if changes[i].Date != changes[j].Date {
			return SortKey(changes[i].Date) < SortKey(changes[j].Date)
		}
		return slotOrder(changes[i].Slot) < slotOrder(changes[j].Slot)
	})

	return changes
}

// Merge copies current into snap, replacing menus for the same date.
func (snap *Snapshot) Merge(current map[string]*Result, updatedAt string) {
	if snap.Menus == nil {
		snap.Menus = make(map[string]*Result)
	}
	for date, res := range current {
		if res == nil {
			continue
		}
		snap.Menus[date] = res
	}
	snap.UpdatedAt = updatedAt
}

// SortedDates returns the keys of menus in chronological order.
func SortedDates(menus map[string]*Result) []string {
	dates := make([]string, 0, len(menus))
	for d := range menus {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool {
		return SortKey(dates[i]) < SortKey(dates[j])
	})
	return dates
}

// SortKey returns a string that orders DD/MM/YYYY dates chronologically.
// Unparseable dates sort by their raw text after all valid ones.
func SortKey(date string) string {
	stem, err := FileStem(date)
	if err != nil {
		return "~" + date
	}
	return stem
}

func slotOrder(s Slot) int {
	for i, x := range Slots {
		if x == s {
			return i
		}
	}
	return len(Slots)
}
