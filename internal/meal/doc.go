// Package meal provides the canonical cafeteria meal types.
//
// A Result holds at most one Record per Slot (lunch, dinner) for a single date.
// Records are built from a mined list of menu items: the description keeps every
// item in order and the title is derived from the first one or two items.
// Dates are carried as DD/MM/YYYY strings, the format the cafeteria site expects.
package meal
