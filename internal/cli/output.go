package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/yemekhane/menucal/internal/calendar"
	"github.com/yemekhane/menucal/internal/meal"
	"github.com/yemekhane/menucal/internal/printout"
)

// OutputFormat specifies the output format
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
	FormatICS  OutputFormat = "ics"
	FormatPDF  OutputFormat = "pdf"
)

const documentTitle = "METU Cafeteria Menu"

// ParseFormat validates a --format value.
func ParseFormat(s string) (OutputFormat, error) {
	switch f := OutputFormat(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatText, FormatJSON, FormatICS, FormatPDF:
		return f, nil
	default:
		return "", fmt.Errorf("invalid format: %s (must be 'text', 'json', 'ics' or 'pdf')", s)
	}
}

// OutputResult contains data to be output
type OutputResult struct {
	CheckedAt time.Time               `json:"checked_at"`
	Dates     []string                `json:"dates"`
	Menus     map[string]*meal.Result `json:"menus"`
	MealCount int                     `json:"meal_count"`
	Changes   []*meal.Change          `json:"changes,omitempty"`
}

// NewOutputResult collects the menus fetched for dates, in the given order.
// Dates without a menu stay in Menus as nil.
func NewOutputResult(dates []string, menus map[string]*meal.Result) *OutputResult {
	result := &OutputResult{
		CheckedAt: time.Now().UTC(),
		Dates:     dates,
		Menus:     make(map[string]*meal.Result, len(dates)),
	}
	for _, d := range dates {
		res := menus[d]
		result.Menus[d] = res
		if res != nil {
			result.MealCount += res.Count()
		}
	}
	return result
}

// Found returns only the dates that have a menu.
func (r *OutputResult) Found() map[string]*meal.Result {
	found := make(map[string]*meal.Result, len(r.Menus))
	for d, res := range r.Menus {
		if res != nil && res.Count() > 0 {
			found[d] = res
		}
	}
	return found
}

// WriteOutput writes the result in the specified format
func WriteOutput(w io.Writer, result *OutputResult, format OutputFormat, verbose bool) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, result)
	case FormatText:
		return writeText(w, result, verbose)
	case FormatICS:
		return writeICS(w, result)
	case FormatPDF:
		return printout.NewRenderer(documentTitle).Write(w, result.Found())
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// writeJSON outputs results as JSON
func writeJSON(w io.Writer, result *OutputResult) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}

func writeICS(w io.Writer, result *OutputResult) error {
	ics := calendar.GenerateBulkICS(result.Found(), documentTitle)
	if ics == "" {
		return nil
	}
	_, err := io.WriteString(w, ics)
	return err
}

// writeText outputs results as human-readable text
func writeText(w io.Writer, result *OutputResult, verbose bool) error {
	for i, date := range result.Dates {
		if i > 0 {
			fmt.Fprintln(w)
		}
		res := result.Menus[date]
		if res == nil || res.Count() == 0 {
			fmt.Fprintf(w, "%s: no menu found.\n", date)
			continue
		}

		fmt.Fprintf(w, "%s\n", date)
		for _, s := range meal.Slots {
			rec := res.Get(s)
			if rec == nil {
				continue
			}
			fmt.Fprintf(w, "  %s (%s): %s\n", s.DisplayName(), rec.Time, rec.Title)
			fmt.Fprintf(w, "    %s\n", rec.Description)
			if verbose {
				fmt.Fprintf(w, "    ID: %s\n", meal.GenerateID(date, s))
			}
		}
	}

	if len(result.Changes) > 0 {
		fmt.Fprintf(w, "\nChanges since last save:\n")
		for _, c := range result.Changes {
			fmt.Fprintf(w, "  %s %s %s: %s\n", strings.ToUpper(c.ChangeType), c.Date, c.Slot.DisplayName(), c.NewValue)
		}
	}

	if len(result.Dates) > 1 {
		fmt.Fprintf(w, "\nTotal: %d meals across %d days\n", result.MealCount, len(result.Dates))
	}

	return nil
}
