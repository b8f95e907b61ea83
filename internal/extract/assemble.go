package extract

import (
	"errors"
	"fmt"
	"io"

	"github.com/PuerkitoBio/goquery"
	"github.com/yemekhane/menucal/internal/meal"
)

// ErrNoMenu is returned when a page has no recognizable layout or no meal rows.
var ErrNoMenu = errors.New("no menu found")

// SkipReason explains why a row did not produce a meal.
type SkipReason string

const (
	SkipUnclassified SkipReason = "unclassified"
	SkipNoItems      SkipReason = "no_items"
)

// Observer receives progress from an assembly pass. Implementations must not
// modify the rows or records they are handed.
type Observer interface {
	LayoutDetected(date string, layout Layout)
	RowSkipped(date string, label string, reason SkipReason)
	MealFound(date string, slot meal.Slot, rec *meal.Record)
}

// NopObserver ignores every notification.
type NopObserver struct{}

func (NopObserver) LayoutDetected(string, Layout)             {}
func (NopObserver) RowSkipped(string, string, SkipReason)     {}
func (NopObserver) MealFound(string, meal.Slot, *meal.Record) {}

// Assembler builds a meal.Result from a page. The zero value is ready to use.
type Assembler struct {
	Observer Observer
}

// NewAssembler creates an Assembler reporting to obs. A nil obs is replaced by NopObserver.
func NewAssembler(obs Observer) *Assembler {
	if obs == nil {
		obs = NopObserver{}
	}
	return &Assembler{Observer: obs}
}

func (a *Assembler) observer() Observer {
	if a == nil || a.Observer == nil {
		return NopObserver{}
	}
	return a.Observer
}

// Assemble extracts the lunch and dinner records for date from doc.
// It returns ErrNoMenu when no layout matches or no row yields a meal.
func (a *Assembler) Assemble(doc *goquery.Document, date string) (*meal.Result, error) {
	obs := a.observer()

	layout, root := Detect(doc)
	obs.LayoutDetected(date, layout)
	if layout == NoMenu {
		return nil, fmt.Errorf("%w: no recognizable layout", ErrNoMenu)
	}

	result := &meal.Result{}
	found := 0

	for row := range Rows(root, layout) {
		slot, ok := Classify(row.Label)
		if !ok {
			obs.RowSkipped(date, row.Label, SkipUnclassified)
			continue
		}

		items := Mine(row.Content, layout)
		if len(items) == 0 {
			obs.RowSkipped(date, row.Label, SkipNoItems)
			continue
		}

		rec := meal.BuildRecord(items, date, slot.TimeLabel())
		result.Set(slot, rec)
		found++
		obs.MealFound(date, slot, rec)
	}

	if found == 0 {
		return nil, fmt.Errorf("%w: no meal rows in %s layout", ErrNoMenu, layout)
	}
	return result, nil
}

// AssembleHTML parses r and assembles the menu for date.
func (a *Assembler) AssembleHTML(r io.Reader, date string) (*meal.Result, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}
	return a.Assemble(doc, date)
}

// Assemble extracts the menu for date from doc without observing progress.
func Assemble(doc *goquery.Document, date string) (*meal.Result, error) {
	return (&Assembler{}).Assemble(doc, date)
}
