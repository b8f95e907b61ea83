package extract

import (
	"iter"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Row pairs a raw meal label with the element holding that meal's items.
type Row struct {
	Label   string
	Content *goquery.Selection
}

// Rows enumerates the meal rows under root in document order.
func Rows(root *goquery.Selection, layout Layout) iter.Seq[Row] {
	return func(yield func(Row) bool) {
		if root == nil {
			return
		}
		switch layout {
		case TableLayout:
			tableRows(root, yield)
		case CardLayout:
			cardRows(root, yield)
		}
	}
}

// tableRows yields the first two cells of every row; rows with fewer cells are dropped.
func tableRows(table *goquery.Selection, yield func(Row) bool) {
	table.Find("tr").EachWithBreak(func(_ int, tr *goquery.Selection) bool {
		cells := tr.Find("td, th")
		if cells.Length() < 2 {
			return true
		}
		return yield(Row{
			Label:   strings.TrimSpace(cells.Eq(0).Text()),
			Content: cells.Eq(1),
		})
	})
}

// cardRows yields one row per title heading, scoped to its enclosing .views-row card.
func cardRows(container *goquery.Selection, yield func(Row) bool) {
	container.Find(".title").FilterFunction(isHeading).EachWithBreak(func(_ int, h *goquery.Selection) bool {
		content := h.ParentsFiltered(".views-row").First()
		if content.Length() == 0 {
			content = h.Parent()
		}
		return yield(Row{
			Label:   strings.TrimSpace(h.Text()),
			Content: content,
		})
	})
}

func isHeading(_ int, s *goquery.Selection) bool {
	return isHeadingTag(goquery.NodeName(s))
}

func isHeadingTag(name string) bool {
	switch name {
	case "h1", "h2", "h3", "h4", "h5", "h6":
		return true
	default:
		return false
	}
}
