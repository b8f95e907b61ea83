package extract

import (
	"github.com/PuerkitoBio/goquery"
)

// Layout is the structural shape of a menu page.
type Layout int

const (
	NoMenu Layout = iota
	TableLayout
	CardLayout
)

const (
	tableSelector = "table.menu-list"
	cardSelector  = ".view-yemek-listesi"
)

func (l Layout) String() string {
	switch l {
	case TableLayout:
		return "table"
	case CardLayout:
		return "card"
	default:
		return "none"
	}
}

// Detect decides which layout doc uses and returns the layout's root element.
// The table layout wins when both markers are present. The root is nil for NoMenu.
func Detect(doc *goquery.Document) (Layout, *goquery.Selection) {
	if table := doc.Find(tableSelector).First(); table.Length() > 0 {
		return TableLayout, table
	}
	if container := doc.Find(cardSelector).First(); container.Length() > 0 {
		return CardLayout, container
	}
	return NoMenu, nil
}
