package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Mine extracts the ordered menu items held by a row's content element.
//
// Card rows list each dish as an <article> whose <h2> is the dish name; those
// headings are used when present. Otherwise every text node under content is a
// candidate. A single surviving candidate is treated as a comma-joined list.
// An empty result means the row has no usable menu.
func Mine(content *goquery.Selection, layout Layout) []string {
	if content == nil || content.Length() == 0 {
		return nil
	}

	var candidates []string
	if layout == CardLayout {
		candidates = articleHeadings(content)
	}
	if len(candidates) == 0 {
		candidates = textNodes(content, layout)
	}

	items := Normalize(candidates)
	if len(items) == 1 {
		items = splitJoined(items[0])
	}
	return items
}

func articleHeadings(content *goquery.Selection) []string {
	var headings []string
	content.Find("article").Each(func(_ int, article *goquery.Selection) {
		if name := strings.TrimSpace(article.Find("h2").First().Text()); name != "" {
			headings = append(headings, name)
		}
	})
	return headings
}

// textNodes collects the text nodes under content in document order.
// Script and style bodies are not text; in the card layout the row's own
// title heading is the meal label, not a dish, so it is left out too.
func textNodes(content *goquery.Selection, layout Layout) []string {
	var out []string
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			out = append(out, n.Data)
			return
		case html.ElementNode:
			switch n.Data {
			case "script", "style", "noscript", "template":
				return
			}
			if layout == CardLayout && isLabelHeading(n) {
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range content.Nodes {
		walk(n)
	}
	return out
}

func isLabelHeading(n *html.Node) bool {
	if !isHeadingTag(n.Data) {
		return false
	}
	for _, a := range n.Attr {
		if a.Key == "class" {
			for _, c := range strings.Fields(a.Val) {
				if c == "title" {
					return true
				}
			}
		}
	}
	return false
}
