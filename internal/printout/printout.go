// Package printout renders menus as a printable PDF using gofpdf core fonts.
package printout

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"github.com/yemekhane/menucal/internal/meal"
)

// Core fonts only cover cp1252; these Turkish letters fall outside it.
var turkishFold = strings.NewReplacer(
	"ğ", "g", "Ğ", "G",
	"ı", "i", "İ", "I",
	"ş", "s", "Ş", "S",
)

// Renderer writes menus as an A4 PDF, one section per date.
type Renderer struct {
	Title string
}

// NewRenderer creates a Renderer with the given document title.
func NewRenderer(title string) *Renderer {
	return &Renderer{Title: title}
}

// Render converts menus into PDF bytes. Dates are laid out chronologically;
// dates without any meal are skipped.
func (r *Renderer) Render(menus map[string]*meal.Result) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.Write(&buf, menus); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Write renders menus to w.
func (r *Renderer) Write(w io.Writer, menus map[string]*meal.Result) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 15)
	pdf.SetTitle(r.Title, true)
	pdf.AddPage()

	tr := translator(pdf)

	if r.Title != "" {
		pdf.SetFont("Helvetica", "B", 18)
		pdf.MultiCell(0, 8, tr(r.Title), "", "L", false)
		pdf.Ln(4)
	}

	written := 0
	for _, date := range meal.SortedDates(menus) {
		res := menus[date]
		if res == nil || res.Count() == 0 {
			continue
		}
		written++
		renderDay(pdf, tr, date, res)
	}

	if written == 0 {
		pdf.SetFont("Helvetica", "I", 11)
		pdf.MultiCell(0, 6, "No menu available.", "", "L", false)
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("rendering pdf: %w", err)
	}
	return nil
}

func renderDay(pdf *gofpdf.Fpdf, tr func(string) string, date string, res *meal.Result) {
	pdf.Ln(2)
	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetFillColor(235, 235, 235)
	pdf.CellFormat(0, 8, tr(date), "", 1, "L", true, 0, "")
	pdf.Ln(1)

	for _, s := range meal.Slots {
		rec := res.Get(s)
		if rec == nil {
			continue
		}
		pdf.SetFont("Helvetica", "B", 12)
		pdf.MultiCell(0, 6, tr(fmt.Sprintf("%s: %s", s.DisplayName(), rec.Title)), "", "L", false)

		pdf.SetFont("Helvetica", "I", 9)
		pdf.SetTextColor(100, 100, 100)
		pdf.MultiCell(0, 5, tr(rec.Time), "", "L", false)
		pdf.SetTextColor(0, 0, 0)

		pdf.SetFont("Helvetica", "", 10)
		for _, item := range strings.Split(rec.Description, ", ") {
			pdf.MultiCell(0, 5, tr("- "+item), "", "L", false)
		}
		pdf.Ln(2)
	}
}

func translator(pdf *gofpdf.Fpdf) func(string) string {
	cp := pdf.UnicodeTranslatorFromDescriptor("")
	return func(s string) string {
		return cp(turkishFold.Replace(s))
	}
}
