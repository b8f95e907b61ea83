package extract

import (
	"errors"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/yemekhane/menucal/internal/meal"
)

func mustDoc(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("parsing HTML: %v", err)
	}
	return doc
}

const tableLunchOnly = `
<html><body>
<table class="menu-list">
	<tr><th>Öğün</th><th>Menü</th></tr>
	<tr>
		<td>Öğle Yemeği</td>
		<td>
			<p>Lentil Soup</p>
			<p>Rice Pilaf</p>
		</td>
	</tr>
</table>
</body></html>`

const tableBothMeals = `
<table class="menu-list">
	<tbody>
		<tr><th>Öğle Yemeği</th><td>Ezogelin Çorba<br>Tavuk Sote<br>-<br>Pilav</td></tr>
		<tr><td colspan="2">Afiyet olsun</td></tr>
		<tr><th>Akşam Yemeği</th><td><span>Mercimek Çorba</span>, <span>Makarna</span>, <span>Yoğurt</span></td></tr>
	</tbody>
</table>`

const cardPage = `
<div class="view view-yemek-listesi">
	<div class="view-content">
		<div class="views-row">
			<h3 class="title">Öğle Yemeği</h3>
			<article class="node"><h2>Ezogelin Çorba</h2><p>250 kcal</p></article>
			<article class="node"><h2>  </h2></article>
			<article class="node"><h2>Tavuk Sote</h2><p>480 kcal</p></article>
		</div>
		<div class="views-row">
			<h3 class="title">Akşam Yemeği</h3>
			<div class="field">Mercimek Çorba, Makarna, Yoğurt</div>
		</div>
	</div>
</div>`

func TestAssemble_TableLunchOnly(t *testing.T) {
	res, err := Assemble(mustDoc(t, tableLunchOnly), "01/01/2024")
	if err != nil {
		t.Fatalf("Assemble() error: %v", err)
	}

	want := &meal.Record{
		Title:       "Lentil Soup w/ Rice Pilaf",
		Description: "Lentil Soup, Rice Pilaf",
		Date:        "01/01/2024",
		Time:        meal.LunchTime,
	}
	if res.Lunch == nil || *res.Lunch != *want {
		t.Errorf("Lunch = %+v, want %+v", res.Lunch, want)
	}
	if res.Dinner != nil {
		t.Errorf("Dinner = %+v, want nil", res.Dinner)
	}
}

func TestAssemble_TableBothMeals(t *testing.T) {
	res, err := Assemble(mustDoc(t, tableBothMeals), "15/03/2024")
	if err != nil {
		t.Fatalf("Assemble() error: %v", err)
	}

	if res.Lunch == nil || res.Dinner == nil {
		t.Fatalf("expected both meals, got %+v", res)
	}
	if res.Lunch.Description != "Ezogelin Çorba, Tavuk Sote, Pilav" {
		t.Errorf("Lunch.Description = %q", res.Lunch.Description)
	}
	if res.Lunch.Title != "Ezogelin Çorba w/ Tavuk Sote" {
		t.Errorf("Lunch.Title = %q", res.Lunch.Title)
	}
	if res.Dinner.Description != "Mercimek Çorba, Makarna, Yoğurt" {
		t.Errorf("Dinner.Description = %q", res.Dinner.Description)
	}
	if res.Dinner.Time != meal.DinnerTime {
		t.Errorf("Dinner.Time = %q, want %q", res.Dinner.Time, meal.DinnerTime)
	}
	if res.Lunch.Date != "15/03/2024" || res.Dinner.Date != "15/03/2024" {
		t.Errorf("dates = %q / %q, want 15/03/2024", res.Lunch.Date, res.Dinner.Date)
	}
}

func TestAssemble_CardLayout(t *testing.T) {
	res, err := Assemble(mustDoc(t, cardPage), "02/01/2024")
	if err != nil {
		t.Fatalf("Assemble() error: %v", err)
	}

	if res.Lunch == nil {
		t.Fatal("expected lunch")
	}
	if res.Lunch.Description != "Ezogelin Çorba, Tavuk Sote" {
		t.Errorf("Lunch.Description = %q, want article headings only", res.Lunch.Description)
	}

	if res.Dinner == nil {
		t.Fatal("expected dinner")
	}
	if res.Dinner.Description != "Mercimek Çorba, Makarna, Yoğurt" {
		t.Errorf("Dinner.Description = %q, label heading must not be mined", res.Dinner.Description)
	}
	if res.Dinner.Title != "Mercimek Çorba w/ Makarna" {
		t.Errorf("Dinner.Title = %q", res.Dinner.Title)
	}
}

func TestAssemble_CardParentFallback(t *testing.T) {
	html := `
	<div class="view-yemek-listesi">
		<section>
			<h2 class="title">Öğle</h2>
			<ul><li>Soup</li><li>Rice</li></ul>
		</section>
		<section>
			<h2 class="title">Akşam</h2>
			<ul><li>Pasta</li></ul>
		</section>
	</div>`

	res, err := Assemble(mustDoc(t, html), "03/01/2024")
	if err != nil {
		t.Fatalf("Assemble() error: %v", err)
	}
	if res.Lunch == nil || res.Lunch.Description != "Soup, Rice" {
		t.Errorf("Lunch = %+v, want items scoped to parent section", res.Lunch)
	}
	if res.Dinner == nil || res.Dinner.Title != "Pasta Menu" {
		t.Errorf("Dinner = %+v, want Pasta Menu", res.Dinner)
	}
}

func TestAssemble_LastRowWins(t *testing.T) {
	html := `
	<table class="menu-list">
		<tr><td>Öğle Yemeği</td><td>Old Soup</td></tr>
		<tr><td>Öğle Yemeği</td><td>New Soup<br>New Rice</td></tr>
	</table>`

	res, err := Assemble(mustDoc(t, html), "01/01/2024")
	if err != nil {
		t.Fatalf("Assemble() error: %v", err)
	}
	want := meal.Record{
		Title:       "New Soup w/ New Rice",
		Description: "New Soup, New Rice",
		Date:        "01/01/2024",
		Time:        meal.LunchTime,
	}
	if res.Lunch == nil || *res.Lunch != want {
		t.Errorf("Lunch = %+v, want %+v", res.Lunch, want)
	}
}

func TestAssemble_NoMenu(t *testing.T) {
	tests := []struct {
		name string
		html string
	}{
		{
			name: "no layout markers",
			html: `<html><body><table><tr><td>Öğle Yemeği</td><td>Soup</td></tr></table></body></html>`,
		},
		{
			name: "empty page",
			html: ``,
		},
		{
			name: "only unclassified rows",
			html: `<table class="menu-list"><tr><td>Kahvaltı</td><td>Eggs</td></tr></table>`,
		},
		{
			name: "rows with no items",
			html: `<table class="menu-list"><tr><td>Öğle Yemeği</td><td><span>-</span> <span>,</span> <span>–</span></td></tr><tr><td>Akşam Yemeği</td><td>   </td></tr></table>`,
		},
		{
			name: "single cell rows only",
			html: `<table class="menu-list"><tr><td>Öğle Yemeği Soup</td></tr></table>`,
		},
		{
			name: "card container without titles",
			html: `<div class="view-yemek-listesi"><div class="views-row"><p>Öğle Yemeği</p></div></div>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Assemble(mustDoc(t, tt.html), "01/01/2024")
			if !errors.Is(err, ErrNoMenu) {
				t.Errorf("Assemble() error = %v, want ErrNoMenu", err)
			}
			if res != nil {
				t.Errorf("Assemble() result = %+v, want nil", res)
			}
		})
	}
}

func TestAssemble_Idempotent(t *testing.T) {
	doc := mustDoc(t, tableBothMeals)

	first, err := Assemble(doc, "01/01/2024")
	if err != nil {
		t.Fatalf("Assemble() error: %v", err)
	}
	second, err := Assemble(doc, "01/01/2024")
	if err != nil {
		t.Fatalf("Assemble() error: %v", err)
	}
	if !first.Equal(second) {
		t.Errorf("repeated Assemble() differs: %+v vs %+v", first, second)
	}
	if first.Lunch == second.Lunch {
		t.Error("each call should build fresh records")
	}
}

func TestAssembleHTML(t *testing.T) {
	res, err := (&Assembler{}).AssembleHTML(strings.NewReader(tableLunchOnly), "01/01/2024")
	if err != nil {
		t.Fatalf("AssembleHTML() error: %v", err)
	}
	if res.Lunch == nil {
		t.Error("expected lunch from AssembleHTML")
	}
}

type recordingObserver struct {
	layouts []Layout
	skipped []SkipReason
	found   []meal.Slot
}

func (o *recordingObserver) LayoutDetected(_ string, l Layout) { o.layouts = append(o.layouts, l) }
func (o *recordingObserver) RowSkipped(_ string, _ string, r SkipReason) {
	o.skipped = append(o.skipped, r)
}
func (o *recordingObserver) MealFound(_ string, s meal.Slot, _ *meal.Record) {
	o.found = append(o.found, s)
}

func TestAssembler_Observer(t *testing.T) {
	html := `
	<table class="menu-list">
		<tr><th>Öğün</th><th>Menü</th></tr>
		<tr><td>Öğle Yemeği</td><td>Soup</td></tr>
		<tr><td>Akşam Yemeği</td><td> - </td></tr>
	</table>`

	obs := &recordingObserver{}
	if _, err := NewAssembler(obs).Assemble(mustDoc(t, html), "01/01/2024"); err != nil {
		t.Fatalf("Assemble() error: %v", err)
	}

	if len(obs.layouts) != 1 || obs.layouts[0] != TableLayout {
		t.Errorf("layouts = %v, want [table]", obs.layouts)
	}
	if len(obs.skipped) != 2 || obs.skipped[0] != SkipUnclassified || obs.skipped[1] != SkipNoItems {
		t.Errorf("skipped = %v, want [unclassified no_items]", obs.skipped)
	}
	if len(obs.found) != 1 || obs.found[0] != meal.Lunch {
		t.Errorf("found = %v, want [lunch]", obs.found)
	}
}

func TestNewAssembler_NilObserver(t *testing.T) {
	a := NewAssembler(nil)
	if a.Observer == nil {
		t.Fatal("NewAssembler(nil) should install a no-op observer")
	}
	if _, err := a.Assemble(mustDoc(t, tableLunchOnly), "01/01/2024"); err != nil {
		t.Errorf("Assemble() error: %v", err)
	}
}
