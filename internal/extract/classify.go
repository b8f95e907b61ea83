package extract

import (
	"strings"

	"github.com/yemekhane/menucal/internal/meal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// Discriminators matched as substrings of the meal label.
const (
	lunchToken  = "Öğle"
	dinnerToken = "Akşam"
)

var (
	lunchKey  = foldLabel(lunchToken)
	dinnerKey = foldLabel(dinnerToken)
)

// Classify maps a raw meal label to a slot. ok is false when the label names neither meal.
func Classify(label string) (slot meal.Slot, ok bool) {
	key := foldLabel(label)
	switch {
	case strings.Contains(key, lunchKey):
		return meal.Lunch, true
	case strings.Contains(key, dinnerKey):
		return meal.Dinner, true
	default:
		return "", false
	}
}

// foldLabel composes combining marks and lower-cases with Turkish rules,
// so "ÖĞLE", "Öğle" and a decomposed "Öğle" compare equal.
func foldLabel(s string) string {
	return cases.Lower(language.Turkish).String(norm.NFC.String(s))
}
