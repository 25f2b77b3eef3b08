package shopping

import (
	"strings"

	"golang.org/x/text/cases"
)

// CleanName trims the raw name and collapses runs of inner whitespace
// to single spaces. This is the display form stored on the item.
func CleanName(raw string) string {
	return strings.Join(strings.Fields(raw), " ")
}

// NameKey returns the merge-identity form of an item name: cleaned and
// Unicode case-folded. Folding rather than lowercasing keeps mixed
// Hebrew/English names stable.
func NameKey(raw string) string {
	return cases.Fold().String(CleanName(raw))
}
