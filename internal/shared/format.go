package shared

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
)

// NotAvailable is displayed in place of optional values that are not set.
const NotAvailable = "N/A"

// NormalizeTitle case-folds a title and collapses internal whitespace so titles compare case-insensitively.
//
// Folding covers all of Unicode, so "AMÉLIE" and "Amélie" share a key.
func NormalizeTitle(title string) string {
	return cases.Fold().String(strings.Join(strings.Fields(title), " "))
}

// FormatYear renders an optional year, or [NotAvailable].
func FormatYear(year *int) string {
	if year == nil {
		return NotAvailable
	}
	return strconv.Itoa(*year)
}

// FormatRating renders an optional rating with one decimal place, or [NotAvailable].
func FormatRating(rating *decimal.Decimal) string {
	if rating == nil {
		return NotAvailable
	}
	return rating.StringFixed(1)
}

// FormatPoster renders an optional poster URL, or [NotAvailable].
func FormatPoster(poster string) string {
	if poster == "" {
		return NotAvailable
	}
	return poster
}
