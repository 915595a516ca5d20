package utils

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// NumberFormatter renders counts and rupiah amounts for one locale. It is passed to the
// presentation layer explicitly; nothing here touches process-wide state.
type NumberFormatter struct {
	tag     language.Tag
	printer *message.Printer
}

// NewNumberFormatter builds a formatter for a BCP 47 locale such as "id-ID". An empty or
// unparsable locale falls back to Indonesian.
func NewNumberFormatter(locale string) *NumberFormatter {
	tag, err := language.Parse(strings.TrimSpace(locale))
	if err != nil || locale == "" {
		tag = language.Indonesian
	}
	return &NumberFormatter{tag: tag, printer: message.NewPrinter(tag)}
}

// Locale returns the formatter's language tag
func (f *NumberFormatter) Locale() string {
	return f.tag.String()
}

// Count formats an integer with thousand grouping, e.g. 1234567 -> "1.234.567"
func (f *NumberFormatter) Count(n int) string {
	return f.printer.Sprintf("%d", n)
}

// Currency formats an amount as whole rupiah, e.g. "Rp 1.234.567"
func (f *NumberFormatter) Currency(amount decimal.Decimal) string {
	return "Rp " + f.printer.Sprintf("%d", amount.Round(0).IntPart())
}

// Percent formats a percentage with the given number of decimals in the formatter's
// locale, e.g. "12,50%" for id-ID
func (f *NumberFormatter) Percent(p decimal.Decimal, places int32) string {
	value := p.Round(places).InexactFloat64()
	return f.printer.Sprint(number.Decimal(value, number.Scale(int(places)))) + "%"
}

var unsafeFileChars = regexp.MustCompile(`[^A-Za-z0-9_-]+`)

// FileSafe reduces a vendor name to letters, digits, '-' and '_' so it can be embedded
// in a file name. Separators and dots never survive.
func FileSafe(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "Semua_Vendor"
	}
	return unsafeFileChars.ReplaceAllString(name, "_")
}

// ReportFileName builds names such as Laporan_Distribusi_PT_Satu_20240101_120000.xlsx
func ReportFileName(prefix, vendor, timestamp, ext string) string {
	return fmt.Sprintf("%s_%s_%s.%s", prefix, FileSafe(vendor), timestamp, ext)
}
