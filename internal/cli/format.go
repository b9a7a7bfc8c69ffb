// Package cli provides formatting and rendering utilities for terminal output.
package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/theirongolddev/soiree/internal/model"
)

// Formatter renders money and counts for one locale.
type Formatter struct {
	tag language.Tag
	p   *message.Printer
}

// NewFormatter returns a formatter for locale (a BCP 47 tag such as "fr-FR").
// Unparseable or empty tags fall back to French.
func NewFormatter(locale string) *Formatter {
	tag, err := language.Parse(locale)
	if err != nil || locale == "" {
		tag = language.French
	}
	return &Formatter{tag: tag, p: message.NewPrinter(tag)}
}

// Locale returns the tag the formatter was built for.
func (f *Formatter) Locale() language.Tag {
	return f.tag
}

// euroFirst reports whether the locale writes the currency sign before the amount.
func (f *Formatter) euroFirst() bool {
	base, _ := f.tag.Base()
	en, _ := language.English.Base()
	return base == en
}

// Euro formats an amount with two fraction digits and the euro sign,
// e.g. "1 234,50 €" for French or "€1,234.50" for English.
func (f *Formatter) Euro(d decimal.Decimal) string {
	v := d.Round(2).InexactFloat64()
	if f.euroFirst() {
		if v < 0 {
			return f.p.Sprintf("-€%.2f", -v)
		}
		return f.p.Sprintf("€%.2f", v)
	}
	return f.p.Sprintf("%.2f €", v)
}

// EuroFloat is Euro for a projected (float) value.
func (f *Formatter) EuroFloat(v float64) string {
	return f.Euro(decimal.NewFromFloat(v))
}

// EuroDelta formats a signed amount, always showing the sign.
func (f *Formatter) EuroDelta(d decimal.Decimal) string {
	if d.Sign() >= 0 {
		return "+" + f.Euro(d)
	}
	return "-" + f.Euro(d.Neg())
}

// Number formats an integer with locale digit grouping.
func (f *Formatter) Number(n int) string {
	return f.p.Sprintf("%d", n)
}

// Float formats v with prec fraction digits and locale separators.
func (f *Formatter) Float(v float64, prec int) string {
	return f.p.Sprintf(fmt.Sprintf("%%.%df", prec), v)
}

// FormatNumber adds comma separators to an integer.
// e.g., 1234567 -> "1,234,567"
func FormatNumber(n int64) string {
	if n < 0 {
		return "-" + FormatNumber(-n)
	}

	s := strconv.FormatInt(n, 10)
	if len(s) <= 3 {
		return s
	}

	var result strings.Builder
	remainder := len(s) % 3
	if remainder > 0 {
		result.WriteString(s[:remainder])
	}
	for i := remainder; i < len(s); i += 3 {
		if result.Len() > 0 {
			result.WriteByte(',')
		}
		result.WriteString(s[i : i+3])
	}
	return result.String()
}

// FormatPercent formats a 0-1 float as a percentage string.
func FormatPercent(f float64) string {
	return fmt.Sprintf("%.1f%%", f*100)
}

// FormatDate formats a record date as ISO-8601.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format(model.DateLayout)
}

// FormatDayOfWeek returns a 3-letter day abbreviation from a weekday number.
func FormatDayOfWeek(weekday int) string {
	days := []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}
	if weekday >= 0 && weekday < 7 {
		return days[weekday]
	}
	return "???"
}

// FormatSlope describes a daily trend as a per-week change, e.g. "+0.42/wk".
func FormatSlope(perDay float64, unit string) string {
	perWeek := perDay * 7
	sign := "+"
	if perWeek < 0 {
		sign = "-"
		perWeek = -perWeek
	}
	return fmt.Sprintf("%s%.2f%s/wk", sign, perWeek, unit)
}
