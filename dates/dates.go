package dates

import (
	"fmt"
	"strings"
	"time"

	"github.com/goodsign/monday"
	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/br"
	"github.com/olebedev/when/rules/en"
	"github.com/olebedev/when/rules/ru"
	"github.com/olebedev/when/rules/zh"
)

// Date is a calendar day with an optionally known year. Year must only be
// read when YearKnown is true.
type Date struct {
	Year      int
	Month     time.Month
	Day       int
	YearKnown bool
}

// ParseError reports date text that could not be interpreted.
type ParseError struct {
	Input string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("cannot interpret %q as a date", e.Input)
}

// Normalizer converts free-form date text to Dates and back, in the language
// of a fixed locale.
type Normalizer struct {
	locale  monday.Locale
	parser  *when.Parser
	layouts []string
}

// NewNormalizer builds a normalizer for the given locale tag (e.g. "en_US",
// "de_DE"). Unsupported tags fall back to US English.
func NewNormalizer(tag string) *Normalizer {
	locale := localeFor(tag)

	parser := when.New(nil)
	switch language(locale) {
	case "ru":
		parser.Add(ru.All...)
	case "pt":
		parser.Add(br.All...)
	case "zh":
		parser.Add(zh.All...)
	default:
		parser.Add(en.All...)
	}

	long := monday.LongFormatsByLocale[locale]
	layouts := []string{
		"2006-01-02",
		long,
		stripYear(long),
		monday.MediumFormatsByLocale[locale],
		monday.ShortFormatsByLocale[locale],
	}

	return &Normalizer{locale: locale, parser: parser, layouts: layouts}
}

// Parse interprets date text relative to now. A result whose year equals the
// current year, or that carries no year at all, is treated as year-unknown:
// nobody registering a birthday was born this year, and date libraries
// default a missing year to the current one.
func (n *Normalizer) Parse(text string, now time.Time) (Date, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Date{}, &ParseError{Input: text}
	}

	for _, layout := range n.layouts {
		parsed, err := monday.ParseInLocation(layout, text, time.UTC, n.locale)
		if err != nil {
			continue
		}
		return fromTime(parsed, now), nil
	}

	result, err := n.parser.Parse(text, now)
	if err != nil || result == nil {
		return Date{}, &ParseError{Input: text}
	}
	return fromTime(result.Time, now), nil
}

// Format renders a long localized date. Year-unknown dates are rendered with
// the year (and its separator) stripped from the locale's pattern.
func (n *Normalizer) Format(d Date) string {
	layout := monday.LongFormatsByLocale[n.locale]
	year := d.Year
	if !d.YearKnown {
		layout = stripYear(layout)
		// any leap year works for rendering Feb 29 without normalization
		year = 2000
	}
	return monday.Format(
		time.Date(year, d.Month, d.Day, 0, 0, 0, 0, time.UTC),
		layout,
		n.locale,
	)
}

// CelebratedOn reports whether the date is celebrated on the given day.
// A February 29 birthday is celebrated on March 1 in non-leap years.
func (d Date) CelebratedOn(t time.Time) bool {
	if t.Month() == d.Month && t.Day() == d.Day {
		return true
	}
	return d.Month == time.February && d.Day == 29 &&
		t.Month() == time.March && t.Day() == 1 &&
		!IsLeapYear(t.Year())
}

// Age returns the age turned (or about to be turned) as of today. The second
// return value is false when the year is unknown and no age can be computed.
func (d Date) Age(today time.Time) (int, bool) {
	if !d.YearKnown {
		return 0, false
	}
	age := today.Year() - d.Year
	if today.Month() < d.Month ||
		(today.Month() == d.Month && today.Day() < d.Day) {
		age--
	}
	return age, true
}

// NextOccurrence returns midnight of the next day, today included, on which
// the date is celebrated.
func (d Date) NextOccurrence(now time.Time) time.Time {
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	for i := 0; i < 366; i++ {
		if d.CelebratedOn(day) {
			return day
		}
		day = day.AddDate(0, 0, 1)
	}
	return day
}

// IsLeapYear reports whether the given year has a February 29.
func IsLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

func fromTime(t, now time.Time) Date {
	// a zero year means the layout carried no year component at all
	yearKnown := t.Year() > 1 && t.Year() != now.Year()
	year := t.Year()
	if !yearKnown {
		year = 0
	}
	return Date{
		Year:      year,
		Month:     t.Month(),
		Day:       t.Day(),
		YearKnown: yearKnown,
	}
}

func localeFor(tag string) monday.Locale {
	tag = strings.ReplaceAll(strings.TrimSpace(tag), "-", "_")
	if _, ok := monday.LongFormatsByLocale[monday.Locale(tag)]; ok {
		return monday.Locale(tag)
	}
	return monday.LocaleEnUS
}

func language(locale monday.Locale) string {
	if i := strings.Index(string(locale), "_"); i > 0 {
		return string(locale)[:i]
	}
	return string(locale)
}

// stripYear removes the year component and its separator from a date layout.
func stripYear(layout string) string {
	for _, token := range []string{
		", 2006",
		" de 2006",
		" 2006 г.",
		"2006年",
		" 2006",
		"2006. ",
		"2006-",
		"2006/",
		"2006",
	} {
		if strings.Contains(layout, token) {
			layout = strings.Replace(layout, token, "", 1)
			break
		}
	}
	return strings.TrimSpace(layout)
}
