// Package timeref resolves free-text temporal phrases ("next friday",
// "end of this week") into absolute points in time.
//
// Resolution flow:
// 1. General relative/absolute parsing, future-biased, UTC
// 2. Override table for phrases the general parser mis-resolves
// 3. "this year" fallback
package timeref

import (
	"regexp"
	"strings"
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
)

// Context is the resolved time reference for one utterance.
// The zero value means the text carried no temporal constraint; callers must
// treat that as "no due date", never as an error.
type Context struct {
	At        *time.Time `json:"resolved_at,omitempty"`
	Formatted string     `json:"formatted_date,omitempty"`
}

// Empty reports whether no time reference was resolved.
func (c Context) Empty() bool {
	return c.At == nil
}

// Date renders the resolved instant as a calendar date, or "" when empty.
// Due dates are stored date-only so range comparisons stay clock-independent.
func (c Context) Date() string {
	if c.At == nil {
		return ""
	}
	return c.At.Format("2006-01-02")
}

// Resolver parses time references against a reference instant of "now" in UTC.
type Resolver struct {
	parser *when.Parser

	// Now supplies the reference instant. Overridable in tests.
	Now func() time.Time
}

// NewResolver creates a resolver with English and common rules loaded.
func NewResolver() *Resolver {
	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)
	return &Resolver{
		parser: w,
		Now:    func() time.Time { return time.Now().UTC() },
	}
}

// override is a special-phrase handler layered over the general parser.
// Evaluated in order, first match wins.
type override struct {
	re    *regexp.Regexp
	apply func(now, base time.Time, text string) time.Time
}

var overrides = []override{
	{regexp.MustCompile(`\bend of (this|next) week\b`), endOfWeek},
	{regexp.MustCompile(`\bend of (this|next) month\b`), endOfMonth},
	{regexp.MustCompile(`\b(end of\b.*\byear|eoy)\b`), endOfYear},
	{regexp.MustCompile(`\bmidnight\b`), atMidnight},
	{regexp.MustCompile(`\bnoon\b`), atNoon},
}

// Resolve extracts a time context from the text. An empty Context is a valid
// result, not an error.
func (r *Resolver) Resolve(text string) Context {
	now := r.Now().UTC()
	lower := strings.ToLower(text)

	base := now
	parsed := false
	if res, err := r.parser.Parse(text, now); err == nil && res != nil {
		base = res.Time.UTC()
		parsed = true
	}

	matched := false
	for _, o := range overrides {
		if o.re.MatchString(lower) {
			base = o.apply(now, base, lower)
			matched = true
			break
		}
	}

	if !parsed && !matched {
		if strings.Contains(lower, "this year") {
			eoy := time.Date(now.Year(), time.December, 31, 0, 0, 0, 0, time.UTC)
			return Context{At: &eoy, Formatted: eoy.Format("2006-01-02")}
		}
		return Context{}
	}

	at := base.UTC()
	return Context{At: &at, Formatted: at.Format(time.RFC3339)}
}

// endOfWeek resolves to the upcoming Sunday, one week later for "next".
func endOfWeek(now, _ time.Time, text string) time.Time {
	days := (7 - int(now.Weekday())) % 7
	if strings.Contains(text, "next") {
		days += 7
	}
	return now.AddDate(0, 0, days)
}

// endOfMonth resolves to the last calendar day of the target month.
func endOfMonth(now, _ time.Time, text string) time.Time {
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	if strings.Contains(text, "next") {
		first = first.AddDate(0, 1, 0)
	}
	return first.AddDate(0, 1, -1)
}

func endOfYear(now, _ time.Time, _ string) time.Time {
	return time.Date(now.Year(), time.December, 31, 0, 0, 0, 0, time.UTC)
}

// atMidnight keeps the otherwise-resolved date and pins the clock to the end
// of that day.
func atMidnight(_, base time.Time, _ string) time.Time {
	return time.Date(base.Year(), base.Month(), base.Day(), 23, 59, 59, 0, time.UTC)
}

func atNoon(_, base time.Time, _ string) time.Time {
	return time.Date(base.Year(), base.Month(), base.Day(), 12, 0, 0, 0, time.UTC)
}
