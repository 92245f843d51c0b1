package domain

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/markusmobius/go-dateparser"
)

var donationDateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

var (
	// isoDatePrefix marks input that claims to be ISO-8601; it must pass a
	// strict layout or be rejected.
	isoDatePrefix = regexp.MustCompile(`^\d{4}-\d{1,2}-\d{1,2}`)
	numericDate   = regexp.MustCompile(`^(\d{1,4})[/.-](\d{1,2})[/.-](\d{1,4})$`)
)

// absoluteDates only reads calendar dates; relative phrases such as
// "tomorrow" would pin a record to the wall clock.
var absoluteDates = &dateparser.Parser{
	ParserTypes: []dateparser.ParserType{dateparser.AbsoluteTime},
}

// ParseDonationDate accepts ISO-8601 instants first and falls back to
// go-dateparser for looser human input ("15 January 2024"). Times without a
// zone are read as UTC. Impossible calendar dates are rejected, never
// adjusted.
func ParseDonationDate(raw string, now time.Time) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, ErrInvalidDate
	}
	for _, layout := range donationDateLayouts {
		if t, err := time.ParseInLocation(layout, raw, time.UTC); err == nil {
			return t.UTC(), nil
		}
	}
	if isoDatePrefix.MatchString(raw) {
		return time.Time{}, ErrInvalidDate
	}

	cfg := &dateparser.Configuration{
		CurrentTime:     now,
		DefaultTimezone: time.UTC,
		StrictParsing:   true,
	}
	result, err := absoluteDates.Parse(cfg, raw)
	if err != nil || result.IsZero() {
		return time.Time{}, ErrInvalidDate
	}
	t := result.Time.UTC()
	if !result.Period.IsTime() {
		// date-only input: the parser fills the clock from now
		t = time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	}
	if m := numericDate.FindStringSubmatch(raw); m != nil && !sameCalendarFields(m[1:], t) {
		return time.Time{}, ErrInvalidDate
	}
	return t, nil
}

// sameCalendarFields reports whether the three numbers of a numeric date are
// exactly the year, month and day of t in some order.
func sameCalendarFields(parts []string, t time.Time) bool {
	want := map[int]int{t.Day(): 1}
	want[int(t.Month())]++
	for _, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return false
		}
		if want[n] > 0 {
			want[n]--
			continue
		}
		if n == t.Year() || (len(p) == 2 && n == t.Year()%100) {
			continue
		}
		return false
	}
	return true
}
