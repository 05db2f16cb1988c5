// Package datemath parses date and date-math expressions into UTC instants.
//
// An expression is an anchor followed by zero or more operations:
//
//	NOW
//	2024-03-01T12:00:00Z
//	2024-03-01T12:00:00.250Z+1DAY
//	NOW-3MONTHS/DAY
//
// "+N UNIT" and "-N UNIT" add or subtract, "/UNIT" rounds down to the start of the unit.
// Units are YEAR, MONTH, DAY (or DATE), HOUR, MINUTE, SECOND and MILLI (or MILLISECOND),
// singular or plural.
//
// Years outside 0000-9999 use a signed extended year, e.g. +10000-01-01T00:00:00Z or
// -0001-12-31T00:00:00Z. Every instant must fit in int64 epoch milliseconds.
package datemath

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// ErrOutOfRange is returned for instants whose epoch milliseconds overflow int64.
var ErrOutOfRange = errors.New("date out of range")

var (
	minInstant = time.UnixMilli(math.MinInt64).UTC()
	maxInstant = time.UnixMilli(math.MaxInt64).UTC()
)

// Amounts of calendar units above this cannot land inside the instant range.
const maxCalendarAmount = 1 << 32

var unitMillis = map[unit]int64{
	unitHour:   int64(time.Hour / time.Millisecond),
	unitMinute: int64(time.Minute / time.Millisecond),
	unitSecond: int64(time.Second / time.Millisecond),
	unitMilli:  1,
}

const (
	anchorNow = "NOW"

	layoutSeconds = "2006-01-02T15:04:05Z"
	layoutMillis  = "2006-01-02T15:04:05.000Z"
)

type unit int

const (
	unitYear unit = iota
	unitMonth
	unitDay
	unitHour
	unitMinute
	unitSecond
	unitMilli
)

var units = map[string]unit{
	"YEAR": unitYear, "YEARS": unitYear,
	"MONTH": unitMonth, "MONTHS": unitMonth,
	"DAY": unitDay, "DAYS": unitDay, "DATE": unitDay,
	"HOUR": unitHour, "HOURS": unitHour,
	"MINUTE": unitMinute, "MINUTES": unitMinute,
	"SECOND": unitSecond, "SECONDS": unitSecond,
	"MILLI": unitMilli, "MILLIS": unitMilli,
	"MILLISECOND": unitMilli, "MILLISECONDS": unitMilli,
}

// Parser evaluates date-math expressions relative to a clock.
type Parser struct {
	now func() time.Time
}

// Option configures a Parser.
type Option func(*Parser)

// WithNow overrides the clock used for the NOW anchor.
func WithNow(now func() time.Time) Option {
	return func(p *Parser) {
		p.now = now
	}
}

// NewParser creates a Parser using time.Now unless overridden.
func NewParser(opts ...Option) *Parser {
	p := &Parser{now: time.Now}
	for _, o := range opts {
		o(p)
	}
	return p
}

// Parse evaluates expr and returns the resulting instant in UTC.
func (p *Parser) Parse(expr string) (time.Time, error) {
	if expr == "" {
		return time.Time{}, fmt.Errorf("empty date expression")
	}

	var (
		t    time.Time
		rest string
	)
	if strings.HasPrefix(expr, anchorNow) {
		t = p.now().UTC()
		rest = expr[len(anchorNow):]
	} else {
		end := strings.IndexByte(expr, 'Z')
		if end < 0 {
			return time.Time{}, fmt.Errorf("invalid date %q: instant must end with 'Z'", expr)
		}
		anchor, err := ParseInstant(expr[:end+1])
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid date %q: %w", expr, err)
		}
		t = anchor
		rest = expr[end+1:]
	}
	if err := checkRange(t); err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", expr, err)
	}

	for rest != "" {
		op := rest[0]
		rest = rest[1:]
		switch op {
		case '+', '-':
			n, u, tail, err := readAmount(rest)
			if err != nil {
				return time.Time{}, fmt.Errorf("invalid date math %q: %w", expr, err)
			}
			if op == '-' {
				n = -n
			}
			if t, err = add(t, u, n); err != nil {
				return time.Time{}, fmt.Errorf("invalid date math %q: %w", expr, err)
			}
			rest = tail
		case '/':
			u, tail, err := readUnit(rest)
			if err != nil {
				return time.Time{}, fmt.Errorf("invalid date math %q: %w", expr, err)
			}
			t = round(t, u)
			rest = tail
		default:
			return time.Time{}, fmt.Errorf("invalid date math %q: unexpected %q", expr, op)
		}
		if err := checkRange(t); err != nil {
			return time.Time{}, fmt.Errorf("invalid date math %q: %w", expr, err)
		}
	}

	return t, nil
}

// ParseMillis evaluates expr and returns milliseconds since the Unix epoch.
func (p *Parser) ParseMillis(expr string) (int64, error) {
	t, err := p.Parse(expr)
	if err != nil {
		return 0, err
	}
	return t.UnixMilli(), nil
}

// ParseInstant parses an ISO-8601 UTC instant as written by Format, without
// date math.
func ParseInstant(s string) (time.Time, error) {
	if s == "" || (s[0] != '+' && s[0] != '-') {
		t, err := time.Parse(time.RFC3339Nano, s)
		if err != nil {
			return time.Time{}, err
		}
		return t.UTC(), nil
	}

	// Signed extended year: parse the rest against a four-digit year in the
	// same position of the 400-year Gregorian cycle, then shift back.
	end := strings.IndexByte(s[1:], '-') + 1
	if end < 5 {
		return time.Time{}, fmt.Errorf("invalid extended year in %q", s)
	}
	year, err := strconv.ParseInt(s[1:end], 10, 64)
	if err != nil || year > maxCalendarAmount {
		return time.Time{}, fmt.Errorf("invalid extended year in %q", s)
	}
	if s[0] == '-' {
		year = -year
	}
	proxy := 2000 + (year%400+400)%400
	t, err := time.Parse(time.RFC3339Nano, strconv.FormatInt(proxy, 10)+s[end:])
	if err != nil {
		return time.Time{}, err
	}
	t = t.UTC().AddDate(int(year-proxy), 0, 0)
	if err := checkRange(t); err != nil {
		return time.Time{}, err
	}
	return t, nil
}

// Format renders t as an ISO-8601 UTC instant; milliseconds are printed only when non-zero.
// Years outside 0000-9999 carry an explicit sign.
func Format(t time.Time) string {
	t = t.UTC()
	layout := layoutMillis
	if t.Nanosecond()/int(time.Millisecond) == 0 {
		layout = layoutSeconds
	}
	y := t.Year()
	if y >= 0 && y <= 9999 {
		return t.Format(layout)
	}
	sign := "+"
	if y < 0 {
		sign, y = "-", -y
	}
	return fmt.Sprintf("%s%04d", sign, y) + t.Format(layout[len("2006"):])
}

// FormatMillis renders epoch milliseconds like Format.
func FormatMillis(ms int64) string {
	return Format(time.UnixMilli(ms))
}

func readAmount(s string) (int, unit, string, error) {
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i == 0 {
		return 0, 0, "", fmt.Errorf("missing amount")
	}
	n, err := strconv.Atoi(s[:i])
	if err != nil {
		return 0, 0, "", fmt.Errorf("amount: %w", err)
	}
	u, tail, err := readUnit(s[i:])
	if err != nil {
		return 0, 0, "", err
	}
	return n, u, tail, nil
}

func readUnit(s string) (unit, string, error) {
	i := 0
	for i < len(s) && s[i] >= 'A' && s[i] <= 'Z' {
		i++
	}
	u, ok := units[s[:i]]
	if !ok {
		return 0, "", fmt.Errorf("unknown unit %q", s[:i])
	}
	return u, s[i:], nil
}

func add(t time.Time, u unit, n int) (time.Time, error) {
	switch u {
	case unitYear, unitMonth, unitDay:
		if n > maxCalendarAmount || n < -maxCalendarAmount {
			return time.Time{}, fmt.Errorf("amount %d: %w", n, ErrOutOfRange)
		}
		switch u {
		case unitYear:
			return t.AddDate(n, 0, 0), nil
		case unitMonth:
			return t.AddDate(0, n, 0), nil
		default:
			return t.AddDate(0, 0, n), nil
		}
	}

	// time.Duration spans only ~292 years, so shift epoch seconds directly.
	per := unitMillis[u]
	if int64(n) > math.MaxInt64/per || int64(n) < math.MinInt64/per {
		return time.Time{}, fmt.Errorf("amount %d: %w", n, ErrOutOfRange)
	}
	delta := int64(n) * per
	sec := t.Unix() + delta/1000
	nsec := int64(t.Nanosecond()) + (delta%1000)*int64(time.Millisecond)
	return time.Unix(sec, nsec).UTC(), nil
}

func checkRange(t time.Time) error {
	if t.Before(minInstant) || t.After(maxInstant) {
		return ErrOutOfRange
	}
	return nil
}

func round(t time.Time, u unit) time.Time {
	y, mo, d := t.Date()
	h, mi, s := t.Clock()
	ms := t.Nanosecond() / int(time.Millisecond)
	switch u {
	case unitYear:
		return time.Date(y, time.January, 1, 0, 0, 0, 0, time.UTC)
	case unitMonth:
		return time.Date(y, mo, 1, 0, 0, 0, 0, time.UTC)
	case unitDay:
		return time.Date(y, mo, d, 0, 0, 0, 0, time.UTC)
	case unitHour:
		return time.Date(y, mo, d, h, 0, 0, 0, time.UTC)
	case unitMinute:
		return time.Date(y, mo, d, h, mi, 0, 0, time.UTC)
	case unitSecond:
		return time.Date(y, mo, d, h, mi, s, 0, time.UTC)
	default:
		return time.Date(y, mo, d, h, mi, s, ms*int(time.Millisecond), time.UTC)
	}
}
