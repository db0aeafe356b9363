// Package dates implements the strict register-date grammar used to decide
// whether two recorded dates denote the same value.
//
//	date      := [qualifier] simple
//	           | "BET" simple "AND" simple
//	           | "FROM" simple ["TO" simple]
//	           | "TO" simple
//	qualifier := ABT | CAL | EST | BEF | AFT
//	simple    := [[day] month] year
//
// Months are English names or three-letter abbreviations; years have up to
// four digits and an optional dual-year suffix ("1750/51"). ISO dates
// (YYYY-MM-DD) are accepted as a convenience.
package dates

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var ErrInvalid = errors.New("invalid date")

type Qualifier string

const (
	None    Qualifier = ""
	About   Qualifier = "ABT"
	Calc    Qualifier = "CAL"
	Est     Qualifier = "EST"
	Before  Qualifier = "BEF"
	After   Qualifier = "AFT"
	Between Qualifier = "BET"
	From    Qualifier = "FROM"
	To      Qualifier = "TO"
)

var qualifierWords = map[string]Qualifier{
	"ABT": About, "ABOUT": About, "CIRCA": About, "CA": About,
	"CAL": Calc, "EST": Est,
	"BEF": Before, "BEFORE": Before,
	"AFT": After, "AFTER": After,
	"BET": Between, "BETWEEN": Between,
	"FROM": From, "TO": To,
}

var months = map[string]time.Month{
	"JAN": time.January, "JANUARY": time.January,
	"FEB": time.February, "FEBRUARY": time.February,
	"MAR": time.March, "MARCH": time.March,
	"APR": time.April, "APRIL": time.April,
	"MAY": time.May,
	"JUN": time.June, "JUNE": time.June,
	"JUL": time.July, "JULY": time.July,
	"AUG": time.August, "AUGUST": time.August,
	"SEP": time.September, "SEPT": time.September, "SEPTEMBER": time.September,
	"OCT": time.October, "OCTOBER": time.October,
	"NOV": time.November, "NOVEMBER": time.November,
	"DEC": time.December, "DECEMBER": time.December,
}

var (
	isoDate  = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})$`)
	yearForm = regexp.MustCompile(`^(\d{1,4})(?:/(\d{1,2}))?$`)
)

// Simple is a single calendar point with optional day and month.
type Simple struct {
	Day   int
	Month time.Month
	Year  int
	Dual  string
}

func (s Simple) String() string {
	var b strings.Builder
	if s.Day > 0 {
		fmt.Fprintf(&b, "%d ", s.Day)
	}
	if s.Month > 0 {
		b.WriteString(strings.ToUpper(s.Month.String()[:3]))
		b.WriteByte(' ')
	}
	b.WriteString(strconv.Itoa(s.Year))
	if s.Dual != "" {
		b.WriteString("/" + s.Dual)
	}
	return b.String()
}

type Date struct {
	Qualifier Qualifier
	Start     Simple
	End       *Simple
}

// String renders the canonical form; two dates are equal when their canonical
// forms are.
func (d Date) String() string {
	switch d.Qualifier {
	case Between:
		return fmt.Sprintf("BET %s AND %s", d.Start, d.End)
	case From:
		if d.End != nil {
			return fmt.Sprintf("FROM %s TO %s", d.Start, d.End)
		}
		return "FROM " + d.Start.String()
	case None:
		return d.Start.String()
	}
	return string(d.Qualifier) + " " + d.Start.String()
}

func Parse(s string) (Date, error) {
	raw := strings.TrimSpace(s)
	if raw == "" {
		return Date{}, fmt.Errorf("%w: empty", ErrInvalid)
	}
	if m := isoDate.FindStringSubmatch(raw); m != nil {
		y, _ := strconv.Atoi(m[1])
		mo, _ := strconv.Atoi(m[2])
		d, _ := strconv.Atoi(m[3])
		if mo < 1 || mo > 12 {
			return Date{}, fmt.Errorf("%w: %q: month out of range", ErrInvalid, s)
		}
		simple := Simple{Day: d, Month: time.Month(mo), Year: y}
		if err := checkDay(simple); err != nil {
			return Date{}, fmt.Errorf("%w: %q: %v", ErrInvalid, s, err)
		}
		return Date{Start: simple}, nil
	}

	toks := tokenize(raw)
	if len(toks) == 0 {
		return Date{}, fmt.Errorf("%w: %q: no tokens", ErrInvalid, s)
	}
	q, isQualifier := qualifierWords[toks[0]]
	if !isQualifier {
		start, err := parseSimple(toks)
		if err != nil {
			return Date{}, fmt.Errorf("%w: %q: %v", ErrInvalid, s, err)
		}
		return Date{Start: start}, nil
	}

	rest := toks[1:]
	d := Date{Qualifier: q}
	var err error
	switch q {
	case Between:
		i := indexOf(rest, "AND")
		if i < 0 {
			return Date{}, fmt.Errorf("%w: %q: BET without AND", ErrInvalid, s)
		}
		d.Start, d.End, err = parseRange(rest[:i], rest[i+1:])
	case From:
		if i := indexOf(rest, "TO"); i >= 0 {
			d.Start, d.End, err = parseRange(rest[:i], rest[i+1:])
		} else {
			d.Start, err = parseSimple(rest)
		}
	default:
		d.Start, err = parseSimple(rest)
	}
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q: %v", ErrInvalid, s, err)
	}
	return d, nil
}

// Differ reports whether two recorded dates denote different values. Equal
// raw text never differs; a value that fails to parse makes the pair differ.
func Differ(a, b string) bool {
	a, b = strings.TrimSpace(a), strings.TrimSpace(b)
	if strings.EqualFold(strings.Join(strings.Fields(a), " "), strings.Join(strings.Fields(b), " ")) {
		return false
	}
	da, err := Parse(a)
	if err != nil {
		return true
	}
	db, err := Parse(b)
	if err != nil {
		return true
	}
	return da.String() != db.String()
}

func tokenize(s string) []string {
	s = strings.ToUpper(s)
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == ' ' || r == '\t' || r == '.' || r == ','
	})
}

func indexOf(toks []string, word string) int {
	for i, t := range toks {
		if t == word {
			return i
		}
	}
	return -1
}

func parseRange(a, b []string) (Simple, *Simple, error) {
	start, err := parseSimple(a)
	if err != nil {
		return Simple{}, nil, err
	}
	end, err := parseSimple(b)
	if err != nil {
		return Simple{}, nil, err
	}
	return start, &end, nil
}

func parseSimple(toks []string) (Simple, error) {
	var s Simple
	switch len(toks) {
	case 1:
	case 2:
		m, ok := months[toks[0]]
		if !ok {
			return s, fmt.Errorf("unknown month %q", toks[0])
		}
		s.Month = m
	case 3:
		day, err := strconv.Atoi(toks[0])
		if err != nil {
			return s, fmt.Errorf("bad day %q", toks[0])
		}
		m, ok := months[toks[1]]
		if !ok {
			return s, fmt.Errorf("unknown month %q", toks[1])
		}
		s.Day, s.Month = day, m
	default:
		return s, fmt.Errorf("expected [[day] month] year, got %d tokens", len(toks))
	}

	ym := yearForm.FindStringSubmatch(toks[len(toks)-1])
	if ym == nil {
		return s, fmt.Errorf("bad year %q", toks[len(toks)-1])
	}
	s.Year, _ = strconv.Atoi(ym[1])
	s.Dual = ym[2]
	if s.Year == 0 {
		return s, errors.New("year zero")
	}
	if s.Day != 0 {
		if err := checkDay(s); err != nil {
			return s, err
		}
	}
	return s, nil
}

func checkDay(s Simple) error {
	if s.Day < 1 {
		return fmt.Errorf("day %d out of range", s.Day)
	}
	last := time.Date(s.Year, s.Month+1, 0, 0, 0, 0, 0, time.UTC).Day()
	if s.Day > last {
		return fmt.Errorf("day %d out of range for %s %d", s.Day, s.Month, s.Year)
	}
	return nil
}
