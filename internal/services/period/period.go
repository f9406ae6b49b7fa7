// Package period maps a report's period code to the concrete civil-time
// window it covers. All arithmetic happens in America/Sao_Paulo regardless
// of server locale.
package period

import (
	"errors"
	"fmt"
	"time"
)

// Period codes.
const (
	Today     = "DT"
	Yesterday = "DA"
	ThisWeek  = "SA"
	LastWeek  = "SR"
	ThisMonth = "MA"
	LastMonth = "MR"
)

var (
	ErrInvalidPeriodCode      = errors.New("invalid period code")
	ErrInvalidAnchorTimestamp = errors.New("invalid anchor timestamp")
)

// Location is the fixed business timezone.
var Location = mustLoadLocation("America/Sao_Paulo")

func mustLoadLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		panic(fmt.Sprintf("load timezone %s: %v", name, err))
	}
	return loc
}

// Window is an inclusive [Start, End] data window.
type Window struct {
	Start time.Time
	End   time.Time
}

var anchorLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// ParseAnchor parses a civil-time string in the business timezone.
func ParseAnchor(anchor string) (time.Time, error) {
	for _, layout := range anchorLayouts {
		if t, err := time.ParseInLocation(layout, anchor, Location); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidAnchorTimestamp, anchor)
}

// ComputeWindow resolves the window for code relative to anchor. startTime
// and endTime are optional "HH:MM" overrides that replace the time-of-day of
// the computed bounds; the end override keeps the window inclusive by
// setting seconds to 59 and milliseconds to 999.
func ComputeWindow(anchor, code, startTime, endTime string) (Window, error) {
	at, err := ParseAnchor(anchor)
	if err != nil {
		return Window{}, err
	}
	return ComputeWindowAt(at, code, startTime, endTime)
}

// ComputeWindowAt is ComputeWindow with an already-parsed anchor.
func ComputeWindowAt(anchor time.Time, code, startTime, endTime string) (Window, error) {
	anchor = anchor.In(Location)

	var w Window
	switch code {
	case Today:
		w = dayWindow(anchor)
	case Yesterday:
		w = dayWindow(anchor.AddDate(0, 0, -1))
	case ThisWeek:
		w = weekWindow(anchor)
	case LastWeek:
		w = weekWindow(anchor.AddDate(0, 0, -7))
	case ThisMonth:
		w = monthWindow(anchor)
	case LastMonth:
		w = monthWindow(firstOfMonth(anchor).AddDate(0, -1, 0))
	default:
		return Window{}, fmt.Errorf("%w: %q", ErrInvalidPeriodCode, code)
	}

	if startTime != "" {
		h, m, err := parseTimeOfDay(startTime)
		if err != nil {
			return Window{}, err
		}
		w.Start = time.Date(w.Start.Year(), w.Start.Month(), w.Start.Day(), h, m, 0, 0, Location)
	}
	if endTime != "" {
		h, m, err := parseTimeOfDay(endTime)
		if err != nil {
			return Window{}, err
		}
		w.End = time.Date(w.End.Year(), w.End.Month(), w.End.Day(), h, m, 59, int(999*time.Millisecond), Location)
	}

	return w, nil
}

func dayWindow(t time.Time) Window {
	return Window{
		Start: startOfDay(t),
		End:   endOfDay(t),
	}
}

// weekWindow is Sunday-based: the week containing t runs from Sunday 00:00
// to Saturday 23:59:59.999.
func weekWindow(t time.Time) Window {
	sunday := t.AddDate(0, 0, -int(t.Weekday()))
	return Window{
		Start: startOfDay(sunday),
		End:   endOfDay(sunday.AddDate(0, 0, 6)),
	}
}

func monthWindow(t time.Time) Window {
	first := firstOfMonth(t)
	// Day 0 of the next month normalizes to the last day of this one.
	last := time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, Location)
	return Window{
		Start: first,
		End:   endOfDay(last),
	}
}

func firstOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, Location)
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, Location)
}

func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, int(999*time.Millisecond), Location)
}

func parseTimeOfDay(s string) (hour, minute int, err error) {
	if _, err := time.Parse("15:04", s); err != nil {
		return 0, 0, fmt.Errorf("invalid time of day %q", s)
	}
	fmt.Sscanf(s, "%d:%d", &hour, &minute)
	return hour, minute, nil
}
