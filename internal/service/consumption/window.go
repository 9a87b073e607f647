package consumption

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidWindow is returned when a reporting window ends before it starts.
var ErrInvalidWindow = errors.New("invalid reporting window")

const dateLayout = "2006-01-02"

// Window is an inclusive range of calendar dates. From and To are midnight
// in the reporting location.
type Window struct {
	From time.Time
	To   time.Time
}

// Start is the first instant covered by the window.
func (w Window) Start() time.Time { return w.From }

// End is the first instant after the window, suitable for half-open range queries.
func (w Window) End() time.Time { return w.To.AddDate(0, 0, 1) }

func (w Window) String() string {
	return fmt.Sprintf("%s..%s", w.From.Format(dateLayout), w.To.Format(dateLayout))
}

// ResolveWindow fills in missing bounds. To defaults to today; From defaults
// to the first day of the current month minus lookbackDays.
func ResolveWindow(from, to *time.Time, now time.Time, loc *time.Location, lookbackDays int) (Window, error) {
	if loc == nil {
		loc = time.UTC
	}
	today := dateOf(now, loc)

	w := Window{To: today}
	if to != nil {
		w.To = dateOf(*to, loc)
	}

	if from != nil {
		w.From = dateOf(*from, loc)
	} else {
		monthStart := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, loc)
		w.From = monthStart.AddDate(0, 0, -lookbackDays)
	}

	if w.From.After(w.To) {
		return Window{}, fmt.Errorf("%w: %s is after %s", ErrInvalidWindow, w.From.Format(dateLayout), w.To.Format(dateLayout))
	}
	return w, nil
}

// ParseDate parses a YYYY-MM-DD value in loc. Empty input yields nil.
func ParseDate(value string, loc *time.Location) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	if loc == nil {
		loc = time.UTC
	}
	t, err := time.ParseInLocation(dateLayout, value, loc)
	if err != nil {
		return nil, fmt.Errorf("%w: bad date %q", ErrInvalidWindow, value)
	}
	return &t, nil
}

func dateOf(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}
