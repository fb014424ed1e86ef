package tracker

import (
	"fmt"
	"time"
)

// DateLayout is the format of MealRecord.Date.
const DateLayout = "2006-01-02"

// Calendar answers date questions relative to an injected "now", in the
// local time zone of that clock.
type Calendar struct {
	now func() time.Time
}

func NewCalendar(now func() time.Time) *Calendar {
	if now == nil {
		now = time.Now
	}
	return &Calendar{now: now}
}

func (c *Calendar) Today() string {
	return c.FormatDate(c.now())
}

func (c *Calendar) FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// ParseDate parses a YYYY-MM-DD date in the clock's location.
func (c *Calendar) ParseDate(date string) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, date, c.now().Location())
	if err != nil {
		return time.Time{}, fmt.Errorf("%w %q: %v", ErrInvalidDate, date, err)
	}
	return t, nil
}

// PreviousDay is always allowed.
func (c *Calendar) PreviousDay(date string) (string, error) {
	t, err := c.ParseDate(date)
	if err != nil {
		return "", err
	}
	return c.FormatDate(t.AddDate(0, 0, -1)), nil
}

// NextDay moves forward one day unless that would pass today, in which
// case date is returned unchanged with ok set to false.
func (c *Calendar) NextDay(date string) (next string, ok bool, err error) {
	t, err := c.ParseDate(date)
	if err != nil {
		return "", false, err
	}
	candidate := c.FormatDate(t.AddDate(0, 0, 1))
	// YYYY-MM-DD strings sort chronologically
	if candidate > c.Today() {
		return date, false, nil
	}
	return candidate, true, nil
}

// IsToday reports whether date is the current day.
func (c *Calendar) IsToday(date string) bool {
	return date == c.Today()
}

// Label is the heading for a date: "Today", "Yesterday" or
// "January 2, 2006".
func (c *Calendar) Label(date string) string {
	t, err := c.ParseDate(date)
	if err != nil {
		return date
	}
	today := c.Today()
	if date == today {
		return "Today"
	}
	if yesterday, _ := c.PreviousDay(today); date == yesterday {
		return "Yesterday"
	}
	return t.Format("January 2, 2006")
}
