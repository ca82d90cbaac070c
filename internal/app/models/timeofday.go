package models

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
)

// ErrInvalidClock is returned when a time-of-day string cannot be parsed
var ErrInvalidClock = errors.New("invalid time of day")

// ErrInvalidWeekdays is returned when a weekday string is not a subset of M, Tu, W, Th, F in order
var ErrInvalidWeekdays = errors.New("invalid weekdays")

// Clock is a time of day in minutes since midnight
type Clock int

// clockLayouts are tried in order; registrar data uses the 12-hour form (9:00am).
var clockLayouts = []string{"3:04pm", "15:04"}

// ParseClock parses "9:00am", "09:00 AM", "12:30pm" or "13:15".
func ParseClock(s string) (Clock, error) {
	normalized := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(s), " ", ""))
	if normalized == "" {
		return 0, fmt.Errorf("%w: empty value", ErrInvalidClock)
	}
	for _, layout := range clockLayouts {
		t, err := time.Parse(layout, normalized)
		if err == nil {
			return Clock(t.Hour()*60 + t.Minute()), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidClock, s)
}

// Minutes returns the number of minutes since midnight
func (c Clock) Minutes() int {
	return int(c)
}

// String formats the clock the way meeting times are printed (9:00am)
func (c Clock) String() string {
	hour := int(c) / 60
	minute := int(c) % 60
	suffix := "am"
	if hour >= 12 {
		suffix = "pm"
	}
	hour %= 12
	if hour == 0 {
		hour = 12
	}
	return fmt.Sprintf("%d:%02d%s", hour, minute, suffix)
}

// MarshalText implements encoding.TextMarshaler
func (c Clock) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (c *Clock) UnmarshalText(text []byte) error {
	parsed, err := ParseClock(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// Weekdays is a set of teaching days, Monday through Friday.
type Weekdays uint8

const (
	Monday Weekdays = 1 << iota
	Tuesday
	Wednesday
	Thursday
	Friday
)

// WeekdayCount is the number of teaching days a Weekdays set can hold
const WeekdayCount = 5

var weekdayCodes = [WeekdayCount]string{"M", "Tu", "W", "Th", "F"}

var (
	meetingDaysPattern     = regexp.MustCompile(`M|Tu|W|Th|F`)
	restrictionDaysPattern = regexp.MustCompile(`^(M)?(Tu)?(W)?(Th)?(F)?$`)
)

// ParseMeetingDays extracts the teaching days from a registrar day string such as "MWF"
// or "TuTh". Unknown characters are ignored, so "TBA" yields an empty set.
func ParseMeetingDays(s string) Weekdays {
	var days Weekdays
	for _, code := range meetingDaysPattern.FindAllString(s, -1) {
		days |= weekdayFromCode(code)
	}
	return days
}

// ParseWeekdays parses a strict weekday string: a non-empty, ordered subset of M, Tu, W, Th, F.
func ParseWeekdays(s string) (Weekdays, error) {
	s = strings.TrimSpace(s)
	if s == "" || !restrictionDaysPattern.MatchString(s) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidWeekdays, s)
	}
	return ParseMeetingDays(s), nil
}

func weekdayFromCode(code string) Weekdays {
	for i, c := range weekdayCodes {
		if c == code {
			return 1 << i
		}
	}
	return 0
}

// HasIndex reports whether the i-th teaching day (0 = Monday) is in the set
func (w Weekdays) HasIndex(i int) bool {
	return w&(1<<i) != 0
}

// Codes returns the day codes in the set, Monday first
func (w Weekdays) Codes() []string {
	codes := make([]string, 0, WeekdayCount)
	for i, code := range weekdayCodes {
		if w.HasIndex(i) {
			codes = append(codes, code)
		}
	}
	return codes
}

// String joins the day codes ("MWF")
func (w Weekdays) String() string {
	return strings.Join(w.Codes(), "")
}

// MarshalText implements encoding.TextMarshaler
func (w Weekdays) MarshalText() ([]byte, error) {
	return []byte(w.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (w *Weekdays) UnmarshalText(text []byte) error {
	*w = ParseMeetingDays(string(text))
	return nil
}
