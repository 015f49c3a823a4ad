package ctdf

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/keyakigo/keyakigo/pkg/util"
)

const secondsPerDay = 24 * 60 * 60

// TimeOfDay is a wall clock time as seconds since midnight
type TimeOfDay int

func NewTimeOfDay(hour int, minute int, second int) TimeOfDay {
	return TimeOfDay(hour*3600 + minute*60 + second)
}

func TimeOfDayFromTime(t time.Time) TimeOfDay {
	return NewTimeOfDay(t.Hour(), t.Minute(), t.Second())
}

func (t TimeOfDay) Hour() int   { return int(t) / 3600 }
func (t TimeOfDay) Minute() int { return int(t) % 3600 / 60 }
func (t TimeOfDay) Second() int { return int(t) % 60 }

// On places the clock time on the given service day
func (t TimeOfDay) On(date time.Time) time.Time {
	return util.AddTimeToDate(date, time.Date(0, 1, 1, t.Hour(), t.Minute(), t.Second(), 0, date.Location()))
}

// Add moves the clock time, wrapping around midnight
func (t TimeOfDay) Add(d time.Duration) TimeOfDay {
	seconds := (int(t) + int(d/time.Second)) % secondsPerDay
	if seconds < 0 {
		seconds += secondsPerDay
	}

	return TimeOfDay(seconds)
}

// String is the HH:MM display form
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour(), t.Minute())
}

// Clock is HH:MM, or HH:MM:SS when the seconds are set
func (t TimeOfDay) Clock() string {
	if t.Second() != 0 {
		return fmt.Sprintf("%02d:%02d:%02d", t.Hour(), t.Minute(), t.Second())
	}

	return t.String()
}

func (t TimeOfDay) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Clock())
}

func (t *TimeOfDay) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}

	parsed, ok := ParseTime(s)
	if !ok {
		return fmt.Errorf("invalid time of day %q", s)
	}
	*t = parsed

	return nil
}

// ParseTime turns a raw timetable cell into a clock time. Blank or
// malformed values report false and never fail.
func ParseTime(value any) (TimeOfDay, bool) {
	switch v := value.(type) {
	case nil:
		return 0, false
	case TimeOfDay:
		return v, true
	case *TimeOfDay:
		if v == nil {
			return 0, false
		}
		return *v, true
	case time.Time:
		if v.IsZero() {
			return 0, false
		}
		return TimeOfDayFromTime(v), true
	case *time.Time:
		if v == nil || v.IsZero() {
			return 0, false
		}
		return TimeOfDayFromTime(*v), true
	case Cell:
		return ParseTime(v.Value)
	case float64:
		if math.IsNaN(v) {
			return 0, false
		}
	case string:
		return parseTimeString(v)
	}

	return parseTimeString(fmt.Sprint(value))
}

func parseTimeString(raw string) (TimeOfDay, bool) {
	if strings.TrimSpace(raw) == "" {
		return 0, false
	}

	// Fractional seconds are dropped
	s, _, _ := strings.Cut(raw, ".")

	var layout string
	switch len(s) {
	case 8:
		layout = "15:04:05"
	case 5:
		layout = "15:04"
	default:
		return 0, false
	}

	parsed, err := time.Parse(layout, s)
	if err != nil {
		return 0, false
	}

	return TimeOfDayFromTime(parsed), true
}

// Cell holds a raw timetable value as it came out of the source file
type Cell struct {
	Value any
}

func NewCell(value any) Cell {
	return Cell{Value: value}
}

func (c *Cell) UnmarshalCSV(value string) error {
	c.Value = value
	return nil
}

func (c Cell) MarshalCSV() (string, error) {
	if c.Value == nil {
		return "", nil
	}
	if t, ok := ParseTime(c.Value); ok {
		return t.Clock(), nil
	}

	return fmt.Sprint(c.Value), nil
}

func (c Cell) Time() (TimeOfDay, bool) {
	return ParseTime(c.Value)
}

func (c Cell) IsBlank() bool {
	if c.Value == nil {
		return true
	}
	if s, ok := c.Value.(string); ok {
		return strings.TrimSpace(s) == ""
	}

	return false
}
