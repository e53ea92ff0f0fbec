package temporal

import (
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/cockroachdb/errors"
)

// DefaultTimeLayout is the Go layout used when a Time or TimeRange is
// formatted without an explicit layout.
const DefaultTimeLayout = "15:04"

var timePattern = regexp.MustCompile(`^([01][0-9]|2[0-3]):([0-5][0-9])(?::([0-5][0-9]))?$`)

// Time is a wall-clock time of day with no date attached.
// The zero value is midnight.
type Time struct {
	hours   int
	minutes int
	seconds int
}

func NewTime(hours, minutes, seconds int) (Time, error) {
	if hours < 0 || hours > 23 || minutes < 0 || minutes > 59 || seconds < 0 || seconds > 59 {
		return Time{}, errors.Wrapf(ErrInvalidTimeFormat, "%02d:%02d:%02d is out of range", hours, minutes, seconds)
	}
	return Time{hours: hours, minutes: minutes, seconds: seconds}, nil
}

// ParseTime reads "HH:MM" or "HH:MM:SS".
func ParseTime(s string) (Time, error) {
	m := timePattern.FindStringSubmatch(s)
	if m == nil {
		return Time{}, errors.Wrapf(ErrInvalidTimeFormat, "can not parse %q", s)
	}

	hours, _ := strconv.Atoi(m[1])
	minutes, _ := strconv.Atoi(m[2])
	seconds := 0
	if m[3] != "" {
		seconds, _ = strconv.Atoi(m[3])
	}

	return Time{hours: hours, minutes: minutes, seconds: seconds}, nil
}

func MustParseTime(s string) Time {
	t, err := ParseTime(s)
	if err != nil {
		panic(err)
	}
	return t
}

// TimeFromDateTime returns the wall clock of t in t's own location.
func TimeFromDateTime(t time.Time) Time {
	return Time{hours: t.Hour(), minutes: t.Minute(), seconds: t.Second()}
}

func Midnight() Time {
	return Time{}
}

func (t Time) Hours() int   { return t.hours }
func (t Time) Minutes() int { return t.minutes }
func (t Time) Seconds() int { return t.seconds }

func (t Time) secondOfDay() int {
	return t.hours*3600 + t.minutes*60 + t.seconds
}

// Compare returns -1, 0 or 1 depending on whether t is before, the same as,
// or after o.
func (t Time) Compare(o Time) int {
	a, b := t.secondOfDay(), o.secondOfDay()
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func (t Time) IsBefore(o Time) bool       { return t.Compare(o) < 0 }
func (t Time) IsAfter(o Time) bool        { return t.Compare(o) > 0 }
func (t Time) IsSame(o Time) bool         { return t.Compare(o) == 0 }
func (t Time) IsSameOrAfter(o Time) bool  { return t.Compare(o) >= 0 }
func (t Time) IsSameOrBefore(o Time) bool { return t.Compare(o) <= 0 }

// DiffInMinutes is the number of whole minutes from o to t. It is negative
// when o is after t.
func (t Time) DiffInMinutes(o Time) int {
	return (t.secondOfDay() - o.secondOfDay()) / 60
}

// On places t on the calendar day of moment, in moment's location.
func (t Time) On(moment time.Time) time.Time {
	year, month, day := moment.Date()
	return time.Date(year, month, day, t.hours, t.minutes, t.seconds, 0, moment.Location())
}

// Format renders t with a Go time layout. The location only feeds zone
// related layout elements, the clock values printed are always t's own.
func (t Time) Format(layout string, loc *time.Location) string {
	if layout == "" {
		layout = DefaultTimeLayout
	}
	if loc == nil {
		loc = time.UTC
	}
	return time.Date(2000, time.January, 1, t.hours, t.minutes, t.seconds, 0, loc).Format(layout)
}

func (t Time) String() string {
	if t.seconds != 0 {
		return fmt.Sprintf("%02d:%02d:%02d", t.hours, t.minutes, t.seconds)
	}
	return fmt.Sprintf("%02d:%02d", t.hours, t.minutes)
}

func (t Time) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *Time) UnmarshalText(b []byte) error {
	parsed, err := ParseTime(string(b))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
