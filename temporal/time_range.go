package temporal

import (
	"fmt"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
)

// DefaultRangeFormat takes the formatted start and end, in that order.
const DefaultRangeFormat = "%s-%s"

// TimeRange is an opening interval within a day. A start after the end
// means the range runs past midnight into the next day.
//
// TimeRange is an immutable value and is safe to share between goroutines.
// The attached data is carried along untouched.
type TimeRange struct {
	start Time
	end   Time
	data  any
}

func NewTimeRange(start, end Time) TimeRange {
	return TimeRange{start: start, end: end}
}

// ParseTimeRange reads "HH:MM-HH:MM".
func ParseTimeRange(s string) (TimeRange, error) {
	times := strings.Split(s, "-")
	if len(times) != 2 {
		return TimeRange{}, errors.Wrapf(ErrInvalidTimeRangeString, "%q needs exactly one separator", s)
	}

	start, err := ParseTime(times[0])
	if err != nil {
		return TimeRange{}, err
	}
	end, err := ParseTime(times[1])
	if err != nil {
		return TimeRange{}, err
	}

	return TimeRange{start: start, end: end}, nil
}

func MustParseTimeRange(s string) TimeRange {
	r, err := ParseTimeRange(s)
	if err != nil {
		panic(err)
	}
	return r
}

// FromRecord builds a range from its "hours" string and attaches "data".
func FromRecord(r Record) (TimeRange, error) {
	values := r.resolve()

	hours, _ := values["hours"].(string)
	if hours == "" {
		return TimeRange{}, errors.Wrap(ErrInvalidTimeRangeArray, "hours is missing or empty")
	}

	tr, err := ParseTimeRange(hours)
	if err != nil {
		return TimeRange{}, err
	}

	return tr.WithData(values["data"]), nil
}

// FromDefinition accepts either a range string or one of the structured
// shapes understood by FromRecord.
func FromDefinition(v any) (TimeRange, error) {
	switch def := v.(type) {
	case string:
		return ParseTimeRange(def)
	case Record:
		return FromRecord(def)
	case map[string]any:
		return FromRecord(Record{Fields: def})
	case []any:
		return FromRecord(Record{Values: def})
	case []string:
		values := make([]any, len(def))
		for i, s := range def {
			values[i] = s
		}
		return FromRecord(Record{Values: values})
	}
	return TimeRange{}, errors.Wrapf(ErrInvalidTimeRangeDefinition, "unsupported type %T", v)
}

// FromList returns the range going from the earliest start to the latest
// end of the given ranges. Starts and ends are compared as plain clock
// times, so mixing ranges that cross midnight with ranges that don't can
// give a surprising result.
func FromList(ranges ...TimeRange) (TimeRange, error) {
	if len(ranges) == 0 {
		return TimeRange{}, errors.Wrap(ErrInvalidTimeRangeList, "no ranges given")
	}

	start := ranges[0].start
	end := ranges[0].end
	for _, r := range ranges[1:] {
		if r.start.IsBefore(start) {
			start = r.start
		}
		if r.end.IsAfter(end) {
			end = r.end
		}
	}

	return TimeRange{start: start, end: end}, nil
}

// FromValues is FromList for loosely typed input. Every item must be a
// TimeRange or a non-nil *TimeRange.
func FromValues(items []any) (TimeRange, error) {
	ranges := make([]TimeRange, 0, len(items))
	for i, item := range items {
		switch r := item.(type) {
		case TimeRange:
			ranges = append(ranges, r)
		case *TimeRange:
			if r == nil {
				return TimeRange{}, errors.Wrapf(ErrInvalidTimeRangeList, "item %d is nil", i)
			}
			ranges = append(ranges, *r)
		default:
			return TimeRange{}, errors.Wrapf(ErrInvalidTimeRangeList, "item %d is a %T", i, item)
		}
	}
	return FromList(ranges...)
}

func FromMidnight(end Time) TimeRange {
	return TimeRange{start: Midnight(), end: end}
}

func (r TimeRange) Start() Time { return r.start }
func (r TimeRange) End() Time   { return r.end }
func (r TimeRange) Data() any   { return r.data }

// WithData returns a copy of r carrying data.
func (r TimeRange) WithData(data any) TimeRange {
	r.data = data
	return r
}

// Equal reports whether both ranges have the same start and end. Data is
// not compared.
func (r TimeRange) Equal(o TimeRange) bool {
	return r.start == o.start && r.end == o.end
}

// DurationMinutes is the length of the range, wrapping past midnight when
// the range is reversed.
func (r TimeRange) DurationMinutes() int {
	d := r.end.DiffInMinutes(r.start)
	if r.IsReversed() {
		d += 24 * 60
	}
	return d
}

func (r TimeRange) StartOn(moment time.Time) time.Time {
	return anchor(moment, r.start, 0)
}

func (r TimeRange) EndOn(moment time.Time) time.Time {
	return anchor(moment, r.end, 0)
}

// StartAfter anchors the start on moment's day, or on the next day when the
// start is earlier in the day than moment.
func (r TimeRange) StartAfter(moment time.Time) time.Time {
	return anchor(moment, r.start, shiftAfter(moment, r.start))
}

func (r TimeRange) EndAfter(moment time.Time) time.Time {
	return anchor(moment, r.end, shiftAfter(moment, r.end))
}

// StartBefore anchors the start on moment's day, or on the previous day
// when the start is later in the day than moment.
func (r TimeRange) StartBefore(moment time.Time) time.Time {
	return anchor(moment, r.start, shiftBefore(moment, r.start))
}

func (r TimeRange) EndBefore(moment time.Time) time.Time {
	return anchor(moment, r.end, shiftBefore(moment, r.end))
}

// Day shifts are decided to the minute on both sides.
func toMinute(t Time) Time {
	return Time{hours: t.hours, minutes: t.minutes}
}

func shiftAfter(moment time.Time, t Time) int {
	if toMinute(t).IsBefore(toMinute(TimeFromDateTime(moment))) {
		return 1
	}
	return 0
}

func shiftBefore(moment time.Time, t Time) int {
	if toMinute(t).IsAfter(toMinute(TimeFromDateTime(moment))) {
		return -1
	}
	return 0
}

func anchor(moment time.Time, t Time, days int) time.Time {
	return t.On(moment).AddDate(0, 0, days)
}

func (r TimeRange) IsReversed() bool {
	return r.start.IsAfter(r.end)
}

func (r TimeRange) OverflowsNextDay() bool {
	return r.IsReversed()
}

func (r TimeRange) SpillsOverToNextDay() bool {
	return r.IsReversed()
}

// ContainsTime tests t against [start, end). For a range crossing midnight
// only the start is checked; the part after midnight is covered by
// ContainsNightTime.
func (r TimeRange) ContainsTime(t Time) bool {
	return t.IsSameOrAfter(r.start) && (r.OverflowsNextDay() || t.IsBefore(r.end))
}

// ContainsNightTime tests t against the part of a midnight crossing range
// that falls on the next day.
func (r TimeRange) ContainsNightTime(t Time) bool {
	return r.OverflowsNextDay() && FromMidnight(r.end).ContainsTime(t)
}

// Overlaps reports whether r contains either boundary of o. It does not
// catch o strictly enclosing r.
func (r TimeRange) Overlaps(o TimeRange) bool {
	return r.ContainsTime(o.start) || r.ContainsTime(o.end)
}

// Format renders both ends with timeLayout and places them into
// rangeFormat. Empty arguments fall back to the defaults.
func (r TimeRange) Format(timeLayout, rangeFormat string, loc *time.Location) string {
	if rangeFormat == "" {
		rangeFormat = DefaultRangeFormat
	}
	return fmt.Sprintf(rangeFormat, r.start.Format(timeLayout, loc), r.end.Format(timeLayout, loc))
}

func (r TimeRange) String() string {
	return r.Format(DefaultTimeLayout, DefaultRangeFormat, nil)
}

// MarshalText keeps seconds when either end has them, unlike String.
func (r TimeRange) MarshalText() ([]byte, error) {
	return []byte(r.start.String() + "-" + r.end.String()), nil
}

func (r *TimeRange) UnmarshalText(b []byte) error {
	parsed, err := ParseTimeRange(string(b))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}
