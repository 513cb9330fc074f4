package services

import (
	"fmt"
	"time"

	"github.com/yeremiapane/restaurant-reservation/apperrors"
)

const (
	dateLayout     = "2006-01-02"
	timeLayout     = "15:04:05"
	shortTime      = "15:04"
	dateTimeLayout = "2006-01-02 15:04:05"
)

// TimeOfDay is a wall-clock time with no date attached.
type TimeOfDay struct {
	Hour   int
	Minute int
	Second int
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", t.Hour, t.Minute, t.Second)
}

// TimeService interprets all date and time strings in one configured zone.
// Every other component works with the instants it produces and never
// re-parses strings. All methods are pure.
type TimeService struct {
	loc *time.Location
}

func NewTimeService(loc *time.Location) *TimeService {
	return &TimeService{loc: loc}
}

func (s *TimeService) Location() *time.Location {
	return s.loc
}

// ParseLocalDate accepts "YYYY-MM-DD" (or a full RFC 3339 timestamp, from
// which only the local calendar day is taken) and returns the instant of
// local midnight for that day, expressed in UTC.
func (s *TimeService) ParseLocalDate(dateStr string) (time.Time, error) {
	if t, err := time.ParseInLocation(dateLayout, dateStr, s.loc); err == nil {
		return t.UTC(), nil
	}
	if t, err := time.Parse(time.RFC3339, dateStr); err == nil {
		local := t.In(s.loc)
		midnight := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, s.loc)
		return midnight.UTC(), nil
	}
	return time.Time{}, apperrors.NewValidationf("date", "invalid date %q, expected YYYY-MM-DD", dateStr)
}

// ParseLocalTime accepts "HH:mm" or "HH:mm:ss".
func (s *TimeService) ParseLocalTime(timeStr string) (TimeOfDay, error) {
	if t, err := time.Parse(timeLayout, timeStr); err == nil {
		return TimeOfDay{Hour: t.Hour(), Minute: t.Minute(), Second: t.Second()}, nil
	}
	if t, err := time.Parse(shortTime, timeStr); err == nil {
		return TimeOfDay{Hour: t.Hour(), Minute: t.Minute()}, nil
	}
	return TimeOfDay{}, apperrors.NewValidationf("time", "invalid time %q, expected HH:mm or HH:mm:ss", timeStr)
}

// CombineDateTime composes a date string and a time string into a single
// instant in the configured zone, converted to UTC for storage.
func (s *TimeService) CombineDateTime(dateStr, timeStr string) (time.Time, error) {
	date, err := s.ParseLocalDate(dateStr)
	if err != nil {
		return time.Time{}, err
	}
	tod, err := s.ParseLocalTime(timeStr)
	if err != nil {
		return time.Time{}, err
	}
	local := date.In(s.loc)
	combined := time.Date(local.Year(), local.Month(), local.Day(),
		tod.Hour, tod.Minute, tod.Second, 0, s.loc)
	return combined.UTC(), nil
}

// StartOfDay returns local midnight of the instant's calendar day, in UTC.
func (s *TimeService) StartOfDay(t time.Time) time.Time {
	local := t.In(s.loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, s.loc).UTC()
}

// EndOfDay returns 23:59:59.999 local of the instant's calendar day, in UTC.
func (s *TimeService) EndOfDay(t time.Time) time.Time {
	local := t.In(s.loc)
	return time.Date(local.Year(), local.Month(), local.Day(),
		23, 59, 59, int(999*time.Millisecond), s.loc).UTC()
}

// FormatDate renders an instant as the local calendar day. Round-trips with
// ParseLocalDate for any instant it produced.
func (s *TimeService) FormatDate(t time.Time) string {
	return t.In(s.loc).Format(dateLayout)
}

// FormatTime renders an instant as local wall-clock time, HH:mm:ss.
func (s *TimeService) FormatTime(t time.Time) string {
	return t.In(s.loc).Format(timeLayout)
}

// FormatDateTime renders an instant as local date plus time.
func (s *TimeService) FormatDateTime(t time.Time) string {
	return t.In(s.loc).Format(dateTimeLayout)
}
