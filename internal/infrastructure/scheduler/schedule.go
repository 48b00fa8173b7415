package scheduler

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DailySchedule is a once-a-day wall clock time in a fixed location
type DailySchedule struct {
	Hour     int
	Minute   int
	Location *time.Location
}

// ParseCronSchedule parses a daily cron expression "minute hour * * *".
// Only fixed minute and hour fields are supported; the day, month and
// weekday fields must be "*" when present. An empty expression means
// midnight.
func ParseCronSchedule(cronExpr string) (hour, minute int, err error) {
	parts := strings.Fields(cronExpr)
	if len(parts) == 0 {
		return 0, 0, nil
	}
	if len(parts) != 2 && len(parts) != 5 {
		return 0, 0, fmt.Errorf("%w: cron %q needs 5 fields", ErrInvalidConfig, cronExpr)
	}
	for _, f := range parts[2:] {
		if f != "*" {
			return 0, 0, fmt.Errorf("%w: cron %q must run daily", ErrInvalidConfig, cronExpr)
		}
	}

	minute, err = parseField(parts[0], 59)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: minute: %v", ErrInvalidConfig, err)
	}
	hour, err = parseField(parts[1], 23)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: hour: %v", ErrInvalidConfig, err)
	}
	return hour, minute, nil
}

func parseField(s string, limit int) (int, error) {
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%q is not a number", s)
	}
	if v < 0 || v > limit {
		return 0, fmt.Errorf("%d out of range 0-%d", v, limit)
	}
	return v, nil
}

// NewDailySchedule parses cronExpr in the named time zone
func NewDailySchedule(cronExpr, timeZone string) (DailySchedule, error) {
	hour, minute, err := ParseCronSchedule(cronExpr)
	if err != nil {
		return DailySchedule{}, err
	}
	loc := time.UTC
	if timeZone != "" {
		loc, err = time.LoadLocation(timeZone)
		if err != nil {
			return DailySchedule{}, fmt.Errorf("%w: time zone %q: %v", ErrInvalidConfig, timeZone, err)
		}
	}
	return DailySchedule{Hour: hour, Minute: minute, Location: loc}, nil
}

func (s DailySchedule) location() *time.Location {
	if s.Location == nil {
		return time.UTC
	}
	return s.Location
}

// IsDue reports whether now falls inside the scheduled minute
func (s DailySchedule) IsDue(now time.Time) bool {
	local := now.In(s.location())
	return local.Hour() == s.Hour && local.Minute() == s.Minute
}

// DateKey identifies the schedule's calendar day containing now
func (s DailySchedule) DateKey(now time.Time) string {
	return now.In(s.location()).Format("2006-01-02")
}

// Next returns the first scheduled instant strictly after now
func (s DailySchedule) Next(now time.Time) time.Time {
	local := now.In(s.location())
	next := time.Date(local.Year(), local.Month(), local.Day(), s.Hour, s.Minute, 0, 0, s.location())
	if !next.After(local) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

// String renders the schedule as a cron expression with its zone
func (s DailySchedule) String() string {
	return fmt.Sprintf("%d %d * * * (%s)", s.Minute, s.Hour, s.location())
}
