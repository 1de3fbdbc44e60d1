// Package schedule turns a ScheduleRequest into the column lists the remote
// cron service stores, and evaluates the result locally for previews.
package schedule

import (
	"fmt"
	"strconv"
	"time"
	_ "time/tzdata" // IANA zones without relying on the host's zoneinfo

	"github.com/ErlanBelekov/cronjob-sdk/internal/domain"
)

const (
	msgExecutionTimeRequired = "ExecutionTime is required for one-time jobs"
	msgInvalidKind           = "ScheduleType is invalid"
	msgInvalidPattern        = "RecurringPattern is invalid"
	msgMinuteInterval        = "MinuteInterval must be greater than 0"
	msgDayInterval           = "DayInterval must be specified and greater than 0 for EveryXDays pattern"
	msgWeeklyRequires        = "DayOfWeek is required for weekly pattern"
	msgMonthlyRequires       = "DayOfMonth is required for monthly pattern"
	msgYearlyRequires        = "Month and DayOfMonth are required for yearly pattern"
)

type bounds struct {
	name   string
	lo, hi int
}

var (
	minuteBounds   = bounds{"Minute", 0, 59}
	hourBounds     = bounds{"Hour", 0, 23}
	monthDayBounds = bounds{"DayOfMonth", 1, 31}
	monthBounds    = bounds{"Month", 1, 12}
	weekDayBounds  = bounds{"DayOfWeek", 0, 6}
)

func (b bounds) contains(v int) bool { return v >= b.lo && v <= b.hi }

func (b bounds) message() string {
	return fmt.Sprintf("%s must be between %d and %d", b.name, b.lo, b.hi)
}

// Encoder builds EncodedSchedules. The clock only matters for EveryXDays,
// whose day list depends on the length of the current month.
type Encoder struct {
	now func() time.Time
}

type Option func(*Encoder)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(e *Encoder) { e.now = now }
}

func NewEncoder(opts ...Option) *Encoder {
	e := &Encoder{now: time.Now}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

var defaultEncoder = NewEncoder()

// Encode encodes req with the wall clock.
func Encode(req domain.ScheduleRequest) (domain.EncodedSchedule, error) {
	return defaultEncoder.Encode(req)
}

// Encode returns the zero EncodedSchedule with a *domain.ValidationError when
// req is incomplete, or an error wrapping domain.ErrUnknownTimeZone when a
// one-time request names a zone that cannot be loaded.
func (e *Encoder) Encode(req domain.ScheduleRequest) (domain.EncodedSchedule, error) {
	switch req.Kind {
	case domain.KindRecurring:
		return e.recurring(req)
	case domain.KindOneTime:
		return oneTime(req)
	default:
		return domain.EncodedSchedule{}, domain.NewValidationError(msgInvalidKind)
	}
}

// columns collects fields and remembers the first out-of-range value.
type columns struct {
	err error
}

func (c *columns) value(b bounds, v *int, fallback domain.Field) domain.Field {
	if c.err != nil || v == nil {
		return fallback
	}
	if !b.contains(*v) {
		c.err = &domain.ValidationError{Reason: b.message()}
		return fallback
	}
	return domain.One(*v)
}

func (e *Encoder) recurring(req domain.ScheduleRequest) (domain.EncodedSchedule, error) {
	var c columns
	// Columns not set below stay Any.
	s := domain.EncodedSchedule{TimeZone: req.Zone()}

	switch req.Pattern {
	case domain.PatternEveryMinute:
		if req.MinuteInterval != nil {
			k := *req.MinuteInterval
			if k <= 0 {
				return domain.EncodedSchedule{}, domain.NewValidationError(msgMinuteInterval)
			}
			s.Minutes = domain.Many(steps(0, 59, k)...)
		}

	case domain.PatternHourly:
		s.Minutes = c.value(minuteBounds, req.Minute, domain.One(0))

	case domain.PatternDaily:
		s.Hours = c.value(hourBounds, req.Hour, domain.One(0))
		s.Minutes = c.value(minuteBounds, req.Minute, domain.One(0))

	case domain.PatternEveryXDays:
		if req.DayInterval == nil || *req.DayInterval < 1 {
			return domain.EncodedSchedule{}, domain.NewValidationError(msgDayInterval)
		}
		s.Hours = c.value(hourBounds, req.Hour, domain.One(0))
		s.Minutes = c.value(minuteBounds, req.Minute, domain.One(0))
		// Only exact for the month the request is encoded in.
		s.MonthDays = domain.Many(steps(1, daysInMonth(e.now().In(zoneOrUTC(req.Zone()))), *req.DayInterval)...)

	case domain.PatternWeekly:
		if req.DayOfWeek == nil {
			return domain.EncodedSchedule{}, domain.NewValidationError(msgWeeklyRequires)
		}
		s.Hours = c.value(hourBounds, req.Hour, domain.One(0))
		s.Minutes = c.value(minuteBounds, req.Minute, domain.One(0))
		s.WeekDays = c.value(weekDayBounds, req.DayOfWeek, domain.Any())

	case domain.PatternMonthly:
		if req.DayOfMonth == nil {
			return domain.EncodedSchedule{}, domain.NewValidationError(msgMonthlyRequires)
		}
		s.Hours = c.value(hourBounds, req.Hour, domain.One(0))
		s.Minutes = c.value(minuteBounds, req.Minute, domain.One(0))
		s.MonthDays = c.value(monthDayBounds, req.DayOfMonth, domain.Any())
		if req.MonthInterval != nil && *req.MonthInterval > 1 {
			s.Months = domain.Many(steps(1, 12, *req.MonthInterval)...)
		}

	case domain.PatternYearly:
		if req.Month == nil || req.DayOfMonth == nil {
			return domain.EncodedSchedule{}, domain.NewValidationError(msgYearlyRequires)
		}
		s.Hours = c.value(hourBounds, req.Hour, domain.One(0))
		s.Minutes = c.value(minuteBounds, req.Minute, domain.One(0))
		s.MonthDays = c.value(monthDayBounds, req.DayOfMonth, domain.Any())
		s.Months = c.value(monthBounds, req.Month, domain.Any())

	case domain.PatternCustom:
		s.Hours = c.value(hourBounds, req.Hour, domain.Any())
		s.Minutes = c.value(minuteBounds, req.Minute, domain.Any())
		s.MonthDays = c.value(monthDayBounds, req.DayOfMonth, domain.Any())
		s.Months = c.value(monthBounds, req.Month, domain.Any())
		s.WeekDays = c.value(weekDayBounds, req.DayOfWeek, domain.Any())

	default:
		return domain.EncodedSchedule{}, domain.NewValidationError(msgInvalidPattern)
	}

	if c.err != nil {
		return domain.EncodedSchedule{}, c.err
	}
	return s, nil
}

func oneTime(req domain.ScheduleRequest) (domain.EncodedSchedule, error) {
	if req.ExecutionTime == nil {
		return domain.EncodedSchedule{}, domain.NewValidationError(msgExecutionTimeRequired)
	}

	loc, err := time.LoadLocation(req.Zone())
	if err != nil {
		return domain.EncodedSchedule{}, fmt.Errorf("%w: %q", domain.ErrUnknownTimeZone, req.Zone())
	}

	at := req.ExecutionTime.UTC().In(loc)
	expiresAt, err := strconv.ParseInt(at.Add(time.Minute).Format(domain.ExpiryLayout), 10, 64)
	if err != nil {
		return domain.EncodedSchedule{}, domain.NewValidationError("ExecutionTime %s cannot be encoded", at)
	}

	return domain.EncodedSchedule{
		Minutes:   domain.One(at.Minute()),
		Hours:     domain.One(at.Hour()),
		MonthDays: domain.One(at.Day()),
		Months:    domain.One(int(at.Month())),
		WeekDays:  domain.One(int(at.Weekday())),
		ExpiresAt: expiresAt,
		TimeZone:  req.Zone(),
	}, nil
}

// steps returns from, from+step, ... up to and including limit.
func steps(from, limit, step int) []int {
	out := make([]int, 0, (limit-from)/step+1)
	for v := from; v <= limit; v += step {
		out = append(out, v)
	}
	return out
}

func daysInMonth(t time.Time) int {
	return time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, t.Location()).Day()
}

func zoneOrUTC(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.UTC
	}
	return loc
}
