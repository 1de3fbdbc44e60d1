package domain

import (
	"fmt"
	"time"
)

// DefaultTimeZone is used when a request carries no time zone.
const DefaultTimeZone = "UTC"

type ScheduleKind string

const (
	KindOneTime   ScheduleKind = "one_time"
	KindRecurring ScheduleKind = "recurring"
)

func (k ScheduleKind) Valid() bool {
	return k == KindOneTime || k == KindRecurring
}

type RecurringPattern string

const (
	PatternEveryMinute RecurringPattern = "every_minute"
	PatternHourly      RecurringPattern = "hourly"
	PatternDaily       RecurringPattern = "daily"
	PatternEveryXDays  RecurringPattern = "every_x_days"
	PatternWeekly      RecurringPattern = "weekly"
	PatternMonthly     RecurringPattern = "monthly"
	PatternYearly      RecurringPattern = "yearly"
	PatternCustom      RecurringPattern = "custom"
)

// ScheduleRequest is what a caller wants scheduled. Kind selects which of
// ExecutionTime or Pattern (plus its parameters) is meaningful.
type ScheduleRequest struct {
	WebhookURL string
	Kind       ScheduleKind
	TimeZone   string // IANA name, empty means UTC

	// OneTime
	ExecutionTime *time.Time // interpreted as UTC

	// Recurring
	Pattern        RecurringPattern
	Hour           *int // 0-23
	Minute         *int // 0-59
	DayOfMonth     *int // 1-31
	DayOfWeek      *int // 0-6, Sunday = 0
	Month          *int // 1-12
	MinuteInterval *int
	DayInterval    *int
	MonthInterval  *int
}

// Zone returns the request's time zone, falling back to DefaultTimeZone.
func (r ScheduleRequest) Zone() string {
	if r.TimeZone == "" {
		return DefaultTimeZone
	}
	return r.TimeZone
}

// EncodedSchedule is a schedule in the shape the remote API stores it.
type EncodedSchedule struct {
	Minutes   Field `json:"minutes"`
	Hours     Field `json:"hours"`
	MonthDays Field `json:"mdays"`
	Months    Field `json:"months"`
	WeekDays  Field `json:"wdays"`

	ExpiresAt int64  `json:"expiresAt"` // YYYYMMDDHHMMSS, 0 = never expires
	TimeZone  string `json:"timezone"`
}

// ExpiresAtTime parses ExpiresAt in the schedule's zone. ok is false when the
// schedule never expires or the value is malformed.
func (s EncodedSchedule) ExpiresAtTime(loc *time.Location) (t time.Time, ok bool) {
	if s.ExpiresAt == 0 {
		return time.Time{}, false
	}
	t, err := time.ParseInLocation(ExpiryLayout, fmt.Sprintf("%014d", s.ExpiresAt), loc)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// ExpiryLayout is the time layout of EncodedSchedule.ExpiresAt.
const ExpiryLayout = "20060102150405"

// ScheduleOutcome reports the result of a schedule attempt.
type ScheduleOutcome struct {
	Success    bool   `json:"success"`
	Message    string `json:"message,omitempty"`
	JobID      *int64 `json:"jobId,omitempty"`
	StatusCode *int   `json:"statusCode,omitempty"`

	// Invalid is set when the request was refused before any remote call.
	Invalid bool `json:"-"`
}

// ValidationOutcome is the result of checking a ScheduleRequest.
type ValidationOutcome struct {
	OK     bool
	Reason string
}
