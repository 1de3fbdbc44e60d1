package schedule

import (
	"fmt"
	"time"

	"github.com/ErlanBelekov/cronjob-sdk/internal/domain"
	"github.com/robfig/cron/v3"
)

// MaxPreviewRuns caps NextRuns.
const MaxPreviewRuns = 50

// Expression renders s as a five-field cron expression with a CRON_TZ prefix,
// e.g. "CRON_TZ=UTC 0,15,30,45 * * * *".
func Expression(s domain.EncodedSchedule) string {
	zone := s.TimeZone
	if zone == "" {
		zone = domain.DefaultTimeZone
	}
	return fmt.Sprintf("CRON_TZ=%s %s %s %s %s %s", zone, s.Minutes, s.Hours, s.MonthDays, s.Months, s.WeekDays)
}

// searchHorizon bounds how far past from NextRuns looks for a matching day.
const searchHorizon = 5 * 366 * 24 * time.Hour

// NextRuns returns up to n fire times of s strictly after from. Runs at or
// past the schedule's expiry are dropped.
//
// Like the remote service, and unlike standard cron, a day must match both
// month-days and week-days when both are restricted.
func NextRuns(s domain.EncodedSchedule, from time.Time, n int) ([]time.Time, error) {
	sched, err := cron.ParseStandard(Expression(s))
	if err != nil {
		return nil, fmt.Errorf("parse cron expression: %w", err)
	}

	n = min(max(n, 0), MaxPreviewRuns)
	loc := zoneOrUTC(s.TimeZone)
	bothDays := !s.MonthDays.IsAny() && !s.WeekDays.IsAny()

	var expiry time.Time
	hasExpiry := false
	if s.ExpiresAt != 0 {
		expiry, hasExpiry = s.ExpiresAtTime(loc)
	}

	horizon := from.Add(searchHorizon)
	runs := make([]time.Time, 0, n)
	t := from
	for len(runs) < n {
		t = sched.Next(t)
		if t.IsZero() || t.After(horizon) {
			break // no match within the search horizon
		}
		if hasExpiry && !t.Before(expiry) {
			break
		}
		if bothDays && !matchesDay(s, t.In(loc)) {
			continue
		}
		runs = append(runs, t)
	}
	return runs, nil
}

func matchesDay(s domain.EncodedSchedule, t time.Time) bool {
	return s.MonthDays.Contains(t.Day()) && s.WeekDays.Contains(int(t.Weekday()))
}
