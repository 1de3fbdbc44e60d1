package cronjoborg

import "github.com/ErlanBelekov/cronjob-sdk/internal/domain"

// Payloads use the remote API's field names verbatim.

type upsertJobRequest struct {
	Job jobPayload `json:"job"`
}

type jobPayload struct {
	URL           string       `json:"url"`
	Enabled       bool         `json:"enabled"`
	SaveResponses bool         `json:"saveResponses"`
	Schedule      wireSchedule `json:"schedule"`
}

type wireSchedule struct {
	Timezone       string `json:"timezone"`
	ExpiresAt      int64  `json:"expiresAt"`
	ExceptionDates []int  `json:"exceptionDates"`
	Mdays          []int  `json:"mdays"`
	Hours          []int  `json:"hours"`
	Minutes        []int  `json:"minutes"`
	Months         []int  `json:"months"`
	Wdays          []int  `json:"wdays"`
}

func toWireSchedule(s domain.EncodedSchedule) wireSchedule {
	tz := s.TimeZone
	if tz == "" {
		tz = domain.DefaultTimeZone
	}
	return wireSchedule{
		Timezone:       tz,
		ExpiresAt:      s.ExpiresAt,
		ExceptionDates: []int{},
		Mdays:          s.MonthDays.Wire(),
		Hours:          s.Hours.Wire(),
		Minutes:        s.Minutes.Wire(),
		Months:         s.Months.Wire(),
		Wdays:          s.WeekDays.Wire(),
	}
}

type upsertJobResponse struct {
	JobID *int64 `json:"jobId"`
}

type jobDetailsResponse struct {
	JobDetails domain.JobDetails `json:"jobDetails"`
}
