package schedule_test

import (
	"testing"
	"time"

	"github.com/ErlanBelekov/cronjob-sdk/internal/domain"
	"github.com/ErlanBelekov/cronjob-sdk/internal/schedule"
)

func TestValidate(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name   string
		req    domain.ScheduleRequest
		ok     bool
		reason string
	}{
		{
			name:   "empty webhook",
			req:    domain.ScheduleRequest{Kind: domain.KindRecurring},
			reason: "WebhookURL is required",
		},
		{
			name:   "whitespace webhook",
			req:    domain.ScheduleRequest{WebhookURL: " \t\n ", Kind: domain.KindRecurring},
			reason: "WebhookURL is required",
		},
		{
			name:   "webhook checked before kind",
			req:    domain.ScheduleRequest{WebhookURL: "", Kind: domain.KindOneTime},
			reason: "WebhookURL is required",
		},
		{
			name:   "hour too large",
			req:    domain.ScheduleRequest{WebhookURL: "https://x", Kind: domain.KindRecurring, Hour: ptr(24)},
			reason: "Hour must be between 0 and 23",
		},
		{
			name:   "negative hour",
			req:    domain.ScheduleRequest{WebhookURL: "https://x", Kind: domain.KindRecurring, Hour: ptr(-1)},
			reason: "Hour must be between 0 and 23",
		},
		{
			name:   "hour checked before minute",
			req:    domain.ScheduleRequest{WebhookURL: "https://x", Kind: domain.KindRecurring, Hour: ptr(30), Minute: ptr(60)},
			reason: "Hour must be between 0 and 23",
		},
		{
			name:   "minute too large",
			req:    domain.ScheduleRequest{WebhookURL: "https://x", Kind: domain.KindRecurring, Minute: ptr(60)},
			reason: "Minute must be between 0 and 59",
		},
		{
			name: "recurring at bounds",
			req:  domain.ScheduleRequest{WebhookURL: "https://x", Kind: domain.KindRecurring, Hour: ptr(23), Minute: ptr(59)},
			ok:   true,
		},
		{
			name: "recurring without parameters",
			req:  domain.ScheduleRequest{WebhookURL: "https://x", Kind: domain.KindRecurring},
			ok:   true,
		},
		{
			name:   "one time without execution time",
			req:    domain.ScheduleRequest{WebhookURL: "https://x", Kind: domain.KindOneTime},
			reason: "ExecutionTime is required for one-time jobs",
		},
		{
			name: "one time ignores hour range",
			req:  domain.ScheduleRequest{WebhookURL: "https://x", Kind: domain.KindOneTime, ExecutionTime: &now, Hour: ptr(99)},
			ok:   true,
		},
		{
			name:   "unknown kind",
			req:    domain.ScheduleRequest{WebhookURL: "https://x", Kind: "sometimes"},
			reason: "ScheduleType is invalid",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := schedule.Validate(tt.req)
			if got.OK != tt.ok {
				t.Fatalf("OK = %v, want %v (reason %q)", got.OK, tt.ok, got.Reason)
			}
			if got.Reason != tt.reason {
				t.Errorf("Reason = %q, want %q", got.Reason, tt.reason)
			}
		})
	}
}
