package schedule

import (
	"strings"

	"github.com/ErlanBelekov/cronjob-sdk/internal/domain"
)

// Validate checks the fields a request needs before it can be encoded.
// Rules run in order and the first failure is reported.
func Validate(req domain.ScheduleRequest) domain.ValidationOutcome {
	if strings.TrimSpace(req.WebhookURL) == "" {
		return invalid("WebhookURL is required")
	}

	switch req.Kind {
	case domain.KindRecurring:
		if req.Hour != nil && !hourBounds.contains(*req.Hour) {
			return invalid(hourBounds.message())
		}
		if req.Minute != nil && !minuteBounds.contains(*req.Minute) {
			return invalid(minuteBounds.message())
		}
	case domain.KindOneTime:
		if req.ExecutionTime == nil {
			return invalid(msgExecutionTimeRequired)
		}
	default:
		return invalid(msgInvalidKind)
	}

	return domain.ValidationOutcome{OK: true}
}

func invalid(reason string) domain.ValidationOutcome {
	return domain.ValidationOutcome{OK: false, Reason: reason}
}
