package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ErlanBelekov/cronjob-sdk/internal/domain"
	"github.com/ErlanBelekov/cronjob-sdk/internal/metrics"
	"github.com/ErlanBelekov/cronjob-sdk/internal/schedule"
)

// cronGateway is satisfied by *cronjoborg.Client.
type cronGateway interface {
	Submit(ctx context.Context, url string, s domain.EncodedSchedule) domain.ScheduleOutcome
	ListAll(ctx context.Context) (domain.JobList, error)
	GetDetails(ctx context.Context, jobID int64) (domain.JobDetails, error)
	Delete(ctx context.Context, jobID int64) (bool, error)
}

const (
	outcomeScheduled = "scheduled"
	outcomeInvalid   = "invalid"
	outcomeRejected  = "rejected"
)

type CronJobUsecase struct {
	api     cronGateway
	encoder *schedule.Encoder
	logger  *slog.Logger
}

// NewCronJobUsecase uses the package default encoder when encoder is nil.
func NewCronJobUsecase(api cronGateway, encoder *schedule.Encoder, logger *slog.Logger) *CronJobUsecase {
	if encoder == nil {
		encoder = schedule.NewEncoder()
	}
	return &CronJobUsecase{
		api:     api,
		encoder: encoder,
		logger:  logger.With("component", "cronjob_usecase"),
	}
}

// QuarterHourRequest is the fixed "every 15 minutes, UTC" job used to smoke
// test a deployment.
func QuarterHourRequest(webhookURL string) domain.ScheduleRequest {
	interval := 15
	return domain.ScheduleRequest{
		WebhookURL:     webhookURL,
		Kind:           domain.KindRecurring,
		TimeZone:       domain.DefaultTimeZone,
		Pattern:        domain.PatternEveryMinute,
		MinuteInterval: &interval,
	}
}

// Schedule validates, encodes and submits req. Every failure is reported
// through the outcome.
func (u *CronJobUsecase) Schedule(ctx context.Context, req domain.ScheduleRequest) domain.ScheduleOutcome {
	kind := kindLabel(req.Kind)

	encoded, err := u.prepare(req)
	if err != nil {
		metrics.SchedulesTotal.WithLabelValues(kind, outcomeInvalid).Inc()
		u.logger.WarnContext(ctx, "schedule request rejected", "kind", req.Kind, "pattern", req.Pattern, "reason", err)
		return domain.ScheduleOutcome{Success: false, Message: failureMessage(err), Invalid: true}
	}

	out := u.api.Submit(ctx, req.WebhookURL, encoded)
	if out.Success {
		metrics.SchedulesTotal.WithLabelValues(kind, outcomeScheduled).Inc()
	} else {
		metrics.SchedulesTotal.WithLabelValues(kind, outcomeRejected).Inc()
	}
	return out
}

// Preview is the schedule a request would submit, rendered as a cron
// expression with its next fire times.
type Preview struct {
	Schedule   domain.EncodedSchedule `json:"schedule"`
	Expression string                 `json:"expression"`
	NextRuns   []time.Time            `json:"nextRuns"`
}

// Preview runs the same checks as Schedule without calling the remote API.
// Every error it returns describes a bad request.
func (u *CronJobUsecase) Preview(req domain.ScheduleRequest, from time.Time, n int) (Preview, error) {
	encoded, err := u.prepare(req)
	if err != nil {
		return Preview{}, err
	}

	runs, err := schedule.NextRuns(encoded, from, n)
	if err != nil {
		return Preview{}, fmt.Errorf("next runs: %w", err)
	}

	return Preview{
		Schedule:   encoded,
		Expression: schedule.Expression(encoded),
		NextRuns:   runs,
	}, nil
}

func (u *CronJobUsecase) ListJobs(ctx context.Context) (domain.JobList, error) {
	list, err := u.api.ListAll(ctx)
	if err != nil {
		return domain.JobList{}, fmt.Errorf("list jobs: %w", err)
	}
	return list, nil
}

func (u *CronJobUsecase) GetJob(ctx context.Context, jobID int64) (domain.JobDetails, error) {
	details, err := u.api.GetDetails(ctx, jobID)
	if err != nil {
		return domain.JobDetails{}, fmt.Errorf("get job %d: %w", jobID, err)
	}
	return details, nil
}

// DeleteJob reports false without error when the remote API declined the delete.
func (u *CronJobUsecase) DeleteJob(ctx context.Context, jobID int64) (bool, error) {
	deleted, err := u.api.Delete(ctx, jobID)
	if err != nil {
		return false, fmt.Errorf("delete job %d: %w", jobID, err)
	}
	if !deleted {
		u.logger.WarnContext(ctx, "delete declined", "job_id", jobID)
	}
	return deleted, nil
}

// prepare reports Validate failures as *requestError and encoder failures as
// returned by the encoder. Both match domain.ErrValidation, except unknown zones.
func (u *CronJobUsecase) prepare(req domain.ScheduleRequest) (domain.EncodedSchedule, error) {
	if v := schedule.Validate(req); !v.OK {
		return domain.EncodedSchedule{}, &requestError{reason: v.Reason}
	}
	return u.encoder.Encode(req)
}

// requestError marks a Validate failure. Its message is shown as is.
type requestError struct {
	reason string
}

func (e *requestError) Error() string { return e.reason }

func (e *requestError) Is(target error) bool { return target == domain.ErrValidation }

func failureMessage(err error) string {
	var re *requestError
	if errors.As(err, &re) {
		return re.reason
	}
	return "Validation error: " + err.Error()
}

func kindLabel(k domain.ScheduleKind) string {
	if k.Valid() {
		return string(k)
	}
	return "unknown"
}
