package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/ErlanBelekov/cronjob-sdk/internal/domain"
	"github.com/ErlanBelekov/cronjob-sdk/internal/usecase"
	"github.com/gin-gonic/gin"
)

// cronJobUsecaser is satisfied by *usecase.CronJobUsecase.
type cronJobUsecaser interface {
	Schedule(ctx context.Context, req domain.ScheduleRequest) domain.ScheduleOutcome
	Preview(req domain.ScheduleRequest, from time.Time, n int) (usecase.Preview, error)
	ListJobs(ctx context.Context) (domain.JobList, error)
	GetJob(ctx context.Context, jobID int64) (domain.JobDetails, error)
	DeleteJob(ctx context.Context, jobID int64) (bool, error)
}

type CronJobHandler struct {
	uc         cronJobUsecaser
	webhookURL string
	now        func() time.Time
	logger     *slog.Logger
}

// NewCronJobHandler targets webhookURL from the Test endpoint.
func NewCronJobHandler(uc cronJobUsecaser, webhookURL string, logger *slog.Logger) *CronJobHandler {
	return &CronJobHandler{
		uc:         uc,
		webhookURL: webhookURL,
		now:        time.Now,
		logger:     logger.With("component", "cronjob_handler"),
	}
}

type scheduleRequest struct {
	WebhookURL     string                  `json:"webhookUrl"       binding:"omitempty,url"`
	ScheduleType   domain.ScheduleKind     `json:"scheduleType"     binding:"required"`
	TimeZone       string                  `json:"timeZone"`
	ExecutionTime  *time.Time              `json:"executionTime"`
	Pattern        domain.RecurringPattern `json:"recurringPattern"`
	Hour           *int                    `json:"hour"`
	Minute         *int                    `json:"minute"`
	DayOfMonth     *int                    `json:"dayOfMonth"`
	DayOfWeek      *int                    `json:"dayOfWeek"`
	Month          *int                    `json:"month"`
	MinuteInterval *int                    `json:"minuteInterval"`
	DayInterval    *int                    `json:"dayInterval"`
	MonthInterval  *int                    `json:"monthInterval"`
}

func (r scheduleRequest) toDomain() domain.ScheduleRequest {
	return domain.ScheduleRequest{
		WebhookURL:     r.WebhookURL,
		Kind:           r.ScheduleType,
		TimeZone:       r.TimeZone,
		ExecutionTime:  r.ExecutionTime,
		Pattern:        r.Pattern,
		Hour:           r.Hour,
		Minute:         r.Minute,
		DayOfMonth:     r.DayOfMonth,
		DayOfWeek:      r.DayOfWeek,
		Month:          r.Month,
		MinuteInterval: r.MinuteInterval,
		DayInterval:    r.DayInterval,
		MonthInterval:  r.MonthInterval,
	}
}

type previewQuery struct {
	N int `form:"n,default=5" binding:"min=1,max=50"`
}

// Test schedules the fixed quarter-hour job against the configured webhook.
func (h *CronJobHandler) Test(ctx *gin.Context) {
	out := h.uc.Schedule(ctx.Request.Context(), usecase.QuarterHourRequest(h.webhookURL))
	if !out.Success {
		ctx.JSON(http.StatusBadRequest, out)
		return
	}
	ctx.JSON(http.StatusOK, out)
}

func (h *CronJobHandler) Create(ctx *gin.Context) {
	var body scheduleRequest
	if err := ctx.ShouldBindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	out := h.uc.Schedule(ctx.Request.Context(), body.toDomain())
	switch {
	case out.Success:
		ctx.JSON(http.StatusCreated, out)
	case out.Invalid:
		ctx.JSON(http.StatusBadRequest, out)
	default:
		// rejected by the cron service, or no response from it
		ctx.JSON(http.StatusBadGateway, out)
	}
}

func (h *CronJobHandler) Preview(ctx *gin.Context) {
	var q previewQuery
	if err := ctx.ShouldBindQuery(&q); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": errInvalidRunsArg})
		return
	}
	var body scheduleRequest
	if err := ctx.ShouldBindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	p, err := h.uc.Preview(body.toDomain(), h.now(), q.N)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, p)
}

func (h *CronJobHandler) List(ctx *gin.Context) {
	list, err := h.uc.ListJobs(ctx.Request.Context())
	if err != nil {
		h.logger.ErrorContext(ctx.Request.Context(), "list jobs", "error", err)
		ctx.JSON(http.StatusBadGateway, gin.H{"error": errUpstream})
		return
	}
	ctx.JSON(http.StatusOK, list)
}

func (h *CronJobHandler) GetByID(ctx *gin.Context) {
	jobID, ok := parseJobID(ctx)
	if !ok {
		return
	}

	details, err := h.uc.GetJob(ctx.Request.Context(), jobID)
	if err != nil {
		if domain.IsNotFound(err) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": errJobNotFound})
			return
		}
		h.logger.ErrorContext(ctx.Request.Context(), "get job", "job_id", jobID, "error", err)
		ctx.JSON(http.StatusBadGateway, gin.H{"error": errUpstream})
		return
	}
	ctx.JSON(http.StatusOK, details)
}

func (h *CronJobHandler) Delete(ctx *gin.Context) {
	jobID, ok := parseJobID(ctx)
	if !ok {
		return
	}

	deleted, err := h.uc.DeleteJob(ctx.Request.Context(), jobID)
	if err != nil {
		h.logger.ErrorContext(ctx.Request.Context(), "delete job", "job_id", jobID, "error", err)
		ctx.JSON(http.StatusBadGateway, gin.H{"error": errUpstream})
		return
	}
	if !deleted {
		ctx.JSON(http.StatusNotFound, gin.H{"error": errDeleteDeclined})
		return
	}
	ctx.Status(http.StatusNoContent)
}

func parseJobID(ctx *gin.Context) (int64, bool) {
	jobID, err := strconv.ParseInt(ctx.Param("jobId"), 10, 64)
	if err != nil || jobID <= 0 {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": errInvalidJobID})
		return 0, false
	}
	return jobID, true
}
