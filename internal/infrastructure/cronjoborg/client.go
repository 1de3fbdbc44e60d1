// Package cronjoborg is the HTTP client for the remote cron scheduling API.
//
// Every call builds its own request with its own headers, so a Client is safe
// for concurrent use. There is no retry: callers that want one wrap the call.
package cronjoborg

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/ErlanBelekov/cronjob-sdk/internal/domain"
	"github.com/ErlanBelekov/cronjob-sdk/internal/metrics"
	"github.com/ErlanBelekov/cronjob-sdk/internal/requestid"
)

const (
	opSubmit  = "submit"
	opList    = "list"
	opGet     = "get"
	opDelete  = "delete"
	opPing    = "ping"
	userAgent = "cronjob-sdk-go"

	defaultTimeout = 30 * time.Second
	// maxBodyBytes bounds how much of a response is read into memory.
	maxBodyBytes = 4 << 20
)

// ErrResponseTooLarge is wrapped in the *domain.TransportError returned when a
// response body exceeds the read limit.
var ErrResponseTooLarge = errors.New("response body too large")

type Config struct {
	BaseURL string // collection endpoint, e.g. https://api.cron-job.org/jobs
	Token   string
	Timeout time.Duration // per call, defaults to 30s

	// HTTPClient overrides the default client. Timeout is ignored when set.
	HTTPClient *http.Client
}

type Client struct {
	baseURL string
	token   string
	http    *http.Client
	logger  *slog.Logger
}

// New returns an error wrapping domain.ErrMissingConfig when BaseURL or Token is empty.
func New(cfg Config, logger *slog.Logger) (*Client, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		return nil, fmt.Errorf("%w: cron api base url", domain.ErrMissingConfig)
	}
	if strings.TrimSpace(cfg.Token) == "" {
		return nil, fmt.Errorf("%w: cron api bearer token", domain.ErrMissingConfig)
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	c := &Client{
		baseURL: baseURL,
		token:   cfg.Token,
		http:    httpClient,
		logger:  logger.With("component", "cronjob_client"),
	}
	c.logger.Info("cron api client initialized", "base_url", baseURL)
	return c, nil
}

// Submit upserts a job that calls url on schedule s. Failures of any kind are
// reported through the outcome; Submit never returns an error.
func (c *Client) Submit(ctx context.Context, url string, s domain.EncodedSchedule) domain.ScheduleOutcome {
	payload := upsertJobRequest{Job: jobPayload{
		URL:           url,
		Enabled:       true,
		SaveResponses: true,
		Schedule:      toWireSchedule(s),
	}}

	resp, err := c.do(ctx, opSubmit, http.MethodPut, c.baseURL, payload)
	if err != nil {
		c.logger.ErrorContext(ctx, "submit job", "url", url, "error", err)
		return domain.ScheduleOutcome{
			Success: false,
			Message: fmt.Sprintf("An unexpected error occurred: %v", err),
		}
	}

	status := resp.status
	outcome := domain.ScheduleOutcome{Success: resp.ok(), StatusCode: &status}
	if !resp.ok() {
		outcome.Message = fmt.Sprintf("Failed to schedule job: %d %s. Response: %s",
			status, http.StatusText(status), resp.body)
		c.logger.ErrorContext(ctx, "schedule job rejected", "url", url, "status", status)
		return outcome
	}

	var created upsertJobResponse
	if err := json.Unmarshal(resp.body, &created); err != nil || created.JobID == nil {
		// The job exists remotely even though we could not read its id.
		outcome.Message = "Job scheduled successfully, but the response carried no job ID"
		c.logger.WarnContext(ctx, "schedule job response without job id", "url", url, "body", string(resp.body))
		return outcome
	}

	outcome.JobID = created.JobID
	outcome.Message = fmt.Sprintf("Job scheduled successfully with ID: %d", *created.JobID)
	c.logger.InfoContext(ctx, "job scheduled", "url", url, "job_id", *created.JobID)
	return outcome
}

// ListAll returns every job on the account. A non-2xx answer is a *domain.RemoteError.
func (c *Client) ListAll(ctx context.Context) (domain.JobList, error) {
	resp, err := c.do(ctx, opList, http.MethodGet, c.baseURL, nil)
	if err != nil {
		return domain.JobList{}, err
	}
	if !resp.ok() {
		return domain.JobList{}, resp.remoteError("list jobs")
	}

	var list domain.JobList
	if err := json.Unmarshal(resp.body, &list); err != nil {
		return domain.JobList{}, fmt.Errorf("decode jobs: %w", err)
	}
	if list.Jobs == nil {
		list.Jobs = []domain.JobSummary{}
	}

	c.logger.InfoContext(ctx, "fetched jobs", "count", len(list.Jobs), "some_failed", list.SomeFailed)
	return list, nil
}

// GetDetails returns one job. A non-2xx answer is a *domain.RemoteError.
func (c *Client) GetDetails(ctx context.Context, jobID int64) (domain.JobDetails, error) {
	resp, err := c.do(ctx, opGet, http.MethodGet, c.jobURL(jobID), nil)
	if err != nil {
		return domain.JobDetails{}, err
	}
	if !resp.ok() {
		return domain.JobDetails{}, resp.remoteError("get job")
	}

	var details jobDetailsResponse
	if err := json.Unmarshal(resp.body, &details); err != nil {
		return domain.JobDetails{}, fmt.Errorf("decode job %d: %w", jobID, err)
	}

	c.logger.InfoContext(ctx, "fetched job details", "job_id", jobID)
	return details.JobDetails, nil
}

// Delete reports whether the remote API accepted the delete. Only transport
// failures are returned as errors.
func (c *Client) Delete(ctx context.Context, jobID int64) (bool, error) {
	resp, err := c.do(ctx, opDelete, http.MethodDelete, c.jobURL(jobID), nil)
	if err != nil {
		c.logger.ErrorContext(ctx, "delete job", "job_id", jobID, "error", err)
		return false, err
	}
	if !resp.ok() {
		c.logger.ErrorContext(ctx, "delete job declined", "job_id", jobID, "status", resp.status, "body", string(resp.body))
		return false, nil
	}

	c.logger.InfoContext(ctx, "job deleted", "job_id", jobID)
	return true, nil
}

// Ping checks that the API answers the collection endpoint with a 2xx.
func (c *Client) Ping(ctx context.Context) error {
	resp, err := c.do(ctx, opPing, http.MethodGet, c.baseURL, nil)
	if err != nil {
		return err
	}
	if !resp.ok() {
		return resp.remoteError("ping")
	}
	return nil
}

func (c *Client) jobURL(jobID int64) string {
	return c.baseURL + "/" + strconv.FormatInt(jobID, 10)
}

type response struct {
	status int
	body   []byte
}

func (r response) ok() bool { return r.status >= 200 && r.status < 300 }

func (r response) remoteError(op string) *domain.RemoteError {
	return &domain.RemoteError{Op: op, StatusCode: r.status, Body: string(r.body)}
}

// do sends one request and reads the whole response. Any failure to get a
// response is a *domain.TransportError.
func (c *Client) do(ctx context.Context, op, method, url string, body any) (response, error) {
	start := time.Now()

	req, err := c.newRequest(ctx, method, url, body)
	if err != nil {
		return response{}, &domain.TransportError{Op: op, Err: err}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.observe(op, "error", start)
		return response{}, &domain.TransportError{Op: op, Err: fmt.Errorf("do request: %w", err)}
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes+1))
	c.observe(op, strconv.Itoa(resp.StatusCode), start)
	if err != nil {
		return response{}, &domain.TransportError{Op: op, Err: fmt.Errorf("read response: %w", err)}
	}
	if len(raw) > maxBodyBytes {
		return response{}, &domain.TransportError{Op: op, Err: fmt.Errorf("%w: over %d bytes", ErrResponseTooLarge, maxBodyBytes)}
	}

	c.logger.DebugContext(ctx, "api response", "operation", op, "status", resp.StatusCode, "body", string(raw))
	return response{status: resp.StatusCode, body: raw}, nil
}

func (c *Client) newRequest(ctx context.Context, method, url string, body any) (*http.Request, error) {
	var bodyReader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request: %w", err)
		}
		c.logger.DebugContext(ctx, "api request", "method", method, "url", url, "payload", string(b))
		bodyReader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if id := requestid.FromContext(ctx); id != "" {
		req.Header.Set(requestid.Header, id)
	}
	return req, nil
}

func (c *Client) observe(op, status string, start time.Time) {
	metrics.APIRequestDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	metrics.APIRequestsTotal.WithLabelValues(op, status).Inc()
}
