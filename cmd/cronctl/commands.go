package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/ErlanBelekov/cronjob-sdk/config"
	"github.com/ErlanBelekov/cronjob-sdk/internal/infrastructure/cronjoborg"
	ctxlog "github.com/ErlanBelekov/cronjob-sdk/internal/log"
	"github.com/ErlanBelekov/cronjob-sdk/internal/requestid"
	"github.com/ErlanBelekov/cronjob-sdk/internal/schedule"
	"github.com/ErlanBelekov/cronjob-sdk/internal/usecase"
	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"
)

// maxParallelDeletes bounds concurrent DELETE calls from one invocation.
const maxParallelDeletes = 8

type command func(a *app, args []string) error

var commands = map[string]command{
	"schedule": (*app).schedule,
	"preview":  (*app).preview,
	"list":     (*app).list,
	"get":      (*app).get,
	"delete":   (*app).delete,
}

type app struct {
	uc     *usecase.CronJobUsecase
	logger *slog.Logger
	out    io.Writer
	now    func() time.Time
}

func newApp(stdout, stderr io.Writer, verbose bool) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	// JSON logs unless ENV=local, same as the server.
	logger := ctxlog.New(stderr, cfg.Env, level)

	client, err := cronjoborg.New(cronjoborg.Config{
		BaseURL: cfg.APIBaseURL,
		Token:   cfg.APIToken,
		Timeout: cfg.APITimeout(),
	}, logger)
	if err != nil {
		return nil, err
	}

	return &app{
		uc:     usecase.NewCronJobUsecase(client, nil, logger),
		logger: logger,
		out:    stdout,
		now:    time.Now,
	}, nil
}

// callContext is cancelled on SIGINT/SIGTERM and tagged with a fresh request ID
// that the client forwards to the API.
func (a *app) callContext() (context.Context, context.CancelFunc) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	return requestid.Ensure(ctx), stop
}

func (a *app) print(v any) error {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (a *app) schedule(args []string) error {
	var file string
	fs := pflag.NewFlagSet("schedule", pflag.ContinueOnError)
	fs.StringVarP(&file, "file", "f", "", "request file (.yaml, .yml, .toml or .json)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if file == "" {
		return errors.New("schedule: --file is required")
	}

	req, err := loadRequest(file)
	if err != nil {
		return err
	}

	ctx, stop := a.callContext()
	defer stop()

	out := a.uc.Schedule(ctx, req)
	if err := a.print(out); err != nil {
		return err
	}
	if !out.Success {
		return errReported
	}
	return nil
}

func (a *app) preview(args []string) error {
	var (
		file string
		n    int
	)
	fs := pflag.NewFlagSet("preview", pflag.ContinueOnError)
	fs.StringVarP(&file, "file", "f", "", "request file (.yaml, .yml, .toml or .json)")
	fs.IntVarP(&n, "runs", "n", 5, fmt.Sprintf("number of upcoming runs to show (max %d)", schedule.MaxPreviewRuns))
	if err := fs.Parse(args); err != nil {
		return err
	}
	if file == "" {
		return errors.New("preview: --file is required")
	}
	if n < 1 || n > schedule.MaxPreviewRuns {
		return fmt.Errorf("preview: --runs must be between 1 and %d", schedule.MaxPreviewRuns)
	}

	req, err := loadRequest(file)
	if err != nil {
		return err
	}

	p, err := a.uc.Preview(req, a.now(), n)
	if err != nil {
		return fmt.Errorf("preview: %w", err)
	}
	return a.print(p)
}

func (a *app) list(args []string) error {
	if len(args) > 0 {
		return fmt.Errorf("list: unexpected argument %q", args[0])
	}

	ctx, stop := a.callContext()
	defer stop()

	jobs, err := a.uc.ListJobs(ctx)
	if err != nil {
		return err
	}
	return a.print(jobs)
}

func (a *app) get(args []string) error {
	if len(args) != 1 {
		return errors.New("get: exactly one job id is required")
	}
	jobID, err := parseJobID(args[0])
	if err != nil {
		return err
	}

	ctx, stop := a.callContext()
	defer stop()

	details, err := a.uc.GetJob(ctx, jobID)
	if err != nil {
		return err
	}
	return a.print(details)
}

type deleteResult struct {
	JobID   int64  `json:"jobId"`
	Deleted bool   `json:"deleted"`
	Error   string `json:"error,omitempty"`
}

// delete removes every listed job, reporting each one. A declined or failed
// delete does not stop the others.
func (a *app) delete(args []string) error {
	if len(args) == 0 {
		return errors.New("delete: at least one job id is required")
	}
	ids := make([]int64, len(args))
	for i, arg := range args {
		id, err := parseJobID(arg)
		if err != nil {
			return err
		}
		ids[i] = id
	}

	ctx, stop := a.callContext()
	defer stop()

	results := make([]deleteResult, len(ids))
	var g errgroup.Group
	g.SetLimit(maxParallelDeletes)
	for i, id := range ids {
		i, id := i, id
		g.Go(func() error {
			deleted, err := a.uc.DeleteJob(ctx, id)
			results[i] = deleteResult{JobID: id, Deleted: deleted}
			if err != nil {
				results[i].Error = err.Error()
			}
			return nil
		})
	}
	_ = g.Wait()
	a.logger.DebugContext(ctx, "delete finished", "requested", len(ids))

	if err := a.print(results); err != nil {
		return err
	}
	for _, r := range results {
		if !r.Deleted {
			return errReported
		}
	}
	return nil
}

func parseJobID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid job id %q", s)
	}
	return id, nil
}
