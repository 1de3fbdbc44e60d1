package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ErlanBelekov/cronjob-sdk/internal/domain"
)

// ---- request files ----

func TestParseRequest_Formats(t *testing.T) {
	tests := []struct {
		name string
		ext  string
		data string
	}{
		{"yaml", ".yaml", `
webhookUrl: https://hook.example.com
scheduleType: recurring
timeZone: Europe/Berlin
recurringPattern: weekly
dayOfWeek: 1
hour: 9
`},
		{"toml", ".toml", `
webhookUrl = "https://hook.example.com"
scheduleType = "recurring"
timeZone = "Europe/Berlin"
recurringPattern = "weekly"
dayOfWeek = 1
hour = 9
`},
		{"json", ".json", `{
  "webhookUrl": "https://hook.example.com",
  "scheduleType": "recurring",
  "timeZone": "Europe/Berlin",
  "recurringPattern": "weekly",
  "dayOfWeek": 1,
  "hour": 9
}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := parseRequest([]byte(tt.data), tt.ext)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if req.WebhookURL != "https://hook.example.com" || req.Kind != domain.KindRecurring ||
				req.Pattern != domain.PatternWeekly || req.TimeZone != "Europe/Berlin" {
				t.Errorf("request = %+v", req)
			}
			if req.DayOfWeek == nil || *req.DayOfWeek != 1 || req.Hour == nil || *req.Hour != 9 {
				t.Errorf("params = %+v", req)
			}
			if req.Minute != nil || req.ExecutionTime != nil {
				t.Errorf("unset fields populated: %+v", req)
			}
		})
	}
}

func TestParseRequest_ExecutionTime(t *testing.T) {
	want := time.Date(2024, 3, 5, 14, 30, 0, 0, time.UTC)
	tests := []struct {
		ext  string
		data string
	}{
		{".yml", "webhookUrl: https://h.example.com\nscheduleType: one_time\nexecutionTime: 2024-03-05T14:30:00Z\n"},
		{".toml", "webhookUrl = \"https://h.example.com\"\nscheduleType = \"one_time\"\nexecutionTime = 2024-03-05T14:30:00Z\n"},
		{".json", `{"webhookUrl":"https://h.example.com","scheduleType":"one_time","executionTime":"2024-03-05T14:30:00Z"}`},
	}
	for _, tt := range tests {
		t.Run(tt.ext, func(t *testing.T) {
			req, err := parseRequest([]byte(tt.data), tt.ext)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if req.Kind != domain.KindOneTime || req.ExecutionTime == nil || !req.ExecutionTime.Equal(want) {
				t.Errorf("request = %+v", req)
			}
		})
	}
}

func TestParseRequest_Rejects(t *testing.T) {
	tests := []struct {
		name string
		ext  string
		data string
	}{
		{"unknown yaml key", ".yaml", "webhookUrl: x\nweekday: 1\n"},
		{"unknown toml key", ".toml", "webhookUrl = \"x\"\nweekday = 1\n"},
		{"unknown json key", ".json", `{"webhookUrl":"x","weekday":1}`},
		{"bad extension", ".ini", "webhookUrl=x"},
		{"broken json", ".json", `{`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := parseRequest([]byte(tt.data), tt.ext); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

// ---- commands against a fake API ----

type fakeAPI struct {
	mu      sync.Mutex
	deleted []string
	puts    int
}

func (f *fakeAPI) handler(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer cli-token" {
			t.Errorf("Authorization = %q", r.Header.Get("Authorization"))
		}
		if r.Header.Get("X-Request-ID") == "" {
			t.Error("request carries no X-Request-ID")
		}

		f.mu.Lock()
		defer f.mu.Unlock()

		switch {
		case r.Method == http.MethodPut && r.URL.Path == "/jobs":
			f.puts++
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte(`{"jobId": 321}`))
		case r.Method == http.MethodGet && r.URL.Path == "/jobs":
			_, _ = w.Write([]byte(`{"jobs":[{"jobId":1,"title":"one"}],"someFailed":false}`))
		case r.Method == http.MethodDelete && strings.HasPrefix(r.URL.Path, "/jobs/"):
			id := strings.TrimPrefix(r.URL.Path, "/jobs/")
			if id == "404" {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			f.deleted = append(f.deleted, id)
			_, _ = w.Write([]byte(`{}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}
}

func (f *fakeAPI) counts() (puts int, deleted []string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.puts, append([]string(nil), f.deleted...)
}

func setupAPI(t *testing.T) *fakeAPI {
	t.Helper()
	api := &fakeAPI{}
	srv := httptest.NewServer(api.handler(t))
	t.Cleanup(srv.Close)

	t.Setenv("ENV", "production")
	t.Setenv("CRONJOB_API_BASE_URL", srv.URL+"/jobs")
	t.Setenv("CRONJOB_API_TOKEN", "cli-token")
	return api
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestRun_Schedule(t *testing.T) {
	api := setupAPI(t)
	file := writeFile(t, "job.yaml", "webhookUrl: https://hook.example.com\nscheduleType: recurring\nrecurringPattern: daily\nhour: 6\n")

	var stdout, stderr bytes.Buffer
	if err := run([]string{"schedule", "-f", file}, &stdout, &stderr); err != nil {
		t.Fatalf("run: %v (stderr %s)", err, stderr.String())
	}

	var out domain.ScheduleOutcome
	if err := json.Unmarshal(stdout.Bytes(), &out); err != nil {
		t.Fatalf("decode stdout %q: %v", stdout.String(), err)
	}
	if !out.Success || out.JobID == nil || *out.JobID != 321 {
		t.Errorf("outcome = %+v", out)
	}
	if puts, _ := api.counts(); puts != 1 {
		t.Errorf("puts = %d, want 1", puts)
	}
}

func TestRun_ScheduleInvalidFailsWithoutCallingAPI(t *testing.T) {
	api := setupAPI(t)
	file := writeFile(t, "job.json", `{"webhookUrl":"https://hook.example.com","scheduleType":"recurring","recurringPattern":"weekly"}`)

	var stdout, stderr bytes.Buffer
	err := run([]string{"schedule", "--file", file}, &stdout, &stderr)

	if !errors.Is(err, errReported) {
		t.Fatalf("want errReported, got %v", err)
	}
	if !strings.Contains(stdout.String(), "DayOfWeek is required for weekly pattern") {
		t.Errorf("stdout = %s", stdout.String())
	}
	if puts, _ := api.counts(); puts != 0 {
		t.Errorf("puts = %d, want 0", puts)
	}
}

func TestRun_Preview(t *testing.T) {
	setupAPI(t)
	file := writeFile(t, "job.toml", "webhookUrl = \"https://hook.example.com\"\nscheduleType = \"recurring\"\nrecurringPattern = \"hourly\"\nminute = 45\n")

	var stdout, stderr bytes.Buffer
	if err := run([]string{"preview", "-f", file, "-n", "3"}, &stdout, &stderr); err != nil {
		t.Fatalf("run: %v", err)
	}

	var p struct {
		Expression string      `json:"expression"`
		NextRuns   []time.Time `json:"nextRuns"`
	}
	if err := json.Unmarshal(stdout.Bytes(), &p); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if p.Expression != "CRON_TZ=UTC 45 * * * *" || len(p.NextRuns) != 3 {
		t.Errorf("preview = %+v", p)
	}
	for _, r := range p.NextRuns {
		if r.Minute() != 45 {
			t.Errorf("run %v not at minute 45", r)
		}
	}
}

func TestRun_List(t *testing.T) {
	setupAPI(t)

	var stdout, stderr bytes.Buffer
	if err := run([]string{"list"}, &stdout, &stderr); err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(stdout.String(), `"title": "one"`) {
		t.Errorf("stdout = %s", stdout.String())
	}
}

func TestRun_DeleteFansOut(t *testing.T) {
	api := setupAPI(t)

	var stdout, stderr bytes.Buffer
	err := run([]string{"delete", "11", "12", "404", "13"}, &stdout, &stderr)

	if !errors.Is(err, errReported) {
		t.Fatalf("want errReported for the declined delete, got %v", err)
	}
	var results []deleteResult
	if err := json.Unmarshal(stdout.Bytes(), &results); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(results) != 4 {
		t.Fatalf("got %d results, want 4", len(results))
	}
	for i, want := range []struct {
		id      int64
		deleted bool
	}{{11, true}, {12, true}, {404, false}, {13, true}} {
		if results[i].JobID != want.id || results[i].Deleted != want.deleted {
			t.Errorf("result %d = %+v, want id %d deleted %v", i, results[i], want.id, want.deleted)
		}
	}
	if _, deleted := api.counts(); len(deleted) != 3 {
		t.Errorf("deleted = %v, want 3 ids", deleted)
	}
}

func TestRun_Usage(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"no command", nil},
		{"unknown command", []string{"frobnicate"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			if err := run(tt.args, &stdout, &stderr); err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(stderr.String(), "Usage: cronctl") {
				t.Errorf("stderr = %s", stderr.String())
			}
		})
	}
}

func TestRun_BadJobID(t *testing.T) {
	setupAPI(t)

	var stdout, stderr bytes.Buffer
	if err := run([]string{"get", "abc"}, &stdout, &stderr); err == nil {
		t.Fatal("expected error for non-numeric id")
	}
}
