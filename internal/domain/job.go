package domain

// JobSummary is a job as the remote API lists it.
type JobSummary struct {
	JobID           int64           `json:"jobId"`
	Enabled         bool            `json:"enabled"`
	Title           string          `json:"title"`
	SaveResponses   bool            `json:"saveResponses"`
	URL             string          `json:"url"`
	LastStatus      int             `json:"lastStatus"`
	LastDuration    int             `json:"lastDuration"`
	LastExecution   int64           `json:"lastExecution"`
	NextExecution   *int64          `json:"nextExecution,omitempty"`
	Type            int             `json:"type"`
	RequestTimeout  int             `json:"requestTimeout"`
	RedirectSuccess bool            `json:"redirectSuccess"`
	FolderID        int             `json:"folderId"`
	Schedule        EncodedSchedule `json:"schedule"`
	RequestMethod   int             `json:"requestMethod"`
}

type JobList struct {
	Jobs       []JobSummary `json:"jobs"`
	SomeFailed bool         `json:"someFailed"`
}

// JobDetails extends JobSummary with the settings only returned for a single job.
type JobDetails struct {
	JobSummary
	Auth         AuthInfo         `json:"auth"`
	Notification NotificationInfo `json:"notification"`
	ExtendedData ExtendedData     `json:"extendedData"`
}

// AuthInfo is the HTTP basic auth the remote service uses when calling the job URL.
type AuthInfo struct {
	Enable   bool   `json:"enable"`
	User     string `json:"user"`
	Password string `json:"password"`
}

type NotificationInfo struct {
	OnFailure bool `json:"onFailure"`
	OnSuccess bool `json:"onSuccess"`
	OnDisable bool `json:"onDisable"`
}

type ExtendedData struct {
	Headers []any  `json:"headers"`
	Body    string `json:"body"`
}
