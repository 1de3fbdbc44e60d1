package handler

const (
	errInvalidJobID   = "Job ID must be a positive integer"
	errJobNotFound    = "Job not found"
	errDeleteDeclined = "Job could not be deleted"
	errUpstream       = "Cron service request failed"
	errInvalidRunsArg = "n must be between 1 and 50"
)
