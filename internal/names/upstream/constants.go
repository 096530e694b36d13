package upstream

import "time"

const (
	// DefaultTimeout applies when the caller passes a zero timeout
	DefaultTimeout = 15 * time.Second

	ServiceBehindTheName = "behindthename"
	ServiceNamsor        = "namsor"

	maxErrorBody = 512
)
