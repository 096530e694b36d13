package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound          = errors.New("name not found")
	ErrEmptyResult       = errors.New("upstream returned no names")
	ErrUpstreamRejected  = errors.New("upstream rejected request")
	ErrMissingCredential = errors.New("upstream credential not configured")
)

// UpstreamError carries the message an upstream returned in its error payload.
type UpstreamError struct {
	Service string
	Code    int
	Message string
}

func (e *UpstreamError) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("%s: %s (code %d)", e.Service, e.Message, e.Code)
	}
	return fmt.Sprintf("%s: %s", e.Service, e.Message)
}

func (e *UpstreamError) Unwrap() error { return ErrUpstreamRejected }
