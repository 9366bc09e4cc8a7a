package client

import "fmt"

// Status is the daemon health report.
type Status struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
}

// APIError is a non-2xx response from the daemon.
type APIError struct {
	StatusCode int    `json:"-"`
	Code       string `json:"error"`
	Reason     string `json:"reason,omitempty"`
}

func (e *APIError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("%s (%d): %s", e.Code, e.StatusCode, e.Reason)
	}
	return fmt.Sprintf("%s (%d)", e.Code, e.StatusCode)
}

// Temporary reports whether retrying the request may succeed.
func (e *APIError) Temporary() bool {
	return e.StatusCode >= 500
}
