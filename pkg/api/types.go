package api

// ErrorResponse is the body of every non-2xx JSON response
type ErrorResponse struct {
	Error  string `json:"error"`
	Reason string `json:"reason,omitempty"`
}

// HealthResponse matches GET /v1/health
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}
