package dto

// HealthResponse reports liveness or readiness.
type HealthResponse struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}
