package dto

// ErrorResponse represents a common API error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// MessageResponse is a plain confirmation.
type MessageResponse struct {
	Message string `json:"message"`
}
