package rest

// ErrorResponse is the JSON envelope for user-visible faults.
type ErrorResponse struct {
	Error string `json:"error"`
}

// MessageResponse is the JSON envelope for informational statuses,
// e.g. "Draft saved successfully".
type MessageResponse struct {
	Message string `json:"message"`
}
