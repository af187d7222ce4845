package answers

import "fmt"

// APIError is a non-success response from the answer service.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("answer service error %d", e.StatusCode)
	}
	return fmt.Sprintf("answer service error %d: %s", e.StatusCode, e.Message)
}

// errorResponse is the JSON structure for service errors.
type errorResponse struct {
	Error string `json:"error"`
}
