// Package api holds the JSON envelopes shared by every admin handler.
package api

// ErrorResponse is the body of every non-validation failure.
type ErrorResponse struct {
	Error string `json:"error" example:"provider_id is required"`
}

// MessageResponse reports an operation that succeeded without producing a
// resource, such as a settlement with nothing pending.
type MessageResponse struct {
	Message string `json:"message" example:"nothing pending to settle"`
}

type HealthResponse struct {
	Status   string `json:"status" example:"ok"`
	Database string `json:"database" example:"up"`
}

// ValidationError describes one rejected request field.
type ValidationError struct {
	Field   string `json:"field" example:"provider_id"`
	Tag     string `json:"tag" example:"required"`
	Message string `json:"message" example:"provider_id is required"`
}

type ValidationErrorResponse struct {
	Error   string            `json:"error" example:"validation failed"`
	Details []ValidationError `json:"details"`
}
