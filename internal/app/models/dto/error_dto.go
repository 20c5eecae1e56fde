package dto

// ErrorResponse is the uniform error body: a single human-readable detail
// string, mirrored from the HTTP status it travels with.
type ErrorResponse struct {
	Detail string `json:"detail" example:"course not found"`
}

// NewErrorResponse creates a standard error response
func NewErrorResponse(detail string) ErrorResponse {
	return ErrorResponse{Detail: detail}
}
