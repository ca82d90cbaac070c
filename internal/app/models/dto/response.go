package dto

import "time"

// APIResponse is the envelope every successful endpoint returns
type APIResponse struct {
	Success   bool         `json:"success" example:"true"`
	Message   string       `json:"message,omitempty"`
	Data      interface{}  `json:"data,omitempty"`
	Error     *ErrorDetail `json:"error,omitempty"`
	Timestamp time.Time    `json:"timestamp" example:"2026-08-23T12:01:05.123Z"`
}

// NewSuccessResponse wraps data in a successful APIResponse
func NewSuccessResponse(data interface{}) APIResponse {
	return APIResponse{
		Success:   true,
		Data:      data,
		Timestamp: time.Now(),
	}
}

// HealthResponse reports service and catalog readiness
type HealthResponse struct {
	Status          string    `json:"status" example:"ok"`
	Term            string    `json:"term,omitempty" example:"202608"`
	CatalogLoaded   bool      `json:"catalogLoaded"`
	CatalogLoadedAt time.Time `json:"catalogLoadedAt,omitempty"`
	Courses         int       `json:"courses"`
	Sections        int       `json:"sections"`
}
