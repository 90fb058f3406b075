package handler

import (
	"time"

	"github.com/gin-gonic/gin"
)

// APIResponse is the envelope for every API response.
type APIResponse struct {
	Success  bool       `json:"success"`
	Data     any        `json:"data,omitempty"`
	Error    *ErrorInfo `json:"error,omitempty"`
	Metadata Metadata   `json:"metadata"`
}

// ErrorInfo describes a failed request.
type ErrorInfo struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// Metadata is attached to every response.
type Metadata struct {
	Timestamp string `json:"timestamp"`
	RequestID string `json:"request_id,omitempty"`
}

const (
	CodeInvalidRequest   = "INVALID_REQUEST"
	CodeUserNotFound     = "USER_NOT_FOUND"
	CodeRateLimited      = "RATE_LIMITED"
	CodeInvalidAnswer    = "INVALID_ANSWER"
	CodeNoActiveQuestion = "NO_ACTIVE_QUESTION"
	CodeInternal         = "INTERNAL_ERROR"
)

func respondSuccess(c *gin.Context, statusCode int, data any) {
	c.JSON(statusCode, APIResponse{
		Success:  true,
		Data:     data,
		Metadata: metadata(c),
	})
}

func respondError(c *gin.Context, statusCode int, code, message string, details any) {
	c.JSON(statusCode, APIResponse{
		Success: false,
		Error: &ErrorInfo{
			Code:    code,
			Message: message,
			Details: details,
		},
		Metadata: metadata(c),
	})
}

func metadata(c *gin.Context) Metadata {
	return Metadata{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		RequestID: c.GetString("request_id"),
	}
}
