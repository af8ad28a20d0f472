package response

import "github.com/gin-gonic/gin"

// Envelope is the uniform shape of every API response. Success and Data are
// mutually exclusive with Error.
type Envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *ErrorBody  `json:"error,omitempty"`
}

type ErrorBody struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

func Success(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, Envelope{Success: true, Data: data})
}

func Error(c *gin.Context, statusCode int, code string, message string) {
	c.JSON(statusCode, Envelope{Success: false, Error: &ErrorBody{Code: code, Message: message}})
}

// ErrorWithDetails carries machine-readable context, like per-field validation
// failures or geofence distance diagnostics.
func ErrorWithDetails(c *gin.Context, statusCode int, code string, message string, details interface{}) {
	c.JSON(statusCode, Envelope{Success: false, Error: &ErrorBody{Code: code, Message: message, Details: details}})
}
