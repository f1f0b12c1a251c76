package response

import (
	"github.com/gin-gonic/gin"
)

// RequestIDKey is the gin context key holding the request id.
const RequestIDKey = "RequestID"

// Response standardizes the API JSON response
type Response struct {
	Success   bool        `json:"success"`
	Message   string      `json:"message"`
	Data      interface{} `json:"data,omitempty"`
	RequestID string      `json:"request_id,omitempty"`
}

// Fault is the error body of the donation routes.
type Fault struct {
	Error string `json:"error"`
}

// Link is the success body of POST /donate.
type Link struct {
	URL string `json:"url"`
}

// Renderer writes an error response in a route's JSON shape.
type Renderer func(c *gin.Context, code int, message string)

// Success sends a success response
func Success(c *gin.Context, code int, message string, data interface{}) {
	c.JSON(code, Response{
		Success:   true,
		Message:   message,
		Data:      data,
		RequestID: requestID(c),
	})
}

// Error sends an error response
func Error(c *gin.Context, code int, message string) {
	c.JSON(code, Response{
		Success:   false,
		Message:   message,
		RequestID: requestID(c),
	})
}

// FaultError sends {"error": message}.
func FaultError(c *gin.Context, code int, message string) {
	c.JSON(code, Fault{Error: message})
}

func requestID(c *gin.Context) string {
	id, _ := c.Get(RequestIDKey)
	idStr, _ := id.(string)
	return idStr
}
