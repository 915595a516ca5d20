package utils

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

// Response is the JSON envelope returned by every API endpoint
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// SuccessResponse writes a 200 response with the given payload
func SuccessResponse(c *fiber.Ctx, message string, data interface{}) error {
	return c.Status(fiber.StatusOK).JSON(Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// ErrorResponse writes an error response. err may be nil.
func ErrorResponse(c *fiber.Ctx, status int, message string, err error) error {
	resp := Response{
		Success: false,
		Message: message,
	}
	if err != nil {
		resp.Error = err.Error()
	}
	return c.Status(status).JSON(resp)
}

// ErrorResponseWithData writes an error response that carries structured details
func ErrorResponseWithData(c *fiber.Ctx, status int, message string, err error, data interface{}) error {
	resp := Response{
		Success: false,
		Message: message,
		Data:    data,
	}
	if err != nil {
		resp.Error = err.Error()
	}
	return c.Status(status).JSON(resp)
}

// GetCurrentTimestamp returns the current unix timestamp
func GetCurrentTimestamp() int64 {
	return time.Now().Unix()
}
