package utils

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

// ErrorResponseStruct defines the schema for error responses
type ErrorResponseStruct struct {
	Status    int    `json:"status"`
	Message   string `json:"message"`
	Ok        bool   `json:"ok"`
	Timestamp string `json:"timestamp"`
	URL       string `json:"url"`
	Type      string `json:"type,omitempty"`
}

// SuccessResponse sends data as JSON with status
func SuccessResponse(c *fiber.Ctx, data interface{}, status int) error {
	return c.Status(status).JSON(data)
}

// ErrorResponse sends the standard error envelope
func ErrorResponse(c *fiber.Ctx, message string, status int, errorType string) error {
	return c.Status(status).JSON(ErrorResponseStruct{
		Status:    status,
		Message:   message,
		Ok:        false,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		URL:       c.OriginalURL(),
		Type:      errorType,
	})
}

// NotFoundResponse sends a 404 error envelope
func NotFoundResponse(c *fiber.Ctx, message string) error {
	return ErrorResponse(c, message, fiber.StatusNotFound, "notFound")
}
