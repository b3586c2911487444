package response

import (
	"unithrift-backend/internal/pkg/apperrors"

	"github.com/gofiber/fiber/v2"
)

// SuccessBody is the standardized success JSON shape.
type SuccessBody struct {
	Status string      `json:"status"`
	Data   interface{} `json:"data"`
}

// ErrorBody is the standardized error JSON shape.
type ErrorBody struct {
	Status    string      `json:"status"`
	ErrorData ErrorDetail `json:"errorData"`
}

// ErrorDetail is the nested error object.
type ErrorDetail struct {
	ErrorCode int    `json:"errorCode"`
	Code      string `json:"code,omitempty"`
	Message   string `json:"message"`
}

const statusSuccess = "SUCCESS"
const statusFail = "FAIL"

// Success sends a 200 OK response with the standard success format.
func Success(c *fiber.Ctx, data interface{}) error {
	return c.Status(fiber.StatusOK).JSON(SuccessBody{Status: statusSuccess, Data: data})
}

// SuccessCreated sends a 201 Created response with the standard success format.
func SuccessCreated(c *fiber.Ctx, data interface{}) error {
	return c.Status(fiber.StatusCreated).JSON(SuccessBody{Status: statusSuccess, Data: data})
}

// Error sends a response with the standard error format.
func Error(c *fiber.Ctx, message string, statusCode int, code string) error {
	return c.Status(statusCode).JSON(ErrorBody{
		Status: statusFail,
		ErrorData: ErrorDetail{
			ErrorCode: statusCode,
			Code:      code,
			Message:   message,
		},
	})
}

// FromError renders a domain error with its own status and code, anything else as 500.
func FromError(c *fiber.Ctx, err error) error {
	if e := apperrors.As(err); e != nil {
		return Error(c, e.Message, e.StatusCode, e.Code)
	}
	if e, ok := err.(*fiber.Error); ok {
		return Error(c, e.Message, e.Code, "")
	}
	return Error(c, "Internal Server Error", fiber.StatusInternalServerError, "DEPENDENCY")
}

// Unauthorized sends 401 in the same shape as other errors.
func Unauthorized(c *fiber.Ctx, message string) error {
	return Error(c, message, fiber.StatusUnauthorized, "UNAUTHORIZED")
}
