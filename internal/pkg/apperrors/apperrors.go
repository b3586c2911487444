package apperrors

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

// Error is a domain failure with a stable machine-checkable code.
type Error struct {
	Code       string
	StatusCode int
	Message    string
}

func (e *Error) Error() string { return e.Message }

func New(statusCode int, code, message string) *Error {
	return &Error{Code: code, StatusCode: statusCode, Message: message}
}

// As unwraps err into *Error, or nil if it is not a domain error.
func As(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return nil
}

var (
	ErrSelfInterest      = New(fiber.StatusForbidden, "SELF_INTEREST", "You cannot express interest in your own listing")
	ErrDuplicateInterest = New(fiber.StatusForbidden, "DUPLICATE_INTEREST", "You have already expressed interest in this item")
	ErrItemSold          = New(fiber.StatusForbidden, "ITEM_SOLD", "Item has already been sold")
	ErrNotSeller         = New(fiber.StatusForbidden, "NOT_SELLER", "Only the seller of the listing can perform this action")
	ErrInterestNotFound  = New(fiber.StatusNotFound, "INTEREST_NOT_FOUND", "No interest record found for this buyer and listing")
	ErrListingNotFound   = New(fiber.StatusNotFound, "LISTING_NOT_FOUND", "Listing not found")
	ErrListingSold       = New(fiber.StatusForbidden, "LISTING_SOLD", "Listing has been marked as sold")
	ErrItemNotFound      = New(fiber.StatusNotFound, "ITEM_NOT_FOUND", "Item category not found")
	ErrItemExists        = New(fiber.StatusConflict, "ITEM_EXISTS", "Item category already exists")
	ErrUserNotFound      = New(fiber.StatusNotFound, "USER_NOT_FOUND", "User not found")
	ErrEmailExists       = New(fiber.StatusConflict, "EMAIL_EXISTS", "User with this email already exists")
	ErrPhoneExists       = New(fiber.StatusConflict, "PHONE_EXISTS", "User with this phone number already exists")
	ErrUniversityIDTaken = New(fiber.StatusConflict, "UNIVERSITY_ID_EXISTS", "User with this university id already exists")
	ErrUserNotVerified   = New(fiber.StatusUnauthorized, "USER_NOT_VERIFIED", "User is not verified")
	ErrIncorrectPassword = New(fiber.StatusUnauthorized, "INCORRECT_PASSWORD", "Incorrect password")
	ErrUnauthorized      = New(fiber.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized access")
	ErrForbiddenAccess   = New(fiber.StatusForbidden, "FORBIDDEN_ACCESS", "You do not have access to this resource")
	ErrTokenInvalid      = New(fiber.StatusUnauthorized, "TOKEN_INVALID", "Token is invalid or expired")
	ErrOtpNotFound       = New(fiber.StatusNotFound, "OTP_NOT_FOUND", "No OTP found for this user")
	ErrOtpExpired        = New(fiber.StatusUnauthorized, "OTP_EXPIRED", "OTP has expired")
	ErrOtpInvalid        = New(fiber.StatusUnauthorized, "OTP_INVALID", "OTP is invalid or already used")
)

// Validation reports a malformed input, naming the first offending field.
func Validation(message string) *Error {
	return New(fiber.StatusUnprocessableEntity, "VALIDATION", message)
}

// Dependency wraps persistence or vendor failures without leaking detail.
func Dependency() *Error {
	return New(fiber.StatusInternalServerError, "DEPENDENCY", "Internal Server Error")
}
