package students

import (
	acctsvc "unithrift-backend/internal/application/accounts"
	"unithrift-backend/internal/application/tokens"
	"unithrift-backend/internal/middleware"
	"unithrift-backend/internal/pkg/constants"
	"unithrift-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Accounts *acctsvc.Service
	Tokens   *tokens.Service
}

// Register POST /api/v1/student/register
func (h *Handlers) Register(c *fiber.Ctx) error {
	var body acctsvc.RegisterInput
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "Invalid request body", 400, "")
	}
	user, err := h.Accounts.RegisterStudent(c.Context(), body)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.SuccessCreated(c, user)
}

// VerifyOtp POST /api/v1/student/verify_otp
func (h *Handlers) VerifyOtp(c *fiber.Ctx) error {
	var body struct {
		Email string `json:"email"`
		Code  string `json:"code"`
	}
	if err := c.BodyParser(&body); err != nil || body.Email == "" || body.Code == "" {
		return response.Error(c, "email and code are required", 400, "")
	}
	if err := h.Accounts.VerifyOtp(c.Context(), body.Email, body.Code); err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, fiber.Map{"message": "Account verified"})
}

// ResendOtp POST /api/v1/student/resend_otp
func (h *Handlers) ResendOtp(c *fiber.Ctx) error {
	var body struct {
		Email   string `json:"email"`
		Purpose string `json:"purpose"`
	}
	if err := c.BodyParser(&body); err != nil || body.Email == "" {
		return response.Error(c, "email is required", 400, "")
	}
	if body.Purpose == "" {
		body.Purpose = constants.VerifyAuthentication
	}
	if err := h.Accounts.ResendOtp(c.Context(), body.Email, body.Purpose); err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, fiber.Map{"message": "OTP sent"})
}

// Login POST /api/v1/student/login
func (h *Handlers) Login(c *fiber.Ctx) error {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&body); err != nil || body.Email == "" || body.Password == "" {
		return response.Error(c, "email and password are required", 400, "")
	}
	out, err := h.Accounts.Login(c.Context(), body.Email, body.Password)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, out)
}

// Refresh POST /api/v1/student/refresh_token
func (h *Handlers) Refresh(c *fiber.Ctx) error {
	var body struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := c.BodyParser(&body); err != nil || body.RefreshToken == "" {
		return response.Error(c, "refresh_token is required", 400, "")
	}
	pair, err := h.Tokens.Refresh(c.Context(), body.RefreshToken)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, pair)
}

// ForgotPassword POST /api/v1/student/forgot_password
func (h *Handlers) ForgotPassword(c *fiber.Ctx) error {
	var body struct {
		Email string `json:"email"`
	}
	if err := c.BodyParser(&body); err != nil || body.Email == "" {
		return response.Error(c, "email is required", 400, "")
	}
	if err := h.Accounts.ForgotPassword(c.Context(), body.Email); err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, fiber.Map{"message": "If the account exists, a reset code has been sent"})
}

// ResetPassword POST /api/v1/student/reset_password
func (h *Handlers) ResetPassword(c *fiber.Ctx) error {
	var body struct {
		Email    string `json:"email"`
		Code     string `json:"code"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&body); err != nil || body.Email == "" || body.Code == "" || body.Password == "" {
		return response.Error(c, "email, code and password are required", 400, "")
	}
	if err := h.Accounts.ResetPassword(c.Context(), body.Email, body.Code, body.Password); err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, fiber.Map{"message": "Password updated"})
}

// Profile GET /api/v1/student/profile
func (h *Handlers) Profile(c *fiber.Ctx) error {
	actor, ok := middleware.Auth(c)
	if !ok {
		return response.Unauthorized(c, "Missing authentication")
	}
	user, err := h.Accounts.GetProfile(c.Context(), actor.UserID)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, user)
}

// UpdateProfile PATCH /api/v1/student/profile
func (h *Handlers) UpdateProfile(c *fiber.Ctx) error {
	actor, ok := middleware.Auth(c)
	if !ok {
		return response.Unauthorized(c, "Missing authentication")
	}
	var body acctsvc.UpdateProfileInput
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "Invalid request body", 400, "")
	}
	user, err := h.Accounts.UpdateProfile(c.Context(), actor.UserID, body)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, user)
}
