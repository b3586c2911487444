package accounts

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"unithrift-backend/internal/application/emails"
	"unithrift-backend/internal/application/tokens"
	"unithrift-backend/internal/infrastructure/database"
	"unithrift-backend/internal/models"
	"unithrift-backend/internal/pkg/apperrors"
	"unithrift-backend/internal/pkg/constants"
	"unithrift-backend/internal/pkg/validation"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const otpTTL = time.Hour

// Service handles student and admin account lifecycle: registration,
// OTP verification, login, password reset and profile management.
type Service struct {
	DB     *gorm.DB
	Tokens *tokens.Service
	Emails emails.Sender
}

// RegisterInput is the student sign-up payload.
type RegisterInput struct {
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	Address      string `json:"address"`
	University   string `json:"university"`
	UniversityID string `json:"university_id"`
	Password     string `json:"password"`
}

// UpdateProfileInput carries optional profile edits. Email, university
// and role are fixed at registration.
type UpdateProfileInput struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Phone     *string `json:"phone"`
	Address   *string `json:"address"`
}

// LoginResult is the login response payload.
type LoginResult struct {
	User   *models.User `json:"user"`
	Tokens *tokens.Pair `json:"tokens"`
}

// RegisterStudent creates an unverified student account and mails an OTP.
func (s *Service) RegisterStudent(ctx context.Context, in RegisterInput) (*models.User, error) {
	if !validation.IsValidName(in.FirstName) || !validation.IsValidName(in.LastName) {
		return nil, apperrors.Validation("First and last name are required")
	}
	if !validation.IsValidEmail(in.Email) {
		return nil, apperrors.Validation("Invalid email address")
	}
	if !validation.IsValidPassword(in.Password) {
		return nil, apperrors.Validation("Password must be at least 8 characters with a letter, digit and special character")
	}
	if err := s.checkUnique(ctx, in.Email, in.Phone, in.UniversityID); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	user := &models.User{
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Email:        in.Email,
		Phone:        in.Phone,
		Address:      in.Address,
		University:   in.University,
		UniversityID: in.UniversityID,
		UserType:     constants.RoleStudent,
		UserStatus:   constants.UserActive,
		PasswordHash: string(hash),
	}
	if err := s.DB.WithContext(ctx).Create(user).Error; err != nil {
		return nil, err
	}
	if err := s.issueOtp(ctx, user, constants.VerifyAuthentication); err != nil {
		log.Warn().Err(err).Str("user_id", user.UserID.String()).Msg("OTP email failed at registration")
	}
	return user, nil
}

// VerifyOtp checks a registration code and marks the account verified.
func (s *Service) VerifyOtp(ctx context.Context, email, code string) error {
	user, err := s.byEmail(ctx, email)
	if err != nil {
		return err
	}
	if err := s.consumeOtp(ctx, user.UserID, code, constants.VerifyAuthentication); err != nil {
		return err
	}
	return s.DB.WithContext(ctx).Model(user).Update("is_verified", true).Error
}

// ResendOtp replaces any pending code for the purpose and mails a new one.
func (s *Service) ResendOtp(ctx context.Context, email, purpose string) error {
	if purpose != constants.VerifyAuthentication && purpose != constants.VerifyForgotPassword {
		return apperrors.Validation("Unknown verification purpose")
	}
	user, err := s.byEmail(ctx, email)
	if err != nil {
		return err
	}
	return s.issueOtp(ctx, user, purpose)
}

// Login authenticates a verified account and issues a token pair.
func (s *Service) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := s.byEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, apperrors.ErrIncorrectPassword
	}
	if !user.IsVerified {
		return nil, apperrors.ErrUserNotVerified
	}
	if user.UserStatus != constants.UserActive {
		return nil, apperrors.ErrForbiddenAccess
	}

	pair, err := s.Tokens.IssuePair(ctx, user.UserID.String(), user.UserType)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	if err := s.DB.WithContext(ctx).Model(user).Update("last_login", now).Error; err != nil {
		return nil, err
	}
	user.LastLogin = &now
	return &LoginResult{User: user, Tokens: pair}, nil
}

// ForgotPassword mails a reset code. Unknown emails return success so the
// endpoint does not reveal whether an account exists.
func (s *Service) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.byEmail(ctx, email)
	if errors.Is(err, apperrors.ErrUserNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	return s.issueOtp(ctx, user, constants.VerifyForgotPassword)
}

// ResetPassword consumes a reset code and stores the new password.
func (s *Service) ResetPassword(ctx context.Context, email, code, newPassword string) error {
	if !validation.IsValidPassword(newPassword) {
		return apperrors.Validation("Password must be at least 8 characters with a letter, digit and special character")
	}
	user, err := s.byEmail(ctx, email)
	if err != nil {
		return err
	}
	if err := s.consumeOtp(ctx, user.UserID, code, constants.VerifyForgotPassword); err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.DB.WithContext(ctx).Model(user).Update("password_hash", string(hash)).Error
}

// GetProfile returns an account by id.
func (s *Service) GetProfile(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	var user models.User
	err := s.DB.WithContext(ctx).
		Where("user_id = ? AND is_deleted = ?", userID, false).
		First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateProfile applies partial edits to the caller's own account.
func (s *Service) UpdateProfile(ctx context.Context, userID uuid.UUID, in UpdateProfileInput) (*models.User, error) {
	user, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	updates := map[string]any{}
	if in.FirstName != nil {
		if !validation.IsValidName(*in.FirstName) {
			return nil, apperrors.Validation("First name is required")
		}
		updates["first_name"] = *in.FirstName
	}
	if in.LastName != nil {
		if !validation.IsValidName(*in.LastName) {
			return nil, apperrors.Validation("Last name is required")
		}
		updates["last_name"] = *in.LastName
	}
	if in.Phone != nil {
		updates["phone"] = *in.Phone
	}
	if in.Address != nil {
		updates["address"] = *in.Address
	}
	if len(updates) == 0 {
		return user, nil
	}
	if err := s.DB.WithContext(ctx).Model(user).Updates(updates).Error; err != nil {
		return nil, err
	}
	return s.GetProfile(ctx, userID)
}

// ListStudents returns student accounts for the admin console,
// optionally filtered by a name substring.
func (s *Service) ListStudents(ctx context.Context, search string, page, pageSize int) ([]models.User, error) {
	q := s.DB.WithContext(ctx).
		Where("user_type = ? AND is_deleted = ?", constants.RoleStudent, false)
	if search != "" {
		pattern := "%" + search + "%"
		q = q.Where("first_name LIKE ? OR last_name LIKE ?", pattern, pattern)
	}
	var out []models.User
	err := q.Order("created_at DESC").
		Scopes(database.Paginate(page, pageSize)).
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

// SetUserStatus activates or deactivates a student account.
func (s *Service) SetUserStatus(ctx context.Context, userID uuid.UUID, status string) error {
	if status != constants.UserActive && status != constants.UserInactive {
		return apperrors.Validation("Unknown user status")
	}
	res := s.DB.WithContext(ctx).Model(&models.User{}).
		Where("user_id = ? AND is_deleted = ?", userID, false).
		Update("user_status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrUserNotFound
	}
	return nil
}

func (s *Service) byEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := s.DB.WithContext(ctx).
		Where("email = ? AND is_deleted = ?", email, false).
		First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *Service) checkUnique(ctx context.Context, email, phone, universityID string) error {
	var count int64
	if err := s.DB.WithContext(ctx).Model(&models.User{}).
		Where("email = ?", email).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return apperrors.ErrEmailExists
	}
	if phone != "" {
		if err := s.DB.WithContext(ctx).Model(&models.User{}).
			Where("phone = ?", phone).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return apperrors.ErrPhoneExists
		}
	}
	if universityID != "" {
		if err := s.DB.WithContext(ctx).Model(&models.User{}).
			Where("university_id = ?", universityID).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return apperrors.ErrUniversityIDTaken
		}
	}
	return nil
}

// issueOtp invalidates earlier codes for the purpose, stores a fresh one
// and mails it.
func (s *Service) issueOtp(ctx context.Context, user *models.User, purpose string) error {
	code, err := generateCode()
	if err != nil {
		return err
	}
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Otp{}).
			Where("user_id = ? AND used_for = ? AND is_used = ?", user.UserID, purpose, false).
			Update("is_used", true).Error; err != nil {
			return err
		}
		return tx.Create(&models.Otp{
			UserID:  user.UserID,
			Code:    code,
			UsedFor: purpose,
			Expiry:  time.Now().Add(otpTTL),
		}).Error
	})
	if err != nil {
		return err
	}
	if s.Emails == nil {
		return nil
	}
	return s.Emails.SendOtp(user.FullName(), user.Email, code, purpose)
}

func (s *Service) consumeOtp(ctx context.Context, userID uuid.UUID, code, purpose string) error {
	var otp models.Otp
	err := s.DB.WithContext(ctx).
		Where("user_id = ? AND used_for = ? AND is_used = ?", userID, purpose, false).
		Order("created_at DESC").
		First(&otp).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.ErrOtpNotFound
	}
	if err != nil {
		return err
	}
	if time.Now().After(otp.Expiry) {
		return apperrors.ErrOtpExpired
	}
	if otp.Code != code {
		return apperrors.ErrOtpInvalid
	}
	return s.DB.WithContext(ctx).Model(&otp).Update("is_used", true).Error
}

func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
