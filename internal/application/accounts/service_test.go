package accounts

import (
	"context"
	"testing"
	"time"

	"unithrift-backend/internal/application/emails"
	"unithrift-backend/internal/application/tokens"
	"unithrift-backend/internal/models"
	"unithrift-backend/internal/pkg/apperrors"
	"unithrift-backend/internal/pkg/constants"

	"github.com/alicebob/miniredis/v2"
	"github.com/glebarez/sqlite"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type capturingSender struct {
	lastCode    string
	lastPurpose string
}

func (c *capturingSender) SendOtp(toName, toEmail, code, purpose string) error {
	c.lastCode = code
	c.lastPurpose = purpose
	return nil
}

var _ emails.Sender = (*capturingSender)(nil)

func setupAccountsTest(t *testing.T) (*Service, *capturingSender, *gorm.DB) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Otp{}))

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	sender := &capturingSender{}
	svc := &Service{
		DB:     db,
		Tokens: &tokens.Service{Secret: "test-secret", Rdb: rdb},
		Emails: sender,
	}
	return svc, sender, db
}

func validRegistration() RegisterInput {
	return RegisterInput{
		FirstName:    "Ada",
		LastName:     "Lovelace",
		Email:        "ada@uni.edu",
		Phone:        "+15550101",
		University:   "Analytical University",
		UniversityID: "AU-1815",
		Password:     "S3cret!pass",
	}
}

func TestRegisterStudent_CreatesUnverifiedAccount(t *testing.T) {
	svc, sender, _ := setupAccountsTest(t)

	user, err := svc.RegisterStudent(context.Background(), validRegistration())
	require.NoError(t, err)
	assert.Equal(t, constants.RoleStudent, user.UserType)
	assert.False(t, user.IsVerified)
	assert.NotEmpty(t, sender.lastCode)
	assert.Equal(t, constants.VerifyAuthentication, sender.lastPurpose)
}

func TestRegisterStudent_WeakPassword(t *testing.T) {
	svc, _, _ := setupAccountsTest(t)
	in := validRegistration()
	in.Password = "short"

	_, err := svc.RegisterStudent(context.Background(), in)
	require.Error(t, err)
	e := apperrors.As(err)
	require.NotNil(t, e)
	assert.Equal(t, "VALIDATION", e.Code)
}

func TestRegisterStudent_DuplicateEmail(t *testing.T) {
	svc, _, _ := setupAccountsTest(t)
	_, err := svc.RegisterStudent(context.Background(), validRegistration())
	require.NoError(t, err)

	in := validRegistration()
	in.Phone = "+15550102"
	in.UniversityID = "AU-1816"
	_, err = svc.RegisterStudent(context.Background(), in)
	assert.ErrorIs(t, err, apperrors.ErrEmailExists)
}

func TestVerifyOtp_MarksVerified(t *testing.T) {
	svc, sender, db := setupAccountsTest(t)
	user, err := svc.RegisterStudent(context.Background(), validRegistration())
	require.NoError(t, err)

	require.NoError(t, svc.VerifyOtp(context.Background(), user.Email, sender.lastCode))

	var stored models.User
	require.NoError(t, db.First(&stored, "user_id = ?", user.UserID).Error)
	assert.True(t, stored.IsVerified)
}

func TestVerifyOtp_WrongCode(t *testing.T) {
	svc, _, _ := setupAccountsTest(t)
	user, err := svc.RegisterStudent(context.Background(), validRegistration())
	require.NoError(t, err)

	err = svc.VerifyOtp(context.Background(), user.Email, "000000")
	assert.ErrorIs(t, err, apperrors.ErrOtpInvalid)
}

func TestVerifyOtp_CodeCannotBeReused(t *testing.T) {
	svc, sender, _ := setupAccountsTest(t)
	user, err := svc.RegisterStudent(context.Background(), validRegistration())
	require.NoError(t, err)

	require.NoError(t, svc.VerifyOtp(context.Background(), user.Email, sender.lastCode))
	err = svc.VerifyOtp(context.Background(), user.Email, sender.lastCode)
	assert.ErrorIs(t, err, apperrors.ErrOtpNotFound)
}

func TestVerifyOtp_Expired(t *testing.T) {
	svc, sender, db := setupAccountsTest(t)
	user, err := svc.RegisterStudent(context.Background(), validRegistration())
	require.NoError(t, err)

	require.NoError(t, db.Model(&models.Otp{}).
		Where("user_id = ?", user.UserID).
		Update("expiry", time.Now().Add(-time.Minute)).Error)

	err = svc.VerifyOtp(context.Background(), user.Email, sender.lastCode)
	assert.ErrorIs(t, err, apperrors.ErrOtpExpired)
}

func TestLogin_Flow(t *testing.T) {
	svc, sender, _ := setupAccountsTest(t)
	user, err := svc.RegisterStudent(context.Background(), validRegistration())
	require.NoError(t, err)

	// Unverified accounts cannot log in.
	_, err = svc.Login(context.Background(), user.Email, "S3cret!pass")
	assert.ErrorIs(t, err, apperrors.ErrUserNotVerified)

	require.NoError(t, svc.VerifyOtp(context.Background(), user.Email, sender.lastCode))

	_, err = svc.Login(context.Background(), user.Email, "wrong-password")
	assert.ErrorIs(t, err, apperrors.ErrIncorrectPassword)

	out, err := svc.Login(context.Background(), user.Email, "S3cret!pass")
	require.NoError(t, err)
	assert.NotEmpty(t, out.Tokens.AccessToken)
	assert.NotNil(t, out.User.LastLogin)
}

func TestLogin_InactiveAccountRefused(t *testing.T) {
	svc, sender, _ := setupAccountsTest(t)
	user, err := svc.RegisterStudent(context.Background(), validRegistration())
	require.NoError(t, err)
	require.NoError(t, svc.VerifyOtp(context.Background(), user.Email, sender.lastCode))
	require.NoError(t, svc.SetUserStatus(context.Background(), user.UserID, constants.UserInactive))

	_, err = svc.Login(context.Background(), user.Email, "S3cret!pass")
	assert.ErrorIs(t, err, apperrors.ErrForbiddenAccess)
}

func TestResetPassword_Flow(t *testing.T) {
	svc, sender, _ := setupAccountsTest(t)
	user, err := svc.RegisterStudent(context.Background(), validRegistration())
	require.NoError(t, err)
	require.NoError(t, svc.VerifyOtp(context.Background(), user.Email, sender.lastCode))

	require.NoError(t, svc.ForgotPassword(context.Background(), user.Email))
	assert.Equal(t, constants.VerifyForgotPassword, sender.lastPurpose)

	require.NoError(t, svc.ResetPassword(context.Background(), user.Email, sender.lastCode, "N3w!password"))

	_, err = svc.Login(context.Background(), user.Email, "S3cret!pass")
	assert.ErrorIs(t, err, apperrors.ErrIncorrectPassword)
	_, err = svc.Login(context.Background(), user.Email, "N3w!password")
	assert.NoError(t, err)
}

func TestForgotPassword_UnknownEmailSilent(t *testing.T) {
	svc, _, _ := setupAccountsTest(t)
	assert.NoError(t, svc.ForgotPassword(context.Background(), "nobody@uni.edu"))
}

func TestUpdateProfile_PartialEdit(t *testing.T) {
	svc, _, _ := setupAccountsTest(t)
	user, err := svc.RegisterStudent(context.Background(), validRegistration())
	require.NoError(t, err)

	phone := "+15550199"
	updated, err := svc.UpdateProfile(context.Background(), user.UserID, UpdateProfileInput{Phone: &phone})
	require.NoError(t, err)
	assert.Equal(t, phone, updated.Phone)
	assert.Equal(t, user.FirstName, updated.FirstName)
}

func TestListStudents_ExcludesAdmins(t *testing.T) {
	svc, _, db := setupAccountsTest(t)
	_, err := svc.RegisterStudent(context.Background(), validRegistration())
	require.NoError(t, err)
	require.NoError(t, db.Create(&models.User{
		FirstName: "Root", LastName: "Admin", Email: "admin@unithrift.app",
		UserType: constants.RoleAdmin, UserStatus: constants.UserActive,
		IsVerified: true, PasswordHash: "x",
	}).Error)

	out, err := svc.ListStudents(context.Background(), "", 1, 10)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, constants.RoleStudent, out[0].UserType)
}
