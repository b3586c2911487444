package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is a student or admin account.
type User struct {
	UserID       uuid.UUID  `gorm:"column:user_id;type:uuid;primaryKey" json:"user_id"`
	FirstName    string     `gorm:"column:first_name;not null" json:"first_name"`
	LastName     string     `gorm:"column:last_name;not null" json:"last_name"`
	Email        string     `gorm:"column:email;not null;uniqueIndex" json:"email"`
	Phone        string     `gorm:"column:phone" json:"phone"`
	Address      string     `gorm:"column:address" json:"address"`
	University   string     `gorm:"column:university" json:"university"`
	UniversityID string     `gorm:"column:university_id" json:"university_id"`
	UserType     string     `gorm:"column:user_type;type:varchar(20);not null" json:"user_type"`
	UserStatus   string     `gorm:"column:user_status;type:varchar(20);not null;default:'ACTIVE'" json:"user_status"`
	IsVerified   bool       `gorm:"column:is_verified;not null;default:false" json:"is_verified"`
	PasswordHash string     `gorm:"column:password_hash;not null" json:"-"`
	LastLogin    *time.Time `gorm:"column:last_login" json:"last_login"`
	IsDeleted    bool       `gorm:"column:is_deleted;not null;default:false" json:"is_deleted"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.UserID == uuid.Nil {
		u.UserID = uuid.New()
	}
	return nil
}

// FullName joins first and last name for display fields.
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}
