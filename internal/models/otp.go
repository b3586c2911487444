package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Otp is a one-time code sent by mail for account verification or
// password reset. One row per (user, purpose); re-sending replaces it.
type Otp struct {
	OtpID     uuid.UUID `gorm:"column:otp_id;type:uuid;primaryKey" json:"otp_id"`
	UserID    uuid.UUID `gorm:"column:user_id;type:uuid;not null;index" json:"user_id"`
	Code      string    `gorm:"column:code;not null" json:"-"`
	UsedFor   string    `gorm:"column:used_for;type:varchar(30);not null" json:"used_for"`
	IsUsed    bool      `gorm:"column:is_used;not null;default:false" json:"is_used"`
	Expiry    time.Time `gorm:"column:expiry;not null" json:"expiry"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Otp) TableName() string {
	return "otps"
}

func (o *Otp) BeforeCreate(tx *gorm.DB) error {
	if o.OtpID == uuid.Nil {
		o.OtpID = uuid.New()
	}
	return nil
}
