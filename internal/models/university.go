package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// University is a reference row for the registration dropdown.
type University struct {
	UniversityID uuid.UUID `gorm:"column:university_id;type:uuid;primaryKey" json:"university_id"`
	Name         string    `gorm:"column:name;not null;index" json:"name"`
	IsDeleted    bool      `gorm:"column:is_deleted;not null;default:false" json:"is_deleted"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (University) TableName() string {
	return "universities"
}

func (u *University) BeforeCreate(tx *gorm.DB) error {
	if u.UniversityID == uuid.Nil {
		u.UniversityID = uuid.New()
	}
	return nil
}
