package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Item is an admin-managed item category that listings reference.
type Item struct {
	ItemID          uuid.UUID `gorm:"column:item_id;type:uuid;primaryKey" json:"item_id"`
	ItemName        string    `gorm:"column:item_name;not null;index" json:"item_name"`
	ItemDescription string    `gorm:"column:item_description" json:"item_description"`
	IsDeleted       bool      `gorm:"column:is_deleted;not null;default:false" json:"is_deleted"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func (Item) TableName() string {
	return "items"
}

func (i *Item) BeforeCreate(tx *gorm.DB) error {
	if i.ItemID == uuid.Nil {
		i.ItemID = uuid.New()
	}
	return nil
}
