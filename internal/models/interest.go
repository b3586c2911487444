package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Interest is one buyer's negotiation state against one listing.
//
// At most one record per (listing_id, buyer_id) pair is permitted; the
// duplicate check is application level, not a storage constraint. Records are
// created only in INTERESTED state, and SOLD/REJECTED are terminal.
type Interest struct {
	InterestID uuid.UUID `gorm:"column:interest_id;type:uuid;primaryKey" json:"interest_id"`
	ListingID  uuid.UUID `gorm:"column:listing_id;type:uuid;not null;index" json:"listing_id"`
	BuyerID    uuid.UUID `gorm:"column:buyer_id;type:uuid;not null;index" json:"buyer_id"`
	Status     string    `gorm:"column:status;type:varchar(20);not null" json:"status"`
	Comments   string    `gorm:"column:comments" json:"comments"`
	IsDeleted  bool      `gorm:"column:is_deleted;not null;default:false" json:"is_deleted"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (Interest) TableName() string {
	return "interests"
}

func (i *Interest) BeforeCreate(tx *gorm.DB) error {
	if i.InterestID == uuid.Nil {
		i.InterestID = uuid.New()
	}
	return nil
}
