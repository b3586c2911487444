package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Listing is one sellable posting for an item instance.
//
// Status moves only forward (NEW -> ON_HOLD -> SOLD) and never reverts from
// SOLD. BuyerID stays nil until the listing is SOLD, is set exactly once in
// the same transaction, and is immutable afterwards.
type Listing struct {
	ListingID   uuid.UUID      `gorm:"column:listing_id;type:uuid;primaryKey" json:"listing_id"`
	Title       string         `gorm:"column:title;not null" json:"title"`
	ItemID      uuid.UUID      `gorm:"column:item_id;type:uuid;not null;index" json:"item_id"`
	ItemName    string         `gorm:"column:item_name;not null;index" json:"item_name"`
	Description string         `gorm:"column:description;not null" json:"description"`
	Price       int64          `gorm:"column:price;not null" json:"price"`
	Images      datatypes.JSON `gorm:"column:images;type:json" json:"images"`
	Status      string         `gorm:"column:status;type:varchar(20);not null;default:'NEW'" json:"status"`
	SellerID    uuid.UUID      `gorm:"column:seller_id;type:uuid;not null;index" json:"seller_id"`
	BuyerID     *uuid.UUID     `gorm:"column:buyer_id;type:uuid" json:"buyer_id"`
	IsDeleted   bool           `gorm:"column:is_deleted;not null;default:false" json:"is_deleted"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

func (Listing) TableName() string {
	return "listings"
}

// BeforeCreate sets the UUID and an empty images array if not set.
func (l *Listing) BeforeCreate(tx *gorm.DB) error {
	if l.ListingID == uuid.Nil {
		l.ListingID = uuid.New()
	}
	if len(l.Images) == 0 {
		l.Images = datatypes.JSON([]byte("[]"))
	}
	return nil
}
