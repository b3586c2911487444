package listings

import (
	"context"
	"encoding/json"
	"errors"

	"unithrift-backend/internal/application/uploads"
	"unithrift-backend/internal/infrastructure/database"
	"unithrift-backend/internal/models"
	"unithrift-backend/internal/pkg/apperrors"
	"unithrift-backend/internal/pkg/constants"
	"unithrift-backend/internal/pkg/validation"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Service manages the listing catalog. Status transitions are owned by
// the queueing service; this one never writes the status column.
type Service struct {
	DB      *gorm.DB
	Uploads *uploads.Client
}

// CreateInput is the seller-supplied part of a new listing.
type CreateInput struct {
	Title       string    `json:"title"`
	ItemID      uuid.UUID `json:"item_id"`
	Description string    `json:"description"`
	Price       int64     `json:"price"`
	Images      []string  `json:"images"`
}

// UpdateInput carries optional seller edits. Nil fields are untouched.
// Status is deliberately absent: it only moves through the interaction flow.
type UpdateInput struct {
	Title       *string   `json:"title"`
	Description *string   `json:"description"`
	Price       *int64    `json:"price"`
	Images      *[]string `json:"images"`
}

// BrowseFilter narrows the public catalog query.
type BrowseFilter struct {
	ItemID   *uuid.UUID
	MinPrice *int64
	MaxPrice *int64
	Search   string
	Page     int
	PageSize int
}

// Create validates input against the item catalog and stores a NEW listing.
func (s *Service) Create(ctx context.Context, sellerID uuid.UUID, in CreateInput) (*models.Listing, error) {
	if !validation.IsValidLength(in.Title, 1, 120) {
		return nil, apperrors.Validation("Title must be between 1 and 120 characters")
	}
	if in.Price <= 0 {
		return nil, apperrors.Validation("Price must be positive")
	}

	var item models.Item
	err := s.DB.WithContext(ctx).
		Where("item_id = ? AND is_deleted = ?", in.ItemID, false).
		First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.ErrItemNotFound
	}
	if err != nil {
		return nil, err
	}

	images, err := encodeImages(in.Images)
	if err != nil {
		return nil, err
	}
	listing := &models.Listing{
		Title:       in.Title,
		ItemID:      item.ItemID,
		ItemName:    item.ItemName,
		Description: in.Description,
		Price:       in.Price,
		Images:      images,
		Status:      constants.ListingNew,
		SellerID:    sellerID,
	}
	if err := s.DB.WithContext(ctx).Create(listing).Error; err != nil {
		return nil, err
	}
	return listing, nil
}

// Browse returns active listings from other sellers, newest first. Sold
// and soft-deleted listings never appear here.
func (s *Service) Browse(ctx context.Context, callerID uuid.UUID, f BrowseFilter) ([]models.Listing, error) {
	q := s.DB.WithContext(ctx).Model(&models.Listing{}).
		Where("is_deleted = ?", false).
		Where("status <> ?", constants.ListingSold).
		Where("seller_id <> ?", callerID)
	if f.ItemID != nil {
		q = q.Where("item_id = ?", *f.ItemID)
	}
	if f.MinPrice != nil {
		q = q.Where("price >= ?", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		q = q.Where("price <= ?", *f.MaxPrice)
	}
	if f.Search != "" {
		pattern := "%" + f.Search + "%"
		q = q.Where("title LIKE ? OR description LIKE ?", pattern, pattern)
	}

	var out []models.Listing
	if err := q.Order("updated_at DESC").
		Scopes(database.Paginate(f.Page, f.PageSize)).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// GetByID fetches a single listing. Soft-deleted listings stay
// addressable by id so existing interests can still render them.
func (s *Service) GetByID(ctx context.Context, listingID uuid.UUID) (*models.Listing, error) {
	var listing models.Listing
	err := s.DB.WithContext(ctx).Where("listing_id = ?", listingID).First(&listing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.ErrListingNotFound
	}
	if err != nil {
		return nil, err
	}
	return &listing, nil
}

// MyListings returns a seller's own listings, including those on hold
// and sold, but not soft-deleted ones.
func (s *Service) MyListings(ctx context.Context, sellerID uuid.UUID, page, pageSize int) ([]models.Listing, error) {
	var out []models.Listing
	err := s.DB.WithContext(ctx).
		Where("seller_id = ? AND is_deleted = ?", sellerID, false).
		Order("updated_at DESC").
		Scopes(database.Paginate(page, pageSize)).
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Update applies seller edits to an unsold listing they own.
func (s *Service) Update(ctx context.Context, sellerID, listingID uuid.UUID, in UpdateInput) (*models.Listing, error) {
	listing, err := s.ownedUnsold(ctx, sellerID, listingID)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if in.Title != nil {
		if !validation.IsValidLength(*in.Title, 1, 120) {
			return nil, apperrors.Validation("Title must be between 1 and 120 characters")
		}
		updates["title"] = *in.Title
	}
	if in.Description != nil {
		updates["description"] = *in.Description
	}
	if in.Price != nil {
		if *in.Price <= 0 {
			return nil, apperrors.Validation("Price must be positive")
		}
		updates["price"] = *in.Price
	}
	if in.Images != nil {
		images, err := encodeImages(*in.Images)
		if err != nil {
			return nil, err
		}
		updates["images"] = images
	}
	if len(updates) == 0 {
		return listing, nil
	}

	if err := s.DB.WithContext(ctx).Model(listing).Updates(updates).Error; err != nil {
		return nil, err
	}
	return s.GetByID(ctx, listingID)
}

// SoftDelete hides a listing from browse and my-listings queries. Sold
// listings cannot be deleted; the sale record stays visible.
func (s *Service) SoftDelete(ctx context.Context, sellerID, listingID uuid.UUID) error {
	if _, err := s.ownedUnsold(ctx, sellerID, listingID); err != nil {
		return err
	}
	return s.markDeleted(ctx, listingID)
}

// AdminSoftDelete removes any unsold listing regardless of owner.
func (s *Service) AdminSoftDelete(ctx context.Context, listingID uuid.UUID) error {
	listing, err := s.GetByID(ctx, listingID)
	if err != nil {
		return err
	}
	if listing.Status == constants.ListingSold {
		return apperrors.ErrListingSold
	}
	return s.markDeleted(ctx, listingID)
}

func (s *Service) markDeleted(ctx context.Context, listingID uuid.UUID) error {
	return s.DB.WithContext(ctx).Model(&models.Listing{}).
		Where("listing_id = ?", listingID).
		Update("is_deleted", true).Error
}

// ImageUploadURL presigns an upload slot for a listing the caller owns
// and records the new key on the listing in the same transaction, so a
// signed URL always corresponds to a referenced image.
func (s *Service) ImageUploadURL(ctx context.Context, sellerID, listingID uuid.UUID, fileName string) (*uploads.PresignedUpload, error) {
	if _, err := s.ownedUnsold(ctx, sellerID, listingID); err != nil {
		return nil, err
	}
	presigned, err := s.Uploads.PresignUpload(listingID, sellerID, fileName)
	if err != nil {
		return nil, err
	}

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var listing models.Listing
		if err := tx.Where("listing_id = ?", listingID).First(&listing).Error; err != nil {
			return err
		}
		var images []string
		if len(listing.Images) > 0 {
			if err := json.Unmarshal(listing.Images, &images); err != nil {
				return err
			}
		}
		images = append(images, presigned.Key)
		raw, err := json.Marshal(images)
		if err != nil {
			return err
		}
		return tx.Model(&listing).Update("images", datatypes.JSON(raw)).Error
	})
	if err != nil {
		return nil, err
	}
	return presigned, nil
}

// ImageURL signs a time-limited GET URL for an image key already
// attached to the listing. Soft-deleted listings keep serving their
// images so existing interests can still render them.
func (s *Service) ImageURL(ctx context.Context, listingID uuid.UUID, key string) (string, error) {
	listing, err := s.GetByID(ctx, listingID)
	if err != nil {
		return "", err
	}
	var images []string
	if len(listing.Images) > 0 {
		if err := json.Unmarshal(listing.Images, &images); err != nil {
			return "", err
		}
	}
	for _, k := range images {
		if k == key {
			return s.Uploads.PresignDownload(key), nil
		}
	}
	return "", apperrors.New(404, "IMAGE_NOT_FOUND", "Image is not attached to this listing")
}

func (s *Service) ownedUnsold(ctx context.Context, sellerID, listingID uuid.UUID) (*models.Listing, error) {
	var listing models.Listing
	err := s.DB.WithContext(ctx).
		Where("listing_id = ? AND is_deleted = ?", listingID, false).
		First(&listing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.ErrListingNotFound
	}
	if err != nil {
		return nil, err
	}
	if listing.SellerID != sellerID {
		return nil, apperrors.ErrNotSeller
	}
	if listing.Status == constants.ListingSold {
		return nil, apperrors.ErrListingSold
	}
	return &listing, nil
}

func encodeImages(images []string) (datatypes.JSON, error) {
	if images == nil {
		images = []string{}
	}
	raw, err := json.Marshal(images)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(raw), nil
}
