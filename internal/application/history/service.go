package history

import (
	"context"
	"errors"

	"unithrift-backend/internal/infrastructure/database"
	"unithrift-backend/internal/models"
	"unithrift-backend/internal/pkg/apperrors"
	"unithrift-backend/internal/pkg/constants"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service answers the completed-deal views: what a buyer bought, what a
// seller sold, and the audit timeline of a single listing.
type Service struct {
	DB *gorm.DB
}

// Purchases returns listings the buyer won, newest sale first.
// Soft-deleted listings still appear; the purchase happened.
func (s *Service) Purchases(ctx context.Context, buyerID uuid.UUID, page, pageSize int) ([]models.Listing, error) {
	var out []models.Listing
	err := s.DB.WithContext(ctx).
		Where("buyer_id = ? AND status = ?", buyerID, constants.ListingSold).
		Order("updated_at DESC").
		Scopes(database.Paginate(page, pageSize)).
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Sales returns the seller's completed sales, newest first.
func (s *Service) Sales(ctx context.Context, sellerID uuid.UUID, page, pageSize int) ([]models.Listing, error) {
	var out []models.Listing
	err := s.DB.WithContext(ctx).
		Where("seller_id = ? AND status = ?", sellerID, constants.ListingSold).
		Order("updated_at DESC").
		Scopes(database.Paginate(page, pageSize)).
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

// SoldDetail is the completed-deal view of one listing, enriched with
// the parties' names and the winning buyer's comments.
type SoldDetail struct {
	Listing    models.Listing `json:"listing"`
	SellerName string         `json:"seller_name"`
	BuyerName  string         `json:"buyer_name"`
	Comments   string         `json:"comments"`
}

// SoldDetails returns the enriched record of a completed sale. Only the
// two parties to the deal may read it.
func (s *Service) SoldDetails(ctx context.Context, callerID, listingID uuid.UUID) (*SoldDetail, error) {
	var listing models.Listing
	err := s.DB.WithContext(ctx).
		Where("listing_id = ? AND status = ?", listingID, constants.ListingSold).
		First(&listing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.ErrListingNotFound
	}
	if err != nil {
		return nil, err
	}
	if listing.BuyerID == nil {
		return nil, apperrors.ErrListingNotFound
	}
	if callerID != listing.SellerID && callerID != *listing.BuyerID {
		return nil, apperrors.ErrForbiddenAccess
	}

	var parties []models.User
	if err := s.DB.WithContext(ctx).
		Where("user_id IN ?", []uuid.UUID{listing.SellerID, *listing.BuyerID}).
		Find(&parties).Error; err != nil {
		return nil, err
	}
	out := &SoldDetail{Listing: listing}
	for _, p := range parties {
		if p.UserID == listing.SellerID {
			out.SellerName = p.FullName()
		}
		if p.UserID == *listing.BuyerID {
			out.BuyerName = p.FullName()
		}
	}

	var winning models.Interest
	err = s.DB.WithContext(ctx).
		Where("listing_id = ? AND buyer_id = ?", listingID, *listing.BuyerID).
		First(&winning).Error
	if err == nil {
		out.Comments = winning.Comments
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	return out, nil
}

// Timeline returns the event log of a listing, oldest first. Only the
// seller and admins may read it.
func (s *Service) Timeline(ctx context.Context, callerID uuid.UUID, isAdmin bool, listingID uuid.UUID) ([]models.ListingEvent, error) {
	var listing models.Listing
	err := s.DB.WithContext(ctx).Where("listing_id = ?", listingID).First(&listing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.ErrListingNotFound
	}
	if err != nil {
		return nil, err
	}
	if !isAdmin && listing.SellerID != callerID {
		return nil, apperrors.ErrForbiddenAccess
	}

	var events []models.ListingEvent
	err = s.DB.WithContext(ctx).
		Where("listing_id = ?", listingID).
		Order("created_at ASC").
		Find(&events).Error
	if err != nil {
		return nil, err
	}
	return events, nil
}
