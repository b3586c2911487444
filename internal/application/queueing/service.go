package queueing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"unithrift-backend/internal/infrastructure/database"
	"unithrift-backend/internal/models"
	"unithrift-backend/internal/pkg/apperrors"
	"unithrift-backend/internal/pkg/constants"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Notifier delivers best-effort notifications to sellers. Failures are
// logged and never fail the operation that triggered them.
type Notifier interface {
	NotifySeller(ctx context.Context, sellerID uuid.UUID, message string) error
}

// Service implements the buyer/seller interaction flow on listings. All
// multi-row status changes run inside a single database transaction.
type Service struct {
	DB       *gorm.DB
	Notifier Notifier
}

// InterestedListing is a buyer's interest joined with listing details.
type InterestedListing struct {
	InterestID uuid.UUID `json:"interest_id"`
	ListingID  uuid.UUID `json:"listing_id"`
	Status     string    `json:"status"`
	Comments   string    `json:"comments"`
	Title      string    `json:"title"`
	Price      int64     `json:"price"`
	SellerID   uuid.UUID `json:"seller_id"`
}

// Interaction is one interest on a listing as seen by a participant.
// Seller contact details are only populated for a buyer whose interest
// has reached SHARE_DETAILS.
type Interaction struct {
	InterestID    uuid.UUID `json:"interest_id"`
	ListingID     uuid.UUID `json:"listing_id"`
	BuyerID       uuid.UUID `json:"buyer_id"`
	Status        string    `json:"status"`
	Comments      string    `json:"comments"`
	BuyerName     string    `json:"buyer_name,omitempty"`
	SellerName    string    `json:"seller_name,omitempty"`
	SellerEmail   string    `json:"seller_email,omitempty"`
	SellerPhone   string    `json:"seller_phone,omitempty"`
	ListingStatus string    `json:"listing_status"`
}

// MarkInterested records a buyer's interest in a listing. A buyer may
// hold at most one interest per listing, regardless of its status, and
// a seller cannot express interest in their own listing.
func (s *Service) MarkInterested(ctx context.Context, buyerID, listingID uuid.UUID, comments string) (*models.Interest, error) {
	listing, err := s.activeListing(ctx, listingID)
	if err != nil {
		return nil, err
	}
	if listing.SellerID == buyerID {
		return nil, apperrors.ErrSelfInterest
	}
	if listing.Status == constants.ListingSold {
		return nil, apperrors.ErrItemSold
	}

	var count int64
	if err := s.DB.WithContext(ctx).Model(&models.Interest{}).
		Where("listing_id = ? AND buyer_id = ?", listingID, buyerID).
		Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, apperrors.ErrDuplicateInterest
	}

	interest := &models.Interest{
		ListingID: listingID,
		BuyerID:   buyerID,
		Status:    constants.InterestInterested,
		Comments:  comments,
	}
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(interest).Error; err != nil {
			return err
		}
		return recordEvent(tx, listingID, constants.EventInterestReceived, buyerID, map[string]any{
			"interest_id": interest.InterestID,
		})
	})
	if err != nil {
		return nil, err
	}

	s.notify(ctx, listing.SellerID, fmt.Sprintf("A buyer is interested in your listing %q.", listing.Title))
	return interest, nil
}

// ShareContact moves an interest from INTERESTED to SHARE_DETAILS and
// places the listing on hold. Seller only.
func (s *Service) ShareContact(ctx context.Context, sellerID, listingID, interestID uuid.UUID) error {
	_, interest, err := s.guard(ctx, sellerID, listingID, interestID)
	if err != nil {
		return err
	}
	if interest.Status != constants.InterestInterested {
		return apperrors.New(409, "INVALID_STATE", "Interest is not in INTERESTED state")
	}

	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Listing{}).
			Where("listing_id = ? AND status <> ?", listingID, constants.ListingSold).
			Update("status", constants.ListingOnHold)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperrors.ErrItemSold
		}
		res = tx.Model(&models.Interest{}).
			Where("interest_id = ? AND status = ?", interestID, constants.InterestInterested).
			Update("status", constants.InterestShareDetails)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperrors.New(409, "INVALID_STATE", "Interest is not in INTERESTED state")
		}
		return recordEvent(tx, listingID, constants.EventContactShared, sellerID, map[string]any{
			"interest_id": interestID,
			"buyer_id":    interest.BuyerID,
		})
	})
}

// RejectInterest moves an INTERESTED interest to REJECTED. The listing
// itself is untouched; rejected buyers cannot express interest again.
// Once contact has been shared the record can only leave SHARE_DETAILS
// through MarkSaleComplete, as the winner or as a rejected sibling.
func (s *Service) RejectInterest(ctx context.Context, sellerID, listingID, interestID uuid.UUID) error {
	_, interest, err := s.guard(ctx, sellerID, listingID, interestID)
	if err != nil {
		return err
	}
	if interest.Status != constants.InterestInterested {
		return apperrors.New(409, "INVALID_STATE", "Interest is not in INTERESTED state")
	}

	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Interest{}).
			Where("interest_id = ? AND status = ?", interestID, constants.InterestInterested).
			Update("status", constants.InterestRejected)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperrors.New(409, "INVALID_STATE", "Interest is not in INTERESTED state")
		}
		return recordEvent(tx, listingID, constants.EventInterestRejected, sellerID, map[string]any{
			"interest_id": interestID,
			"buyer_id":    interest.BuyerID,
		})
	})
}

// MarkSaleComplete finalizes a sale to the buyer behind the given
// interest. The winning interest must be in SHARE_DETAILS. All sibling
// interests are rejected in the same transaction, and the listing is
// marked SOLD exactly once even under concurrent completion attempts.
func (s *Service) MarkSaleComplete(ctx context.Context, sellerID, listingID, interestID uuid.UUID) error {
	_, interest, err := s.guard(ctx, sellerID, listingID, interestID)
	if err != nil {
		return err
	}
	if interest.Status != constants.InterestShareDetails {
		return apperrors.New(409, "INVALID_STATE", "Interest is not in SHARE_DETAILS state")
	}

	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Listing{}).
			Where("listing_id = ? AND status <> ?", listingID, constants.ListingSold).
			Updates(map[string]any{
				"status":   constants.ListingSold,
				"buyer_id": interest.BuyerID,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperrors.ErrItemSold
		}
		res = tx.Model(&models.Interest{}).
			Where("interest_id = ? AND status = ?", interestID, constants.InterestShareDetails).
			Update("status", constants.InterestSold)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperrors.New(409, "INVALID_STATE", "Interest is not in SHARE_DETAILS state")
		}
		if err := tx.Model(&models.Interest{}).
			Where("listing_id = ? AND interest_id <> ? AND status IN ?", listingID, interestID,
				[]string{constants.InterestInterested, constants.InterestShareDetails}).
			Update("status", constants.InterestRejected).Error; err != nil {
			return err
		}
		return recordEvent(tx, listingID, constants.EventSold, sellerID, map[string]any{
			"interest_id": interestID,
			"buyer_id":    interest.BuyerID,
		})
	})
}

// GetInterestedListings returns the listings a buyer currently has an
// active interest in, newest first.
func (s *Service) GetInterestedListings(ctx context.Context, buyerID uuid.UUID, page, pageSize int) ([]InterestedListing, error) {
	var interests []models.Interest
	if err := s.DB.WithContext(ctx).
		Where("buyer_id = ? AND status IN ?", buyerID,
			[]string{constants.InterestInterested, constants.InterestShareDetails}).
		Order("created_at DESC").
		Scopes(database.Paginate(page, pageSize)).
		Find(&interests).Error; err != nil {
		return nil, err
	}
	if len(interests) == 0 {
		return []InterestedListing{}, nil
	}

	ids := make([]uuid.UUID, 0, len(interests))
	for _, in := range interests {
		ids = append(ids, in.ListingID)
	}
	var listings []models.Listing
	if err := s.DB.WithContext(ctx).Where("listing_id IN ?", ids).Find(&listings).Error; err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]models.Listing, len(listings))
	for _, l := range listings {
		byID[l.ListingID] = l
	}

	out := make([]InterestedListing, 0, len(interests))
	for _, in := range interests {
		l := byID[in.ListingID]
		out = append(out, InterestedListing{
			InterestID: in.InterestID,
			ListingID:  in.ListingID,
			Status:     in.Status,
			Comments:   in.Comments,
			Title:      l.Title,
			Price:      l.Price,
			SellerID:   l.SellerID,
		})
	}
	return out, nil
}

// GetListingInteractions returns the interests on a listing from the
// caller's perspective. The seller sees every interest with buyer names.
// A buyer sees only their own record, with seller contact details once
// the seller has shared them.
func (s *Service) GetListingInteractions(ctx context.Context, callerID, listingID uuid.UUID) ([]Interaction, error) {
	listing, err := s.activeListing(ctx, listingID)
	if err != nil {
		return nil, err
	}

	if listing.SellerID == callerID {
		return s.sellerView(ctx, listing)
	}
	return s.buyerView(ctx, callerID, listing)
}

func (s *Service) sellerView(ctx context.Context, listing *models.Listing) ([]Interaction, error) {
	var interests []models.Interest
	if err := s.DB.WithContext(ctx).
		Where("listing_id = ?", listing.ListingID).
		Order("created_at ASC").
		Find(&interests).Error; err != nil {
		return nil, err
	}
	if len(interests) == 0 {
		return []Interaction{}, nil
	}

	buyerIDs := make([]uuid.UUID, 0, len(interests))
	for _, in := range interests {
		buyerIDs = append(buyerIDs, in.BuyerID)
	}
	var buyers []models.User
	if err := s.DB.WithContext(ctx).Where("user_id IN ?", buyerIDs).Find(&buyers).Error; err != nil {
		return nil, err
	}
	names := make(map[uuid.UUID]string, len(buyers))
	for _, b := range buyers {
		names[b.UserID] = b.FullName()
	}

	out := make([]Interaction, 0, len(interests))
	for _, in := range interests {
		out = append(out, Interaction{
			InterestID:    in.InterestID,
			ListingID:     in.ListingID,
			BuyerID:       in.BuyerID,
			Status:        in.Status,
			Comments:      in.Comments,
			BuyerName:     names[in.BuyerID],
			ListingStatus: listing.Status,
		})
	}
	return out, nil
}

func (s *Service) buyerView(ctx context.Context, buyerID uuid.UUID, listing *models.Listing) ([]Interaction, error) {
	var interest models.Interest
	err := s.DB.WithContext(ctx).
		Where("listing_id = ? AND buyer_id = ?", listing.ListingID, buyerID).
		First(&interest).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.ErrInterestNotFound
	}
	if err != nil {
		return nil, err
	}

	out := Interaction{
		InterestID:    interest.InterestID,
		ListingID:     interest.ListingID,
		BuyerID:       interest.BuyerID,
		Status:        interest.Status,
		Comments:      interest.Comments,
		ListingStatus: listing.Status,
	}
	if interest.Status == constants.InterestShareDetails {
		var seller models.User
		if err := s.DB.WithContext(ctx).Where("user_id = ?", listing.SellerID).First(&seller).Error; err != nil {
			return nil, err
		}
		out.SellerName = seller.FullName()
		out.SellerEmail = seller.Email
		out.SellerPhone = seller.Phone
	}
	return []Interaction{out}, nil
}

// guard checks seller actions in a fixed order: the caller must own the
// listing, the listing must not already be sold, and the interest must
// exist on that listing. The first failing check is reported.
func (s *Service) guard(ctx context.Context, sellerID, listingID, interestID uuid.UUID) (*models.Listing, *models.Interest, error) {
	listing, err := s.activeListing(ctx, listingID)
	if err != nil {
		return nil, nil, err
	}
	if listing.SellerID != sellerID {
		return nil, nil, apperrors.ErrNotSeller
	}
	if listing.Status == constants.ListingSold {
		return nil, nil, apperrors.ErrItemSold
	}

	var interest models.Interest
	err = s.DB.WithContext(ctx).
		Where("interest_id = ? AND listing_id = ?", interestID, listingID).
		First(&interest).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, apperrors.ErrInterestNotFound
	}
	if err != nil {
		return nil, nil, err
	}
	return listing, &interest, nil
}

func (s *Service) activeListing(ctx context.Context, listingID uuid.UUID) (*models.Listing, error) {
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
	return &listing, nil
}

func (s *Service) notify(ctx context.Context, sellerID uuid.UUID, message string) {
	if s.Notifier == nil {
		return
	}
	if err := s.Notifier.NotifySeller(ctx, sellerID, message); err != nil {
		log.Warn().Err(err).Str("seller_id", sellerID.String()).Msg("Seller notification failed")
	}
}

func recordEvent(tx *gorm.DB, listingID uuid.UUID, eventType string, actorID uuid.UUID, data map[string]any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return tx.Create(&models.ListingEvent{
		ListingID: listingID,
		EventType: eventType,
		ActorID:   actorID,
		EventData: datatypes.JSON(payload),
	}).Error
}
