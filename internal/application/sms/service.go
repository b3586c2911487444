package sms

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"unithrift-backend/internal/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// Sender delivers a text message to a phone number.
type Sender interface {
	Send(ctx context.Context, phone, message string) error
}

// TwilioSender posts to the Twilio Messages API over plain HTTP.
type TwilioSender struct {
	AccountSID   string
	AuthToken    string
	MessagingSID string
	HTTPClient   *http.Client
}

func (t *TwilioSender) Send(ctx context.Context, phone, message string) error {
	form := url.Values{}
	form.Set("To", phone)
	form.Set("MessagingServiceSid", t.MessagingSID)
	form.Set("Body", message)

	endpoint := fmt.Sprintf("https://api.twilio.com/2010-04-01/Accounts/%s/Messages.json", t.AccountSID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.SetBasicAuth(t.AccountSID, t.AuthToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	client := t.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return fmt.Errorf("twilio returned status %d", resp.StatusCode)
	}
	return nil
}

// SellerNotifier looks up a seller's phone number and texts them. It
// satisfies the queueing service's notifier contract.
type SellerNotifier struct {
	DB     *gorm.DB
	Sender Sender
}

func (n *SellerNotifier) NotifySeller(ctx context.Context, sellerID uuid.UUID, message string) error {
	if n.Sender == nil {
		return nil
	}
	var seller models.User
	err := n.DB.WithContext(ctx).Where("user_id = ?", sellerID).First(&seller).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if seller.Phone == "" {
		log.Debug().Str("seller_id", sellerID.String()).Msg("Seller has no phone number, skipping SMS")
		return nil
	}
	return n.Sender.Send(ctx, seller.Phone, message)
}
