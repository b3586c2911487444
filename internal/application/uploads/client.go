package uploads

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"

	"unithrift-backend/internal/pkg/apperrors"
	"unithrift-backend/internal/pkg/validation"

	"github.com/google/uuid"
)

// Client produces presigned URLs against the object storage gateway.
// The gateway validates the HMAC signature over method, key and expiry,
// so no credential ever reaches the browser.
type Client struct {
	BaseURL    string
	Bucket     string
	SecretKey  string
	ExpirySecs int
}

// PresignedUpload is what the frontend needs to PUT an image directly
// to storage and later reference it on the listing.
type PresignedUpload struct {
	UploadURL string `json:"upload_url"`
	ImageURL  string `json:"image_url"`
	Key       string `json:"key"`
	ExpiresAt int64  `json:"expires_at"`
}

// PresignUpload builds the object key for a listing image and signs a
// one-time PUT URL for it. Keys embed the listing, uploader and time so
// uploads never collide.
func (c *Client) PresignUpload(listingID, userID uuid.UUID, fileName string) (*PresignedUpload, error) {
	ext, ok := extension(fileName)
	if !ok || !validation.IsValidFileExtension(ext) {
		return nil, apperrors.Validation("Unsupported image type")
	}
	key := fmt.Sprintf("%s_%s_%d.%s", listingID, userID, time.Now().Unix(), ext)
	expiresAt := time.Now().Add(time.Duration(c.ExpirySecs) * time.Second).Unix()
	return &PresignedUpload{
		UploadURL: c.sign("PUT", key, expiresAt),
		ImageURL:  fmt.Sprintf("%s/%s/%s", c.BaseURL, c.Bucket, key),
		Key:       key,
		ExpiresAt: expiresAt,
	}, nil
}

// PresignDownload signs a time-limited GET URL for an existing key.
func (c *Client) PresignDownload(key string) string {
	expiresAt := time.Now().Add(time.Duration(c.ExpirySecs) * time.Second).Unix()
	return c.sign("GET", key, expiresAt)
}

func (c *Client) sign(method, key string, expiresAt int64) string {
	mac := hmac.New(sha256.New, []byte(c.SecretKey))
	fmt.Fprintf(mac, "%s\n%s/%s\n%d", method, c.Bucket, key, expiresAt)
	sig := hex.EncodeToString(mac.Sum(nil))
	return fmt.Sprintf("%s/%s/%s?expires=%s&signature=%s",
		c.BaseURL, c.Bucket, key, strconv.FormatInt(expiresAt, 10), sig)
}

func extension(fileName string) (string, bool) {
	i := strings.LastIndexByte(fileName, '.')
	if i < 0 || i == len(fileName)-1 {
		return "", false
	}
	return strings.ToLower(fileName[i+1:]), true
}
