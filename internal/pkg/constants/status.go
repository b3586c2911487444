package constants

// User roles carried in the auth token.
const (
	RoleAdmin   = "ADMIN"
	RoleStudent = "STUDENT"
)

// Listing status values. Transitions only move forward: NEW -> ON_HOLD -> SOLD.
const (
	ListingNew    = "NEW"
	ListingOnHold = "ON_HOLD"
	ListingSold   = "SOLD"
)

// Interest status values. SOLD and REJECTED are terminal for a record.
const (
	InterestInterested   = "INTERESTED"
	InterestShareDetails = "SHARE_DETAILS"
	InterestSold         = "SOLD"
	InterestRejected     = "REJECTED"
)

// User account states.
const (
	UserActive   = "ACTIVE"
	UserInactive = "INACTIVE"
)

// Token types embedded in JWT claims.
const (
	TokenBearer  = "bearer"
	TokenRefresh = "refresh"
)

// OTP verification purposes.
const (
	VerifyAuthentication = "AUTHENTICATION"
	VerifyForgotPassword = "FORGOT_PASSWORD"
)

// Listing event types (audit trail).
const (
	EventInterestReceived = "INTEREST_RECEIVED"
	EventContactShared    = "CONTACT_SHARED"
	EventInterestRejected = "INTEREST_REJECTED"
	EventSold             = "SOLD"
)
