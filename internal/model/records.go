package model

import "time"

// ListingLifetime is how long a listing stays active. Expiry is computed
// from the creation time when read, never swept.
const ListingLifetime = 30 * 24 * time.Hour

// FreeRoleListingLimit caps simultaneously active listings for free roles.
const FreeRoleListingLimit = 5

// MaxListingPhotos is the most photos a listing can carry.
const MaxListingPhotos = 10

// MaxTitleLength is measured in characters, not bytes.
const MaxTitleLength = 100

// Language is a supported interface language.
type Language string

const (
	LangRussian Language = "ru"
	LangUzbek   Language = "uz"
	LangEnglish Language = "en"
)

// DefaultLanguage is used when a user has no valid language set.
const DefaultLanguage = LangRussian

// AllLanguages lists languages in menu order.
var AllLanguages = []Language{LangUzbek, LangRussian, LangEnglish}

// Valid reports whether l is a supported language.
func (l Language) Valid() bool {
	switch l {
	case LangRussian, LangUzbek, LangEnglish:
		return true
	}
	return false
}

// PropertyType is the category a listing is filed under.
type PropertyType string

const (
	PropertyRental         PropertyType = "rental"
	PropertyDailyRental    PropertyType = "daily_rental"
	PropertyGarages        PropertyType = "garages"
	PropertyApartments     PropertyType = "apartments"
	PropertyHouses         PropertyType = "houses"
	PropertyCommercial     PropertyType = "commercial"
	PropertyDeveloperHomes PropertyType = "developer_homes"
	PropertyLand           PropertyType = "land"
)

// AllPropertyTypes lists property types in menu order.
var AllPropertyTypes = []PropertyType{
	PropertyRental,
	PropertyDailyRental,
	PropertyGarages,
	PropertyApartments,
	PropertyHouses,
	PropertyCommercial,
	PropertyDeveloperHomes,
	PropertyLand,
}

// Valid reports whether t is a known property type.
func (t PropertyType) Valid() bool {
	for _, known := range AllPropertyTypes {
		if t == known {
			return true
		}
	}
	return false
}

// User is a registered bot user keyed by Telegram ID.
type User struct {
	ID                int64
	FirstName         string
	Username          string
	Role              Role
	Language          Language
	Currency          string
	SubscriptionStart *time.Time
	SubscriptionEnd   *time.Time
	TrialUsed         bool
	ExpiryRemindedFor *time.Time
	CreatedAt         time.Time
}

// HasActiveSubscription is always true for free roles. Paid roles need a
// subscription ending after now.
func (u *User) HasActiveSubscription(now time.Time) bool {
	if !u.Role.IsPaid() {
		return true
	}
	return u.SubscriptionEnd != nil && u.SubscriptionEnd.After(now)
}

// SubscriptionDaysLeft returns whole days until the subscription ends, or 0.
func (u *User) SubscriptionDaysLeft(now time.Time) int {
	if u.SubscriptionEnd == nil || !u.SubscriptionEnd.After(now) {
		return 0
	}
	return int(u.SubscriptionEnd.Sub(now).Hours() / 24)
}

// Lang returns the user's language or the default when unset.
func (u *User) Lang() Language {
	if u == nil || !u.Language.Valid() {
		return DefaultLanguage
	}
	return u.Language
}

// AdStatus is the moderation state of a listing.
type AdStatus string

const (
	AdStatusPending  AdStatus = "pending"
	AdStatusApproved AdStatus = "approved"
	AdStatusRejected AdStatus = "rejected"
)

// Ad is a persisted listing.
type Ad struct {
	ID          int64
	UserID      int64
	Type        PropertyType
	Title       string
	Description string
	Price       float64
	Currency    string
	Location    string
	Photos      []string
	Status      AdStatus
	CreatedAt   time.Time
}

// ExpiresAt returns when the listing stops counting as active.
func (a *Ad) ExpiresAt() time.Time {
	return a.CreatedAt.Add(ListingLifetime)
}

// IsActive reports whether the listing is live or awaiting moderation and
// has not expired.
func (a *Ad) IsActive(now time.Time) bool {
	if a.Status == AdStatusRejected {
		return false
	}
	return now.Before(a.ExpiresAt())
}

// PaymentStatus tracks a manual bank-transfer payment.
type PaymentStatus string

const (
	PaymentPending         PaymentStatus = "pending"
	PaymentReceiptUploaded PaymentStatus = "receipt_uploaded"
	PaymentCancelled       PaymentStatus = "cancelled"
)

// Payment is a subscription purchase awaiting admin review.
type Payment struct {
	ID            int64
	UserID        int64
	Role          Role
	Plan          Plan
	Amount        float64
	Currency      string
	DurationDays  int
	Reference     string
	ReceiptFileID string
	ReceiptHash   string
	Status        PaymentStatus
	CreatedAt     time.Time
}
