package flow

import "github.com/chirchiq/estate-bot/internal/model"

// Effect is a side effect requested by Transition and carried out by the Engine.
type Effect interface {
	effect()
}

// CreateAd persists the completed draft as a pending listing.
type CreateAd struct {
	Draft ListingDraft
}

// CreatePendingPayment records the chosen plan before any proof is supplied.
// The engine writes the new payment id and reference back into Draft.
type CreatePendingPayment struct {
	Draft *PaymentDraft
}

// AttachReceipt links the uploaded receipt to a pending payment.
type AttachReceipt struct {
	PaymentID int64
	FileID    string
}

// CancelPayment abandons a pending payment.
type CancelPayment struct {
	PaymentID int64
}

// UpdateUserRole switches the user's role. A positive TrialDays also starts
// the role's free trial.
type UpdateUserRole struct {
	Role      model.Role
	TrialDays int
}

type UpdateUserLanguage struct {
	Language model.Language
}

// NotifyNewListing tells the admin about the ad created by the preceding
// CreateAd effect.
type NotifyNewListing struct{}

// NotifyNewPayment tells the admin a receipt was uploaded.
type NotifyNewPayment struct {
	PaymentID int64
	FileID    string
}

func (CreateAd) effect()             {}
func (CreatePendingPayment) effect() {}
func (AttachReceipt) effect()        {}
func (CancelPayment) effect()        {}
func (UpdateUserRole) effect()       {}
func (UpdateUserLanguage) effect()   {}
func (NotifyNewListing) effect()     {}
func (NotifyNewPayment) effect()     {}
