package flow

import (
	"github.com/chirchiq/estate-bot/internal/analyzer"
	"github.com/chirchiq/estate-bot/internal/model"
)

// Stage is where a user currently is in a dialogue.
type Stage int

const (
	StageIdle Stage = iota

	// Onboarding and profile
	StageSelectingLanguage
	StageSelectingRole
	StageConfirmingRoleChange

	// Listing creation
	StageSelectingType
	StageEnteringTitle
	StageEnteringDescription
	StageAnalyzerReview
	StagePriceConfirmation
	StageEnteringPrice
	StageEnteringLocation
	StageCollectingPhotos
	StagePreview
	StageEditMenu

	// Subscription purchase
	StagePlanSelection
	StagePaymentInstructions
	StageAwaitingReceipt
)

func (s Stage) String() string {
	switch s {
	case StageIdle:
		return "Idle"
	case StageSelectingLanguage:
		return "SelectingLanguage"
	case StageSelectingRole:
		return "SelectingRole"
	case StageConfirmingRoleChange:
		return "ConfirmingRoleChange"
	case StageSelectingType:
		return "SelectingType"
	case StageEnteringTitle:
		return "EnteringTitle"
	case StageEnteringDescription:
		return "EnteringDescription"
	case StageAnalyzerReview:
		return "AnalyzerReview"
	case StagePriceConfirmation:
		return "PriceConfirmation"
	case StageEnteringPrice:
		return "EnteringPrice"
	case StageEnteringLocation:
		return "EnteringLocation"
	case StageCollectingPhotos:
		return "CollectingPhotos"
	case StagePreview:
		return "Preview"
	case StageEditMenu:
		return "EditMenu"
	case StagePlanSelection:
		return "PlanSelection"
	case StagePaymentInstructions:
		return "PaymentInstructions"
	case StageAwaitingReceipt:
		return "AwaitingReceipt"
	default:
		return "Unknown"
	}
}

// IsListing reports whether s belongs to the listing creation flow.
func (s Stage) IsListing() bool {
	return s >= StageSelectingType && s <= StageEditMenu
}

// IsSubscription reports whether s belongs to the subscription purchase flow.
func (s Stage) IsSubscription() bool {
	return s >= StagePlanSelection && s <= StageAwaitingReceipt
}

// ListingDraft collects listing fields while the user walks through the flow.
type ListingDraft struct {
	Type        model.PropertyType `json:"type,omitempty"`
	Title       string             `json:"title,omitempty"`
	Description string             `json:"description,omitempty"`
	Price       float64            `json:"price,omitempty"`
	Location    string             `json:"location,omitempty"`
	Photos      []string           `json:"photos,omitempty"`

	// Analysis is the result for the current description.
	Analysis *analyzer.Result `json:"analysis,omitempty"`

	// Editing is set when a single field is being changed from the preview.
	// Finishing that field returns to the preview.
	Editing bool `json:"editing,omitempty"`
}

// Complete reports whether every required field is present. Photos are optional.
func (d *ListingDraft) Complete() bool {
	return d != nil &&
		d.Type.Valid() &&
		d.Title != "" &&
		d.Description != "" &&
		d.Price > 0 &&
		d.Location != ""
}

// PaymentDraft tracks a subscription purchase in progress.
type PaymentDraft struct {
	TargetRole   model.Role `json:"targetRole"`
	Plan         model.Plan `json:"plan,omitempty"`
	Amount       float64    `json:"amount,omitempty"`
	DurationDays int        `json:"durationDays,omitempty"`

	// Set once the pending payment record exists.
	PaymentID int64  `json:"paymentId,omitempty"`
	Reference string `json:"reference,omitempty"`

	ReceiptFileID string `json:"receiptFileId,omitempty"`
}

// DialogueState is everything the bot remembers about a user's conversation
// between two events. A user has at most one.
type DialogueState struct {
	Stage   Stage         `json:"stage"`
	Listing *ListingDraft `json:"listing,omitempty"`
	Payment *PaymentDraft `json:"payment,omitempty"`

	// PendingRole is the role awaiting confirmation in ConfirmingRoleChange.
	PendingRole model.Role `json:"pendingRole,omitempty"`

	// Onboarding chains language selection into role selection.
	Onboarding bool `json:"onboarding,omitempty"`
}

func idle() DialogueState {
	return DialogueState{Stage: StageIdle}
}
