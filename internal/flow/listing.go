package flow

import (
	"errors"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/chirchiq/estate-bot/internal/analyzer"
	"github.com/chirchiq/estate-bot/internal/model"
)

var (
	ErrSubscriptionRequired = errors.New("active subscription required")
	ErrListingLimitReached  = errors.New("active listing limit reached")
	ErrUnknownUser          = errors.New("unknown user")
)

// BeginListing opens the listing flow after checking the role gates.
// activeListings is only consulted for free roles. A refusal returns one of
// the gate errors and no state.
func BeginListing(c Context, activeListings int) (Result, error) {
	if c.User == nil {
		return Result{}, ErrUnknownUser
	}
	if c.User.Role.IsPaid() && !c.User.HasActiveSubscription(c.Now) {
		return Result{}, ErrSubscriptionRequired
	}
	if !c.User.Role.IsPaid() && activeListings >= model.FreeRoleListingLimit {
		return Result{}, ErrListingLimitReached
	}
	st := DialogueState{Stage: StageSelectingType, Listing: &ListingDraft{}}
	return enter(st, c), nil
}

func listingTransition(st DialogueState, ev Event, c Context) Result {
	st.Listing = cloneListing(st.Listing)
	switch st.Stage {
	case StageSelectingType:
		return onSelectingType(st, ev, c)
	case StageEnteringTitle:
		return onEnteringTitle(st, ev, c)
	case StageEnteringDescription:
		return onEnteringDescription(st, ev, c)
	case StageAnalyzerReview:
		return onAnalyzerReview(st, ev, c)
	case StagePriceConfirmation:
		return onPriceConfirmation(st, ev, c)
	case StageEnteringPrice:
		return onEnteringPrice(st, ev, c)
	case StageEnteringLocation:
		return onEnteringLocation(st, ev, c)
	case StageCollectingPhotos:
		return onCollectingPhotos(st, ev, c)
	case StagePreview:
		return onPreview(st, ev, c)
	case StageEditMenu:
		return onEditMenu(st, ev, c)
	}
	return expired()
}

// fieldDone advances to next, or back to the preview when a single field
// was being edited.
func fieldDone(st DialogueState, next Stage, c Context) Result {
	if st.Listing.Editing {
		st.Listing.Editing = false
		st.Stage = StagePreview
	} else {
		st.Stage = next
	}
	return enter(st, c)
}

// choiceValue returns the payload value when ev is a button of the given prefix.
func choiceValue(ev Event, prefix string) (string, bool) {
	if ev.Kind != EventChoice {
		return "", false
	}
	p, v, ok := ParseChoice(ev.Data)
	if !ok || p != prefix {
		return "", false
	}
	return v, true
}

func onSelectingType(st DialogueState, ev Event, c Context) Result {
	v, ok := choiceValue(ev, PrefixType)
	if !ok {
		return enter(st, c, prompt(MsgUseButtons))
	}
	t := model.PropertyType(v)
	if !t.Valid() {
		return enter(st, c)
	}
	st.Listing.Type = t
	return fieldDone(st, StageEnteringTitle, c)
}

func onEnteringTitle(st DialogueState, ev Event, c Context) Result {
	if ev.Kind != EventText {
		return enter(st, c)
	}
	title := strings.TrimSpace(ev.Text)
	if title == "" {
		return enter(st, c)
	}
	if utf8.RuneCountInString(title) > model.MaxTitleLength {
		return enter(st, c, prompt(MsgTitleTooLong, model.MaxTitleLength))
	}
	st.Listing.Title = title
	return fieldDone(st, StageEnteringDescription, c)
}

func onEnteringDescription(st DialogueState, ev Event, c Context) Result {
	if ev.Kind != EventText {
		return enter(st, c)
	}
	description := strings.TrimSpace(ev.Text)
	if description == "" {
		return enter(st, c)
	}
	analysis := analyzer.Analyze(description)

	st.Listing.Description = description
	st.Listing.Analysis = &analysis

	if !analysis.IsValid() {
		st.Stage = StageAnalyzerReview
		return enter(st, c)
	}
	return afterDescription(st, c)
}

// afterDescription offers the extracted price, if any, before asking for one.
func afterDescription(st DialogueState, c Context) Result {
	if st.Listing.Editing {
		return fieldDone(st, StagePreview, c)
	}
	if extractedPrice(st.Listing) > 0 {
		st.Stage = StagePriceConfirmation
	} else {
		st.Stage = StageEnteringPrice
	}
	return enter(st, c)
}

func onAnalyzerReview(st DialogueState, ev Event, c Context) Result {
	v, ok := choiceValue(ev, PrefixAnalysis)
	if !ok {
		return enter(st, c, prompt(MsgUseButtons))
	}
	switch v {
	case ActionEdit:
		st.Stage = StageEnteringDescription
		return enter(st, c)
	case ActionContinue:
		return afterDescription(st, c)
	}
	return enter(st, c)
}

func onPriceConfirmation(st DialogueState, ev Event, c Context) Result {
	v, ok := choiceValue(ev, PrefixPrice)
	if !ok {
		return enter(st, c, prompt(MsgUseButtons))
	}
	switch v {
	case ActionUse:
		price := extractedPrice(st.Listing)
		if price <= 0 {
			st.Stage = StageEnteringPrice
			return enter(st, c)
		}
		st.Listing.Price = price
		return fieldDone(st, StageEnteringLocation, c)
	case ActionCustom:
		st.Stage = StageEnteringPrice
		return enter(st, c)
	}
	return enter(st, c)
}

func onEnteringPrice(st DialogueState, ev Event, c Context) Result {
	if ev.Kind != EventText {
		return enter(st, c)
	}
	price, err := ParsePrice(ev.Text)
	if err != nil {
		return enter(st, c, prompt(MsgInvalidPrice))
	}
	st.Listing.Price = price
	return fieldDone(st, StageEnteringLocation, c)
}

func onEnteringLocation(st DialogueState, ev Event, c Context) Result {
	if ev.Kind != EventText {
		return enter(st, c)
	}
	location := strings.TrimSpace(ev.Text)
	if location == "" {
		return enter(st, c)
	}
	st.Listing.Location = location
	if st.Listing.Editing {
		return fieldDone(st, StagePreview, c)
	}
	st.Listing.Photos = []string{}
	st.Stage = StageCollectingPhotos
	return enter(st, c)
}

func onCollectingPhotos(st DialogueState, ev Event, c Context) Result {
	switch ev.Kind {
	case EventPhoto:
		photo, ok := LargestPhoto(ev.Photos)
		if !ok {
			return enter(st, c)
		}
		if len(st.Listing.Photos) < model.MaxListingPhotos {
			st.Listing.Photos = append(st.Listing.Photos, photo.FileID)
		}
		if len(st.Listing.Photos) >= model.MaxListingPhotos {
			return toPreview(st, c)
		}
		added := prompt(MsgPhotoAdded, len(st.Listing.Photos), model.MaxListingPhotos)
		added.Keyboard = []MessageKey{BtnDone}
		return stay(st, added)
	case EventText:
		if !IsDoneWord(ev.Text) {
			return enter(st, c, prompt(MsgSendPhotoOrDone))
		}
		if len(st.Listing.Photos) == 0 {
			return toPreview(st, c, prompt(MsgNoPhotosWarning))
		}
		return toPreview(st, c)
	}
	return enter(st, c, prompt(MsgSendPhotoOrDone))
}

func toPreview(st DialogueState, c Context, before ...Prompt) Result {
	st.Listing.Editing = false
	st.Stage = StagePreview
	return enter(st, c, before...)
}

func onPreview(st DialogueState, ev Event, c Context) Result {
	v, ok := choiceValue(ev, PrefixPreview)
	if !ok {
		return enter(st, c, prompt(MsgUseButtons))
	}
	switch v {
	case ActionSubmit:
		if !st.Listing.Complete() {
			return expired()
		}
		return Result{
			State:   idle(),
			Prompts: []Prompt{{Key: MsgListingSubmitted, RemoveKeyboard: true}},
			Effects: []Effect{CreateAd{Draft: *cloneListing(st.Listing)}, NotifyNewListing{}},
		}
	case ActionEdit:
		st.Stage = StageEditMenu
		return enter(st, c)
	case ActionCancel:
		return Result{State: idle(), Prompts: []Prompt{{Key: MsgListingCancelled, RemoveKeyboard: true}}}
	}
	return enter(st, c)
}

func onEditMenu(st DialogueState, ev Event, c Context) Result {
	v, ok := choiceValue(ev, PrefixEdit)
	if !ok {
		return enter(st, c, prompt(MsgUseButtons))
	}
	switch v {
	case ActionBack:
		st.Stage = StagePreview
		return enter(st, c)
	case FieldType:
		st.Stage = StageSelectingType
	case FieldTitle:
		st.Stage = StageEnteringTitle
	case FieldDescription:
		st.Stage = StageEnteringDescription
	case FieldPrice:
		st.Stage = StageEnteringPrice
	case FieldLocation:
		st.Stage = StageEnteringLocation
	case FieldPhotos:
		st.Listing.Photos = []string{}
		st.Stage = StageCollectingPhotos
	default:
		return enter(st, c)
	}
	st.Listing.Editing = true
	return enter(st, c)
}

// ParsePrice reads a user-typed price. Spaces and thousands-separator commas
// are ignored; the result must be a positive finite number.
func ParsePrice(text string) (float64, error) {
	normalized := strings.NewReplacer(" ", "", ",", "", "\u00a0", "").Replace(strings.TrimSpace(text))
	price, err := strconv.ParseFloat(normalized, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(price) || math.IsInf(price, 0) || price <= 0 {
		return 0, errors.New("price must be a positive number")
	}
	return price, nil
}

func extractedPrice(d *ListingDraft) float64 {
	if d == nil || d.Analysis == nil {
		return 0
	}
	return d.Analysis.ExtractedPrice
}

// cloneListing copies d so a transition never mutates its input state.
func cloneListing(d *ListingDraft) *ListingDraft {
	if d == nil {
		return &ListingDraft{}
	}
	cp := *d
	if d.Photos != nil {
		cp.Photos = append([]string{}, d.Photos...)
	}
	if d.Analysis != nil {
		a := *d.Analysis
		cp.Analysis = &a
	}
	return &cp
}
