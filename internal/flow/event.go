package flow

import (
	"strings"
	"unicode"
)

// EventKind is the shape of an incoming chat event.
type EventKind int

const (
	EventText EventKind = iota
	EventPhoto
	EventChoice
)

func (k EventKind) String() string {
	switch k {
	case EventText:
		return "text"
	case EventPhoto:
		return "photo"
	case EventChoice:
		return "choice"
	default:
		return "unknown"
	}
}

// Photo is one resolution of an uploaded image.
type Photo struct {
	FileID string
	Width  int
	Height int
}

// Event is a single user action.
type Event struct {
	Kind EventKind
	Text string

	// Photos holds every resolution of a single image.
	Photos []Photo

	// Data is the payload of a pressed button.
	Data string
}

func TextEvent(text string) Event {
	return Event{Kind: EventText, Text: text}
}

func PhotoEvent(sizes ...Photo) Event {
	return Event{Kind: EventPhoto, Photos: sizes}
}

func ChoiceEvent(data string) Event {
	return Event{Kind: EventChoice, Data: data}
}

// LargestPhoto returns the resolution with the largest pixel area.
func LargestPhoto(sizes []Photo) (Photo, bool) {
	if len(sizes) == 0 {
		return Photo{}, false
	}
	best := sizes[0]
	for _, p := range sizes[1:] {
		if p.Width*p.Height > best.Width*best.Height {
			best = p
		}
	}
	return best, best.FileID != ""
}

// Button payloads. A payload is "<prefix>:<value>".
const (
	PrefixType       = "type"
	PrefixAnalysis   = "analysis"
	PrefixPrice      = "price"
	PrefixPreview    = "preview"
	PrefixEdit       = "edit"
	PrefixLanguage   = "lang"
	PrefixRole       = "role"
	PrefixRoleChange = "rolechange"
	PrefixPlan       = "plan"
	PrefixPay        = "pay"

	// Handled outside the dialogue: managing saved ads and payments.
	PrefixAd       = "ad"
	PrefixPayments = "payments"
)

const (
	ActionEdit     = "edit"
	ActionContinue = "continue"
	ActionUse      = "use"
	ActionCustom   = "custom"
	ActionSubmit   = "submit"
	ActionCancel   = "cancel"
	ActionBack     = "back"
	ActionConfirm  = "confirm"
	ActionUpload   = "upload"
	ActionHelp     = "help"
	ActionDelete   = "delete"
	ActionWithdraw = "withdraw"
	ActionRenew    = "renew"
	ActionHistory  = "history"
)

// Editable listing fields offered from the preview.
const (
	FieldType        = "type"
	FieldTitle       = "title"
	FieldDescription = "description"
	FieldPrice       = "price"
	FieldLocation    = "location"
	FieldPhotos      = "photos"
)

// EditableFields lists fields in edit menu order.
var EditableFields = []string{FieldType, FieldTitle, FieldDescription, FieldPrice, FieldLocation, FieldPhotos}

// ChoiceData builds a button payload.
func ChoiceData(prefix, value string) string {
	return prefix + ":" + value
}

// ParseChoice splits a button payload into prefix and value.
func ParseChoice(data string) (prefix, value string, ok bool) {
	return strings.Cut(data, ":")
}

// doneWords finish photo collection in any supported language.
var doneWords = map[string]bool{
	"готово": true,
	"tayyor": true,
	"done":   true,
}

// IsDoneWord reports whether text is a "done" signal. Decorations such as
// emoji on the keyboard button are ignored.
func IsDoneWord(text string) bool {
	word := strings.TrimFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r)
	})
	return doneWords[word]
}
