package flow

import (
	"github.com/chirchiq/estate-bot/internal/analyzer"
	"github.com/chirchiq/estate-bot/internal/model"
)

// MessageKey names a localized message. The transport owns the text.
type MessageKey string

const (
	MsgWelcome             MessageKey = "welcome"
	MsgWelcomeBack         MessageKey = "welcome_back"
	MsgStartFirst          MessageKey = "start_first"
	MsgIdleHint            MessageKey = "idle_hint"
	MsgSessionExpired      MessageKey = "session_expired"
	MsgCancelled           MessageKey = "cancelled"
	MsgNothingToCancel     MessageKey = "nothing_to_cancel"
	MsgUseButtons          MessageKey = "use_buttons"
	MsgChooseLanguage      MessageKey = "choose_language"
	MsgLanguageSet         MessageKey = "language_set"
	MsgChooseRole          MessageKey = "choose_role"
	MsgChooseUpgradeRole   MessageKey = "choose_upgrade_role"
	MsgRoleUnchanged       MessageKey = "role_unchanged"
	MsgRoleChanged         MessageKey = "role_changed"
	MsgRoleTrialGranted    MessageKey = "role_trial_granted"
	MsgRoleNeedsPlan       MessageKey = "role_needs_plan"
	MsgConfirmRoleChange   MessageKey = "confirm_role_change"
	MsgRoleChangeCancelled MessageKey = "role_change_cancelled"

	MsgSubscriptionRequired MessageKey = "subscription_required"
	MsgListingLimitReached  MessageKey = "listing_limit_reached"
	MsgChooseType           MessageKey = "choose_type"
	MsgEnterTitle           MessageKey = "enter_title"
	MsgTitleTooLong         MessageKey = "title_too_long"
	MsgEnterDescription     MessageKey = "enter_description"
	MsgAnalysisReport       MessageKey = "analysis_report"
	MsgPriceDetected        MessageKey = "price_detected"
	MsgEnterPrice           MessageKey = "enter_price"
	MsgInvalidPrice         MessageKey = "invalid_price"
	MsgEnterLocation        MessageKey = "enter_location"
	MsgSendPhotos           MessageKey = "send_photos"
	MsgPhotoAdded           MessageKey = "photo_added"
	MsgSendPhotoOrDone      MessageKey = "send_photo_or_done"
	MsgNoPhotosWarning      MessageKey = "no_photos_warning"
	MsgPreview              MessageKey = "preview"
	MsgChooseEditField      MessageKey = "choose_edit_field"
	MsgListingSubmitted     MessageKey = "listing_submitted"
	MsgListingCancelled     MessageKey = "listing_cancelled"

	MsgSubscriptionStatus  MessageKey = "subscription_status"
	MsgSelectPlan          MessageKey = "select_plan"
	MsgPercentagePlanInfo  MessageKey = "percentage_plan_info"
	MsgPaymentInstructions MessageKey = "payment_instructions"
	MsgPaymentHelp         MessageKey = "payment_help"
	MsgSendReceipt         MessageKey = "send_receipt"
	MsgReceiptExpected     MessageKey = "receipt_expected"
	MsgReceiptReceived     MessageKey = "receipt_received"
	MsgPaymentCancelled    MessageKey = "payment_cancelled"
)

// Button labels that are not derived from a domain value.
const (
	BtnDone             MessageKey = "btn_done"
	BtnAnalysisEdit     MessageKey = "btn_analysis_edit"
	BtnAnalysisContinue MessageKey = "btn_analysis_continue"
	BtnPriceUse         MessageKey = "btn_price_use"
	BtnPriceCustom      MessageKey = "btn_price_custom"
	BtnSubmit           MessageKey = "btn_submit"
	BtnEdit             MessageKey = "btn_edit"
	BtnCancel           MessageKey = "btn_cancel"
	BtnBack             MessageKey = "btn_back"
	BtnConfirm          MessageKey = "btn_confirm"
	BtnUploadReceipt    MessageKey = "btn_upload_receipt"
	BtnHelp             MessageKey = "btn_help"
)

// Keys for domain values. The transport resolves them in its catalog.

func RoleKey(r model.Role) MessageKey {
	return MessageKey("role." + string(r))
}

func TypeKey(t model.PropertyType) MessageKey {
	return MessageKey("type." + string(t))
}

func PlanKey(p model.Plan) MessageKey {
	return MessageKey("plan." + string(p))
}

func LanguageKey(l model.Language) MessageKey {
	return MessageKey("lang." + string(l))
}

func FieldKey(field string) MessageKey {
	return MessageKey("field." + field)
}

func IssueKey(i analyzer.Issue) MessageKey {
	return MessageKey("issue." + string(i))
}

func SuggestionKey(s analyzer.Suggestion) MessageKey {
	return MessageKey("suggest." + string(s))
}

// Choice is one button. Args fill placeholders in the label.
type Choice struct {
	Label MessageKey
	Args  []any
	Data  string
}

// Prompt is an abstract outbound message.
type Prompt struct {
	Key  MessageKey
	Args []any

	// Choices are inline buttons, one slice per row.
	Choices [][]Choice

	// Keyboard replaces the reply keyboard with these text buttons.
	Keyboard []MessageKey

	// RemoveKeyboard drops any reply keyboard shown earlier.
	RemoveKeyboard bool

	Listing  *ListingDraft
	Payment  *PaymentDraft
	Analysis *analyzer.Result
}

func prompt(key MessageKey, args ...any) Prompt {
	return Prompt{Key: key, Args: args}
}
