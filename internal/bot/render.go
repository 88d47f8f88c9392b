package bot

import (
	"fmt"
	"strings"
	"unicode/utf8"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/chirchiq/estate-bot/internal/analyzer"
	"github.com/chirchiq/estate-bot/internal/flow"
	"github.com/chirchiq/estate-bot/internal/model"
)

// PaymentDetails are the bank transfer details shown with payment instructions.
type PaymentDetails struct {
	Bank      string
	Card      string
	Recipient string
}

// Telegram's limits, in characters.
const (
	maxMessageLength = 4096
	maxCaptionLength = 1024
)

// renderer turns flow prompts into Telegram messages in one language.
type renderer struct {
	lang model.Language

	// currency is used for listing prices, planCurrency for subscriptions.
	currency     string
	planCurrency string

	payment PaymentDetails
}

func (r renderer) label(key flow.MessageKey) string {
	return lookup(r.lang, key)
}

func (r renderer) text(key flow.MessageKey, args ...any) string {
	return formatReplyText(lookup(r.lang, key), args...)
}

func (r renderer) message(chatID int64, text string) tgbotapi.MessageConfig {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	return msg
}

// render converts prompts in order. A preview becomes two messages: the
// header and the listing card carrying the buttons.
func (r renderer) render(chatID int64, prompts []flow.Prompt) []tgbotapi.Chattable {
	var out []tgbotapi.Chattable
	for _, p := range prompts {
		if p.Key == flow.MsgPreview && p.Listing != nil {
			header := r.message(chatID, r.text(p.Key))
			if p.RemoveKeyboard {
				header.ReplyMarkup = tgbotapi.NewRemoveKeyboard(false)
			}
			var markup any
			if len(p.Choices) > 0 {
				markup = r.inlineKeyboard(p.Choices)
			}
			out = append(out, header, r.listingCard(chatID, *p.Listing, markup))
			continue
		}

		msg := r.message(chatID, r.promptText(p))
		switch {
		case len(p.Choices) > 0:
			msg.ReplyMarkup = r.inlineKeyboard(p.Choices)
			// A message holds one markup; the removal moves to an earlier
			// plain message when there is one.
			if p.RemoveKeyboard {
				attachKeyboardRemoval(out)
			}
		case len(p.Keyboard) > 0:
			msg.ReplyMarkup = r.replyKeyboard(p.Keyboard)
		case p.RemoveKeyboard:
			msg.ReplyMarkup = tgbotapi.NewRemoveKeyboard(false)
		}
		out = append(out, msg)
	}
	return out
}

func attachKeyboardRemoval(out []tgbotapi.Chattable) {
	for i := len(out) - 1; i >= 0; i-- {
		msg, ok := out[i].(tgbotapi.MessageConfig)
		if ok && msg.ReplyMarkup == nil {
			msg.ReplyMarkup = tgbotapi.NewRemoveKeyboard(false)
			out[i] = msg
			return
		}
	}
}

func (r renderer) promptText(p flow.Prompt) string {
	switch {
	case p.Key == flow.MsgAnalysisReport && p.Analysis != nil:
		return r.analysisText(*p.Analysis)
	case p.Key == flow.MsgPaymentInstructions && p.Payment != nil:
		return r.paymentText(*p.Payment)
	}
	return r.text(p.Key, r.args(p.Key, p.Args)...)
}

// args localizes domain values and escapes free text.
func (r renderer) args(key flow.MessageKey, args []any) []any {
	currency := r.currency
	if key == flow.MsgSelectPlan {
		currency = r.planCurrency
	}
	out := make([]any, len(args))
	for i, a := range args {
		switch v := a.(type) {
		case model.Role:
			out[i] = r.label(flow.RoleKey(v))
		case model.PropertyType:
			out[i] = r.label(flow.TypeKey(v))
		case model.Language:
			out[i] = r.label(flow.LanguageKey(v))
		case model.Plan:
			out[i] = r.label(flow.PlanKey(v))
		case float64:
			out[i] = formatMoney(v, currency)
		case string:
			out[i] = escapeMarkdown(v)
		default:
			out[i] = a
		}
	}
	return out
}

func (r renderer) analysisText(a analyzer.Result) string {
	parts := []string{r.text(flow.MsgAnalysisReport)}
	for i, issue := range a.Issues {
		var suggestion string
		if i < len(a.Suggestions) {
			suggestion = r.label(flow.SuggestionKey(a.Suggestions[i]))
		}
		parts = append(parts, r.text(msgAnalysisLine, r.label(flow.IssueKey(issue)), suggestion))
	}
	return strings.Join(parts, "\n\n")
}

func (r renderer) paymentText(p flow.PaymentDraft) string {
	return r.text(flow.MsgPaymentInstructions,
		r.label(flow.RoleKey(p.TargetRole)),
		r.label(flow.PlanKey(p.Plan)),
		formatMoney(p.Amount, r.planCurrency),
		p.DurationDays,
		orDash(escapeMarkdown(r.payment.Bank)),
		orDash(strings.ReplaceAll(r.payment.Card, "`", "")),
		orDash(escapeMarkdown(r.payment.Recipient)),
		p.Reference,
	)
}

// listingText is the card shown to the user in the preview and to the admin.
// The description is shortened until the card fits in limit characters.
func (r renderer) listingText(l flow.ListingDraft, limit int) string {
	typeLabel := "-"
	if l.Type != "" {
		typeLabel = r.label(flow.TypeKey(l.Type))
	}
	price := "-"
	if l.Price > 0 {
		price = formatMoney(l.Price, r.currency)
	}
	card := func(description string) string {
		return r.text(msgPreviewCard,
			orDash(escapeMarkdown(l.Title)),
			typeLabel,
			orDash(escapeMarkdown(description)),
			price,
			orDash(escapeMarkdown(l.Location)),
			len(l.Photos),
		)
	}

	text := card(l.Description)
	n := utf8.RuneCountInString(l.Description)
	for excess := utf8.RuneCountInString(text) - limit; excess > 0 && n > 1; excess = utf8.RuneCountInString(text) - limit {
		n = max(n-excess, 1)
		text = card(truncateRunes(l.Description, n))
	}
	return text
}

// listingCard sends the first photo with the listing as caption, or plain
// text when there are no photos or the caption does not fit.
func (r renderer) listingCard(chatID int64, l flow.ListingDraft, markup any) tgbotapi.Chattable {
	text := r.listingText(l, maxMessageLength)
	if len(l.Photos) > 0 && utf8.RuneCountInString(text) <= maxCaptionLength {
		photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileID(l.Photos[0]))
		photo.Caption = text
		photo.ParseMode = tgbotapi.ModeMarkdown
		photo.ReplyMarkup = markup
		return photo
	}
	msg := r.message(chatID, text)
	msg.ReplyMarkup = markup
	return msg
}

func (r renderer) choiceLabel(c flow.Choice) string {
	label := r.label(c.Label)
	if strings.HasPrefix(string(c.Label), "plan.") && len(c.Args) == 1 {
		if amount, ok := c.Args[0].(float64); ok {
			return fmt.Sprintf(lookup(r.lang, msgPlanPrice), label, formatMoney(amount, r.planCurrency))
		}
	}
	return label
}

func (r renderer) inlineKeyboard(choices [][]flow.Choice) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(choices))
	for _, row := range choices {
		buttons := make([]tgbotapi.InlineKeyboardButton, 0, len(row))
		for _, c := range row {
			buttons = append(buttons, tgbotapi.NewInlineKeyboardButtonData(r.choiceLabel(c), c.Data))
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(buttons...))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func (r renderer) replyKeyboard(keys []flow.MessageKey) tgbotapi.ReplyKeyboardMarkup {
	buttons := make([]tgbotapi.KeyboardButton, 0, len(keys))
	for _, key := range keys {
		buttons = append(buttons, tgbotapi.NewKeyboardButton(r.label(key)))
	}
	return tgbotapi.NewReplyKeyboard(tgbotapi.NewKeyboardButtonRow(buttons...))
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
