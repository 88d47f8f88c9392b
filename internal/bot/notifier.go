package bot

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"unicode/utf8"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog/log"

	"github.com/chirchiq/estate-bot/internal/flow"
	"github.com/chirchiq/estate-bot/internal/model"
)

// NotifierStore is what AdminNotifier reads and records.
type NotifierStore interface {
	GetUser(ctx context.Context, id int64) (*model.User, error)
	GetAd(ctx context.Context, id int64) (*model.Ad, error)
	GetPayment(ctx context.Context, id int64) (*model.Payment, error)
	SetReceiptHash(ctx context.Context, paymentID int64, hash string) error
	FindPaymentByReceiptHash(ctx context.Context, hash string, excludeID int64) (*model.Payment, error)
}

// AdminNotifier sends new listings and payment receipts to the admin chat.
type AdminNotifier struct {
	tg       BotAPI
	store    NotifierStore
	adminID  int64
	currency string
}

var _ flow.Notifier = (*AdminNotifier)(nil)

func NewAdminNotifier(tg BotAPI, store NotifierStore, adminID int64, currency string) *AdminNotifier {
	if currency == "" {
		currency = "uzs"
	}
	return &AdminNotifier{tg: tg, store: store, adminID: adminID, currency: currency}
}

// renderer uses the admin's own language when the admin is a registered user.
func (n *AdminNotifier) renderer(ctx context.Context, currency string) renderer {
	lang := model.DefaultLanguage
	if admin, err := n.store.GetUser(ctx, n.adminID); err == nil && admin != nil {
		lang = admin.Lang()
	}
	if currency == "" {
		currency = n.currency
	}
	return renderer{lang: lang, currency: currency, planCurrency: n.currency}
}

func (n *AdminNotifier) NotifyNewListing(ctx context.Context, adID int64) error {
	ad, err := n.store.GetAd(ctx, adID)
	if err != nil {
		return err
	}
	if ad == nil {
		return fmt.Errorf("ad %d not found", adID)
	}
	owner, err := n.store.GetUser(ctx, ad.UserID)
	if err != nil {
		return err
	}

	r := n.renderer(ctx, ad.Currency)
	from := userLabel(owner, ad.UserID)
	limit := maxMessageLength
	if len(ad.Photos) > 0 {
		limit = maxCaptionLength
	}
	limit -= utf8.RuneCountInString(r.text(msgAdminNewListing, ad.ID, from, ""))
	card := r.listingText(flow.ListingDraft{
		Type:        ad.Type,
		Title:       ad.Title,
		Description: ad.Description,
		Price:       ad.Price,
		Location:    ad.Location,
		Photos:      ad.Photos,
	}, limit)
	text := r.text(msgAdminNewListing, ad.ID, from, card)

	var msg tgbotapi.Chattable
	if len(ad.Photos) > 0 {
		photo := tgbotapi.NewPhoto(n.adminID, tgbotapi.FileID(ad.Photos[0]))
		photo.Caption = text
		photo.ParseMode = tgbotapi.ModeMarkdown
		msg = photo
	} else {
		m := tgbotapi.NewMessage(n.adminID, text)
		m.ParseMode = tgbotapi.ModeMarkdown
		msg = m
	}
	if _, err := n.tg.Send(msg); err != nil {
		return fmt.Errorf("failed to send listing notification: %w", err)
	}
	log.Info().Int64("adId", ad.ID).Int64("userId", ad.UserID).Msg("notified admin about new listing")
	return nil
}

// NotifyNewPayment forwards the receipt photo to the admin. The receipt is
// downloaded and hashed so a receipt reused across payments is flagged;
// a failed download only skips that check.
func (n *AdminNotifier) NotifyNewPayment(ctx context.Context, paymentID int64, receiptFileID string) error {
	p, err := n.store.GetPayment(ctx, paymentID)
	if err != nil {
		return err
	}
	if p == nil {
		return fmt.Errorf("payment %d not found", paymentID)
	}
	payer, err := n.store.GetUser(ctx, p.UserID)
	if err != nil {
		return err
	}

	r := n.renderer(ctx, p.Currency)
	caption := r.text(msgAdminNewPayment,
		p.ID,
		userLabel(payer, p.UserID),
		r.label(flow.RoleKey(p.Role)),
		r.label(flow.PlanKey(p.Plan)),
		formatMoney(p.Amount, p.Currency),
		p.DurationDays,
		p.Reference,
	)
	if dup := n.checkDuplicateReceipt(ctx, p.ID, receiptFileID); dup != nil {
		caption += "\n\n" + r.text(msgAdminDuplicateReceipt, dup.ID, dup.UserID)
	}

	photo := tgbotapi.NewPhoto(n.adminID, tgbotapi.FileID(receiptFileID))
	photo.Caption = truncateRunes(caption, maxCaptionLength)
	photo.ParseMode = tgbotapi.ModeMarkdown
	if _, err := n.tg.Send(photo); err != nil {
		return fmt.Errorf("failed to send payment notification: %w", err)
	}
	log.Info().Int64("paymentId", p.ID).Int64("userId", p.UserID).Msg("notified admin about new payment")
	return nil
}

// checkDuplicateReceipt records the receipt hash and returns another payment
// that already carries the same receipt.
func (n *AdminNotifier) checkDuplicateReceipt(ctx context.Context, paymentID int64, fileID string) *model.Payment {
	data, err := downloadFileID(ctx, n.tg.GetFileDirectURL, fileID)
	if err != nil {
		log.Warn().Err(err).Int64("paymentId", paymentID).Msg("failed to download receipt")
		return nil
	}
	sum := sha256.Sum256(data)
	hash := hex.EncodeToString(sum[:])

	if err := n.store.SetReceiptHash(ctx, paymentID, hash); err != nil {
		log.Error().Err(err).Int64("paymentId", paymentID).Msg("failed to store receipt hash")
	}
	dup, err := n.store.FindPaymentByReceiptHash(ctx, hash, paymentID)
	if err != nil {
		log.Error().Err(err).Int64("paymentId", paymentID).Msg("failed to look up receipt hash")
		return nil
	}
	if dup != nil {
		log.Warn().Int64("paymentId", paymentID).Int64("duplicateOf", dup.ID).Msg("receipt already used")
	}
	return dup
}

func userLabel(u *model.User, id int64) string {
	if u == nil {
		return strconv.FormatInt(id, 10)
	}
	name := escapeMarkdown(u.FirstName)
	if u.Username != "" {
		name += " @" + escapeMarkdown(u.Username)
	}
	return fmt.Sprintf("%s (%d)", orDash(name), id)
}

// SendExpiryReminder tells a user their subscription ends soon.
func (b *Bot) SendExpiryReminder(ctx context.Context, user *model.User, daysLeft int) error {
	if user.SubscriptionEnd == nil {
		return fmt.Errorf("user %d has no subscription", user.ID)
	}
	r := renderer{lang: user.Lang(), currency: b.currency, planCurrency: b.currency}
	text := r.text(msgExpiryReminder,
		r.label(flow.RoleKey(user.Role)),
		user.SubscriptionEnd.Format(dateLayout),
		daysLeft,
	)
	msg := r.message(user.ID, text)
	if _, err := b.tg.Send(msg); err != nil {
		return fmt.Errorf("failed to send expiry reminder: %w", err)
	}
	return nil
}
