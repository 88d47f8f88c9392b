package bot

import (
	"context"
	"fmt"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog/log"

	"github.com/chirchiq/estate-bot/internal/flow"
	"github.com/chirchiq/estate-bot/internal/model"
)

// maxAdsListed keeps /myads within a single Telegram message.
const maxAdsListed = 20

// loadUser fetches the user and aligns the session language with it. It
// replies itself when the user is unknown or the lookup fails.
func (b *Bot) loadUser(ctx context.Context, session *UserSession) (*model.User, bool) {
	user, err := b.store.GetUser(ctx, session.userId)
	if err != nil {
		session.replyWithError(fmt.Errorf("failed to get user: %w", err))
		return nil, false
	}
	if user == nil {
		session.reply(flow.MsgStartFirst)
		return nil, false
	}
	session.lang = user.Lang()
	return user, true
}

func (b *Bot) refreshLanguage(ctx context.Context, session *UserSession) {
	user, err := b.store.GetUser(ctx, session.userId)
	if err != nil {
		log.Warn().Err(err).Int64("userId", session.userId).Msg("failed to get user language")
		return
	}
	if user != nil {
		session.lang = user.Lang()
	}
}

// handleMyAdsCommand lists the user's newest ads with their moderation
// status. Free roles also see how long each active ad has left.
func (b *Bot) handleMyAdsCommand(ctx context.Context, session *UserSession) {
	user, ok := b.loadUser(ctx, session)
	if !ok {
		return
	}
	ads, err := b.store.GetUserAds(ctx, user.ID)
	if err != nil {
		session.replyWithError(fmt.Errorf("failed to get ads: %w", err))
		return
	}
	if len(ads) == 0 {
		session.reply(msgMyAdsEmpty)
		return
	}

	r := b.renderer(session, user)
	now := b.now()
	if len(ads) > maxAdsListed {
		ads = ads[:maxAdsListed]
	}

	parts := []string{r.text(msgMyAdsHeader)}
	var rows [][]tgbotapi.InlineKeyboardButton
	for i, ad := range ads {
		parts = append(parts, r.text(msgMyAdsItem,
			i+1,
			escapeMarkdown(ad.Title),
			r.label(flow.TypeKey(ad.Type)),
			formatMoney(ad.Price, ad.Currency),
			r.adStatus(ad, user.Role.IsFree(), now),
		))
		rows = append(rows, r.adButtons(ad, i+1, now))
	}
	msg := r.message(session.userId, strings.Join(parts, "\n\n"))
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(rows...)
	session.send(msg)
}

func (r renderer) adStatus(ad model.Ad, showDaysLeft bool, now time.Time) string {
	if ad.Status != model.AdStatusRejected && !ad.IsActive(now) {
		return r.label(msgAdExpired)
	}
	status := r.label(statusKey(ad.Status))
	if showDaysLeft && ad.IsActive(now) {
		return r.text(msgAdDaysLeft, status, daysUntil(now, ad.ExpiresAt()))
	}
	return status
}

// handleProfileCommand shows role, language, subscription and ad counts.
func (b *Bot) handleProfileCommand(ctx context.Context, session *UserSession) {
	user, ok := b.loadUser(ctx, session)
	if !ok {
		return
	}
	ads, err := b.store.GetUserAds(ctx, user.ID)
	if err != nil {
		session.replyWithError(fmt.Errorf("failed to get ads: %w", err))
		return
	}
	subs, err := b.store.GetSubscriptions(ctx, user.ID)
	if err != nil {
		session.replyWithError(fmt.Errorf("failed to get subscriptions: %w", err))
		return
	}

	r := b.renderer(session, user)
	now := b.now()
	active := 0
	for _, ad := range ads {
		if ad.IsActive(now) {
			active++
		}
	}

	name := user.FirstName
	if user.Username != "" {
		name = fmt.Sprintf("%s (@%s)", user.FirstName, user.Username)
	}

	text := r.text(msgProfile,
		orDash(escapeMarkdown(name)),
		r.label(flow.RoleKey(user.Role)),
		r.label(flow.LanguageKey(user.Lang())),
		r.subscriptionStatus(user, now),
		active,
		len(ads),
	)
	if len(subs) > 0 {
		last := subs[0]
		text += "\n\n" + r.text(msgLastSubscription,
			r.label(subscriptionKindKey(last.Kind)),
			last.StartsAt.Format(dateLayout),
			last.EndsAt.Format(dateLayout),
		)
	}
	msg := r.message(session.userId, text)
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData(r.label(msgBtnPaymentHistory), flow.ChoiceData(flow.PrefixPayments, flow.ActionHistory)),
	))
	session.send(msg)
}

func (r renderer) subscriptionStatus(user *model.User, now time.Time) string {
	switch {
	case !user.Role.IsPaid():
		return r.label(msgSubFreeRole)
	case user.HasActiveSubscription(now):
		return r.text(msgSubActive, user.SubscriptionEnd.Format(dateLayout), user.SubscriptionDaysLeft(now))
	default:
		return r.label(msgSubInactive)
	}
}

// daysUntil rounds up so an ad expiring later today still shows one day.
func daysUntil(now, t time.Time) int {
	d := t.Sub(now)
	if d <= 0 {
		return 0
	}
	return int((d + 24*time.Hour - 1) / (24 * time.Hour))
}
