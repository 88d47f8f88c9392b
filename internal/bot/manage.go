package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog/log"

	"github.com/chirchiq/estate-bot/internal/flow"
	"github.com/chirchiq/estate-bot/internal/model"
)

// maxPaymentsListed is how many payments the history shows.
const maxPaymentsListed = 10

func adChoiceData(action string, adID int64) string {
	return flow.ChoiceData(flow.PrefixAd, action+":"+strconv.FormatInt(adID, 10))
}

func parseAdChoice(value string) (string, int64, bool) {
	action, id, ok := strings.Cut(value, ":")
	if !ok {
		return "", 0, false
	}
	adID, err := strconv.ParseInt(id, 10, 64)
	if err != nil || adID <= 0 {
		return "", 0, false
	}
	return action, adID, true
}

// adButtons are the actions offered for the n-th ad in /myads. Pending ads
// can be withdrawn, expired ones renewed, and anything else deleted.
func (r renderer) adButtons(ad model.Ad, n int, now time.Time) []tgbotapi.InlineKeyboardButton {
	button := func(key flow.MessageKey, action string) tgbotapi.InlineKeyboardButton {
		return tgbotapi.NewInlineKeyboardButtonData(r.text(key, n), adChoiceData(action, ad.ID))
	}
	switch {
	case ad.Status == model.AdStatusPending && ad.IsActive(now):
		return []tgbotapi.InlineKeyboardButton{button(msgBtnAdWithdraw, flow.ActionWithdraw)}
	case ad.Status != model.AdStatusRejected && !ad.IsActive(now):
		return []tgbotapi.InlineKeyboardButton{
			button(msgBtnAdRenew, flow.ActionRenew),
			button(msgBtnAdDelete, flow.ActionDelete),
		}
	}
	return []tgbotapi.InlineKeyboardButton{button(msgBtnAdDelete, flow.ActionDelete)}
}

// handleAdAction runs a /myads button press.
func (b *Bot) handleAdAction(ctx context.Context, session *UserSession, value string) {
	user, ok := b.loadUser(ctx, session)
	if !ok {
		return
	}
	action, adID, ok := parseAdChoice(value)
	if !ok {
		session.reply(flow.MsgSessionExpired)
		return
	}
	ad, err := b.store.GetAd(ctx, adID)
	if err != nil {
		session.replyWithError(fmt.Errorf("failed to get ad: %w", err))
		return
	}
	if ad == nil || ad.UserID != user.ID {
		session.reply(msgAdNotFound)
		return
	}

	title := escapeMarkdown(ad.Title)
	switch action {
	case flow.ActionDelete, flow.ActionWithdraw:
		if err := b.store.DeleteAd(ctx, user.ID, ad.ID); err != nil {
			session.replyWithError(err)
			return
		}
		log.Info().Int64("userId", user.ID).Int64("adId", ad.ID).Str("action", action).Msg("ad deleted")
		if action == flow.ActionWithdraw {
			session.reply(msgAdWithdrawn, title)
		} else {
			session.reply(msgAdDeleted, title)
		}

	case flow.ActionRenew:
		b.renewAd(ctx, session, user, ad)

	default:
		session.reply(flow.MsgSessionExpired)
	}
}

// renewAd gives an expired ad a new lifetime. The role gates that apply to a
// new listing apply here too.
func (b *Bot) renewAd(ctx context.Context, session *UserSession, user *model.User, ad *model.Ad) {
	now := b.now()
	switch {
	case ad.Status == model.AdStatusRejected:
		session.reply(msgAdNotFound)
		return
	case ad.IsActive(now):
		session.reply(msgAdStillActive, escapeMarkdown(ad.Title))
		return
	case user.Role.IsPaid() && !user.HasActiveSubscription(now):
		session.reply(flow.MsgSubscriptionRequired, lookup(session.language(), flow.RoleKey(user.Role)))
		return
	}

	if !user.Role.IsPaid() {
		active, err := b.store.CountActiveListings(ctx, user.ID, now)
		if err != nil {
			session.replyWithError(fmt.Errorf("failed to count active listings: %w", err))
			return
		}
		if active >= model.FreeRoleListingLimit {
			session.reply(msgAdRenewLimit, model.FreeRoleListingLimit)
			return
		}
	}

	if err := b.store.RenewAd(ctx, user.ID, ad.ID, now); err != nil {
		session.replyWithError(err)
		return
	}
	log.Info().Int64("userId", user.ID).Int64("adId", ad.ID).Msg("ad renewed")
	session.reply(msgAdRenewed, escapeMarkdown(ad.Title), int(model.ListingLifetime.Hours()/24))
}

// handlePaymentHistory lists the user's latest payments.
func (b *Bot) handlePaymentHistory(ctx context.Context, session *UserSession) {
	user, ok := b.loadUser(ctx, session)
	if !ok {
		return
	}
	payments, err := b.store.GetUserPayments(ctx, user.ID, maxPaymentsListed)
	if err != nil {
		session.replyWithError(fmt.Errorf("failed to get payments: %w", err))
		return
	}
	if len(payments) == 0 {
		session.reply(msgPaymentsEmpty)
		return
	}

	r := b.renderer(session, user)
	parts := []string{r.text(msgPaymentsHeader)}
	for _, p := range payments {
		parts = append(parts, r.text(msgPaymentsItem,
			r.label(paymentStatusKey(p.Status)),
			formatMoney(p.Amount, p.Currency),
			r.label(flow.RoleKey(p.Role)),
			r.label(flow.PlanKey(p.Plan)),
			p.CreatedAt.Format(dateLayout),
			p.Reference,
		))
	}
	session._reply(strings.Join(parts, "\n\n"), false)
}

// handleRolesCommand describes every role with its price and limits.
func (b *Bot) handleRolesCommand(ctx context.Context, session *UserSession) {
	user, ok := b.loadUser(ctx, session)
	if !ok {
		return
	}
	r := b.renderer(session, user)
	parts := []string{r.text(msgRolesHeader)}
	for _, role := range model.AllRoles {
		info, _ := model.RoleInfo(role)
		if info.Paid {
			parts = append(parts, r.text(msgRolePaid,
				r.label(flow.RoleKey(role)),
				formatMoney(info.MonthlyPrice, r.planCurrency),
				info.TrialDays,
			))
		} else {
			parts = append(parts, r.text(msgRoleFree,
				r.label(flow.RoleKey(role)),
				model.FreeRoleListingLimit,
				int(model.ListingLifetime.Hours()/24),
			))
		}
	}
	parts = append(parts, r.text(msgRolesFooter))
	session._reply(strings.Join(parts, "\n\n"), false)
}
