package bot

import (
	"context"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog/log"

	"github.com/chirchiq/estate-bot/internal/flow"
	"github.com/chirchiq/estate-bot/internal/model"
	"github.com/chirchiq/estate-bot/internal/storage"
)

// BotAPI defines the interface for Telegram bot API operations.
type BotAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetFileDirectURL(fileID string) (string, error)
}

// Store is what the transport reads and changes outside the dialogue engine.
type Store interface {
	GetUser(ctx context.Context, id int64) (*model.User, error)
	GetUserAds(ctx context.Context, userID int64) ([]model.Ad, error)
	GetSubscriptions(ctx context.Context, userID int64) ([]storage.Subscription, error)

	GetAd(ctx context.Context, id int64) (*model.Ad, error)
	DeleteAd(ctx context.Context, userID, adID int64) error
	RenewAd(ctx context.Context, userID, adID int64, now time.Time) error
	CountActiveListings(ctx context.Context, userID int64, now time.Time) (int, error)
	GetUserPayments(ctx context.Context, userID int64, limit int) ([]model.Payment, error)
}

// Bot is the main Telegram bot handler.
type Bot struct {
	tg       BotAPI
	state    BotState
	engine   *flow.Engine
	store    Store
	currency string
	payment  PaymentDetails
	now      func() time.Time
}

// NewBot creates a new Bot instance. currency is the default currency for
// users without one and for subscription prices.
func NewBot(tg BotAPI, engine *flow.Engine, store Store, currency string) *Bot {
	if currency == "" {
		currency = "uzs"
	}
	bot := &Bot{
		tg:       tg,
		engine:   engine,
		store:    store,
		currency: currency,
		now:      time.Now,
	}
	bot.state = bot.NewBotState()
	return bot
}

// SetPaymentDetails sets the bank details shown in payment instructions.
func (b *Bot) SetPaymentDetails(details PaymentDetails) {
	b.payment = details
}

// Shutdown stops all session workers and waits for admin notifications
// still in flight.
func (b *Bot) Shutdown() {
	b.state.Shutdown()
	if b.engine != nil {
		b.engine.Wait()
	}
}

// HandleUpdate is the main message router.
// It dispatches messages to the appropriate session worker for sequential processing.
func (b *Bot) HandleUpdate(ctx context.Context, update tgbotapi.Update) {
	b.dispatchUpdate(ctx, update, false)
}

// handleUpdateSync is like HandleUpdate but waits for message processing to complete.
// Used in tests where we need synchronous behavior.
func (b *Bot) handleUpdateSync(ctx context.Context, update tgbotapi.Update) {
	b.dispatchUpdate(ctx, update, true)
}

// dispatchUpdate routes updates to the appropriate session worker.
// If sync is true, it waits for message processing to complete.
func (b *Bot) dispatchUpdate(ctx context.Context, update tgbotapi.Update, sync bool) {
	var from *tgbotapi.User
	if update.CallbackQuery != nil {
		from = update.CallbackQuery.From
	} else if update.Message != nil {
		from = update.Message.From
	}
	if from == nil {
		return
	}

	session := b.state.getUserSession(from.ID)

	// Helper to send sync or async based on flag
	send := func(msg SessionMessage) {
		if sync {
			session.SendSync(msg)
		} else {
			session.Send(msg)
		}
	}

	if update.CallbackQuery != nil {
		send(SessionMessage{
			Type:          "callback",
			Ctx:           ctx,
			CallbackQuery: update.CallbackQuery,
		})
		return
	}

	log.Info().Int64("userId", from.ID).Str("text", update.Message.Text).Int("photos", len(update.Message.Photo)).Msg("got message")

	if len(update.Message.Photo) > 0 {
		send(SessionMessage{
			Type:    "photo",
			Ctx:     ctx,
			Message: update.Message,
		})
	} else {
		send(SessionMessage{
			Type:    "text",
			Ctx:     ctx,
			Message: update.Message,
		})
	}
}

// HandleSessionMessage implements MessageHandler interface.
// This is called by the session worker goroutine for sequential processing.
func (b *Bot) HandleSessionMessage(ctx context.Context, session *UserSession, msg SessionMessage) {
	switch msg.Type {
	case "callback":
		b.rememberLanguage(session, msg.CallbackQuery.From)
		b.handleCallbackQuery(ctx, session, msg.CallbackQuery)
	case "photo":
		b.rememberLanguage(session, msg.Message.From)
		b.handlePhotoMessage(ctx, session, msg.Message)
	case "text":
		b.rememberLanguage(session, msg.Message.From)
		b.handleTextMessage(ctx, session, msg.Message)
	}
}

// rememberLanguage seeds the session language from the Telegram client so
// errors before the first reply are readable.
func (b *Bot) rememberLanguage(session *UserSession, from *tgbotapi.User) {
	if session.lang != "" || from == nil {
		return
	}
	if lang, ok := languageFromCode(from.LanguageCode); ok {
		session.lang = lang
	}
}

func (b *Bot) handlePhotoMessage(ctx context.Context, session *UserSession, message *tgbotapi.Message) {
	sizes := make([]flow.Photo, 0, len(message.Photo))
	for _, p := range message.Photo {
		sizes = append(sizes, flow.Photo{FileID: p.FileID, Width: p.Width, Height: p.Height})
	}
	reply, err := b.engine.Handle(ctx, session.userId, flow.PhotoEvent(sizes...))
	b.respond(session, reply, err)
}

func (b *Bot) handleTextMessage(ctx context.Context, session *UserSession, message *tgbotapi.Message) {
	if strings.HasPrefix(message.Text, "/") {
		b.handleCommand(ctx, session, message)
		return
	}
	reply, err := b.engine.Handle(ctx, session.userId, flow.TextEvent(message.Text))
	b.respond(session, reply, err)
}

// handleCommand processes bot commands.
// Called from session worker - no locking needed.
func (b *Bot) handleCommand(ctx context.Context, session *UserSession, message *tgbotapi.Message) {
	command, _ := parseCommand(message.Text)

	var reply *flow.Reply
	var err error
	switch command {
	case "/start":
		reply, err = b.engine.Start(ctx, flow.Profile{
			ID:        session.userId,
			FirstName: message.From.FirstName,
			Username:  message.From.UserName,
		})
	case "/new":
		reply, err = b.engine.StartListing(ctx, session.userId)
	case "/subscription":
		reply, err = b.engine.StartSubscription(ctx, session.userId)
	case "/role":
		reply, err = b.engine.StartRoleSelection(ctx, session.userId)
	case "/language":
		reply, err = b.engine.StartLanguageSelection(ctx, session.userId)
	case "/cancel":
		reply, err = b.engine.Cancel(ctx, session.userId)
	case "/myads":
		b.handleMyAdsCommand(ctx, session)
		return
	case "/profile":
		b.handleProfileCommand(ctx, session)
		return
	case "/payments":
		b.handlePaymentHistory(ctx, session)
		return
	case "/roles":
		b.handleRolesCommand(ctx, session)
		return
	default:
		b.refreshLanguage(ctx, session)
		session.reply(msgHelp)
		return
	}
	b.respond(session, reply, err)
}

// handleCallbackQuery handles inline keyboard button presses.
// Called from session worker - no locking needed.
func (b *Bot) handleCallbackQuery(ctx context.Context, session *UserSession, query *tgbotapi.CallbackQuery) {
	// Answer the callback to remove the loading state
	callback := tgbotapi.NewCallback(query.ID, "")
	if _, err := b.tg.Request(callback); err != nil {
		log.Debug().Err(err).Int64("userId", session.userId).Msg("failed to answer callback query")
	}

	// Buttons are single-use.
	if query.Message != nil && query.Message.Chat != nil {
		edit := tgbotapi.NewEditMessageReplyMarkup(
			query.Message.Chat.ID,
			query.Message.MessageID,
			tgbotapi.InlineKeyboardMarkup{InlineKeyboard: [][]tgbotapi.InlineKeyboardButton{}},
		)
		if _, err := b.tg.Request(edit); err != nil {
			log.Debug().Err(err).Int64("userId", session.userId).Msg("failed to remove inline keyboard")
		}
	}

	switch prefix, value, _ := flow.ParseChoice(query.Data); prefix {
	case flow.PrefixAd:
		b.handleAdAction(ctx, session, value)
		return
	case flow.PrefixPayments:
		b.handlePaymentHistory(ctx, session)
		return
	}

	reply, err := b.engine.Handle(ctx, session.userId, flow.ChoiceEvent(query.Data))
	b.respond(session, reply, err)
}

// respond renders an engine reply in the user's language.
func (b *Bot) respond(session *UserSession, reply *flow.Reply, err error) {
	if err != nil {
		session.replyWithError(err)
		return
	}
	if reply.User != nil {
		session.lang = reply.User.Lang()
	}
	r := b.renderer(session, reply.User)
	for _, c := range r.render(session.userId, reply.Prompts) {
		session.send(c)
	}
}

func (b *Bot) renderer(session *UserSession, user *model.User) renderer {
	currency := b.currency
	if user != nil && user.Currency != "" {
		currency = user.Currency
	}
	return renderer{
		lang:         session.language(),
		currency:     currency,
		planCurrency: b.currency,
		payment:      b.payment,
	}
}
