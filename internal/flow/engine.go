package flow

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/chirchiq/estate-bot/internal/model"
)

// SessionStore keeps one DialogueState per user.
type SessionStore interface {
	Get(ctx context.Context, userID int64) (*DialogueState, error)
	Set(ctx context.Context, userID int64, st DialogueState) error
	Clear(ctx context.Context, userID int64) error
}

// Persistence is the durable store for users, listings and payments.
// GetUser returns nil, nil for unknown users.
type Persistence interface {
	GetUser(ctx context.Context, id int64) (*model.User, error)
	CreateUser(ctx context.Context, u *model.User) error
	UpdateUserRole(ctx context.Context, id int64, role model.Role, trialDays int) error
	UpdateUserLanguage(ctx context.Context, id int64, lang model.Language) error
	CountActiveListings(ctx context.Context, userID int64, now time.Time) (int, error)
	CreateAd(ctx context.Context, ad *model.Ad) (int64, error)
	CreatePendingPayment(ctx context.Context, p *model.Payment) (int64, error)
	AttachReceipt(ctx context.Context, paymentID int64, fileID string) error
	CancelPayment(ctx context.Context, paymentID int64) error
}

// Notifier informs the admin. Calls run in the background after the user's
// turn is stored; errors are logged and never reach the user.
type Notifier interface {
	NotifyNewListing(ctx context.Context, adID int64) error
	NotifyNewPayment(ctx context.Context, paymentID int64, receiptFileID string) error
}

// Profile identifies a chat user on first contact.
type Profile struct {
	ID        int64
	FirstName string
	Username  string
}

// Reply is what the transport renders after an engine call. User reflects
// changes made by the call and may be nil for unknown users.
type Reply struct {
	User    *model.User
	Prompts []Prompt
}

// notifyTimeout bounds one background admin notification.
const notifyTimeout = time.Minute

// Engine runs transitions for a user: it loads state, executes effects and
// stores the next state. Callers must serialize calls per user.
type Engine struct {
	store    Persistence
	sessions SessionStore
	notifier Notifier
	currency string
	now      func() time.Time

	notifications sync.WaitGroup
}

func NewEngine(store Persistence, sessions SessionStore, notifier Notifier, currency string) *Engine {
	if currency == "" {
		currency = "uzs"
	}
	return &Engine{
		store:    store,
		sessions: sessions,
		notifier: notifier,
		currency: currency,
		now:      time.Now,
	}
}

// Wait blocks until background notifications have finished.
func (e *Engine) Wait() {
	e.notifications.Wait()
}

// Start greets the user, registering and onboarding them on first contact.
func (e *Engine) Start(ctx context.Context, p Profile) (*Reply, error) {
	user, err := e.store.GetUser(ctx, p.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user != nil {
		c := e.context(user)
		prompts := []Prompt{prompt(MsgWelcomeBack, user.FirstName, user.Role, user.SubscriptionDaysLeft(c.Now))}
		return &Reply{User: user, Prompts: prompts}, nil
	}

	user = &model.User{
		ID:        p.ID,
		FirstName: p.FirstName,
		Username:  p.Username,
		Role:      model.DefaultRole,
		Language:  model.DefaultLanguage,
		Currency:  e.currency,
		CreatedAt: e.now(),
	}
	if err := e.store.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	log.Info().Int64("userId", p.ID).Str("username", p.Username).Msg("registered new user")

	return e.apply(ctx, user, BeginOnboarding(e.context(user)))
}

// StartListing opens the listing flow if the role gates allow it.
func (e *Engine) StartListing(ctx context.Context, userID int64) (*Reply, error) {
	user, err := e.user(ctx, userID)
	if err != nil || user == nil {
		return e.unknownUser(err)
	}
	c := e.context(user)

	active := 0
	if !user.Role.IsPaid() {
		active, err = e.store.CountActiveListings(ctx, userID, c.Now)
		if err != nil {
			return nil, fmt.Errorf("failed to count active listings: %w", err)
		}
	}

	res, err := BeginListing(c, active)
	switch {
	case errors.Is(err, ErrSubscriptionRequired):
		return &Reply{User: user, Prompts: []Prompt{prompt(MsgSubscriptionRequired, user.Role)}}, nil
	case errors.Is(err, ErrListingLimitReached):
		return &Reply{User: user, Prompts: []Prompt{prompt(MsgListingLimitReached, model.FreeRoleListingLimit)}}, nil
	case err != nil:
		return nil, err
	}
	return e.replace(ctx, user, res)
}

func (e *Engine) StartSubscription(ctx context.Context, userID int64) (*Reply, error) {
	user, err := e.user(ctx, userID)
	if err != nil || user == nil {
		return e.unknownUser(err)
	}
	res, err := BeginSubscription(e.context(user))
	if err != nil {
		return nil, err
	}
	return e.replace(ctx, user, res)
}

func (e *Engine) StartRoleSelection(ctx context.Context, userID int64) (*Reply, error) {
	user, err := e.user(ctx, userID)
	if err != nil || user == nil {
		return e.unknownUser(err)
	}
	return e.replace(ctx, user, BeginRoleSelection(e.context(user)))
}

func (e *Engine) StartLanguageSelection(ctx context.Context, userID int64) (*Reply, error) {
	user, err := e.user(ctx, userID)
	if err != nil || user == nil {
		return e.unknownUser(err)
	}
	return e.replace(ctx, user, BeginLanguageSelection(e.context(user)))
}

// Cancel abandons the user's current dialogue.
func (e *Engine) Cancel(ctx context.Context, userID int64) (*Reply, error) {
	user, err := e.user(ctx, userID)
	if err != nil || user == nil {
		return e.unknownUser(err)
	}
	st, err := e.state(ctx, userID)
	if err != nil {
		return nil, err
	}
	return e.apply(ctx, user, Cancel(st))
}

// Handle feeds one event to the user's current dialogue.
func (e *Engine) Handle(ctx context.Context, userID int64, ev Event) (*Reply, error) {
	user, err := e.user(ctx, userID)
	if err != nil || user == nil {
		return e.unknownUser(err)
	}
	st, err := e.state(ctx, userID)
	if err != nil {
		return nil, err
	}
	res := Transition(st, ev, e.context(user))
	log.Debug().
		Int64("userId", userID).
		Str("event", ev.Kind.String()).
		Str("from", st.Stage.String()).
		Str("to", res.State.Stage.String()).
		Msg("dialogue transition")
	return e.apply(ctx, user, res)
}

// State returns the user's current dialogue state, Idle when none is stored.
func (e *Engine) State(ctx context.Context, userID int64) (DialogueState, error) {
	return e.state(ctx, userID)
}

func (e *Engine) context(user *model.User) Context {
	return Context{User: user, Now: e.now()}
}

func (e *Engine) user(ctx context.Context, userID int64) (*model.User, error) {
	user, err := e.store.GetUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

func (e *Engine) unknownUser(err error) (*Reply, error) {
	if err != nil {
		return nil, err
	}
	return &Reply{Prompts: []Prompt{prompt(MsgStartFirst)}}, nil
}

func (e *Engine) state(ctx context.Context, userID int64) (DialogueState, error) {
	st, err := e.sessions.Get(ctx, userID)
	if err != nil {
		return DialogueState{}, fmt.Errorf("failed to get dialogue state: %w", err)
	}
	if st == nil {
		return idle(), nil
	}
	return *st, nil
}

// replace applies res in place of whatever dialogue the user had open.
func (e *Engine) replace(ctx context.Context, user *model.User, res Result) (*Reply, error) {
	st, err := e.state(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	return e.apply(ctx, user, Replace(st, res))
}

// apply executes res.Effects, stores res.State and then hands notifications
// to the background. When an effect fails the state is left as it was so the
// user can retry.
func (e *Engine) apply(ctx context.Context, user *model.User, res Result) (*Reply, error) {
	notify, err := e.execute(ctx, user, res.Effects)
	if err != nil {
		return nil, err
	}

	if res.State.Stage == StageIdle {
		err = e.sessions.Clear(ctx, user.ID)
	} else {
		err = e.sessions.Set(ctx, user.ID, res.State)
	}
	if err != nil {
		if len(res.Effects) == 0 {
			return nil, fmt.Errorf("failed to save dialogue state: %w", err)
		}
		// Effects are already committed.
		log.Error().Err(err).Int64("userId", user.ID).Msg("failed to save dialogue state")
	}

	for _, fn := range notify {
		e.notify(ctx, fn)
	}
	return &Reply{User: user, Prompts: res.Prompts}, nil
}

// notify runs fn in the background with its own deadline, detached from the
// caller's cancellation.
func (e *Engine) notify(ctx context.Context, fn func(context.Context)) {
	e.notifications.Add(1)
	go func() {
		defer e.notifications.Done()
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), notifyTimeout)
		defer cancel()
		fn(ctx)
	}()
}

// execute runs the persistence effects in order and returns the admin
// notifications to send once the turn is stored.
func (e *Engine) execute(ctx context.Context, user *model.User, effects []Effect) ([]func(context.Context), error) {
	var (
		adID   int64
		notify []func(context.Context)
	)
	for _, eff := range effects {
		switch eff := eff.(type) {
		case CreateAd:
			ad := &model.Ad{
				UserID:      user.ID,
				Type:        eff.Draft.Type,
				Title:       eff.Draft.Title,
				Description: eff.Draft.Description,
				Price:       eff.Draft.Price,
				Currency:    user.Currency,
				Location:    eff.Draft.Location,
				Photos:      eff.Draft.Photos,
				Status:      model.AdStatusPending,
				CreatedAt:   e.now(),
			}
			id, err := e.store.CreateAd(ctx, ad)
			if err != nil {
				return nil, fmt.Errorf("failed to create ad: %w", err)
			}
			adID = id
			log.Info().Int64("userId", user.ID).Int64("adId", id).Msg("listing submitted")

		case CreatePendingPayment:
			p := &model.Payment{
				UserID:       user.ID,
				Role:         eff.Draft.TargetRole,
				Plan:         eff.Draft.Plan,
				Amount:       eff.Draft.Amount,
				Currency:     e.currency,
				DurationDays: eff.Draft.DurationDays,
				Reference:    newReference(),
				Status:       model.PaymentPending,
				CreatedAt:    e.now(),
			}
			id, err := e.store.CreatePendingPayment(ctx, p)
			if err != nil {
				return nil, fmt.Errorf("failed to create pending payment: %w", err)
			}
			eff.Draft.PaymentID = id
			eff.Draft.Reference = p.Reference
			log.Info().Int64("userId", user.ID).Int64("paymentId", id).Str("plan", string(p.Plan)).Msg("pending payment created")

		case AttachReceipt:
			if err := e.store.AttachReceipt(ctx, eff.PaymentID, eff.FileID); err != nil {
				return nil, fmt.Errorf("failed to attach receipt: %w", err)
			}

		case CancelPayment:
			if err := e.store.CancelPayment(ctx, eff.PaymentID); err != nil {
				return nil, fmt.Errorf("failed to cancel payment: %w", err)
			}

		case UpdateUserRole:
			if err := e.store.UpdateUserRole(ctx, user.ID, eff.Role, eff.TrialDays); err != nil {
				return nil, fmt.Errorf("failed to update user role: %w", err)
			}
			user.Role = eff.Role
			if eff.TrialDays > 0 {
				start := e.now()
				end := start.AddDate(0, 0, eff.TrialDays)
				user.SubscriptionStart = &start
				user.SubscriptionEnd = &end
				user.TrialUsed = true
			}

		case UpdateUserLanguage:
			if err := e.store.UpdateUserLanguage(ctx, user.ID, eff.Language); err != nil {
				return nil, fmt.Errorf("failed to update user language: %w", err)
			}
			user.Language = eff.Language

		case NotifyNewListing:
			if e.notifier == nil || adID == 0 {
				continue
			}
			id := adID
			notify = append(notify, func(ctx context.Context) {
				if err := e.notifier.NotifyNewListing(ctx, id); err != nil {
					log.Error().Err(err).Int64("adId", id).Msg("failed to notify admin about new listing")
				}
			})

		case NotifyNewPayment:
			if e.notifier == nil {
				continue
			}
			notify = append(notify, func(ctx context.Context) {
				if err := e.notifier.NotifyNewPayment(ctx, eff.PaymentID, eff.FileID); err != nil {
					log.Error().Err(err).Int64("paymentId", eff.PaymentID).Msg("failed to notify admin about new payment")
				}
			})
		}
	}
	return notify, nil
}

// newReference is the code a user writes in the bank transfer comment.
func newReference() string {
	return strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:10])
}
