package reminder

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"github.com/chirchiq/estate-bot/internal/model"
)

// Store lists subscriptions about to end and remembers who was told.
type Store interface {
	ListExpiringSubscriptions(ctx context.Context, now time.Time, within time.Duration) ([]model.User, error)
	MarkExpiryReminded(ctx context.Context, userID int64, end time.Time) error
}

// Sender delivers a reminder to the user.
type Sender interface {
	SendExpiryReminder(ctx context.Context, user *model.User, daysLeft int) error
}

// Service reminds paid-role users before their subscription ends. Each
// subscription end date is reminded about at most once.
type Service struct {
	store      Store
	sender     Sender
	schedule   string
	daysBefore int
	now        func() time.Time
}

// NewService creates a reminder service. schedule is a standard five-field
// cron expression.
func NewService(store Store, sender Sender, schedule string, daysBefore int) *Service {
	return &Service{
		store:      store,
		sender:     sender,
		schedule:   schedule,
		daysBefore: daysBefore,
		now:        time.Now,
	}
}

// Run checks once right away and then on every schedule tick. It blocks
// until the context is cancelled.
func (s *Service) Run(ctx context.Context) error {
	c := cron.New()
	if _, err := c.AddFunc(s.schedule, func() { s.RunOnce(ctx) }); err != nil {
		return fmt.Errorf("invalid reminder schedule %q: %w", s.schedule, err)
	}

	log.Info().Str("schedule", s.schedule).Int("daysBefore", s.daysBefore).Msg("starting reminder service")
	s.RunOnce(ctx)

	c.Start()
	<-ctx.Done()
	<-c.Stop().Done()
	log.Info().Msg("reminder service stopped")
	return nil
}

// RunOnce sends reminders for subscriptions ending within the window and
// returns how many were sent. Failed users are retried on the next run.
func (s *Service) RunOnce(ctx context.Context) int {
	now := s.now()
	within := time.Duration(s.daysBefore) * 24 * time.Hour

	users, err := s.store.ListExpiringSubscriptions(ctx, now, within)
	if err != nil {
		log.Error().Err(err).Msg("failed to list expiring subscriptions")
		return 0
	}
	if len(users) == 0 {
		log.Debug().Msg("no subscriptions to remind about")
		return 0
	}

	sent := 0
	for i := range users {
		if ctx.Err() != nil {
			break
		}
		user := &users[i]
		if user.SubscriptionEnd == nil {
			continue
		}
		daysLeft := user.SubscriptionDaysLeft(now)
		if err := s.sender.SendExpiryReminder(ctx, user, daysLeft); err != nil {
			log.Error().Err(err).Int64("userId", user.ID).Msg("failed to send expiry reminder")
			continue
		}
		if err := s.store.MarkExpiryReminded(ctx, user.ID, *user.SubscriptionEnd); err != nil {
			log.Error().Err(err).Int64("userId", user.ID).Msg("failed to mark expiry reminded")
			continue
		}
		sent++
	}

	log.Info().Int("candidates", len(users)).Int("sent", sent).Msg("expiry reminders sent")
	return sent
}
