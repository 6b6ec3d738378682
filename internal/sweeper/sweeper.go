package sweeper

import (
	"context"
	"log/slog"
	"time"

	"github.com/Spok95/komekbai-bot/internal/domain/ledger"
)

const (
	msgThreeDays = `Дорогой пользователь КөмекБай! 📅 Срок вашей подписки истекает через 3 дня. ⏳ Если вы желаете продлить подписку, напишите боту: "Продлить подписку" ✉️`
	msgOneDay    = `Дорогой пользователь КөмекБай! 📅 Срок вашей подписки истекает завтра! ⏳ Если вы желаете продлить подписку, напишите боту: "Продлить подписку" ✉️`
	msgExpired   = `Дорогой пользователь КөмекБай! 📅 К сожалению, срок вашей подписки истек. 😔 Чтобы продолжить пользоваться нашими услугами, пожалуйста, продлите подписку`
)

// archiveAfter — через сколько дней после окончания подписки expired-ряд
// уходит в архив.
const archiveAfter = 30 * 24 * time.Hour

type Ledger interface {
	ExpiringOn(ctx context.Context, day time.Time) ([]ledger.Subscriber, error)
	Expired(ctx context.Context, now time.Time) ([]ledger.Subscriber, error)
	MarkExpired(ctx context.Context, userIDs []int64, now time.Time) error
	ArchiveOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

type Notifier interface {
	Notify(chatID int64, text string) error
}

// Sweeper — фоновый цикл жизненного круга подписок:
// напоминания за 3 дня и за день, перевод истёкших в expired,
// архивация expired старше месяца.
type Sweeper struct {
	ledger   Ledger
	notifier Notifier
	log      *slog.Logger
	interval time.Duration
	now      func() time.Time
}

func New(l Ledger, n Notifier, log *slog.Logger, interval time.Duration) *Sweeper {
	return &Sweeper{ledger: l, notifier: n, log: log, interval: interval, now: time.Now}
}

func (s *Sweeper) Run(ctx context.Context) {
	t := time.NewTicker(s.interval)
	defer t.Stop()

	s.Sweep(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			s.Sweep(ctx)
		}
	}
}

// Sweep выполняет один проход. Шаги независимы: сбой рассылки не мешает
// переносу истёкших, сбой переноса не мешает архивации.
func (s *Sweeper) Sweep(ctx context.Context) {
	now := s.now()

	s.remind(ctx, now.AddDate(0, 0, 3), msgThreeDays)
	s.remind(ctx, now.AddDate(0, 0, 1), msgOneDay)
	s.expire(ctx, now)
	s.archive(ctx, now)
}

func (s *Sweeper) remind(ctx context.Context, day time.Time, text string) {
	subs, err := s.ledger.ExpiringOn(ctx, day)
	if err != nil {
		s.log.Error("reminder query failed", "err", err)
		return
	}
	for _, sub := range subs {
		if err := s.notifier.Notify(sub.UserID, text); err != nil {
			s.log.Error("reminder send failed", "user_id", sub.UserID, "err", err)
		}
	}
}

func (s *Sweeper) expire(ctx context.Context, now time.Time) {
	subs, err := s.ledger.Expired(ctx, now)
	if err != nil {
		s.log.Error("expired query failed", "err", err)
		return
	}
	if len(subs) == 0 {
		s.log.Info("no expired subscriptions found")
		return
	}

	ids := make([]int64, 0, len(subs))
	for _, sub := range subs {
		ids = append(ids, sub.UserID)
		// Уведомление — до переноса, но его сбой перенос не отменяет.
		if err := s.notifier.Notify(sub.UserID, msgExpired); err != nil {
			s.log.Error("expiry notice send failed", "user_id", sub.UserID, "err", err)
		}
		s.log.Info("subscription expired", "user_id", sub.UserID, "expires_at", sub.ExpiresAt)
	}

	if err := s.ledger.MarkExpired(ctx, ids, now); err != nil {
		s.log.Error("expired batch move failed", "err", err)
		return
	}
	s.log.Info("moved subscribers to expired", "count", len(ids))
}

func (s *Sweeper) archive(ctx context.Context, now time.Time) {
	n, err := s.ledger.ArchiveOlderThan(ctx, now.Add(-archiveAfter))
	if err != nil {
		s.log.Error("archive batch move failed", "err", err)
		return
	}
	if n > 0 {
		s.log.Info("archived old expired subscribers", "count", n)
	}
}
