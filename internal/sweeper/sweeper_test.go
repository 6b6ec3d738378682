package sweeper

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Spok95/komekbai-bot/internal/domain/ledger"
)

type fakeLedger struct {
	expiring map[string][]ledger.Subscriber // ключ — дата "2006-01-02"
	expired  []ledger.Subscriber

	markedIDs  []int64
	markedAt   time.Time
	markErr    error
	archiveCut time.Time
	archived   int64
}

func (f *fakeLedger) ExpiringOn(_ context.Context, day time.Time) ([]ledger.Subscriber, error) {
	return f.expiring[day.Format("2006-01-02")], nil
}

func (f *fakeLedger) Expired(_ context.Context, _ time.Time) ([]ledger.Subscriber, error) {
	return f.expired, nil
}

func (f *fakeLedger) MarkExpired(_ context.Context, ids []int64, now time.Time) error {
	if f.markErr != nil {
		return f.markErr
	}
	f.markedIDs = ids
	f.markedAt = now
	return nil
}

func (f *fakeLedger) ArchiveOlderThan(_ context.Context, cutoff time.Time) (int64, error) {
	f.archiveCut = cutoff
	return f.archived, nil
}

type fakeNotifier struct {
	sent    map[int64][]string
	failFor map[int64]bool
}

func newFakeNotifier() *fakeNotifier {
	return &fakeNotifier{sent: map[int64][]string{}, failFor: map[int64]bool{}}
}

func (f *fakeNotifier) Notify(chatID int64, text string) error {
	if f.failFor[chatID] {
		return errors.New("blocked by user")
	}
	f.sent[chatID] = append(f.sent[chatID], text)
	return nil
}

func newTestSweeper(l Ledger, n Notifier, now time.Time) *Sweeper {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	s := New(l, n, log, time.Minute)
	s.now = func() time.Time { return now }
	return s
}

func sub(id int64, expires time.Time) ledger.Subscriber {
	return ledger.Subscriber{UserID: id, ExpiresAt: expires, Status: ledger.StatusActive}
}

func TestSweepReminders(t *testing.T) {
	now := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
	fl := &fakeLedger{
		expiring: map[string][]ledger.Subscriber{
			"2026-09-04": {sub(100, now.AddDate(0, 0, 3))},
			"2026-09-02": {sub(200, now.AddDate(0, 0, 1))},
		},
	}
	fn := newFakeNotifier()

	newTestSweeper(fl, fn, now).Sweep(context.Background())

	assert.Equal(t, []string{msgThreeDays}, fn.sent[100])
	assert.Equal(t, []string{msgOneDay}, fn.sent[200])
}

func TestSweepExpiresBatch(t *testing.T) {
	now := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
	fl := &fakeLedger{
		expired: []ledger.Subscriber{
			sub(1, now.Add(-time.Hour)),
			sub(2, now.Add(-2*time.Hour)),
		},
	}
	fn := newFakeNotifier()

	newTestSweeper(fl, fn, now).Sweep(context.Background())

	assert.Equal(t, []int64{1, 2}, fl.markedIDs)
	// перенос получает момент выборки: по нему UPDATE перепроверяет срок
	assert.Equal(t, now, fl.markedAt)
	assert.Equal(t, []string{msgExpired}, fn.sent[1])
	assert.Equal(t, []string{msgExpired}, fn.sent[2])
}

func TestSweepExpiresDespiteSendFailure(t *testing.T) {
	now := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
	fl := &fakeLedger{
		expired: []ledger.Subscriber{
			sub(1, now.Add(-time.Hour)),
			sub(2, now.Add(-time.Hour)),
		},
	}
	fn := newFakeNotifier()
	fn.failFor[1] = true

	newTestSweeper(fl, fn, now).Sweep(context.Background())

	// сбой отправки не мешает пакетному переносу обоих
	assert.Equal(t, []int64{1, 2}, fl.markedIDs)
	assert.Empty(t, fn.sent[1])
	assert.Equal(t, []string{msgExpired}, fn.sent[2])
}

func TestSweepArchiveCutoff(t *testing.T) {
	now := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
	fl := &fakeLedger{archived: 3}
	fn := newFakeNotifier()

	newTestSweeper(fl, fn, now).Sweep(context.Background())

	assert.Equal(t, now.Add(-archiveAfter), fl.archiveCut)
}

func TestSweepNothingToDo(t *testing.T) {
	now := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
	fl := &fakeLedger{}
	fn := newFakeNotifier()

	newTestSweeper(fl, fn, now).Sweep(context.Background())

	assert.Empty(t, fn.sent)
	assert.Empty(t, fl.markedIDs)
}

func TestRunStopsOnContextCancel(t *testing.T) {
	fl := &fakeLedger{}
	fn := newFakeNotifier()
	s := newTestSweeper(fl, fn, time.Now())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop on cancel")
	}
}
