package bot

import (
	"context"
	"log/slog"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/Spok95/komekbai-bot/internal/dialog"
	"github.com/Spok95/komekbai-bot/internal/domain/content"
	"github.com/Spok95/komekbai-bot/internal/domain/ledger"
)

// stateStore и ledgerStore — узкие срезы репозиториев, через которые
// работают обработчики.
type stateStore interface {
	Get(ctx context.Context, chatID int64) (*dialog.Item, error)
	Set(ctx context.Context, chatID int64, state dialog.State, payload dialog.Payload) error
	Reset(ctx context.Context, chatID int64) error
}

type ledgerStore interface {
	AddOrRenew(ctx context.Context, userID int64, phone string, days int) (*ledger.Subscriber, error)
	Extend(ctx context.Context, userID int64, days int) (*ledger.Subscriber, error)
	Remove(ctx context.Context, userID int64) error
	IsSubscriber(ctx context.Context, userID int64) (bool, error)
	IsAdmin(ctx context.Context, tgID int64) (bool, error)
	AddAdmin(ctx context.Context, nickname string, tgID int64) error
	RemoveAdmin(ctx context.Context, identifier string, byID bool) (bool, error)
	AdminIDs(ctx context.Context) ([]int64, error)
	ListByStatus(ctx context.Context, status ledger.Status) ([]ledger.Subscriber, error)
}

type Bot struct {
	api     *tgbotapi.BotAPI
	log     *slog.Logger
	states  stateStore
	ledger  ledgerStore
	content *content.Store
}

func New(api *tgbotapi.BotAPI, log *slog.Logger,
	statesRepo *dialog.Repo, ledgerRepo *ledger.Repo, store *content.Store) *Bot {

	return &Bot{
		api: api, log: log, states: statesRepo,
		ledger: ledgerRepo, content: store,
	}
}

func (b *Bot) Run(ctx context.Context, timeoutSec int) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = timeoutSec
	updates := b.api.GetUpdatesChan(u)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case upd := <-updates:
			if upd.Message != nil {
				b.onMessage(ctx, upd.Message)
			} else if upd.CallbackQuery != nil {
				b.onCallback(ctx, upd.CallbackQuery)
			}
		}
	}
}

func (b *Bot) send(msg tgbotapi.Chattable) {
	if _, err := b.api.Send(msg); err != nil {
		b.log.Error("send failed", "err", err)
	}
}

// Notify — доставка одного текстового сообщения; этим интерфейсом
// пользуется фоновый sweeper.
func (b *Bot) Notify(chatID int64, text string) error {
	_, err := b.api.Send(tgbotapi.NewMessage(chatID, text))
	return err
}

// notifyAdmins рассылает служебное сообщение всем администраторам.
// Сбой по одному получателю не прерывает рассылку.
func (b *Bot) notifyAdmins(ctx context.Context, text, parseMode string) {
	ids, err := b.ledger.AdminIDs(ctx)
	if err != nil {
		b.log.Error("admin list failed", "err", err)
		return
	}
	for _, id := range ids {
		m := tgbotapi.NewMessage(id, text)
		m.ParseMode = parseMode
		if _, err := b.api.Send(m); err != nil {
			b.log.Error("admin notify failed", "admin_id", id, "err", err)
		}
	}
}

func (b *Bot) answerCallback(cb *tgbotapi.CallbackQuery, text string) {
	resp := tgbotapi.NewCallback(cb.ID, text)
	if _, err := b.api.Request(resp); err != nil {
		b.log.Error("callback answer failed", "err", err)
	}
}
