package bot

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/Spok95/komekbai-bot/internal/dialog"
)

const (
	priceMonthKZT = 4990
	payPhone      = "+7 701 234 5678"
)

func (b *Bot) offerSubscription(chatID int64) {
	m := tgbotapi.NewMessage(chatID,
		fmt.Sprintf("Для оформления 30-дневной подписки, оплатите *%d₸* через Kaspi.kz", priceMonthKZT))
	m.ParseMode = tgbotapi.ModeMarkdown
	m.ReplyMarkup = subscribeKeyboard()
	b.send(m)
}

func (b *Bot) offerExtension(chatID int64) {
	m := tgbotapi.NewMessage(chatID,
		fmt.Sprintf("Мы рады, что вам понравился КөмекБай! 😊 Для продления 30-дневной подписки, оплатите *%d₸* через Kaspi.kz", priceMonthKZT))
	m.ParseMode = tgbotapi.ModeMarkdown
	m.ReplyMarkup = extendKeyboard()
	b.send(m)
}

func (b *Bot) askPhone(ctx context.Context, chatID int64) {
	if err := b.states.Set(ctx, chatID, dialog.StateAwaitPhone, dialog.Payload{}); err != nil {
		b.log.Error("dialog state set failed", "chat_id", chatID, "err", err)
	}
	m := tgbotapi.NewMessage(chatID, "Отправьте свой номер телефона в чат 📞")
	m.ParseMode = tgbotapi.ModeMarkdown
	b.send(m)
}

// finalizeSubscription завершает заявку на оформление: оплата подтверждается
// вручную, администраторы подключают подписку командой /add_sub.
func (b *Bot) finalizeSubscription(ctx context.Context, chatID int64, phone string) {
	if err := b.states.Reset(ctx, chatID); err != nil {
		b.log.Error("dialog state reset failed", "chat_id", chatID, "err", err)
	}

	m := tgbotapi.NewMessage(chatID,
		fmt.Sprintf("Оплатите *%d₸* по номеру:\n%s", priceMonthKZT, payPhone))
	m.ParseMode = tgbotapi.ModeMarkdown
	b.send(m)
	b.send(tgbotapi.NewMessage(chatID, "Бот сообщит вам, когда подписка станет активна 😊"))

	b.notifyAdmins(ctx, fmt.Sprintf(
		"Пользователь с ID: <b>%d</b>, телефон: %s желает купить подписку.",
		chatID, phone), tgbotapi.ModeHTML)
}

func (b *Bot) finalizeExtension(ctx context.Context, chatID int64, months int) {
	if err := b.states.Reset(ctx, chatID); err != nil {
		b.log.Error("dialog state reset failed", "chat_id", chatID, "err", err)
	}

	m := tgbotapi.NewMessage(chatID,
		fmt.Sprintf("Оплатите *%d₸* по номеру:\n%s", priceMonthKZT*months, payPhone))
	m.ParseMode = tgbotapi.ModeMarkdown
	b.send(m)
	b.send(tgbotapi.NewMessage(chatID, "Бот сообщит вам, как только подписка будет продлена 😊"))

	b.notifyAdmins(ctx, fmt.Sprintf(
		"Пользователь с ID: <b>%d</b>, желает продлить подписку на %d месяц(ев).\n"+
			"Используйте команду '<i>/extend_sub user_id</i>' для продления подписки",
		chatID, months), tgbotapi.ModeHTML)
}
