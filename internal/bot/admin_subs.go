package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/Spok95/komekbai-bot/internal/domain/ledger"
)

const subscriptionDays = 30

func (b *Bot) handleAddSub(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	args := splitArgs(msg.CommandArguments(), 2)
	if len(args) < 2 {
		b.send(tgbotapi.NewMessage(chatID, "Использование: /add_sub <user_id> <телефон>"))
		return
	}
	userID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		b.send(tgbotapi.NewMessage(chatID, "Пожалуйста, введите корректные значения."))
		return
	}
	phone := args[1]

	sub, err := b.ledger.AddOrRenew(ctx, userID, phone, subscriptionDays)
	if err != nil {
		b.log.Error("subscriber add failed", "user_id", userID, "err", err)
		b.send(tgbotapi.NewMessage(chatID, "❌ Произошла ошибка. Попробуйте еще раз."))
		return
	}

	b.send(tgbotapi.NewMessage(chatID, fmt.Sprintf(
		"Подписка для пользователя %d добавлена до %s",
		userID, sub.ExpiresAt.Format("2006-01-02"))))
	if err := b.Notify(userID,
		"Ваша Подписка была успешно активирована!\nПриятного пользования ботом КөмекБай!"); err != nil {
		b.log.Error("subscriber notify failed", "user_id", userID, "err", err)
	}
}

func (b *Bot) handleExtendSub(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	args := splitArgs(msg.CommandArguments(), 1)
	if len(args) < 1 {
		b.send(tgbotapi.NewMessage(chatID, "Использование: /extend_sub <user_id>"))
		return
	}
	userID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		b.send(tgbotapi.NewMessage(chatID, "Пожалуйста, введите корректные значения."))
		return
	}

	sub, err := b.ledger.Extend(ctx, userID, subscriptionDays)
	if err != nil {
		if errors.Is(err, ledger.ErrNotFound) {
			b.send(tgbotapi.NewMessage(chatID, fmt.Sprintf(
				"Пользователь %d не найден среди подписчиков.", userID)))
			return
		}
		b.log.Error("subscription extend failed", "user_id", userID, "err", err)
		b.send(tgbotapi.NewMessage(chatID, "❌ Произошла ошибка. Попробуйте еще раз."))
		return
	}

	newExpiry := sub.ExpiresAt.Format("2006-01-02")
	if err := b.Notify(userID, fmt.Sprintf(
		"Ваша подписка продлена на %d дней. Новая дата окончания: %s",
		subscriptionDays, newExpiry)); err != nil {
		b.log.Error("subscriber notify failed", "user_id", userID, "err", err)
	}
	b.send(tgbotapi.NewMessage(chatID, fmt.Sprintf(
		"Подписка для пользователя %d продлена до %s", userID, newExpiry)))
}

func (b *Bot) handleRemoveSub(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	args := splitArgs(msg.CommandArguments(), 1)
	if len(args) < 1 {
		b.send(tgbotapi.NewMessage(chatID, "Использование: /remove_sub <user_id>"))
		return
	}
	userID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		b.send(tgbotapi.NewMessage(chatID, "Пожалуйста, введите корректное значение."))
		return
	}

	if err := b.ledger.Remove(ctx, userID); err != nil {
		b.log.Error("subscriber remove failed", "user_id", userID, "err", err)
		b.send(tgbotapi.NewMessage(chatID, "❌ Произошла ошибка. Попробуйте еще раз."))
		return
	}
	b.send(tgbotapi.NewMessage(chatID, fmt.Sprintf(
		"Подписка для пользователя %d удалена", userID)))
}

func (b *Bot) handleAdminAdd(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	args := splitArgs(msg.CommandArguments(), 2)
	if len(args) < 1 {
		b.send(tgbotapi.NewMessage(chatID, "Использование: /admin_add <user_id>"))
		return
	}
	userID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		b.send(tgbotapi.NewMessage(chatID, "Пожалуйста, введите корректный ID пользователя."))
		return
	}
	nickname := "Unknown"
	if len(args) > 1 {
		nickname = args[1]
	}

	if err := b.ledger.AddAdmin(ctx, nickname, userID); err != nil {
		if errors.Is(err, ledger.ErrAdminExists) {
			b.send(tgbotapi.NewMessage(chatID, fmt.Sprintf(
				"Админ с ID %d уже существует.", userID)))
			return
		}
		b.log.Error("admin add failed", "user_id", userID, "err", err)
		b.send(tgbotapi.NewMessage(chatID, "❌ Произошла ошибка. Попробуйте еще раз."))
		return
	}

	b.send(tgbotapi.NewMessage(chatID, fmt.Sprintf("Админ с ID %d добавлен!", userID)))
	if err := b.Notify(userID, "Вы были назначены админом ⚙"); err != nil {
		b.log.Error("admin notify failed", "user_id", userID, "err", err)
	}
}

func (b *Bot) handleAdminRemove(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	args := splitArgs(msg.CommandArguments(), 1)
	if len(args) < 1 {
		b.send(tgbotapi.NewMessage(chatID, "Использование: /admin_remove <user_id>"))
		return
	}
	identifier := args[0]

	found, err := b.ledger.RemoveAdmin(ctx, identifier, isDigits(identifier))
	if err != nil {
		b.log.Error("admin remove failed", "identifier", identifier, "err", err)
		b.send(tgbotapi.NewMessage(chatID, "❌ Произошла ошибка. Попробуйте еще раз."))
		return
	}
	if !found {
		b.send(tgbotapi.NewMessage(chatID, fmt.Sprintf("Админ %s не найден.", identifier)))
		return
	}
	b.send(tgbotapi.NewMessage(chatID, fmt.Sprintf("Админ %s удален", identifier)))
}
