package bot

import (
	"context"
	"fmt"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/Spok95/komekbai-bot/internal/domain/access"
)

// handleGradeSelection открывает меню разделов. Первый класс доступен
// всем, со второго по четвертый — подписчикам и администраторам.
func (b *Bot) handleGradeSelection(ctx context.Context, cb *tgbotapi.CallbackQuery, grade int) {
	chatID := cb.Message.Chat.ID

	if grade >= 2 {
		isAdmin, err := b.ledger.IsAdmin(ctx, chatID)
		if err != nil {
			b.log.Error("admin check failed", "chat_id", chatID, "err", err)
		}
		isSub, err := b.ledger.IsSubscriber(ctx, chatID)
		if err != nil {
			b.log.Error("subscriber check failed", "chat_id", chatID, "err", err)
		}
		if !isAdmin && !isSub {
			b.send(tgbotapi.NewMessage(chatID, fmt.Sprintf(
				"Оформите подписку для разблокировки %d класса. "+
					`Отправьте боту слово "Подписка" для оплаты ✉️`, grade)))
			return
		}
	}

	username := cb.From.FirstName
	if username == "" {
		username = cb.From.UserName
	}
	if username == "" {
		username = "друг"
	}
	b.send(tgbotapi.NewMessage(chatID, fmt.Sprintf(
		"Привет, %s! Я КөмекБай - твой помощник в выполнении домашних заданий за %d класс 😇",
		username, grade)))

	b.showChapterMenu(ctx, chatID, grade)
}

func (b *Bot) showChapterMenu(ctx context.Context, chatID int64, grade int) {
	chapters, err := b.content.Chapters(grade)
	if err != nil {
		b.log.Error("chapters load failed", "grade", grade, "err", err)
		b.send(tgbotapi.NewMessage(chatID, "❌ Произошла ошибка. Попробуйте еще раз."))
		return
	}
	if len(chapters) == 0 {
		b.send(tgbotapi.NewMessage(chatID, "Нет доступных глав."))
		return
	}

	isAdmin, _ := b.ledger.IsAdmin(ctx, chatID)
	isSub, _ := b.ledger.IsSubscriber(ctx, chatID)
	now := time.Now()

	var rows [][]tgbotapi.InlineKeyboardButton
	for _, ch := range chapters {
		label := ch.Name
		var data string
		switch access.Decide(ch, isAdmin, isSub, now) {
		case access.Open:
			data = fmt.Sprintf("ch:%d:%d", grade, ch.Number)
		case access.LockedByDate:
			label = "Заблокировано"
			data = fmt.Sprintf("lock:date:%d:%d", grade, ch.Number)
		case access.LockedBySubscription:
			label = "Заблокировано"
			data = "lock:sub"
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(label, data)))
	}

	m := tgbotapi.NewMessage(chatID, "На какой ты главе? 📖")
	m.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(rows...)
	b.send(m)
}

func (b *Bot) showLessonMenu(chatID int64, grade, chapter int) {
	lessons, err := b.content.Lessons(grade, chapter)
	if err != nil {
		b.log.Error("lessons load failed", "grade", grade, "chapter", chapter, "err", err)
		b.send(tgbotapi.NewMessage(chatID, "❌ Произошла ошибка. Попробуйте еще раз."))
		return
	}
	if len(lessons) == 0 {
		b.send(tgbotapi.NewMessage(chatID, "Нет доступных уроков."))
		return
	}

	var rows [][]tgbotapi.InlineKeyboardButton
	for _, les := range lessons {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(les.Name,
				fmt.Sprintf("les:%d:%d:%d", grade, chapter, les.Number))))
	}

	m := tgbotapi.NewMessage(chatID, "Выберите урок 📚")
	m.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(rows...)
	b.send(m)
}

func (b *Bot) showLesson(ctx context.Context, chatID int64, grade, chapter, number int) {
	lessons, err := b.content.Lessons(grade, chapter)
	if err != nil {
		b.log.Error("lessons load failed", "grade", grade, "chapter", chapter, "err", err)
		b.send(tgbotapi.NewMessage(chatID, "❌ Произошла ошибка. Попробуйте еще раз."))
		return
	}
	for _, les := range lessons {
		if les.Number != number {
			continue
		}
		switch access.LessonStatus(les.URL) {
		case access.LessonReady:
			b.sendHTML(chatID, fmt.Sprintf(
				"(Подожди пока видео загрузится <a href=\"%s\">⌛</a>)\n<b>Урок - %s</b>",
				les.URL, les.Name))
		case access.LessonNotReady:
			b.send(tgbotapi.NewMessage(chatID, "К сожалению, этот урок еще не готов ☹"))
		case access.LessonBroken:
			b.send(tgbotapi.NewMessage(chatID,
				"К сожалению, возникли проблемы с этим уроком. Попробуйте еще раз позже ⚙"))
			b.notifyAdmins(ctx, fmt.Sprintf(
				"Проблема с ссылкой на видео в уроке %s, глава %d, класс %d",
				les.Name, chapter, grade), "")
		}
		return
	}
	b.send(tgbotapi.NewMessage(chatID, "Урок не найден."))
}

func (b *Bot) showOpeningDate(chatID int64, grade, chapter int) {
	ch, err := b.content.Chapter(grade, chapter)
	if err != nil || ch == nil || ch.OpeningDate == nil {
		b.send(tgbotapi.NewMessage(chatID, "Этот раздел пока закрыт 🗓️"))
		return
	}
	b.send(tgbotapi.NewMessage(chatID, access.OpeningDateMessage(*ch.OpeningDate)))
}
