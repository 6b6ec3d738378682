package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/Spok95/komekbai-bot/internal/dialog"
)

func (b *Bot) onMessage(ctx context.Context, msg *tgbotapi.Message) {
	if msg.IsCommand() {
		b.handleCommand(ctx, msg)
		return
	}
	b.handleText(ctx, msg)
}

func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	switch msg.Command() {
	case "start":
		b.send(tgbotapi.NewMessage(chatID, "Привет 👋"))
		m := tgbotapi.NewMessage(chatID, "В каком ты классе?")
		m.ReplyMarkup = gradeKeyboard()
		b.send(m)

	case "get_id":
		b.send(tgbotapi.NewMessage(chatID, fmt.Sprintf("Ваш ID: %d", chatID)))

	case "subscribe":
		b.offerSubscription(chatID)

	case "lessons", "settings":
		if !b.requireAdmin(ctx, chatID) {
			return
		}
		b.handleShowSettings(ctx, msg)

	case "edit_chapter_name":
		if !b.requireAdmin(ctx, chatID) {
			return
		}
		b.handleEditChapterName(ctx, msg)

	case "edit_lesson_name":
		if !b.requireAdmin(ctx, chatID) {
			return
		}
		b.handleEditLessonName(ctx, msg)

	case "edit_lesson_url":
		if !b.requireAdmin(ctx, chatID) {
			return
		}
		b.handleEditLessonURL(ctx, msg)

	case "edit_chapter_date":
		if !b.requireAdmin(ctx, chatID) {
			return
		}
		b.handleEditChapterDate(ctx, msg)

	case "add_lesson":
		if !b.requireAdmin(ctx, chatID) {
			return
		}
		b.handleAddLesson(ctx, msg)

	case "add_sub":
		if !b.requireAdmin(ctx, chatID) {
			return
		}
		b.handleAddSub(ctx, msg)

	case "extend_sub":
		if !b.requireAdmin(ctx, chatID) {
			return
		}
		b.handleExtendSub(ctx, msg)

	case "remove_sub":
		if !b.requireAdmin(ctx, chatID) {
			return
		}
		b.handleRemoveSub(ctx, msg)

	case "admin_add":
		if !b.requireAdmin(ctx, chatID) {
			return
		}
		b.handleAdminAdd(ctx, msg)

	case "admin_remove":
		if !b.requireAdmin(ctx, chatID) {
			return
		}
		b.handleAdminRemove(ctx, msg)

	case "report":
		if !b.requireAdmin(ctx, chatID) {
			return
		}
		m := tgbotapi.NewMessage(chatID, "Какой из отчетов о подписках необходимо сгенерировать?")
		m.ReplyMarkup = reportKeyboard()
		b.send(m)

	default:
		b.send(tgbotapi.NewMessage(chatID, randomUnknownReply()))
	}
}

func (b *Bot) handleText(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	lower := strings.ToLower(strings.TrimSpace(msg.Text))

	switch {
	case strings.Contains(lower, "почему"):
		b.send(tgbotapi.NewMessage(chatID, "Потому"))
		return
	case strings.Contains(lower, "тупой"):
		b.send(tgbotapi.NewMessage(chatID, "Я умный"))
		return
	case lower == "подписка":
		b.offerSubscription(chatID)
		return
	case lower == "продлить подписку":
		b.offerExtension(chatID)
		return
	}

	// приветствия и ключевые слова сильнее состояния диалога:
	// "привет" посреди ввода телефона открывает меню, а не валидацию
	if isGreeting(msg.Text) {
		username := msg.Chat.FirstName
		if username == "" && msg.From != nil {
			username = msg.From.UserName
		}
		if username == "" {
			username = "друг"
		}
		b.send(tgbotapi.NewMessage(chatID, fmt.Sprintf("Привет %s! 👋", username)))
		m := tgbotapi.NewMessage(chatID, "В каком ты классе?")
		m.ReplyMarkup = gradeKeyboard()
		b.send(m)
		return
	}

	st, _ := b.states.Get(ctx, chatID)
	if st.State == dialog.StateAwaitPhone {
		if !looksLikePhone(msg.Text) {
			m := tgbotapi.NewMessage(chatID, "Введите корректный номер телефона.")
			m.ParseMode = tgbotapi.ModeMarkdown
			b.send(m)
			return
		}
		b.finalizeSubscription(ctx, chatID, strings.TrimSpace(msg.Text))
		return
	}

	b.send(tgbotapi.NewMessage(chatID, randomUnknownReply()))
}

func (b *Bot) onCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	chatID := cb.Message.Chat.ID
	parts := strings.Split(cb.Data, ":")
	b.answerCallback(cb, "")

	switch parts[0] {
	case "grade":
		if len(parts) != 2 {
			return
		}
		grade, err := strconv.Atoi(parts[1])
		if err != nil {
			return
		}
		b.handleGradeSelection(ctx, cb, grade)

	case "ch":
		if len(parts) != 3 {
			return
		}
		grade, _ := strconv.Atoi(parts[1])
		chapter, _ := strconv.Atoi(parts[2])
		b.showLessonMenu(chatID, grade, chapter)

	case "les":
		if len(parts) != 4 {
			return
		}
		grade, _ := strconv.Atoi(parts[1])
		chapter, _ := strconv.Atoi(parts[2])
		number, _ := strconv.Atoi(parts[3])
		b.showLesson(ctx, chatID, grade, chapter, number)

	case "lock":
		if len(parts) < 2 {
			return
		}
		switch parts[1] {
		case "sub":
			b.send(tgbotapi.NewMessage(chatID,
				`Оформите подписку для разблокировки этого раздела. Отправьте боту слово "Подписка" для оплаты ✉️`))
		case "date":
			if len(parts) != 4 {
				return
			}
			grade, _ := strconv.Atoi(parts[2])
			chapter, _ := strconv.Atoi(parts[3])
			b.showOpeningDate(chatID, grade, chapter)
		}

	case "sub":
		if len(parts) < 2 {
			return
		}
		switch parts[1] {
		case "buy":
			b.askPhone(ctx, chatID)
		case "extend":
			if err := b.states.Set(ctx, chatID, dialog.StateExtendPeriod, dialog.Payload{}); err != nil {
				b.log.Error("dialog state set failed", "chat_id", chatID, "err", err)
			}
			m := tgbotapi.NewMessage(chatID, "На какой период вы бы хотели продлить подписку? 🕒")
			m.ReplyMarkup = periodKeyboard()
			b.send(m)
		case "m":
			if len(parts) != 3 {
				return
			}
			months, err := strconv.Atoi(parts[2])
			if err != nil || months < 1 {
				return
			}
			b.finalizeExtension(ctx, chatID, months)
		}

	case "rep":
		if len(parts) != 2 {
			return
		}
		if ok, _ := b.ledger.IsAdmin(ctx, chatID); !ok {
			b.send(tgbotapi.NewMessage(chatID, "У вас недостаточно прав."))
			return
		}
		b.sendReport(ctx, chatID, parts[1])
	}
}

// requireAdmin — проверка прав с ответом в чат.
func (b *Bot) requireAdmin(ctx context.Context, chatID int64) bool {
	ok, err := b.ledger.IsAdmin(ctx, chatID)
	if err != nil {
		b.log.Error("admin check failed", "chat_id", chatID, "err", err)
		b.send(tgbotapi.NewMessage(chatID, "❌ Произошла ошибка. Попробуйте еще раз."))
		return false
	}
	if !ok {
		b.send(tgbotapi.NewMessage(chatID, "У вас недостаточно прав."))
	}
	return ok
}
