package bot

import (
	"context"
	"errors"
	"fmt"
	"html"
	"sort"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/Spok95/komekbai-bot/internal/domain/content"
)

const maxMessageLen = 4096

func (b *Bot) sendHTML(chatID int64, text string) {
	if len(text) > maxMessageLen {
		for _, part := range splitMessageInHalf(text) {
			b.sendHTML(chatID, part)
		}
		return
	}
	m := tgbotapi.NewMessage(chatID, text)
	m.ParseMode = tgbotapi.ModeHTML
	b.send(m)
}

// parseGrade достаёт и проверяет номер класса из аргумента команды.
func (b *Bot) parseGrade(chatID int64, arg string) (int, bool) {
	grade, err := strconv.Atoi(strings.TrimSpace(arg))
	if err != nil || !content.ValidGrade(grade) {
		b.send(tgbotapi.NewMessage(chatID,
			"❌ Неверный номер класса. Пожалуйста, укажите класс от 1 до 4."))
		return 0, false
	}
	return grade, true
}

// handleShowSettings выводит текущие разделы и уроки класса одним
// HTML-сообщением; слишком длинное сообщение режется пополам.
func (b *Bot) handleShowSettings(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	args := splitArgs(msg.CommandArguments(), 1)
	if len(args) < 1 {
		b.send(tgbotapi.NewMessage(chatID, "❌ Формат команды: /settings <номер класса>"))
		return
	}
	grade, ok := b.parseGrade(chatID, args[0])
	if !ok {
		return
	}

	chapters, err := b.content.Chapters(grade)
	if err != nil {
		b.log.Error("chapters load failed", "grade", grade, "err", err)
		b.send(tgbotapi.NewMessage(chatID, "❌ Произошла ошибка при отправке настроек."))
		return
	}
	all, err := b.content.AllLessons(grade)
	if err != nil {
		b.log.Error("lessons load failed", "grade", grade, "err", err)
		b.send(tgbotapi.NewMessage(chatID, "❌ Произошла ошибка при отправке настроек."))
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "📚 <b>Текущие разделы для %d класса:</b>\n", grade)
	for _, ch := range chapters {
		fmt.Fprintf(&sb, "%d: %s\n", ch.Number, html.EscapeString(ch.Name))
	}

	fmt.Fprintf(&sb, "\n📖 <b>Текущие уроки для %d класса:</b>\n", grade)
	chNums := make([]int, 0, len(all))
	for ch := range all {
		chNums = append(chNums, ch)
	}
	sort.Ints(chNums)
	for _, ch := range chNums {
		for _, les := range all[ch] {
			key := content.LessonKey(ch, les.Number)
			if les.URL != "" {
				fmt.Fprintf(&sb, "%s: <i>%s</i> (<a href=\"%s\">Видео✅</a>)\n",
					key, html.EscapeString(les.Name), html.EscapeString(les.URL))
			} else {
				fmt.Fprintf(&sb, "%s: <i>%s</i> (<b>‼️Нет видео‼️</b>)\n",
					key, html.EscapeString(les.Name))
			}
		}
	}

	b.sendHTML(chatID, sb.String())
}

func (b *Bot) handleEditChapterName(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	args := splitArgs(msg.CommandArguments(), 3)
	if len(args) < 3 {
		b.send(tgbotapi.NewMessage(chatID,
			"❌ Формат команды: /edit_chapter_name <номер класса> <номер главы> <новое название>"))
		return
	}
	grade, ok := b.parseGrade(chatID, args[0])
	if !ok {
		return
	}
	chapter, err := strconv.Atoi(args[1])
	if err != nil {
		b.send(tgbotapi.NewMessage(chatID, "❌ Раздел не найден."))
		return
	}
	newName := args[2]

	if err := b.content.RenameChapter(grade, chapter, newName); err != nil {
		if errors.Is(err, content.ErrChapterNotFound) {
			b.send(tgbotapi.NewMessage(chatID, "❌ Раздел не найден."))
			return
		}
		b.log.Error("chapter rename failed", "grade", grade, "chapter", chapter, "err", err)
		b.send(tgbotapi.NewMessage(chatID, fmt.Sprintf("❌ Произошла ошибка: %v", err)))
		return
	}
	b.sendHTML(chatID, fmt.Sprintf(
		"✅ Раздел %d в %d классе переименован в: <b>%s</b>",
		chapter, grade, html.EscapeString(newName)))
}

func (b *Bot) handleEditLessonName(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	args := splitArgs(msg.CommandArguments(), 3)
	if len(args) < 3 {
		b.send(tgbotapi.NewMessage(chatID,
			"❌ Формат команды: /edit_lesson_name <номер класса> <ключ урока> <новое название>"))
		return
	}
	grade, ok := b.parseGrade(chatID, args[0])
	if !ok {
		return
	}
	chapter, number, err := content.ParseLessonKey(args[1])
	if err != nil {
		b.send(tgbotapi.NewMessage(chatID, "❌ Урок не найден."))
		return
	}
	newName := args[2]

	if err := b.content.RenameLesson(grade, chapter, number, newName); err != nil {
		if errors.Is(err, content.ErrLessonNotFound) {
			b.send(tgbotapi.NewMessage(chatID, "❌ Урок не найден."))
			return
		}
		b.log.Error("lesson rename failed", "grade", grade, "key", args[1], "err", err)
		b.send(tgbotapi.NewMessage(chatID, fmt.Sprintf("❌ Произошла ошибка: %v", err)))
		return
	}
	b.sendHTML(chatID, fmt.Sprintf(
		"✅ Урок %s в %d классе переименован в: <b>%s</b>",
		args[1], grade, html.EscapeString(newName)))
}

func (b *Bot) handleEditLessonURL(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	args := splitArgs(msg.CommandArguments(), 3)
	if len(args) < 3 {
		b.send(tgbotapi.NewMessage(chatID,
			"❌ Формат команды: /edit_lesson_url <номер класса> <ключ урока> <ccылка на видео>"))
		return
	}
	grade, ok := b.parseGrade(chatID, args[0])
	if !ok {
		return
	}
	chapter, number, err := content.ParseLessonKey(args[1])
	if err != nil {
		b.send(tgbotapi.NewMessage(chatID, "❌ Урок не найден."))
		return
	}
	newURL := strings.TrimSpace(args[2])

	if err := b.content.SetLessonURL(grade, chapter, number, newURL); err != nil {
		if errors.Is(err, content.ErrLessonNotFound) {
			b.send(tgbotapi.NewMessage(chatID, "❌ Урок не найден."))
			return
		}
		b.log.Error("lesson url update failed", "grade", grade, "key", args[1], "err", err)
		b.send(tgbotapi.NewMessage(chatID, fmt.Sprintf("❌ Произошла ошибка: %v", err)))
		return
	}
	b.sendHTML(chatID, fmt.Sprintf(
		"✅ URL урока %s в %d классе обновлен: <a href=\"%s\">%s</a>",
		args[1], grade, html.EscapeString(newURL), html.EscapeString(newURL)))
}

func (b *Bot) handleEditChapterDate(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	args := splitArgs(msg.CommandArguments(), 3)
	if len(args) < 3 {
		b.send(tgbotapi.NewMessage(chatID,
			"❌ Формат команды: /edit_chapter_date <номер класса> <номер главы> <дата в формате день/месяц>"))
		return
	}
	grade, ok := b.parseGrade(chatID, args[0])
	if !ok {
		return
	}
	chapter, err := strconv.Atoi(args[1])
	if err != nil {
		b.send(tgbotapi.NewMessage(chatID, "❌ Раздел не найден."))
		return
	}
	date, err := content.ParseDayMonth(args[2])
	if err != nil {
		b.send(tgbotapi.NewMessage(chatID,
			"❌ Неверный формат даты. Пожалуйста, используйте формат день/месяц."))
		return
	}

	if err := b.content.SetOpeningDate(grade, chapter, date); err != nil {
		if errors.Is(err, content.ErrChapterNotFound) {
			b.send(tgbotapi.NewMessage(chatID, "❌ Раздел не найден."))
			return
		}
		b.log.Error("opening date update failed", "grade", grade, "chapter", chapter, "err", err)
		b.send(tgbotapi.NewMessage(chatID, fmt.Sprintf("❌ Произошла ошибка: %v", err)))
		return
	}
	b.send(tgbotapi.NewMessage(chatID, fmt.Sprintf(
		"✅ Дата открытия главы %d в %d классе обновлена на: %s", chapter, grade, date)))
}

func (b *Bot) handleAddLesson(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	args := splitArgs(msg.CommandArguments(), 4)
	if len(args) < 4 {
		b.send(tgbotapi.NewMessage(chatID,
			"❌ Формат команды: /add_lesson <номер класса> <номер главы> <название урока> <ссылка на видео>\n"+
				`‼️Используйте "_" вместо пробела‼️`))
		return
	}
	grade, ok := b.parseGrade(chatID, args[0])
	if !ok {
		return
	}
	chapter, err := strconv.Atoi(args[1])
	if err != nil || chapter < 1 {
		b.send(tgbotapi.NewMessage(chatID, "❌ Раздел не найден."))
		return
	}
	name, url := args[2], args[3]

	les, err := b.content.AddLesson(grade, chapter, name, url)
	if err != nil {
		b.log.Error("lesson add failed", "grade", grade, "chapter", chapter, "err", err)
		b.send(tgbotapi.NewMessage(chatID, fmt.Sprintf("❌ Произошла ошибка: %v", err)))
		return
	}
	b.sendHTML(chatID, fmt.Sprintf(
		"✅ Урок добавлен в %d класс, глава %d: %s (<a href=\"%s\">Ссылка</a>)",
		grade, chapter, html.EscapeString(les.Name), html.EscapeString(les.URL)))
}
