package bot

import (
	"bytes"
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/xuri/excelize/v2"

	"github.com/Spok95/komekbai-bot/internal/domain/ledger"
)

var reportCaptions = map[ledger.Status]string{
	ledger.StatusActive:   "Вот отчет о всех действующих подписках на КөмекБай:",
	ledger.StatusExpired:  "Вот отчет о пользователях с истекшей подпиской:",
	ledger.StatusArchived: "Вот отчет о пользователях, чья подписка истекла более месяца назад:",
}

// sendReport выгружает подписчиков выбранного статуса в xlsx и отправляет
// документом в чат.
func (b *Bot) sendReport(ctx context.Context, chatID int64, statusArg string) {
	status := ledger.Status(statusArg)
	caption, ok := reportCaptions[status]
	if !ok {
		return
	}

	subs, err := b.ledger.ListByStatus(ctx, status)
	if err != nil {
		b.log.Error("report query failed", "status", status, "err", err)
		b.send(tgbotapi.NewMessage(chatID, "❌ Произошла ошибка. Попробуйте еще раз."))
		return
	}

	data, err := b.buildReport(subs)
	if err != nil {
		b.log.Error("report build failed", "status", status, "err", err)
		b.send(tgbotapi.NewMessage(chatID, "❌ Произошла ошибка. Попробуйте еще раз."))
		return
	}

	b.send(tgbotapi.NewMessage(chatID, caption))
	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{
		Name:  "Отчет.xlsx",
		Bytes: data,
	})
	b.send(doc)
}

func (b *Bot) buildReport(subs []ledger.Subscriber) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(f.GetActiveSheetIndex())

	header := []interface{}{
		"User ID",
		"Username",
		"Номера Телефона",
		"Дата начала Подписки",
		"Дата окончания Подписки",
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, err
	}

	row := 2
	for _, s := range subs {
		// user_id строкой, иначе Excel показывает его в экспоненте
		excelRow := []interface{}{
			fmt.Sprintf("%d", s.UserID),
			b.username(s.UserID),
			s.Phone,
			s.SubscribedAt.Format("02-01-06"),
			s.ExpiresAt.Format("02-01-06"),
		}
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(sheet, cell, &excelRow); err != nil {
			return nil, err
		}
		row++
	}

	_ = f.SetColWidth(sheet, "A", "A", 15)
	_ = f.SetColWidth(sheet, "B", "B", 20)
	_ = f.SetColWidth(sheet, "C", "E", 24)

	buf := &bytes.Buffer{}
	if err := f.Write(buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (b *Bot) username(userID int64) string {
	chat, err := b.api.GetChat(tgbotapi.ChatInfoConfig{
		ChatConfig: tgbotapi.ChatConfig{ChatID: userID},
	})
	if err != nil || chat.UserName == "" {
		return "-"
	}
	return chat.UserName
}
