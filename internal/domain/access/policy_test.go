package access

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Spok95/komekbai-bot/internal/domain/content"
)

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 12, 0, 0, 0, time.UTC)
}

func TestDecideOpenChapter(t *testing.T) {
	ch := content.Chapter{Number: 1, Name: "Алфавит"}
	assert.Equal(t, Open, Decide(ch, false, false, date(2026, 9, 1)))
}

func TestDecideLockedBySubscription(t *testing.T) {
	ch := content.Chapter{Number: 3, Name: "Математика", Access: content.ModeLocked}

	assert.Equal(t, LockedBySubscription, Decide(ch, false, false, date(2026, 9, 1)))
	assert.Equal(t, Open, Decide(ch, false, true, date(2026, 9, 1)))
	assert.Equal(t, Open, Decide(ch, true, false, date(2026, 9, 1)))
}

func TestDecideDateGateBeatsSubscription(t *testing.T) {
	opening := content.DayMonth{Day: 1, Month: 11}
	ch := content.Chapter{Number: 2, Access: content.ModeLocked, OpeningDate: &opening}

	// дата держит раздел закрытым даже для подписчика и админа
	assert.Equal(t, LockedByDate, Decide(ch, true, true, date(2026, 10, 31)))
	// в день открытия решает подписка
	assert.Equal(t, LockedBySubscription, Decide(ch, false, false, date(2026, 11, 1)))
	assert.Equal(t, Open, Decide(ch, false, true, date(2026, 11, 1)))
}

func TestDecideRecurringDate(t *testing.T) {
	opening := content.DayMonth{Day: 1, Month: 1}
	ch := content.Chapter{Number: 1, OpeningDate: &opening}

	// сравнение без года: 31 декабря всегда открыто для даты 01/01
	assert.Equal(t, Open, Decide(ch, false, false, date(2026, 12, 31)))
	assert.Equal(t, Open, Decide(ch, false, false, date(2026, 1, 1)))

	later := content.DayMonth{Day: 15, Month: 3}
	ch.OpeningDate = &later
	assert.Equal(t, LockedByDate, Decide(ch, false, false, date(2026, 3, 14)))
	assert.Equal(t, LockedByDate, Decide(ch, false, false, date(2026, 2, 20)))
	assert.Equal(t, Open, Decide(ch, false, false, date(2026, 3, 15)))
	assert.Equal(t, Open, Decide(ch, false, false, date(2026, 4, 1)))
}

func TestLessonStatus(t *testing.T) {
	assert.Equal(t, LessonNotReady, LessonStatus(""))
	assert.Equal(t, LessonBroken, LessonStatus("not-a-url"))
	assert.Equal(t, LessonReady, LessonStatus("https://youtu.be/abc"))
}

func TestOpeningDateMessage(t *testing.T) {
	msg := OpeningDateMessage(content.DayMonth{Day: 1, Month: 11})
	assert.Equal(t, "Этот раздел откроется 1 Ноября 🗓️", msg)
}
