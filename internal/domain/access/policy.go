package access

import (
	"fmt"
	"strings"
	"time"

	"github.com/Spok95/komekbai-bot/internal/domain/content"
)

type Decision string

const (
	Open                 Decision = "open"
	LockedByDate         Decision = "locked_by_date"
	LockedBySubscription Decision = "locked_by_subscription"
)

// Decide определяет доступ к разделу. Порядок проверок фиксирован:
// сначала дата открытия (ежегодная, без года), затем подписка.
func Decide(ch content.Chapter, isAdmin, isSubscriber bool, now time.Time) Decision {
	if ch.OpeningDate != nil && beforeOpening(now, *ch.OpeningDate) {
		return LockedByDate
	}
	if ch.Access == content.ModeLocked && !isAdmin && !isSubscriber {
		return LockedBySubscription
	}
	return Open
}

func beforeOpening(now time.Time, d content.DayMonth) bool {
	if int(now.Month()) != d.Month {
		return int(now.Month()) < d.Month
	}
	return now.Day() < d.Day
}

type LessonState string

const (
	LessonReady    LessonState = "ready"
	LessonNotReady LessonState = "not_ready"
	LessonBroken   LessonState = "broken"
)

// LessonStatus: пустой URL — урок не готов; URL без "/" — битая ссылка,
// о ней уведомляются администраторы.
func LessonStatus(url string) LessonState {
	if url == "" {
		return LessonNotReady
	}
	if !strings.Contains(url, "/") {
		return LessonBroken
	}
	return LessonReady
}

var monthsRussian = [13]string{
	"", "Января", "Февраля", "Марта", "Апреля", "Мая", "Июня",
	"Июля", "Августа", "Сентября", "Октября", "Ноября", "Декабря",
}

func OpeningDateMessage(d content.DayMonth) string {
	return fmt.Sprintf("Этот раздел откроется %d %s 🗓️", d.Day, monthsRussian[d.Month])
}
