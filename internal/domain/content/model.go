package content

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	ErrChapterNotFound = errors.New("content: chapter not found")
	ErrLessonNotFound  = errors.New("content: lesson not found")
)

type Mode string

const (
	ModeOpen   Mode = ""
	ModeLocked Mode = "locked"
)

// DayMonth повторяющаяся ежегодная дата (без года), формат "дд/мм".
type DayMonth struct {
	Day   int
	Month int
}

func ParseDayMonth(s string) (DayMonth, error) {
	parts := strings.Split(strings.TrimSpace(s), "/")
	if len(parts) != 2 {
		return DayMonth{}, fmt.Errorf("content: bad date %q, want дд/мм", s)
	}
	day, err1 := strconv.Atoi(parts[0])
	month, err2 := strconv.Atoi(parts[1])
	if err1 != nil || err2 != nil || day < 1 || day > 31 || month < 1 || month > 12 {
		return DayMonth{}, fmt.Errorf("content: bad date %q, want дд/мм", s)
	}
	return DayMonth{Day: day, Month: month}, nil
}

func (d DayMonth) String() string {
	return fmt.Sprintf("%02d/%02d", d.Day, d.Month)
}

type Chapter struct {
	Number      int
	Name        string
	Access      Mode
	OpeningDate *DayMonth
}

type Lesson struct {
	Number int
	Name   string
	URL    string
}

// LessonKey составной ключ урока в командах администратора: "l<глава>_<номер>".
func LessonKey(chapter, number int) string {
	return fmt.Sprintf("l%d_%d", chapter, number)
}

func ParseLessonKey(key string) (chapter, number int, err error) {
	if !strings.HasPrefix(key, "l") {
		return 0, 0, fmt.Errorf("content: bad lesson key %q", key)
	}
	parts := strings.SplitN(key[1:], "_", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("content: bad lesson key %q", key)
	}
	chapter, err1 := strconv.Atoi(parts[0])
	number, err2 := strconv.Atoi(parts[1])
	if err1 != nil || err2 != nil || chapter < 1 || number < 1 {
		return 0, 0, fmt.Errorf("content: bad lesson key %q", key)
	}
	return chapter, number, nil
}

func ValidGrade(n int) bool { return n >= 1 && n <= 4 }
