package bot

import (
	"math/rand/v2"
	"strings"
	"unicode"
)

/*** HELPERS ***/

// splitArgs режет хвост команды максимум на n частей: последняя часть
// может содержать пробелы (название урока, ссылка и т.п.).
func splitArgs(args string, n int) []string {
	args = strings.TrimSpace(args)
	if args == "" {
		return nil
	}
	return strings.SplitN(args, " ", n)
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// looksLikePhone — минимальная проверка номера: "+" или цифра в начале.
func looksLikePhone(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	return s[0] == '+' || unicode.IsDigit(rune(s[0]))
}

// splitMessageInHalf делит длинное сообщение на две части по ближайшему
// переводу строки — Telegram не принимает сообщения длиннее 4096 знаков.
func splitMessageInHalf(msg string) []string {
	half := len(msg) / 2
	idx := strings.LastIndex(msg[:half], "\n")
	if idx == -1 {
		idx = half
	}
	return []string{strings.TrimSpace(msg[:idx]), strings.TrimSpace(msg[idx:])}
}

var unknownReplies = []string{
	"Извините, я вас не понял.",
	"Ой, не понял тебя.",
	"Прошу прощения, не совсем понял, что вы имеете в виду.",
	"Не совсем понял ваш запрос.",
	"К сожалению, я не смог понять ваш запрос.",
	`Введи "Меню" если хочешь открыть список классов`,
	"Простите, не разобрал ваш вопрос.",
	"Прошу прощения, не понял, о чем вы говорите.",
	"Упс, не совсем понятно.",
	"Извините, не могу понять запрос.",
}

func randomUnknownReply() string {
	return unknownReplies[rand.IntN(len(unknownReplies))]
}

var greetingWords = []string{
	"привет", "здравствуйте", "помоги", "салем", "сәлем", "сәлеметсіз",
	"домашнее", "задание", "дз", "работа", "домашку", "сделать", "домашка",
	"меню", "старт", "назад", "начало", "класс", "выбрать",
}

func isGreeting(text string) bool {
	lower := strings.ToLower(text)
	for _, w := range greetingWords {
		if strings.Contains(lower, w) {
			return true
		}
	}
	return false
}
