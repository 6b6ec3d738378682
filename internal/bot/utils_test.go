package bot

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitArgs(t *testing.T) {
	assert.Nil(t, splitArgs("", 3))
	assert.Nil(t, splitArgs("   ", 3))
	assert.Equal(t, []string{"1", "2", "Новое название урока"},
		splitArgs("1 2 Новое название урока", 3))
	assert.Equal(t, []string{"1"}, splitArgs("1", 3))
}

func TestIsDigits(t *testing.T) {
	assert.True(t, isDigits("123456"))
	assert.False(t, isDigits(""))
	assert.False(t, isDigits("12a"))
	assert.False(t, isDigits("-5"))
}

func TestLooksLikePhone(t *testing.T) {
	assert.True(t, looksLikePhone("+77011234567"))
	assert.True(t, looksLikePhone("87011234567"))
	assert.False(t, looksLikePhone("позвоните мне"))
	assert.False(t, looksLikePhone(""))
}

func TestSplitMessageInHalf(t *testing.T) {
	msg := strings.Repeat("строка\n", 100)
	parts := splitMessageInHalf(msg)
	require.Len(t, parts, 2)
	assert.NotEmpty(t, parts[0])
	assert.NotEmpty(t, parts[1])
	// делит по переводу строки, не по середине слова
	assert.False(t, strings.HasSuffix(parts[0], "стро"))
}

func TestSplitMessageNoNewline(t *testing.T) {
	msg := strings.Repeat("x", 10)
	parts := splitMessageInHalf(msg)
	require.Len(t, parts, 2)
	assert.Equal(t, msg, parts[0]+parts[1])
}

func TestRandomUnknownReply(t *testing.T) {
	for range 20 {
		assert.Contains(t, unknownReplies, randomUnknownReply())
	}
}

func TestIsGreeting(t *testing.T) {
	assert.True(t, isGreeting("Привет!"))
	assert.True(t, isGreeting("СӘЛЕМ"))
	assert.True(t, isGreeting("помоги с домашкой"))
	assert.False(t, isGreeting("сколько стоит"))
}
