package bot

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Spok95/komekbai-bot/internal/dialog"
	"github.com/Spok95/komekbai-bot/internal/domain/ledger"
)

// capturingClient подменяет HTTP-клиент Telegram и собирает тексты
// исходящих сообщений.
type capturingClient struct {
	texts []string
}

func (c *capturingClient) Do(req *http.Request) (*http.Response, error) {
	body, _ := io.ReadAll(req.Body)
	vals, _ := url.ParseQuery(string(body))
	if text := vals.Get("text"); text != "" {
		c.texts = append(c.texts, text)
	}
	return &http.Response{
		StatusCode: http.StatusOK,
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(strings.NewReader(`{"ok":true,"result":{}}`)),
	}, nil
}

type fakeStates struct {
	state  dialog.State
	sets   []dialog.State
	resets int
}

func (f *fakeStates) Get(_ context.Context, chatID int64) (*dialog.Item, error) {
	return &dialog.Item{ChatID: chatID, State: f.state, Payload: dialog.Payload{}}, nil
}

func (f *fakeStates) Set(_ context.Context, _ int64, st dialog.State, _ dialog.Payload) error {
	f.sets = append(f.sets, st)
	f.state = st
	return nil
}

func (f *fakeStates) Reset(_ context.Context, _ int64) error {
	f.resets++
	f.state = dialog.StateIdle
	return nil
}

type fakeBotLedger struct {
	admins   map[int64]bool
	subs     map[int64]bool
	adminIDs []int64
}

func (f *fakeBotLedger) AddOrRenew(context.Context, int64, string, int) (*ledger.Subscriber, error) {
	return &ledger.Subscriber{}, nil
}
func (f *fakeBotLedger) Extend(context.Context, int64, int) (*ledger.Subscriber, error) {
	return &ledger.Subscriber{}, nil
}
func (f *fakeBotLedger) Remove(context.Context, int64) error { return nil }
func (f *fakeBotLedger) IsSubscriber(_ context.Context, id int64) (bool, error) {
	return f.subs[id], nil
}
func (f *fakeBotLedger) IsAdmin(_ context.Context, id int64) (bool, error) {
	return f.admins[id], nil
}
func (f *fakeBotLedger) AddAdmin(context.Context, string, int64) error { return nil }
func (f *fakeBotLedger) RemoveAdmin(context.Context, string, bool) (bool, error) {
	return false, nil
}
func (f *fakeBotLedger) AdminIDs(context.Context) ([]int64, error) { return f.adminIDs, nil }
func (f *fakeBotLedger) ListByStatus(context.Context, ledger.Status) ([]ledger.Subscriber, error) {
	return nil, nil
}

func newTestBot(t *testing.T, states stateStore, l ledgerStore) (*Bot, *capturingClient) {
	t.Helper()
	client := &capturingClient{}
	api := &tgbotapi.BotAPI{Token: "test-token", Client: client, Buffer: 100}
	api.SetAPIEndpoint(tgbotapi.APIEndpoint)
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return &Bot{api: api, log: log, states: states, ledger: l}, client
}

func textMessage(text string) *tgbotapi.Message {
	return &tgbotapi.Message{
		Text: text,
		Chat: &tgbotapi.Chat{ID: 1, FirstName: "Аня"},
		From: &tgbotapi.User{ID: 1, FirstName: "Аня"},
	}
}

func TestGreetingBeatsAwaitPhone(t *testing.T) {
	states := &fakeStates{state: dialog.StateAwaitPhone}
	b, client := newTestBot(t, states, &fakeBotLedger{})

	b.handleText(context.Background(), textMessage("Привет!"))

	require.NotEmpty(t, client.texts)
	assert.Equal(t, "Привет Аня! 👋", client.texts[0])
	assert.Contains(t, client.texts, "В каком ты классе?")
	assert.NotContains(t, client.texts, "Введите корректный номер телефона.")
}

func TestAwaitPhoneAcceptsNumber(t *testing.T) {
	states := &fakeStates{state: dialog.StateAwaitPhone}
	b, client := newTestBot(t, states, &fakeBotLedger{adminIDs: []int64{42}})

	b.handleText(context.Background(), textMessage("+77011234567"))

	assert.Equal(t, 1, states.resets)
	joined := strings.Join(client.texts, "\n")
	assert.Contains(t, joined, "4990₸")
	assert.Contains(t, joined, "Бот сообщит вам, когда подписка станет активна 😊")
	// заявка ушла администратору
	assert.Contains(t, joined, "желает купить подписку")
}

func TestAwaitPhoneRejectsGarbage(t *testing.T) {
	states := &fakeStates{state: dialog.StateAwaitPhone}
	b, client := newTestBot(t, states, &fakeBotLedger{})

	b.handleText(context.Background(), textMessage("позвоните вечером"))

	assert.Equal(t, []string{"Введите корректный номер телефона."}, client.texts)
	assert.Zero(t, states.resets)
}

func TestGradeGateRequiresSubscription(t *testing.T) {
	states := &fakeStates{state: dialog.StateIdle}
	b, client := newTestBot(t, states, &fakeBotLedger{})

	cb := &tgbotapi.CallbackQuery{
		ID:      "cb1",
		From:    &tgbotapi.User{ID: 1, FirstName: "Аня"},
		Message: &tgbotapi.Message{Chat: &tgbotapi.Chat{ID: 1}},
		Data:    "grade:2",
	}
	b.onCallback(context.Background(), cb)

	require.NotEmpty(t, client.texts)
	assert.Contains(t, client.texts[0], "Оформите подписку для разблокировки 2 класса")
}
