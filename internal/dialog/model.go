package dialog

type State string

const (
	StateIdle State = "idle"

	// Оформление подписки: ждём номер телефона сообщением
	StateAwaitPhone State = "await_phone"

	// Продление: выбран вариант периода, ждём подтверждения кнопкой
	StateExtendPeriod State = "sub_extend_period"
)

type Payload map[string]any

type Item struct {
	ChatID  int64
	State   State
	Payload Payload
}
