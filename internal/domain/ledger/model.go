package ledger

import (
	"errors"
	"time"
)

var (
	ErrNotFound    = errors.New("ledger: subscriber not found")
	ErrAdminExists = errors.New("ledger: admin already exists")
)

type Status string

const (
	StatusActive   Status = "active"
	StatusExpired  Status = "expired"
	StatusArchived Status = "archived"
)

type Subscriber struct {
	UserID       int64
	Phone        string
	SubscribedAt time.Time
	ExpiresAt    time.Time
	Status       Status
	ExpiredAt    *time.Time
}

type Admin struct {
	ID       int64
	Nickname string
	TgID     int64
}
