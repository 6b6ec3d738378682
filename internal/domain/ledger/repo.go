package ledger

import (
	"context"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repo хранит подписчиков (один ряд на пользователя, статус
// active/expired/archived) и список администраторов.
// Записи сериализуются мьютексом: команды могут прийти от двух
// админов одновременно.
type Repo struct {
	pool *pgxpool.Pool
	mu   sync.Mutex
}

func NewRepo(pool *pgxpool.Pool) *Repo { return &Repo{pool: pool} }

const subscriberCols = `user_id, phone, subscribed_at, expires_at, status, expired_at`

func scanSubscriber(row pgx.Row) (*Subscriber, error) {
	var s Subscriber
	if err := row.Scan(&s.UserID, &s.Phone, &s.SubscribedAt, &s.ExpiresAt, &s.Status, &s.ExpiredAt); err != nil {
		return nil, err
	}
	return &s, nil
}

// AddOrRenew создаёт или возобновляет подписку на days дней от текущего
// момента. Просроченный ряд того же пользователя перезаписывается —
// старые данные не воскресают.
func (r *Repo) AddOrRenew(ctx context.Context, userID int64, phone string, days int) (*Subscriber, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	row := r.pool.QueryRow(ctx, `
		INSERT INTO subscribers (user_id, phone, subscribed_at, expires_at, status, expired_at)
		VALUES ($1, $2, now(), now() + make_interval(days => $3), 'active', NULL)
		ON CONFLICT (user_id) DO UPDATE SET
			phone         = EXCLUDED.phone,
			subscribed_at = now(),
			expires_at    = now() + make_interval(days => $3),
			status        = 'active',
			expired_at    = NULL
		RETURNING `+subscriberCols, userID, phone, days)
	return scanSubscriber(row)
}

// Extend прибавляет days к текущей дате окончания, а не к "сейчас":
// продления складываются с остатком.
func (r *Repo) Extend(ctx context.Context, userID int64, days int) (*Subscriber, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	row := r.pool.QueryRow(ctx, `
		UPDATE subscribers
		SET expires_at = expires_at + make_interval(days => $2)
		WHERE user_id = $1 AND status = 'active'
		RETURNING `+subscriberCols, userID, days)
	s, err := scanSubscriber(row)
	if err == pgx.ErrNoRows {
		return nil, ErrNotFound
	}
	return s, err
}

func (r *Repo) Remove(ctx context.Context, userID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.pool.Exec(ctx, `DELETE FROM subscribers WHERE user_id = $1 AND status = 'active'`, userID)
	return err
}

func (r *Repo) Get(ctx context.Context, userID int64) (*Subscriber, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+subscriberCols+` FROM subscribers
		WHERE user_id = $1 AND status = 'active'`, userID)
	s, err := scanSubscriber(row)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return s, err
}

func (r *Repo) IsSubscriber(ctx context.Context, userID int64) (bool, error) {
	var ok bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM subscribers WHERE user_id = $1 AND status = 'active')`,
		userID).Scan(&ok)
	return ok, err
}

func (r *Repo) querySubscribers(ctx context.Context, q string, args ...any) ([]Subscriber, error) {
	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Subscriber
	for rows.Next() {
		var s Subscriber
		if err := rows.Scan(&s.UserID, &s.Phone, &s.SubscribedAt, &s.ExpiresAt, &s.Status, &s.ExpiredAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// ExpiringOn активные подписки, у которых дата окончания (только дата,
// без времени суток) совпадает с day.
func (r *Repo) ExpiringOn(ctx context.Context, day time.Time) ([]Subscriber, error) {
	return r.querySubscribers(ctx, `
		SELECT `+subscriberCols+` FROM subscribers
		WHERE status = 'active' AND date(expires_at) = date($1)
		ORDER BY user_id`, day)
}

// Expired активные подписки с expires_at строго раньше now (сравнение
// по моменту, не по дате).
func (r *Repo) Expired(ctx context.Context, now time.Time) ([]Subscriber, error) {
	return r.querySubscribers(ctx, `
		SELECT `+subscriberCols+` FROM subscribers
		WHERE status = 'active' AND expires_at < $1
		ORDER BY user_id`, now)
}

// MarkExpired переводит пакет активных подписок в expired одним запросом,
// проставляя expired_at. Срок проверяется повторно прямо в UPDATE: между
// выборкой и переносом подписку могли продлить, такой ряд не трогаем.
func (r *Repo) MarkExpired(ctx context.Context, userIDs []int64, now time.Time) error {
	if len(userIDs) == 0 {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.pool.Exec(ctx, `
		UPDATE subscribers SET status = 'expired', expired_at = $2
		WHERE user_id = ANY($1) AND status = 'active' AND expires_at < $2`, userIDs, now)
	return err
}

// ArchiveOlderThan переводит expired-ряды с датой окончания старше cutoff
// (только дата) в archived. Возвращает число затронутых рядов.
func (r *Repo) ArchiveOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	tag, err := r.pool.Exec(ctx, `
		UPDATE subscribers SET status = 'archived'
		WHERE status = 'expired' AND date(expires_at) < date($1)`, cutoff)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *Repo) ListByStatus(ctx context.Context, status Status) ([]Subscriber, error) {
	return r.querySubscribers(ctx, `
		SELECT `+subscriberCols+` FROM subscribers
		WHERE status = $1
		ORDER BY expires_at`, status)
}

func (r *Repo) IsAdmin(ctx context.Context, tgID int64) (bool, error) {
	var ok bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM admins WHERE tg_id = $1)`, tgID).Scan(&ok)
	return ok, err
}

func (r *Repo) AddAdmin(ctx context.Context, nickname string, tgID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tag, err := r.pool.Exec(ctx, `
		INSERT INTO admins (nickname, tg_id) VALUES ($1, $2)
		ON CONFLICT (tg_id) DO NOTHING`, nickname, tgID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrAdminExists
	}
	return nil
}

// RemoveAdmin принимает tg_id либо никнейм. Возвращает false, если никого
// не удалили.
func (r *Repo) RemoveAdmin(ctx context.Context, identifier string, byID bool) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	q := `DELETE FROM admins WHERE nickname = $1`
	if byID {
		q = `DELETE FROM admins WHERE tg_id = $1::bigint`
	}
	tag, err := r.pool.Exec(ctx, q, identifier)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// AdminIDs список tg_id всех администраторов для служебных уведомлений.
func (r *Repo) AdminIDs(ctx context.Context) ([]int64, error) {
	rows, err := r.pool.Query(ctx, `SELECT tg_id FROM admins ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}
