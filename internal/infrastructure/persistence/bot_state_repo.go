package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"offer_sniper/internal/domain"
	"offer_sniper/internal/domain/entity"
	"offer_sniper/pkg/errcodes"
)

// BotStateRepository хранит состояние бота в таблице bots. Таблица —
// источник истины: оператор и внешние клиенты меняют её напрямую, воркер
// перечитывает её каждый цикл.
type BotStateRepository struct {
	db *sqlx.DB
}

// NewBotStateRepository создаёт новый экземпляр репозитория.
func NewBotStateRepository(db *sqlx.DB) *BotStateRepository {
	return &BotStateRepository{db: db}
}

// withTx выполняет функцию в транзакции.
func (r *BotStateRepository) withTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to begin transaction")
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return domain.WrapError(
				fmt.Errorf("%w; rollback: %v", err, rbErr),
				errcodes.InternalServerError,
				"transaction failed",
			)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to commit")
	}

	return nil
}

// Bootstrap заводит строку бота, если её ещё нет: статус STOPPED и
// дефолтные фильтры. Существующую строку не трогает.
func (r *BotStateRepository) Bootstrap(ctx context.Context, email string) error {
	filtersBytes, err := fromFilters(entity.DefaultFilters())
	if err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to marshal filters")
	}

	query := `
		INSERT INTO bots (email, status, filters, session, last_seen)
		VALUES (:email, :status, :filters, '{}', :last_seen)
		ON CONFLICT (email) DO NOTHING`

	params := map[string]any{
		"email":     email,
		"status":    entity.StatusStopped.String(),
		"filters":   filtersBytes,
		"last_seen": time.Now(),
	}

	if _, err := r.db.NamedExecContext(ctx, query, params); err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to bootstrap bot")
	}

	return nil
}

// GetBot возвращает состояние бота без сессии.
func (r *BotStateRepository) GetBot(ctx context.Context, email string) (*entity.Bot, error) {
	query := `
		SELECT email, status, filters, session, last_match, last_seen
		FROM bots
		WHERE email = $1`

	var schema botSchema
	if err := r.db.GetContext(ctx, &schema, query, email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NewError(errcodes.BotNotFound, "bot not found")
		}
		return nil, domain.WrapError(err, errcodes.InternalServerError, "failed to get bot")
	}

	return schema.toDomain()
}

// GetStatus возвращает текущий статус бота.
func (r *BotStateRepository) GetStatus(ctx context.Context, email string) (entity.BotStatus, error) {
	query := `SELECT status FROM bots WHERE email = $1`

	var status string
	if err := r.db.GetContext(ctx, &status, query, email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", domain.NewError(errcodes.BotNotFound, "bot not found")
		}
		return "", domain.WrapError(err, errcodes.InternalServerError, "failed to get status")
	}

	return entity.BotStatus(status), nil
}

// UpdateStatus переводит бота в новый статус и обновляет last_seen.
func (r *BotStateRepository) UpdateStatus(ctx context.Context, email string, status entity.BotStatus) error {
	if !status.Valid() {
		return domain.NewError(errcodes.InvalidBotStatus, "unknown bot status")
	}

	return r.withTx(ctx, func(tx *sqlx.Tx) error {
		query := `
			UPDATE bots
			SET status = $1, last_seen = $2
			WHERE email = $3`

		return r.execUpdateTx(ctx, tx, query, status.String(), time.Now(), email)
	})
}

// GetFilters возвращает критерии подбора. Воркер зовёт этот метод в начале
// каждого цикла, поэтому правки оператора применяются без рестарта.
func (r *BotStateRepository) GetFilters(ctx context.Context, email string) (entity.Filters, error) {
	query := `SELECT filters FROM bots WHERE email = $1`

	var raw []byte
	if err := r.db.GetContext(ctx, &raw, query, email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return entity.Filters{}, domain.NewError(errcodes.BotNotFound, "bot not found")
		}
		return entity.Filters{}, domain.WrapError(err, errcodes.InternalServerError, "failed to get filters")
	}

	filters, err := parseFilters(raw)
	if err != nil {
		return entity.Filters{}, domain.WrapError(err, errcodes.InternalServerError, "failed to parse filters")
	}

	return filters, nil
}

// UpdateFilters сохраняет новые критерии подбора.
func (r *BotStateRepository) UpdateFilters(ctx context.Context, email string, filters entity.Filters) error {
	if err := filters.Validate(); err != nil {
		return err
	}

	filtersBytes, err := fromFilters(filters)
	if err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to marshal filters")
	}

	return r.withTx(ctx, func(tx *sqlx.Tx) error {
		query := `
			UPDATE bots
			SET filters = $1
			WHERE email = $2`

		return r.execUpdateTx(ctx, tx, query, filtersBytes, email)
	})
}

// Heartbeat обновляет last_seen, подтверждая, что цикл жив.
func (r *BotStateRepository) Heartbeat(ctx context.Context, email string) error {
	query := `UPDATE bots SET last_seen = $1 WHERE email = $2`

	if _, err := r.db.ExecContext(ctx, query, time.Now(), email); err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to update heartbeat")
	}

	return nil
}

// GetSession возвращает сохранённую сессию. Отсутствие сессии — не ошибка:
// вернётся нулевое значение.
func (r *BotStateRepository) GetSession(ctx context.Context, email string) (entity.Session, error) {
	query := `SELECT session FROM bots WHERE email = $1`

	var raw []byte
	if err := r.db.GetContext(ctx, &raw, query, email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return entity.Session{}, domain.NewError(errcodes.BotNotFound, "bot not found")
		}
		return entity.Session{}, domain.WrapError(err, errcodes.InternalServerError, "failed to get session")
	}

	session, err := parseSession(raw)
	if err != nil {
		return entity.Session{}, domain.WrapError(err, errcodes.InternalServerError, "failed to parse session")
	}

	return session, nil
}

// SaveSession сохраняет захваченную сессию.
func (r *BotStateRepository) SaveSession(ctx context.Context, email string, session entity.Session) error {
	sessionBytes, err := fromSession(session)
	if err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to marshal session")
	}

	return r.withTx(ctx, func(tx *sqlx.Tx) error {
		query := `
			UPDATE bots
			SET session = $1
			WHERE email = $2`

		return r.execUpdateTx(ctx, tx, query, sessionBytes, email)
	})
}

// ClearSession стирает сессию после 401: следующий запуск пойдёт через
// полную авторизацию.
func (r *BotStateRepository) ClearSession(ctx context.Context, email string) error {
	return r.withTx(ctx, func(tx *sqlx.Tx) error {
		query := `
			UPDATE bots
			SET session = '{}'
			WHERE email = $1`

		return r.execUpdateTx(ctx, tx, query, email)
	})
}

// ReportMatch записывает сработавший оффер в last_match.
func (r *BotStateRepository) ReportMatch(ctx context.Context, email string, match entity.Match) error {
	matchBytes, err := fromMatch(match)
	if err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to marshal match")
	}

	return r.withTx(ctx, func(tx *sqlx.Tx) error {
		query := `
			UPDATE bots
			SET last_match = $1, last_seen = $2
			WHERE email = $3`

		return r.execUpdateTx(ctx, tx, query, matchBytes, time.Now(), email)
	})
}

// execUpdateTx — внутренний метод обновления в рамках транзакции.
func (r *BotStateRepository) execUpdateTx(ctx context.Context, tx *sqlx.Tx, query string, args ...any) error {
	res, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to execute update")
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to check affected rows")
	}

	if rows == 0 {
		return domain.NewError(errcodes.BotNotFound, "bot not found")
	}

	return nil
}
