package persistence

import (
	"context"
	"os"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	_ "github.com/jackc/pgx/v5/stdlib"

	"offer_sniper/internal/domain"
	"offer_sniper/internal/domain/entity"
	"offer_sniper/pkg/dbtest"
	"offer_sniper/pkg/errcodes"
)

// testRepo подключается к БД из TEST_POSTGRES_DSN и накатывает миграции.
// Без переменной окружения тест пропускается.
func testRepo(t *testing.T) *BotStateRepository {
	t.Helper()

	dsn := os.Getenv("TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("TEST_POSTGRES_DSN is not set")
	}

	db, err := sqlx.Connect("pgx", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, dbtest.MigrateFromFile(db, "../../../migrations/001_bots.sql"))

	_, err = db.Exec(`DELETE FROM bots`)
	require.NoError(t, err)

	return NewBotStateRepository(db)
}

func TestBootstrapIsIdempotent(t *testing.T) {
	rq := require.New(t)
	repo := testRepo(t)
	ctx := context.Background()

	rq.NoError(repo.Bootstrap(ctx, "sniper@example.com"))

	filters := entity.Filters{MinPrice: decimal.NewFromInt(99)}
	rq.NoError(repo.UpdateFilters(ctx, "sniper@example.com", filters))

	// Повторный bootstrap не должен сбросить фильтры.
	rq.NoError(repo.Bootstrap(ctx, "sniper@example.com"))

	got, err := repo.GetFilters(ctx, "sniper@example.com")
	rq.NoError(err)
	rq.True(got.MinPrice.Equal(decimal.NewFromInt(99)))
}

func TestStatusRoundTrip(t *testing.T) {
	rq := require.New(t)
	repo := testRepo(t)
	ctx := context.Background()

	rq.NoError(repo.Bootstrap(ctx, "sniper@example.com"))

	status, err := repo.GetStatus(ctx, "sniper@example.com")
	rq.NoError(err)
	rq.Equal(entity.StatusStopped, status)

	rq.NoError(repo.UpdateStatus(ctx, "sniper@example.com", entity.StatusRunning))

	status, err = repo.GetStatus(ctx, "sniper@example.com")
	rq.NoError(err)
	rq.Equal(entity.StatusRunning, status)
}

func TestUpdateStatusUnknownBot(t *testing.T) {
	rq := require.New(t)
	repo := testRepo(t)

	err := repo.UpdateStatus(context.Background(), "ghost@example.com", entity.StatusRunning)
	rq.True(domain.HasCode(err, errcodes.BotNotFound))
}

func TestFiltersTolerateNumericJSON(t *testing.T) {
	rq := require.New(t)
	repo := testRepo(t)
	ctx := context.Background()

	rq.NoError(repo.Bootstrap(ctx, "sniper@example.com"))

	// Внешние клиенты таблицы пишут цены числами, а не строками.
	_, err := repo.db.Exec(
		`UPDATE bots SET filters = '{"minPrice": 45.5, "maxPrice": 120}' WHERE email = $1`,
		"sniper@example.com",
	)
	rq.NoError(err)

	filters, err := repo.GetFilters(ctx, "sniper@example.com")
	rq.NoError(err)
	rq.True(filters.MinPrice.Equal(decimal.RequireFromString("45.5")))
	rq.NotNil(filters.MaxPrice)
	rq.True(filters.MaxPrice.Equal(decimal.NewFromInt(120)))
}

func TestSessionRoundTrip(t *testing.T) {
	rq := require.New(t)
	repo := testRepo(t)
	ctx := context.Background()

	rq.NoError(repo.Bootstrap(ctx, "sniper@example.com"))

	saved, err := repo.GetSession(ctx, "sniper@example.com")
	rq.NoError(err)
	rq.True(saved.IsZero())

	session := entity.Session{
		AccessToken: "tok-1",
		Cookies:     []entity.Cookie{{Name: "sid", Value: "abc"}},
		UserAgent:   "Mozilla/5.0",
	}
	rq.NoError(repo.SaveSession(ctx, "sniper@example.com", session))

	saved, err = repo.GetSession(ctx, "sniper@example.com")
	rq.NoError(err)
	rq.Equal(session, saved)

	rq.NoError(repo.ClearSession(ctx, "sniper@example.com"))

	saved, err = repo.GetSession(ctx, "sniper@example.com")
	rq.NoError(err)
	rq.True(saved.IsZero())
}

func TestReportMatch(t *testing.T) {
	rq := require.New(t)
	repo := testRepo(t)
	ctx := context.Background()

	rq.NoError(repo.Bootstrap(ctx, "sniper@example.com"))

	match := entity.Match{
		OfferID: "offer-42",
		Price:   decimal.RequireFromString("57.2"),
	}
	rq.NoError(repo.ReportMatch(ctx, "sniper@example.com", match))

	bot, err := repo.GetBot(ctx, "sniper@example.com")
	rq.NoError(err)
	rq.NotNil(bot.LastMatch)
	rq.Equal("offer-42", bot.LastMatch.OfferID)
	rq.True(bot.LastMatch.Price.Equal(match.Price))
}
