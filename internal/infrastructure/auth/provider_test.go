package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"offer_sniper/internal/domain"
	"offer_sniper/internal/domain/entity"
	"offer_sniper/pkg/errcodes"
)

type fakeStore struct {
	session entity.Session
	saved   *entity.Session
	cleared bool
}

func (s *fakeStore) GetSession(_ context.Context, _ string) (entity.Session, error) {
	return s.session, nil
}

func (s *fakeStore) SaveSession(_ context.Context, _ string, session entity.Session) error {
	s.saved = &session
	return nil
}

func (s *fakeStore) ClearSession(_ context.Context, _ string) error {
	s.cleared = true
	return nil
}

func TestAcquirePrefersSavedSession(t *testing.T) {
	rq := require.New(t)

	store := &fakeStore{session: entity.Session{
		AccessToken: "saved-token",
		Cookies:     []entity.Cookie{{Name: "sid", Value: "abc"}},
	}}

	provider := NewProvider(store, Account{
		Email:       "sniper@example.com",
		AccessToken: "static-token",
	})

	got, err := provider.Acquire(context.Background())
	rq.NoError(err)
	rq.Equal("saved-token", got.AccessToken)
	rq.Nil(store.saved, "saved session must not be rewritten")
}

func TestAcquireFallsBackToStaticToken(t *testing.T) {
	rq := require.New(t)

	store := &fakeStore{}
	provider := NewProvider(store, Account{
		Email:       "sniper@example.com",
		AccessToken: "static-token",
		UserAgent:   "Mozilla/5.0",
	})

	got, err := provider.Acquire(context.Background())
	rq.NoError(err)
	rq.Equal("static-token", got.AccessToken)
	rq.Equal("Mozilla/5.0", got.UserAgent)
	rq.NotEmpty(got.DeviceID)
	rq.NotNil(store.saved, "fresh session must be persisted")
}

func TestAcquireFailsWithoutSources(t *testing.T) {
	rq := require.New(t)

	// Токен без списка cookies не считается рабочей сессией.
	store := &fakeStore{session: entity.Session{AccessToken: "stale"}}
	provider := NewProvider(store, Account{Email: "sniper@example.com"})

	_, err := provider.Acquire(context.Background())
	rq.True(domain.HasCode(err, errcodes.TokenNotFound))
}

func TestInvalidateClearsStore(t *testing.T) {
	rq := require.New(t)

	store := &fakeStore{}
	provider := NewProvider(store, Account{Email: "sniper@example.com"})

	rq.NoError(provider.Invalidate(context.Background()))
	rq.True(store.cleared)
}
