package auth

import (
	"context"

	"github.com/rs/xid"

	"offer_sniper/internal/domain"
	"offer_sniper/internal/domain/entity"
	"offer_sniper/internal/domain/service/session"
	"offer_sniper/pkg/errcodes"
)

// sessionStore — часть репозитория состояния бота, нужная авторизации.
type sessionStore interface {
	GetSession(ctx context.Context, email string) (entity.Session, error)
	SaveSession(ctx context.Context, email string, s entity.Session) error
	ClearSession(ctx context.Context, email string) error
}

// Account — учётные данные аккаунта.
type Account struct {
	Email       string
	AccessToken string
	UserAgent   string
}

// Provider выдаёт сессию для работы с маркетплейсом. Порядок источников:
// сохранённая сессия из хранилища, затем статический токен из конфигурации.
// Интерактивного логина у провайдера нет: токен снимают руками и кладут в
// окружение, либо сессию пишет в хранилище внешний захватчик.
type Provider struct {
	store   sessionStore
	account Account
}

func NewProvider(store sessionStore, account Account) *Provider {
	return &Provider{store: store, account: account}
}

// Acquire возвращает рабочую сессию. Годность проверяется оптимистично:
// настоящая проверка — первый запрос к API.
func (p *Provider) Acquire(ctx context.Context) (entity.Session, error) {
	saved, err := p.store.GetSession(ctx, p.account.Email)
	if err != nil {
		return entity.Session{}, domain.WrapError(err, errcodes.InternalServerError, "failed to load saved session")
	}

	if session.IsUsable(saved) {
		logger(ctx).Info("reusing saved session")
		return saved, nil
	}

	if p.account.AccessToken == "" {
		return entity.Session{}, domain.NewError(errcodes.TokenNotFound,
			"no usable saved session and no static access token")
	}

	fresh := entity.Session{
		AccessToken: p.account.AccessToken,
		Cookies:     []entity.Cookie{},
		UserAgent:   p.account.UserAgent,
		DeviceID:    xid.New().String(),
	}

	if err := p.store.SaveSession(ctx, p.account.Email, fresh); err != nil {
		return entity.Session{}, domain.WrapError(err, errcodes.InternalServerError, "failed to save session")
	}

	logger(ctx).Info("built session from static access token")

	return fresh, nil
}

// Invalidate стирает сессию из хранилища. Вызывается после 401.
func (p *Provider) Invalidate(ctx context.Context) error {
	if err := p.store.ClearSession(ctx, p.account.Email); err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to clear session")
	}

	return nil
}
