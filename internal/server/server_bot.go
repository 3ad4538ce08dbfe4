package server

import (
	"context"
	"fmt"
	"net/http"

	"git.appkode.ru/pub/go/failure"

	"offer_sniper/internal/domain"
	"offer_sniper/internal/domain/entity"
	"offer_sniper/pkg/errcodes"
	"offer_sniper/pkg/httpx/reply"
	"offer_sniper/pkg/httpx/req"
	"offer_sniper/pkg/rest"
)

type botService interface {
	Get(ctx context.Context) (*entity.Bot, error)
	UpdateFilters(ctx context.Context, filters entity.Filters) error
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}

type BotServer struct {
	botService botService
}

func NewBotServer(botService botService) BotServer {
	return BotServer{
		botService: botService,
	}
}

func (s BotServer) getV1Bot(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	bot, err := s.botService.Get(ctx)
	if err != nil {
		return asHTTPError(fmt.Errorf("botService.Get: %w", err))
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTBot(*bot))

	return nil
}

func (s BotServer) putV1BotFilters(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	var request rest.Filters

	if err := req.Read(r, &request); err != nil {
		return fmt.Errorf("req.Read: %w", err)
	}

	filters, err := newDomainFilters(request)
	if err != nil {
		return failure.NewInvalidArgumentErrorFromError(
			fmt.Errorf("newDomainFilters: %w", err),
			failure.WithCode(errcodes.InvalidFilters),
		)
	}

	if err = s.botService.UpdateFilters(ctx, filters); err != nil {
		return asHTTPError(fmt.Errorf("botService.UpdateFilters: %w", err))
	}

	reply.OK(w)

	return nil
}

func (s BotServer) postV1BotStart(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	if err := s.botService.Start(ctx); err != nil {
		return asHTTPError(fmt.Errorf("botService.Start: %w", err))
	}

	reply.OK(w)

	return nil
}

func (s BotServer) postV1BotStop(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	if err := s.botService.Stop(ctx); err != nil {
		return asHTTPError(fmt.Errorf("botService.Stop: %w", err))
	}

	reply.OK(w)

	return nil
}

// asHTTPError переводит доменные коды в типы ошибок, по которым reply.Error
// выбирает HTTP-статус.
func asHTTPError(err error) error {
	switch {
	case domain.HasCode(err, errcodes.BotNotFound):
		return failure.NewNotFoundErrorFromError(err, failure.WithCode(errcodes.BotNotFound))
	case domain.HasCode(err, errcodes.InvalidFilters):
		return failure.NewInvalidArgumentErrorFromError(err, failure.WithCode(errcodes.InvalidFilters))
	case domain.HasCode(err, errcodes.InvalidBotStatus):
		return failure.NewInvalidArgumentErrorFromError(err, failure.WithCode(errcodes.InvalidBotStatus))
	default:
		return err
	}
}
