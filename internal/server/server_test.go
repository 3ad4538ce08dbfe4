package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"offer_sniper/internal/domain"
	"offer_sniper/internal/domain/entity"
	"offer_sniper/pkg/errcodes"
	"offer_sniper/pkg/rest"
	"offer_sniper/pkg/tests"
)

type fakeBotService struct {
	bot        *entity.Bot
	getErr     error
	filters    *entity.Filters
	started    bool
	stopped    bool
	serviceErr error
}

func (s *fakeBotService) Get(_ context.Context) (*entity.Bot, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	return s.bot, nil
}

func (s *fakeBotService) UpdateFilters(_ context.Context, filters entity.Filters) error {
	if s.serviceErr != nil {
		return s.serviceErr
	}
	s.filters = &filters
	return nil
}

func (s *fakeBotService) Start(_ context.Context) error {
	s.started = true
	return s.serviceErr
}

func (s *fakeBotService) Stop(_ context.Context) error {
	s.stopped = true
	return s.serviceErr
}

func newTestAPI(t *testing.T, service botService) tests.APIClient {
	t.Helper()

	router := chi.NewRouter()
	NewServer(NewBotServer(service)).RegisterRoutes(router)

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	return tests.NewAPIClient(srv.URL, srv.Client())
}

func TestGetV1Bot(t *testing.T) {
	rq := require.New(t)

	maxPrice := decimal.NewFromInt(120)
	service := &fakeBotService{bot: &entity.Bot{
		Email:  "sniper@example.com",
		Status: entity.StatusRunning,
		Filters: entity.Filters{
			MinPrice:            decimal.RequireFromString("45.5"),
			MaxPrice:            &maxPrice,
			AllowedVehicleTypes: []string{"van"},
		},
		LastSeen: time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC),
		LastMatch: &entity.Match{
			At:      time.Date(2026, 3, 14, 11, 55, 0, 0, time.UTC),
			OfferID: "offer-42",
			Price:   decimal.RequireFromString("57.2"),
		},
	}}

	api := newTestAPI(t, service)

	var got rest.Bot
	resp, err := api.Get(context.Background(), "/v1/bot", nil, &got, nil)
	rq.NoError(err)
	rq.Equal(http.StatusOK, resp.StatusCode)

	rq.Equal("sniper@example.com", got.Email)
	rq.Equal("RUNNING", got.Status)
	rq.Equal("45.5", got.Filters.MinPrice)
	rq.Equal("120", got.Filters.MaxPrice)
	rq.Equal([]string{"van"}, got.Filters.AllowedVehicleTypes)
	rq.NotNil(got.LastMatch)
	rq.Equal("offer-42", got.LastMatch.OfferID)
	rq.Equal("57.2", got.LastMatch.Price)
}

func TestGetV1BotNotFound(t *testing.T) {
	rq := require.New(t)

	service := &fakeBotService{getErr: domain.NewError(errcodes.BotNotFound, "bot not found")}
	api := newTestAPI(t, service)

	var errBody rest.Error
	resp, err := api.Get(context.Background(), "/v1/bot", nil, nil, &errBody)
	rq.NoError(err)
	rq.Equal(http.StatusNotFound, resp.StatusCode)
	rq.Equal(rest.ErrorCode(errcodes.BotNotFound.String()), errBody.Code)
}

func TestPutV1BotFilters(t *testing.T) {
	rq := require.New(t)

	service := &fakeBotService{}
	api := newTestAPI(t, service)

	request := rest.Filters{
		MinPrice:            "45.5",
		MaxPrice:            "120",
		AllowedVehicleTypes: []string{"van", "sedan"},
		MinHoursFromNow:     36,
	}

	resp, err := api.Put(context.Background(), "/v1/bot/filters", nil, request, nil, nil)
	rq.NoError(err)
	rq.Equal(http.StatusOK, resp.StatusCode)

	rq.NotNil(service.filters)
	rq.True(service.filters.MinPrice.Equal(decimal.RequireFromString("45.5")))
	rq.NotNil(service.filters.MaxPrice)
	rq.True(service.filters.MaxPrice.Equal(decimal.NewFromInt(120)))
	rq.Equal(36.0, service.filters.MinHoursFromNow)
}

func TestPutV1BotFiltersValidation(t *testing.T) {
	testCases := []struct {
		name    string
		request rest.Filters
	}{
		{
			name:    "missing minPrice",
			request: rest.Filters{},
		},
		{
			name:    "unparsable minPrice",
			request: rest.Filters{MinPrice: "cheap"},
		},
		{
			name:    "negative horizon",
			request: rest.Filters{MinPrice: "10", MinHoursFromNow: -1},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rq := require.New(t)

			service := &fakeBotService{}
			api := newTestAPI(t, service)

			var errBody rest.Error
			resp, err := api.Put(context.Background(), "/v1/bot/filters", nil, tc.request, nil, &errBody)
			rq.NoError(err)
			rq.Equal(http.StatusBadRequest, resp.StatusCode)
			rq.Nil(service.filters)
		})
	}
}

func TestPostV1BotStartStop(t *testing.T) {
	rq := require.New(t)

	service := &fakeBotService{}
	api := newTestAPI(t, service)

	resp, err := api.Post(context.Background(), "/v1/bot/start", nil, nil, nil, nil)
	rq.NoError(err)
	rq.Equal(http.StatusOK, resp.StatusCode)
	rq.True(service.started)

	resp, err = api.Post(context.Background(), "/v1/bot/stop", nil, nil, nil, nil)
	rq.NoError(err)
	rq.Equal(http.StatusOK, resp.StatusCode)
	rq.True(service.stopped)
}
