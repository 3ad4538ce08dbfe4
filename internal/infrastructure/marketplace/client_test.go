package marketplace_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"offer_sniper/internal/config"
	"offer_sniper/internal/domain/entity"
	"offer_sniper/internal/infrastructure/marketplace"
)

func testSession() entity.Session {
	return entity.Session{
		AccessToken: "test-token",
		Cookies: []entity.Cookie{
			{Name: "_session", Value: "abc"},
			{Name: "_ga", Value: "xyz"},
		},
		UserAgent:    "TestAgent/1.0",
		AcceptHeader: "application/vnd.api+json",
	}
}

func newTestClient(baseURL string, simulate bool) *marketplace.Client {
	return marketplace.NewClient(config.Marketplace{
		BaseURL:        baseURL,
		RequestTimeout: 2 * time.Second,
		PageSize:       30,
		SimulateAccept: simulate,
	}, testSession())
}

func TestFetchOffersSessionHeaders(t *testing.T) {
	rq := require.New(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rq.Equal("Bearer test-token", r.Header.Get("Authorization"))
		rq.Equal("_session=abc; _ga=xyz", r.Header.Get("Cookie"))
		rq.Equal("TestAgent/1.0", r.Header.Get("User-Agent"))
		rq.Equal("application/vnd.api+json", r.Header.Get("Accept"))
		rq.Equal("1", r.URL.Query().Get("page[number]"))
		rq.Equal("30", r.URL.Query().Get("page[size]"))

		w.Write([]byte(`{"data":[{"id":"o-1","attributes":{"price":"45,5"}}]}`))
	}))
	defer server.Close()

	offers, err := newTestClient(server.URL, true).FetchOffers(context.Background())
	rq.NoError(err)
	rq.Len(offers, 1)
	rq.Equal("o-1", offers[0].ID())
}

func TestFetchOffersListShapes(t *testing.T) {
	testCases := []struct {
		name  string
		body  string
		count int
	}{
		{name: "Bare array", body: `[{"id":"a"},{"id":"b"}]`, count: 2},
		{name: "Offers wrapper", body: `{"offers":[{"id":"a"}]}`, count: 1},
		{name: "JSON API data wrapper", body: `{"data":[{"id":"a"}]}`, count: 1},
		{name: "Empty object", body: `{}`, count: 0},
		{name: "Empty array", body: `[]`, count: 0},
		{name: "Non-object items skipped", body: `{"offers":[1,"two",{"id":"a"}]}`, count: 1},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rq := require.New(t)

			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.Write([]byte(tc.body))
			}))
			defer server.Close()

			offers, err := newTestClient(server.URL, true).FetchOffers(context.Background())
			rq.NoError(err)
			rq.Len(offers, tc.count)
		})
	}
}

func TestFetchOffersClassifiesFailures(t *testing.T) {
	testCases := []struct {
		name       string
		statusCode int
		headers    map[string]string
		body       string
		kind       marketplace.FailureKind
		retryAfter time.Duration
	}{
		{
			name:       "401 is auth expired",
			statusCode: http.StatusUnauthorized,
			kind:       marketplace.FailureAuthExpired,
		},
		{
			name:       "429 with retry-after hint",
			statusCode: http.StatusTooManyRequests,
			headers:    map[string]string{"Retry-After": "120"},
			kind:       marketplace.FailureRateLimited,
			retryAfter: 120 * time.Second,
		},
		{
			name:       "429 with garbled retry-after",
			statusCode: http.StatusTooManyRequests,
			headers:    map[string]string{"Retry-After": "soon"},
			kind:       marketplace.FailureRateLimited,
		},
		{
			name:       "5xx is transient",
			statusCode: http.StatusServiceUnavailable,
			kind:       marketplace.FailureTransient,
		},
		{
			name:       "Unparseable body is transient",
			statusCode: http.StatusOK,
			body:       `{"offers": [truncated`,
			kind:       marketplace.FailureTransient,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rq := require.New(t)

			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				for k, v := range tc.headers {
					w.Header().Set(k, v)
				}
				w.WriteHeader(tc.statusCode)
				w.Write([]byte(tc.body))
			}))
			defer server.Close()

			_, err := newTestClient(server.URL, true).FetchOffers(context.Background())
			rq.Error(err)
			rq.Equal(tc.kind, marketplace.Kind(err))

			if tc.retryAfter != 0 {
				rateLimited, ok := marketplace.AsRateLimit(err)
				rq.True(ok)
				rq.Equal(tc.retryAfter, rateLimited.RetryAfter)
			}
		})
	}
}

func TestAcceptOfferSimulation(t *testing.T) {
	rq := require.New(t)

	var requested bool

	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		requested = true
	}))
	defer server.Close()

	result, err := newTestClient(server.URL, true).AcceptOffer(context.Background(), "offer-17")
	rq.NoError(err)
	rq.Equal("simulation_success", result.Status)
	rq.Equal("offer-17", result.OfferID)
	rq.False(requested, "simulation mode must not reach the marketplace")
}

func TestAcceptOfferLive(t *testing.T) {
	rq := require.New(t)

	var gotPath string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		rq.Equal(http.MethodPost, r.Method)
		w.Write([]byte(`{"status":"accepted","offer_id":"offer-17"}`))
	}))
	defer server.Close()

	result, err := newTestClient(server.URL, false).AcceptOffer(context.Background(), "offer-17")
	rq.NoError(err)
	rq.Equal("/offers/offer-17/accept", gotPath)
	rq.Equal("accepted", result.Status)

	_, err = newTestClient(server.URL, false).AcceptOffer(context.Background(), "offer 18")
	rq.NoError(err)
}

func TestAcceptOfferAuthExpired(t *testing.T) {
	rq := require.New(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	_, err := newTestClient(server.URL, false).AcceptOffer(context.Background(), "offer-17")
	rq.Error(err)
	rq.Equal(marketplace.FailureAuthExpired, marketplace.Kind(err))
}
