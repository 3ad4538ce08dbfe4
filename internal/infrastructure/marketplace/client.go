package marketplace

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"

	jsoniter "github.com/json-iterator/go"

	"offer_sniper/internal/config"
	"offer_sniper/internal/domain/entity"
	"offer_sniper/pkg/httpx"
	"offer_sniper/pkg/logx"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals // skip

// AcceptanceResult — исход попытки принять оффер.
type AcceptanceResult struct {
	Status  string `json:"status"`
	OfferID string `json:"offer_id"`
}

// Client — HTTP-клиент API маркетплейса. Держит keep-alive соединения
// (каждая миллисекунда в горячем цикле на счету) и подписывает каждый
// запрос захваченной сессией. Все транспортные сбои возвращаются уже
// классифицированными (classify.go).
type Client struct {
	httpClient     *http.Client
	baseURL        string
	pageSize       int
	simulateAccept bool
}

type sessionHeaders struct {
	session entity.Session
	origin  string
}

func (s sessionHeaders) BearerToken() string {
	return s.session.AccessToken
}

func (s sessionHeaders) Headers() http.Header {
	headers := http.Header{}

	accept := s.session.AcceptHeader
	if accept == "" {
		accept = "application/vnd.api+json"
	}

	headers.Set("Accept", accept)
	headers.Set("Content-Type", "application/json")

	if cookie := s.session.CookieHeader(); cookie != "" {
		headers.Set("Cookie", cookie)
	}
	if s.session.UserAgent != "" {
		headers.Set("User-Agent", s.session.UserAgent)
	}
	if s.origin != "" {
		headers.Set("Origin", s.origin)
		headers.Set("Referer", s.origin+"/")
	}
	if s.session.Context != "" {
		headers.Set("X-Portal-Context", s.session.Context)
	}
	if s.session.DeviceID != "" {
		headers.Set("X-Device-Id", s.session.DeviceID)
	}

	return headers
}

func NewClient(cfg config.Marketplace, session entity.Session) *Client {
	transport := http.RoundTripper(http.DefaultTransport.(*http.Transport).Clone())

	if cfg.LogRequests {
		transport = httpx.NewLoggingRoundTripper(
			transport,
			httpx.WithSensitiveDataMasker(logx.NewSensitiveDataMasker()),
		)
	}

	transport = httpx.NewSessionRoundTripper(transport, sessionHeaders{
		session: session,
		origin:  cfg.Origin,
	})

	return &Client{
		httpClient: &http.Client{
			Transport: transport,
			Timeout:   cfg.RequestTimeout,
		},
		baseURL:        cfg.BaseURL,
		pageSize:       cfg.PageSize,
		simulateAccept: cfg.SimulateAccept,
	}
}

// FetchOffers забирает первую страницу офферов. Пустой или отсутствующий
// список — ноль офферов, не ошибка.
func (c *Client) FetchOffers(ctx context.Context) ([]entity.Offer, error) {
	query := url.Values{}
	query.Set("page[number]", "1")
	query.Set("page[size]", fmt.Sprint(c.pageSize))
	query.Set("include", "pickup_location,dropoff_location")

	endpoint := c.baseURL + "/offers?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("http.NewRequestWithContext: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransientError{cause: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		io.Copy(io.Discard, resp.Body) //nolint:errcheck
		return nil, classifyStatus(resp.StatusCode, resp.Header)
	}

	var payload any
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, &TransientError{cause: fmt.Errorf("json.Decode: %w", err)}
	}

	return offersList(payload), nil
}

// AcceptOffer принимает оффер. В холостом режиме запрос не уходит, но форма
// результата та же, что у боевого вызова.
func (c *Client) AcceptOffer(ctx context.Context, offerID string) (AcceptanceResult, error) {
	if c.simulateAccept {
		logger(ctx).Warn(
			"SIMULATION MODE: offer acceptance suppressed",
			slog.String(logx.FieldOfferID, offerID),
		)

		return AcceptanceResult{Status: "simulation_success", OfferID: offerID}, nil
	}

	endpoint := c.baseURL + "/offers/" + url.PathEscape(offerID) + "/accept"

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, http.NoBody)
	if err != nil {
		return AcceptanceResult{}, fmt.Errorf("http.NewRequestWithContext: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return AcceptanceResult{}, &TransientError{cause: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		io.Copy(io.Discard, resp.Body) //nolint:errcheck
		return AcceptanceResult{}, classifyStatus(resp.StatusCode, resp.Header)
	}

	result := AcceptanceResult{Status: "accepted", OfferID: offerID}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil && err != io.EOF {
		// Принятие прошло, ответ не разобрался — не повод ронять запуск.
		logger(ctx).Warn("acceptance response not parseable", logx.Error(err))
	}

	return result, nil
}

// offersList терпимо разбирает контейнер списка: голый массив, {"offers":[...]}
// либо {"data":[...]} (JSON:API).
func offersList(payload any) []entity.Offer {
	items, ok := payload.([]any)
	if !ok {
		obj, isObj := payload.(map[string]any)
		if !isObj {
			return nil
		}

		if arr, found := obj["offers"].([]any); found {
			items = arr
		} else if arr, found := obj["data"].([]any); found {
			items = arr
		}
	}

	offers := make([]entity.Offer, 0, len(items))
	for _, item := range items {
		raw, isObj := item.(map[string]any)
		if !isObj {
			continue
		}
		offers = append(offers, entity.Offer{Raw: raw})
	}

	return offers
}
