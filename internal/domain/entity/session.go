package entity

import "strings"

// Cookie — сериализуемая форма cookie браузера, в которой сессия хранится
// и переиспользуется между запусками.
type Cookie struct {
	Name     string  `json:"name"`
	Value    string  `json:"value"`
	Domain   string  `json:"domain,omitempty"`
	Path     string  `json:"path,omitempty"`
	Expires  float64 `json:"expires,omitempty"`
	HTTPOnly bool    `json:"httpOnly,omitempty"`
	Secure   bool    `json:"secure,omitempty"`
	SameSite string  `json:"sameSite,omitempty"`
}

// Session — захваченные учётные данные: bearer-токен, cookies и отпечаток
// клиента. Времени жизни у сессии нет: её годность выясняется только живым
// вызовом API (401 — сессия мертва).
type Session struct {
	AccessToken  string   `json:"accessToken"`
	Cookies      []Cookie `json:"cookies"`
	UserAgent    string   `json:"userAgent,omitempty"`
	AcceptHeader string   `json:"acceptHeader,omitempty"`
	Context      string   `json:"context,omitempty"`
	DeviceID     string   `json:"deviceId,omitempty"`
}

func (s Session) IsZero() bool {
	return s.AccessToken == "" && s.Cookies == nil
}

// CookieHeader собирает заголовок Cookie так же, как это делает браузер.
func (s Session) CookieHeader() string {
	pairs := make([]string, 0, len(s.Cookies))
	for _, c := range s.Cookies {
		pairs = append(pairs, c.Name+"="+c.Value)
	}
	return strings.Join(pairs, "; ")
}
