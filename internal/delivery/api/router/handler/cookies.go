package handler

import (
	"net/http"
	"time"

	"estate/config"

	"github.com/labstack/echo/v4"
)

// sessionCookies writes the session cookies. They are HttpOnly and cross-site capable.
type sessionCookies struct {
	domain string
	secure bool
}

func newSessionCookies(cfg *config.Config) sessionCookies {
	sc := sessionCookies{secure: true}
	if cfg != nil && cfg.Cookie != nil {
		sc.domain = cfg.Cookie.Domain
		sc.secure = !cfg.Cookie.Insecure
	}

	return sc
}

func (sc sessionCookies) set(c echo.Context, name, value string, ttl time.Duration) {
	c.SetCookie(sc.cookie(name, value, int(ttl.Seconds())))
}

func (sc sessionCookies) clear(c echo.Context, name string) {
	c.SetCookie(sc.cookie(name, "", -1))
}

func (sc sessionCookies) cookie(name, value string, maxAge int) *http.Cookie {
	// Browsers drop SameSite=None cookies that are not Secure.
	sameSite := http.SameSiteNoneMode
	if !sc.secure {
		sameSite = http.SameSiteLaxMode
	}

	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Domain:   sc.domain,
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   sc.secure,
		SameSite: sameSite,
	}
}
