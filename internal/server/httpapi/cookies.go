package httpapi

import (
	"net/http"

	"github.com/dkrasnovs/tenauth/internal/server/auth"
)

// setAuthCookies attaches the token pair as HTTP-only cookies. Max-age
// mirrors each token's own expiry.
func (s *Server) setAuthCookies(w http.ResponseWriter, pair *auth.TokenPair) {
	http.SetCookie(w, &http.Cookie{
		Name:     auth.AccessTokenCookie,
		Value:    pair.AccessToken,
		Domain:   s.cfg.CookieDomain,
		Path:     "/",
		MaxAge:   int(s.cfg.AccessTokenValidityDuration.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
	http.SetCookie(w, &http.Cookie{
		Name:     auth.RefreshTokenCookie,
		Value:    pair.RefreshToken,
		Domain:   s.cfg.CookieDomain,
		Path:     "/",
		MaxAge:   int(s.cfg.RefreshTokenValidityDuration.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
}

func (s *Server) clearAuthCookies(w http.ResponseWriter) {
	for _, name := range []string{auth.AccessTokenCookie, auth.RefreshTokenCookie} {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    "",
			Domain:   s.cfg.CookieDomain,
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			SameSite: http.SameSiteStrictMode,
		})
	}
}
