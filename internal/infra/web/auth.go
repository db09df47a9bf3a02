package web

import (
	"context"
	"crypto/subtle"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"ai-interview-platform/internal/config"
)

// ===== Session/JWT primitives =====

type AuthConfig struct {
	HMACSecret   []byte
	CookieName   string
	SecureCookie bool
	TTL          time.Duration
}

type AuthManager struct {
	cfg        AuthConfig
	recruiters []config.Recruiter
}

func NewAuthManager(authCfg config.AuthConfig) *AuthManager {
	return &AuthManager{
		cfg: AuthConfig{
			HMACSecret:   []byte(authCfg.JWTSecret),
			CookieName:   "recruiter_session",
			SecureCookie: authCfg.SecureCookie, // true in prod (TLS)
			TTL:          authCfg.CookieTTL,
		},
		recruiters: authCfg.Recruiters,
	}
}

type RecruiterClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Login validates static recruiter credentials from configuration.
func (a *AuthManager) Login(email, password string) bool {
	for _, r := range a.recruiters {
		emailOK := subtle.ConstantTimeCompare([]byte(r.Email), []byte(email)) == 1
		passOK := subtle.ConstantTimeCompare([]byte(r.Password), []byte(password)) == 1
		if emailOK && passOK {
			return true
		}
	}
	return false
}

// Mint signs a recruiter session token and sets it as an HttpOnly cookie.
// The subject is the recruiter's email, which doubles as the owner id on
// every interview and feedback row.
func (a *AuthManager) Mint(w http.ResponseWriter, email string) (string, error) {
	now := time.Now()
	claims := RecruiterClaims{
		Role: "recruiter",
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(a.cfg.TTL)),
			Subject:   email,
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(a.cfg.HMACSecret)
	if err != nil {
		return "", err
	}

	c := &http.Cookie{
		Name:     a.cfg.CookieName,
		Value:    signed,
		Path:     "/",
		MaxAge:   int(a.cfg.TTL.Seconds()),
		HttpOnly: true,
		Secure:   a.cfg.SecureCookie,
		SameSite: http.SameSiteStrictMode,
	}
	http.SetCookie(w, c)
	return signed, nil
}

func (a *AuthManager) Clear(w http.ResponseWriter) {
	c := &http.Cookie{
		Name:     a.cfg.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   a.cfg.SecureCookie,
		SameSite: http.SameSiteStrictMode,
	}
	http.SetCookie(w, c)
}

func (a *AuthManager) ParseFromRequest(r *http.Request) (*RecruiterClaims, error) {
	// Authorization: Bearer <jwt>
	if hdr := r.Header.Get("Authorization"); hdr != "" {
		if strings.HasPrefix(strings.ToLower(hdr), "bearer ") {
			return a.parse(strings.TrimSpace(hdr[7:]))
		}
	}
	// Cookie
	if c, err := r.Cookie(a.cfg.CookieName); err == nil {
		return a.parse(c.Value)
	}
	return nil, errors.New("missing token")
}

func (a *AuthManager) parse(tok string) (*RecruiterClaims, error) {
	claims := &RecruiterClaims{}
	tkn, err := jwt.ParseWithClaims(tok, claims, func(t *jwt.Token) (any, error) {
		return a.cfg.HMACSecret, nil
	})
	if err != nil || !tkn.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

type ctxKeyClaims struct{}

// requireAuth gates the recruiter API and stashes claims in the request
// context.
func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, err := s.auth.ParseFromRequest(r)
		if err != nil {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		ctx := context.WithValue(r.Context(), ctxKeyClaims{}, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func ownerFromCtx(ctx context.Context) string {
	if claims, ok := ctx.Value(ctxKeyClaims{}).(*RecruiterClaims); ok {
		return claims.Subject
	}
	return ""
}
