package middleware

import (
	"errors"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const (
	CartSessionCookie   = "cart_session"
	CtxCartSessionIDKey = "cart_session_id" // string
)

// cart_sessionクッキーの設定
type CartSessionConfig struct {
	Secret []byte
	TTL    time.Duration
	Secure bool

	Now   func() time.Time
	NewID func() string
}

func (cfg CartSessionConfig) now() time.Time {
	if cfg.Now != nil {
		return cfg.Now()
	}
	return time.Now()
}

func (cfg CartSessionConfig) newID() string {
	if cfg.NewID != nil {
		return cfg.NewID()
	}
	return uuid.NewString()
}

// CartSession はブラウザごとのカートを識別するミドルウェア。
// クッキーが無い・不正・期限切れなら新しいセッションを発行する（401にはしない）。
func CartSession(cfg CartSessionConfig) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			now := cfg.now()

			var (
				sessionID string
				expiresAt time.Time
			)
			if ck, err := c.Cookie(CartSessionCookie); err == nil && ck.Value != "" {
				sessionID, expiresAt, _ = ParseCartSessionToken(cfg, ck.Value)
			}

			//無効なら新規、残り半分を切っていたら延長
			if sessionID == "" || expiresAt.Sub(now) < cfg.TTL/2 {
				if sessionID == "" {
					sessionID = cfg.newID()
				}
				token, exp, err := IssueCartSessionToken(cfg, sessionID, now)
				if err != nil {
					return c.JSON(http.StatusInternalServerError, errorJSON("internal error"))
				}
				c.SetCookie(&http.Cookie{
					Name:     CartSessionCookie,
					Value:    token,
					Path:     "/",
					Expires:  exp,
					HttpOnly: true,
					Secure:   cfg.Secure,
					SameSite: http.SameSiteLaxMode,
				})
			}

			c.Set(CtxCartSessionIDKey, sessionID)
			return next(c)
		}
	}
}

// handlerからセッションIDを取り出す
func CartSessionID(c echo.Context) (string, bool) {
	id, ok := c.Get(CtxCartSessionIDKey).(string)
	return id, ok && id != ""
}

func IssueCartSessionToken(cfg CartSessionConfig, sessionID string, now time.Time) (string, time.Time, error) {
	expiresAt := now.Add(cfg.TTL)

	claims := jwt.RegisteredClaims{
		Subject:   sessionID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(cfg.Secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// 署名・期限・subを検証してセッションIDと期限を返す
func ParseCartSessionToken(cfg CartSessionConfig, raw string) (string, time.Time, error) {
	var claims jwt.RegisteredClaims
	token, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (interface{}, error) {
		return cfg.Secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(cfg.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil || token == nil || !token.Valid {
		return "", time.Time{}, errors.New("invalid session token")
	}

	if _, err := uuid.Parse(claims.Subject); err != nil {
		return "", time.Time{}, errors.New("invalid sub")
	}
	return claims.Subject, claims.ExpiresAt.Time, nil
}

type errorResponse struct {
	Error string `json:"error"`
}

func errorJSON(msg string) errorResponse {
	return errorResponse{Error: msg}
}
