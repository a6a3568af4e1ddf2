package auth

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

const (
	cookieName   = "lp_session"
	cookieMaxAge = 30 * 24 * 60 * 60 // 30 дней
)

type ctxKey struct{}

// Sessions выдаёт и проверяет подписанные идентификаторы анонимных сессий.
// Это не аутентификация: сессия только связывает запросы одного браузера.
type Sessions struct {
	SecretKey string
}

func New(secret string) *Sessions {
	return &Sessions{SecretKey: secret}
}

// Создать подпись
func (s *Sessions) sign(sessionID string) string {
	mac := hmac.New(sha256.New, []byte(s.SecretKey))
	mac.Write([]byte(sessionID))
	return hex.EncodeToString(mac.Sum(nil))
}

// Создать куку вида lp_session=sessionID:signature
func (s *Sessions) issueCookie(w http.ResponseWriter) string {
	sessionID := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    s.SignCookieValue(sessionID),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   cookieMaxAge,
	})
	return sessionID
}

// GetOrSetSessionID возвращает идентификатор из валидной куки или выдаёт новый.
func (s *Sessions) GetOrSetSessionID(w http.ResponseWriter, r *http.Request) string {
	if id, ok := s.ValidateSessionID(r); ok {
		return id
	}
	return s.issueCookie(w)
}

// ValidateSessionID проверяет наличие и подпись куки.
func (s *Sessions) ValidateSessionID(r *http.Request) (string, bool) {
	cookie, err := r.Cookie(cookieName)
	if err != nil || cookie.Value == "" {
		return "", false
	}

	id, sig, ok := strings.Cut(cookie.Value, ":")
	if !ok || id == "" || !hmac.Equal([]byte(s.sign(id)), []byte(sig)) {
		return "", false
	}
	return id, true
}

// SignCookieValue значение куки для идентификатора, используется и в тестах.
func (s *Sessions) SignCookieValue(sessionID string) string {
	return fmt.Sprintf("%s:%s", sessionID, s.sign(sessionID))
}

// Middleware кладёт идентификатор сессии в контекст запроса.
func (s *Sessions) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := s.GetOrSetSessionID(w, r)
		next.ServeHTTP(w, r.WithContext(WithSessionID(r.Context(), id)))
	})
}

// WithSessionID возвращает контекст с идентификатором сессии.
func WithSessionID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// SessionID достаёт идентификатор сессии из контекста.
func SessionID(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}
