// Package csrf protects form posts with a double submit cookie.
package csrf

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"mime"
	"net/http"

	"github.com/itchan-dev/scoula/shared/logger"
)

const (
	TokenLength = 32 // bytes

	CookieName = "csrf_token"
	FieldName  = "csrf_token"
	HeaderName = "X-CSRF-Token"

	cookieMaxAge = 86400 // 24 hours
)

type ctxKey struct{}

// GenerateToken creates a cryptographically secure random token
func GenerateToken() (string, error) {
	bytes := make([]byte, TokenLength)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(bytes), nil
}

// ValidateToken compares the cookie token with the submitted token
func ValidateToken(cookieToken, formToken string) bool {
	if cookieToken == "" || formToken == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(cookieToken), []byte(formToken)) == 1
}

// Token returns the token of the current request, empty outside of Middleware.
func Token(ctx context.Context) string {
	token, _ := ctx.Value(ctxKey{}).(string)
	return token
}

// Middleware makes sure every client holds a token cookie and rejects unsafe
// requests whose submitted token does not match it with 403.
//
// The token is taken from the X-CSRF-Token header, the query string or an url
// encoded form body. Multipart bodies are never parsed here: their size limits
// belong to the handler, so multipart forms send the token in the query string.
func Middleware(secure bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var cookieToken string
			if c, err := r.Cookie(CookieName); err == nil {
				cookieToken = c.Value
			}

			if !safeMethod(r.Method) && !ValidateToken(cookieToken, submittedToken(r)) {
				logger.Log.WarnContext(r.Context(), "csrf token mismatch", "method", r.Method, "path", r.URL.Path)
				http.Error(w, "Invalid or missing CSRF token", http.StatusForbidden)
				return
			}

			if cookieToken == "" {
				token, err := GenerateToken()
				if err != nil {
					logger.Log.ErrorContext(r.Context(), "failed to generate csrf token", "error", err)
					http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
					return
				}
				cookieToken = token
				http.SetCookie(w, &http.Cookie{
					Name:     CookieName,
					Value:    token,
					Path:     "/",
					HttpOnly: true,
					Secure:   secure,
					SameSite: http.SameSiteLaxMode,
					MaxAge:   cookieMaxAge,
				})
			}

			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, cookieToken)))
		})
	}
}

func safeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions, http.MethodTrace:
		return true
	}
	return false
}

func submittedToken(r *http.Request) string {
	if token := r.Header.Get(HeaderName); token != "" {
		return token
	}
	if token := r.URL.Query().Get(FieldName); token != "" {
		return token
	}
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/x-www-form-urlencoded" {
		return r.PostFormValue(FieldName)
	}
	return ""
}
