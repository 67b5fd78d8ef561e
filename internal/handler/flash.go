package handler

import (
	"encoding/base64"
	"net/http"
)

const (
	flashCookieSuccess = "flash_success"
	flashCookieError   = "flash_error"
)

// setFlash stores a one-time message for the next rendered page.
// The value is base64 encoded so any text survives the cookie syntax.
func (h *Handler) setFlash(w http.ResponseWriter, name, message string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    base64.URLEncoding.EncodeToString([]byte(message)),
		Path:     "/",
		MaxAge:   int(h.cfg.FlashTTL.Seconds()),
		HttpOnly: true,
		Secure:   h.cfg.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

// redirectWithFlash answers a form post with 303 See Other so a reload does not repost.
func (h *Handler) redirectWithFlash(w http.ResponseWriter, r *http.Request, target, name, message string) {
	if message != "" {
		h.setFlash(w, name, message)
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// consumeFlash returns the message stored under name and expires the cookie,
// so a message is shown exactly once.
func (h *Handler) consumeFlash(w http.ResponseWriter, r *http.Request, name string) string {
	cookie, err := r.Cookie(name)
	if err != nil {
		return ""
	}
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cfg.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})

	decoded, err := base64.URLEncoding.DecodeString(cookie.Value)
	if err != nil {
		return ""
	}
	return string(decoded)
}
