package delivery

import (
	"crypto/subtle"
	"net/http"
)

// AdminKeyMiddleware пропускает запрос только с ?key=<secret>.
// Сравнение за постоянное время; пустой ключ и регистр не прощаются.
func AdminKeyMiddleware(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := r.URL.Query().Get("key")
			if secret == "" || subtle.ConstantTimeCompare([]byte(key), []byte(secret)) != 1 {
				writeError(w, http.StatusForbidden, "Unauthorized")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
