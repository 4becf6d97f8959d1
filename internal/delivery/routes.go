package delivery

import (
	"net/http"
	"time"

	"github.com/Vovarama1992/go-utils/httputil"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
)

const rateLimitMessage = "Too many requests, please try again later."

type RateLimit struct {
	Requests int
	Window   time.Duration
}

func RegisterRoutes(
	r chi.Router,
	hChat *ChatHandler,
	hAdmin *AdminHandler,
	adminKey string,
	limit RateLimit,
) {
	limiter := httprate.Limit(
		limit.Requests,
		limit.Window,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, _ *http.Request) {
			writeError(w, http.StatusTooManyRequests, rateLimitMessage)
		}),
	)

	// --- чат ---
	r.With(httputil.RecoverMiddleware).
		Get("/tanky-chat", hChat.Status)
	r.With(httputil.RecoverMiddleware, limiter).
		Post("/tanky-chat", hChat.Chat)

	// --- админка ---
	r.Group(func(ar chi.Router) {
		ar.Use(
			httputil.RecoverMiddleware,
			AdminKeyMiddleware(adminKey),
		)

		ar.Get("/logs", hAdmin.Logs)
		ar.Get("/recent", hAdmin.Recent)
	})

	r.With(httputil.RecoverMiddleware).Get("/ping", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("pong"))
	})
}

// MountStatic serves the web client from dir for every path not matched above.
func MountStatic(r chi.Router, dir string) {
	if dir == "" {
		return
	}
	r.With(httputil.RecoverMiddleware).Handle("/*", http.FileServer(http.Dir(dir)))
}
