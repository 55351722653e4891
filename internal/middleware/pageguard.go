package middleware

import (
	"net/http"

	"minbar/internal/guard"
	"minbar/internal/reqctx"
)

// PageGuard applies guard.Decide to page requests. The session has already
// been resolved by SessionLoader, so the loading state never occurs here.
func PageGuard(class guard.PageClass, opts guard.Options) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			state := guard.SessionAbsent
			if reqctx.GetSession(r.Context()) != nil {
				state = guard.SessionPresent
			}

			d := guard.Decide(state, class, opts)
			switch d.Action {
			case guard.Redirect:
				w.Header().Set("Cache-Control", "no-store")
				http.Redirect(w, r, d.Target, http.StatusFound)
			case guard.Loading:
				w.Header().Set("Retry-After", "1")
				w.WriteHeader(http.StatusServiceUnavailable)
			default:
				next.ServeHTTP(w, r)
			}
		})
	}
}
