package route

import (
	"net/http"
	"net/url"
)

// returnToParam is the query parameter carrying the originally-requested
// path on a redirect to login.
const returnToParam = "redirect"

// Guard wraps next with a policy check for server-rendered embedders: the
// decision table runs per request, redirect decisions become 302s, and the
// login redirect carries the requested path as a return target.
func (a *Authorizer) Guard(policy Policy, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		decision := a.Authorize(r.Context(), r.URL.Path, policy)
		if decision.Action == ActionAllow {
			next.ServeHTTP(w, r)
			return
		}

		target := decision.Target
		if decision.Action == ActionRedirectLogin && decision.ReturnTo != "" {
			target += "?" + returnToParam + "=" + url.QueryEscape(decision.ReturnTo)
		}
		http.Redirect(w, r, target, http.StatusFound)
	})
}
