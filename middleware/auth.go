package middleware

import (
	"net/http"

	"gitea.com/go-chi/session"

	"github.com/blogem/usermgmt/userctx"
)

// Session keys shared with the login controller
const (
	SessionSubjectKey  = "operator_sub"
	SessionNameKey     = "operator_name"
	SessionRedirectKey = "redirect_after_login"
)

// LoadOperator copies the signed-in operator from the session into the
// request context. Requests without a login pass through unchanged.
func LoadOperator(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if op, ok := operatorFromSession(session.GetSession(r)); ok {
			r = r.WithContext(userctx.WithOperator(r.Context(), op))
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAuth ensures the operator is authenticated
// If not authenticated, redirects to /login and stores the intended destination
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := userctx.GetOperator(r.Context()); ok {
			next.ServeHTTP(w, r)
			return
		}

		sess := session.GetSession(r)
		op, ok := operatorFromSession(sess)
		if !ok {
			if r.Method == http.MethodGet {
				sess.Set(SessionRedirectKey, r.URL.RequestURI())
			}
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}

		next.ServeHTTP(w, r.WithContext(userctx.WithOperator(r.Context(), op)))
	})
}

func operatorFromSession(sess session.Store) (userctx.Operator, bool) {
	if sess == nil {
		return userctx.Operator{}, false
	}
	sub, _ := sess.Get(SessionSubjectKey).(string)
	if sub == "" {
		return userctx.Operator{}, false
	}
	name, _ := sess.Get(SessionNameKey).(string)
	return userctx.Operator{Subject: sub, Name: name}, true
}
