package middleware

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"gitea.com/go-chi/session"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blogem/usermgmt/metrics"
	"github.com/blogem/usermgmt/userctx"
)

// withSession wraps h in a memory-backed session handler, running setup
// against the session before h sees the request.
func withSession(t *testing.T, setup func(session.Store), h http.Handler) http.Handler {
	t.Helper()
	sessioner, err := session.Sessioner(session.Options{
		Provider:   "memory",
		CookieName: "test_session",
	})
	require.NoError(t, err)

	return sessioner(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if setup != nil {
			setup(session.GetSession(r))
		}
		h.ServeHTTP(w, r)
	}))
}

func echoOperator() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(userctx.OperatorName(r.Context())))
	})
}

func TestRequireAuth_RedirectsAnonymous(t *testing.T) {
	var sess session.Store
	h := withSession(t, func(s session.Store) { sess = s }, RequireAuth(echoOperator()))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/users/3/view?x=1", nil))

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))
	require.NotNil(t, sess)
	assert.Equal(t, "/users/3/view?x=1", sess.Get(SessionRedirectKey))
}

func TestRequireAuth_PassesSignedInOperator(t *testing.T) {
	h := withSession(t, func(s session.Store) {
		s.Set(SessionSubjectKey, "auth|1")
		s.Set(SessionNameKey, "ops@example.com")
	}, LoadOperator(RequireAuth(echoOperator())))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/users", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ops@example.com", rec.Body.String())
}

func TestLoadOperator_AnonymousPassesThrough(t *testing.T) {
	h := withSession(t, nil, LoadOperator(echoOperator()))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, userctx.Anonymous, rec.Body.String())
}

func TestRequestLog(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	h := chimw.RequestID(RequestLog(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte("missing"))
	})))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/users/99/view", nil))

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "request", line["msg"])
	assert.Equal(t, "/users/99/view", line["path"])
	assert.EqualValues(t, http.StatusNotFound, line["status"])
	assert.EqualValues(t, len("missing"), line["size"])
	assert.NotEmpty(t, line["request_id"])
	assert.Equal(t, userctx.Anonymous, line["operator"])
}

func TestRequestLog_MetricsUseRoutePattern(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	r := chi.NewRouter()
	r.Use(RequestLog(logger))
	r.Get("/widgets/{id}/view", func(w http.ResponseWriter, r *http.Request) {})

	matched := metrics.RequestTotal.WithLabelValues(http.MethodGet, "/widgets/{id}/view", "200")
	unmatched := metrics.RequestTotal.WithLabelValues(http.MethodGet, metrics.UnmatchedRoute, "404")
	beforeMatched := testutil.ToFloat64(matched)
	beforeUnmatched := testutil.ToFloat64(unmatched)
	beforeSeries := testutil.CollectAndCount(metrics.RequestTotal)

	for i := 0; i < 3; i++ {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, fmt.Sprintf("/widgets/%d/view", i), nil))
	}
	for i := 0; i < 20; i++ {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, fmt.Sprintf("/random-%d/x", i), nil))
	}

	assert.Equal(t, beforeMatched+3, testutil.ToFloat64(matched))
	assert.Equal(t, beforeUnmatched+20, testutil.ToFloat64(unmatched))
	assert.Equal(t, beforeSeries, testutil.CollectAndCount(metrics.RequestTotal))
}

func TestSecureHeaders(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	h := SecureHeaders(logger, false)(echoOperator())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
}

func TestLimitMutations(t *testing.T) {
	h := LimitMutations(2)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	do := func(method string) int {
		req := httptest.NewRequest(method, "/users/add", nil)
		req.RemoteAddr = "192.0.2.10:5000"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusNoContent, do(http.MethodPost))
	assert.Equal(t, http.StatusNoContent, do(http.MethodPost))
	assert.Equal(t, http.StatusTooManyRequests, do(http.MethodPost))

	for i := 0; i < 5; i++ {
		assert.Equal(t, http.StatusNoContent, do(http.MethodGet))
	}
}
