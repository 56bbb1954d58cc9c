package cookiejar

import (
	"bytes"
	"errors"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"query-gateway/middleware/cookiejar/application"
	"query-gateway/middleware/cookiejar/domain"
	"query-gateway/middleware/cookiejar/infra"
	"query-gateway/middleware/cookiejar/reqctx"
)

func queryHandler(counter *infra.MemoryCounter) http.Handler {
	svc := application.NewQueryService(log.New(&bytes.Buffer{}, "", 0))
	opts := testOptions()
	opts.Collaborators = []reqctx.Collaborator{reqctx.Provide[domain.Counter](application.CounterKey, counter)}
	opts.Require = svc.Required()
	return Handler(opts, QueryHandler(svc))
}

func TestQueryHandler_GetDefaultsToPosts(t *testing.T) {
	h := queryHandler(infra.NewMemoryCounter(3))

	r := httptest.NewRequest(http.MethodGet, "http://example/query", nil)
	r.Header.Set("Cookie", "n2=old")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"data":{"posts":3}}`, w.Body.String())
	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "n2", cookies[0].Name)
	assert.Equal(t, "vvv", cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)
}

func TestQueryHandler_GetFieldsList(t *testing.T) {
	h := queryHandler(infra.NewMemoryCounter(3))

	r := httptest.NewRequest(http.MethodGet, "http://example/query?fields=visits,%20second&fields=visits", nil)
	r.Header.Set("Cookie", "visits=9")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"data":{"visits":10,"second":"another"}}`, w.Body.String())

	byName := map[string]*http.Cookie{}
	for _, c := range w.Result().Cookies() {
		byName[c.Name] = c
	}
	require.Len(t, byName, 2)
	assert.Equal(t, "10", byName["visits"].Value)
	assert.True(t, byName["second"].Expires.IsZero(), "session cookie has no Expires")
}

func TestQueryHandler_Post(t *testing.T) {
	h := queryHandler(infra.NewMemoryCounter(5))

	r := httptest.NewRequest(http.MethodPost, "http://example/query", strings.NewReader(`{"fields":["posts","visits"]}`))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"data":{"posts":5,"visits":1}}`, w.Body.String())
	assert.Len(t, w.Result().Cookies(), 2)
}

func TestQueryHandler_PostEmptyBody(t *testing.T) {
	h := queryHandler(infra.NewMemoryCounter(5))

	r := httptest.NewRequest(http.MethodPost, "http://example/query", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"data":{"posts":5}}`, w.Body.String())
}

func TestQueryHandler_BadRequests(t *testing.T) {
	h := queryHandler(infra.NewMemoryCounter(5))

	r := httptest.NewRequest(http.MethodPost, "http://example/query", strings.NewReader(`{not json`))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, w.Result().Cookies())

	r = httptest.NewRequest(http.MethodGet, "http://example/query?fields=nope", nil)
	w = httptest.NewRecorder()
	h.ServeHTTP(w, r)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "unknown field")
}

func TestQueryHandler_DataAccessFailureStillFlushesCookies(t *testing.T) {
	counter := infra.NewMemoryCounter(0)
	counter.Fail(errors.New("db down"))
	h := queryHandler(counter)

	r := httptest.NewRequest(http.MethodGet, "http://example/query?fields=posts", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "db down")
	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "n2", cookies[0].Name)
}
