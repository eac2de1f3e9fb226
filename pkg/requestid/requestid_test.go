package requestid_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/mentorkit/pkg/requestid"
)

func serve(t *testing.T, header string) (ctxID string, rec *httptest.ResponseRecorder) {
	t.Helper()
	h := requestid.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctxID = requestid.FromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set(requestid.Header, header)
	}
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return ctxID, rec
}

func TestMiddleware(t *testing.T) {
	t.Parallel()

	t.Run("generates id", func(t *testing.T) {
		t.Parallel()
		id, rec := serve(t, "")
		require.NotEmpty(t, id)
		assert.Equal(t, id, rec.Header().Get(requestid.Header))
	})

	t.Run("keeps valid id", func(t *testing.T) {
		t.Parallel()
		id, rec := serve(t, "req-123_abc")
		assert.Equal(t, "req-123_abc", id)
		assert.Equal(t, "req-123_abc", rec.Header().Get(requestid.Header))
	})

	for _, bad := range []string{"a b", "a/b", "<script>", strings.Repeat("x", 129)} {
		t.Run("replaces "+bad[:min(len(bad), 8)], func(t *testing.T) {
			t.Parallel()
			id, _ := serve(t, bad)
			assert.NotEmpty(t, id)
			assert.NotEqual(t, bad, id)
		})
	}
}

func TestLoggerExtractor(t *testing.T) {
	t.Parallel()

	extract := requestid.LoggerExtractor()

	_, ok := extract(context.Background())
	assert.False(t, ok)

	attr, ok := extract(requestid.WithContext(context.Background(), "r1"))
	require.True(t, ok)
	assert.Equal(t, "request_id", attr.Key)
	assert.Equal(t, "r1", attr.Value.String())
}
