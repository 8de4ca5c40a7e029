package insight

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func geminiStub(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req geminiRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.NotEmpty(t, req.Contents)
		require.NotEmpty(t, req.Contents[0].Parts)

		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
}

func TestGenerateReturnsTextVerbatim(t *testing.T) {
	markdown := "* **Positive dominates:** keep the current strategy.\n* Investigate negative triggers."
	srv := geminiStub(t, http.StatusOK, `{"candidates":[{"content":{"parts":[{"text":"`+jsonEscape(markdown)+`"}]}}]}`)
	defer srv.Close()

	client := NewClient(Config{APIKey: "test-key", Endpoint: srv.URL})
	got, err := client.Generate(context.Background(), "analyze this")
	require.NoError(t, err)
	assert.Equal(t, markdown, got)
}

func TestGenerateAPIError(t *testing.T) {
	srv := geminiStub(t, http.StatusTooManyRequests, `{"error":{"code":429,"message":"quota exceeded"}}`)
	defer srv.Close()

	client := NewClient(Config{APIKey: "test-key", Endpoint: srv.URL})
	_, err := client.Generate(context.Background(), "analyze this")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestGenerateErrorBodyWithOKStatus(t *testing.T) {
	srv := geminiStub(t, http.StatusOK, `{"error":{"code":403,"message":"invalid key"}}`)
	defer srv.Close()

	client := NewClient(Config{APIKey: "bad-key", Endpoint: srv.URL})
	_, err := client.Generate(context.Background(), "analyze this")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid key")
}

func TestGenerateEmptyCandidates(t *testing.T) {
	srv := geminiStub(t, http.StatusOK, `{"candidates":[]}`)
	defer srv.Close()

	client := NewClient(Config{APIKey: "test-key", Endpoint: srv.URL})
	_, err := client.Generate(context.Background(), "analyze this")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty response")
}

func TestGenerateContextCancelled(t *testing.T) {
	srv := geminiStub(t, http.StatusOK, `{"candidates":[{"content":{"parts":[{"text":"ok"}]}}]}`)
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := NewClient(Config{APIKey: "test-key", Endpoint: srv.URL})
	_, err := client.Generate(ctx, "analyze this")
	assert.Error(t, err)
}

func TestNewClientDefaults(t *testing.T) {
	client := NewClient(Config{APIKey: "k"})
	assert.Equal(t, defaultModel, client.cfg.Model)
	assert.Equal(t, defaultEndpoint, client.cfg.Endpoint)
	assert.Equal(t, defaultTimeout, client.cfg.Timeout)
}

func jsonEscape(s string) string {
	b, _ := json.Marshal(s)
	return string(b[1 : len(b)-1])
}
