package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProvider struct {
	calls    atomic.Int32
	mu       sync.Mutex
	lastPath string
	lastBody map[string]any
	status   int
	response string
}

func (f *fakeProvider) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.calls.Add(1)
	body, _ := io.ReadAll(r.Body)
	f.mu.Lock()
	f.lastPath = r.URL.Path
	_ = json.Unmarshal(body, &f.lastBody)
	f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(f.status)
	_, _ = io.WriteString(w, f.response)
}

func newTestClient(t *testing.T, provider *fakeProvider, apiKey string) *Client {
	t.Helper()
	srv := httptest.NewServer(provider)
	t.Cleanup(srv.Close)
	return NewClient(Config{
		APIKey:     apiKey,
		BaseURL:    srv.URL + "/",
		HTTPClient: srv.Client(),
	})
}

func TestIdentifyPlantSuccess(t *testing.T) {
	provider := &fakeProvider{
		status:   http.StatusOK,
		response: `{"candidates":[{"content":{"role":"model","parts":[{"text":"Rose\nScientific Name: Rosa rubiginosa"}]}}]}`,
	}
	client := newTestClient(t, provider, "test-key")

	resp, err := client.IdentifyPlant(context.Background(), []byte("fake-image"), "image/png")
	require.NoError(t, err)
	require.NotNil(t, resp)
	require.Len(t, resp.Candidates, 1)
	assert.Equal(t, "Rose\nScientific Name: Rosa rubiginosa", resp.Candidates[0].Content.Parts[0].Text)

	assert.Equal(t, int32(1), provider.calls.Load())
	provider.mu.Lock()
	defer provider.mu.Unlock()
	assert.True(t, strings.HasSuffix(provider.lastPath, "gemini-1.5-flash:generateContent"), provider.lastPath)

	raw, err := json.Marshal(provider.lastBody)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "Identify this plant")
	assert.Contains(t, string(raw), "HARM_CATEGORY_DANGEROUS_CONTENT")
	assert.Contains(t, string(raw), "BLOCK_NONE")
	assert.Contains(t, string(raw), "image/png")
}

func TestIdentifyPlantMissingKey(t *testing.T) {
	provider := &fakeProvider{status: http.StatusOK, response: `{}`}
	client := newTestClient(t, provider, "")

	_, err := client.IdentifyPlant(context.Background(), []byte("fake-image"), "image/jpeg")
	assert.ErrorIs(t, err, ErrMissingAPIKey)
	assert.Equal(t, int32(0), provider.calls.Load())
}

func TestIdentifyPlantProviderError(t *testing.T) {
	provider := &fakeProvider{
		status:   http.StatusForbidden,
		response: `{"error":{"code":403,"message":"API key not valid","status":"PERMISSION_DENIED"}}`,
	}
	client := newTestClient(t, provider, "bad-key")

	_, err := client.IdentifyPlant(context.Background(), []byte("fake-image"), "image/jpeg")
	require.Error(t, err)

	var providerErr *ProviderError
	require.True(t, errors.As(err, &providerErr), "got %T: %v", err, err)
	assert.Equal(t, http.StatusForbidden, providerErr.StatusCode)
	assert.JSONEq(t,
		`{"error":{"code":403,"message":"API key not valid","status":"PERMISSION_DENIED"}}`,
		providerErr.Body)
}

func TestIdentifyPlantProviderErrorKeepsDetails(t *testing.T) {
	provider := &fakeProvider{
		status: http.StatusBadRequest,
		response: `{"error":{"code":400,"message":"Image too small","status":"INVALID_ARGUMENT",` +
			`"details":[{"@type":"type.googleapis.com/google.rpc.BadRequest","reason":"IMAGE_TOO_SMALL"}]}}`,
	}
	client := newTestClient(t, provider, "test-key")

	_, err := client.IdentifyPlant(context.Background(), []byte("fake-image"), "image/jpeg")

	var providerErr *ProviderError
	require.True(t, errors.As(err, &providerErr), "got %T: %v", err, err)
	assert.JSONEq(t,
		`{"error":{"code":400,"message":"Image too small","status":"INVALID_ARGUMENT",`+
			`"details":[{"@type":"type.googleapis.com/google.rpc.BadRequest","reason":"IMAGE_TOO_SMALL"}]}}`,
		providerErr.Body)
}

func TestIdentifyPlantTransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	client := NewClient(Config{APIKey: "test-key", BaseURL: url + "/"})

	_, err := client.IdentifyPlant(context.Background(), []byte("fake-image"), "image/jpeg")
	require.Error(t, err)

	var transportErr *TransportError
	assert.True(t, errors.As(err, &transportErr), "got %T: %v", err, err)
}

func TestGenerationConfig(t *testing.T) {
	cfg := GenerationConfig()

	require.NotNil(t, cfg.Temperature)
	assert.InDelta(t, 0.4, *cfg.Temperature, 1e-6)
	assert.Equal(t, float32(1), *cfg.TopP)
	assert.Equal(t, float32(32), *cfg.TopK)
	assert.Equal(t, int32(2048), cfg.MaxOutputTokens)
	require.Len(t, cfg.SafetySettings, 1)
}
