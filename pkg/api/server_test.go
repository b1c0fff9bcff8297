package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/valdris/riftkit/pkg/hashdict"
	"github.com/valdris/riftkit/pkg/prop"
)

const testAPIKey = "test-key"

// fakeResolver is an in-memory Resolver for handler tests.
type fakeResolver struct {
	names map[uint32]string
}

func (f *fakeResolver) Lookup(hash uint32) (string, bool) {
	name, ok := f.names[hash]
	return name, ok
}

func (f *fakeResolver) Count() (int, error) {
	return len(f.names), nil
}

// Metrics register against the global prometheus registry, so the suite
// shares one instance.
var (
	metricsOnce sync.Once
	testMetrics *Metrics
)

func newTestServer(resolver Resolver) *httptest.Server {
	metricsOnce.Do(func() {
		testMetrics = NewMetrics()
	})
	config := ServerConfig{Port: 0, APIKey: testAPIKey}
	server := NewServer(resolver, config, testMetrics)
	return httptest.NewServer(Router(server, config, testMetrics))
}

func doRequest(t *testing.T, ts *httptest.Server, method, path string, body []byte, withKey bool) (*http.Response, APIResponse) {
	t.Helper()

	req, err := http.NewRequest(method, ts.URL+path, bytes.NewReader(body))
	require.NoError(t, err)
	if withKey {
		req.Header.Set("X-API-Key", testAPIKey)
	}
	resp, err := ts.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var decoded APIResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	return resp, decoded
}

func TestAuthRequired(t *testing.T) {
	ts := newTestServer(nil)
	defer ts.Close()

	t.Run("missing key", func(t *testing.T) {
		resp, body := doRequest(t, ts, http.MethodGet, "/api/v1/health", nil, false)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		assert.False(t, body.Success)
	})

	t.Run("wrong key", func(t *testing.T) {
		req, err := http.NewRequest(http.MethodGet, ts.URL+"/api/v1/health", nil)
		require.NoError(t, err)
		req.Header.Set("X-API-Key", "wrong")
		resp, err := ts.Client().Do(req)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})
}

func TestHealth(t *testing.T) {
	ts := newTestServer(nil)
	defer ts.Close()

	resp, body := doRequest(t, ts, http.MethodGet, "/api/v1/health", nil, true)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, body.Success)
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))
}

func TestInspect(t *testing.T) {
	ts := newTestServer(nil)
	defer ts.Close()

	t.Run("valid tree", func(t *testing.T) {
		data, err := prop.EncodeBytes(&prop.Tree{
			Dependencies: []string{"base.bin"},
			Entries: []prop.Entry{{
				Class:  0x1234,
				Path:   0x5678,
				Values: []prop.Value{prop.MustValue(0x1, prop.KindInt32, int32(42))},
			}},
		})
		require.NoError(t, err)

		resp, body := doRequest(t, ts, http.MethodPost, "/api/v1/inspect", data, true)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		require.True(t, body.Success)

		payload, ok := body.Data.(map[string]interface{})
		require.True(t, ok)
		assert.Equal(t, float64(1), payload["entry_count"])
		assert.Equal(t, []interface{}{"base.bin"}, payload["dependencies"])
	})

	t.Run("not a property tree", func(t *testing.T) {
		resp, body := doRequest(t, ts, http.MethodPost, "/api/v1/inspect", []byte("garbage"), true)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.False(t, body.Success)
	})
}

func TestLookupHash(t *testing.T) {
	resolver := &fakeResolver{names: map[uint32]string{
		hashdict.Hash("mHealth"): "mHealth",
	}}
	ts := newTestServer(resolver)
	defer ts.Close()

	t.Run("known hash", func(t *testing.T) {
		path := fmt.Sprintf("/api/v1/hashes/%08x", hashdict.Hash("mHealth"))
		resp, body := doRequest(t, ts, http.MethodGet, path, nil, true)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		payload := body.Data.(map[string]interface{})
		assert.Equal(t, true, payload["known"])
		assert.Equal(t, "mHealth", payload["name"])
	})

	t.Run("unknown hash", func(t *testing.T) {
		resp, body := doRequest(t, ts, http.MethodGet, "/api/v1/hashes/deadbeef", nil, true)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		payload := body.Data.(map[string]interface{})
		assert.Equal(t, false, payload["known"])
	})

	t.Run("invalid hash", func(t *testing.T) {
		resp, _ := doRequest(t, ts, http.MethodGet, "/api/v1/hashes/nothex", nil, true)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestComputeHash(t *testing.T) {
	ts := newTestServer(nil)
	defer ts.Close()

	resp, body := doRequest(t, ts, http.MethodGet, "/api/v1/hashes?name=mHealth", nil, true)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	payload := body.Data.(map[string]interface{})
	assert.Equal(t, fmt.Sprintf("0x%08x", hashdict.Hash("mHealth")), payload["hash"])

	resp, _ = doRequest(t, ts, http.MethodGet, "/api/v1/hashes?name=", nil, true)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestStats(t *testing.T) {
	resolver := &fakeResolver{names: map[uint32]string{1: "one", 2: "two"}}
	ts := newTestServer(resolver)
	defer ts.Close()

	resp, body := doRequest(t, ts, http.MethodGet, "/api/v1/stats", nil, true)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	payload := body.Data.(map[string]interface{})
	assert.Equal(t, float64(2), payload["dict_entries"])
}
