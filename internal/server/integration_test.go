package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testAPIAddr = ":8092"
	testBaseURL = "http://localhost:8092"
	testAPIKey  = "test-api-key-integration"
)

// setupIntegrationTest boots a real server on a local port so requests travel
// the full HTTP stack instead of httptest's in-process dispatch.
func setupIntegrationTest(t *testing.T) (*Server, func()) {
	t.Helper()

	srv, _ := newTestServer(t, ServerConfig{
		Addr:    testAPIAddr,
		DevMode: true,
		APIKey:  testAPIKey,
	})

	// Start server in background
	go func() {
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			t.Logf("Server error: %v", err)
		}
	}()

	// Wait for server to be ready
	time.Sleep(100 * time.Millisecond)

	cleanup := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		_ = srv.Shutdown(ctx)
		_ = srv.WaitClosed(ctx)
	}
	return srv, cleanup
}

func makeRequest(t *testing.T, method, url string, body interface{}, expectedStatus int) *http.Response {
	t.Helper()

	var reqBody io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		require.NoError(t, err)
		reqBody = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequest(method, url, reqBody)
	require.NoError(t, err)

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-Key", testAPIKey)

	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Do(req)
	require.NoError(t, err)

	assert.Equal(t, expectedStatus, resp.StatusCode, "Expected status %d, got %d", expectedStatus, resp.StatusCode)

	return resp
}

func TestIntegration_Health(t *testing.T) {
	_, cleanup := setupIntegrationTest(t)
	defer cleanup()

	// The health probe is outside the keyed group
	resp, err := http.Get(testBaseURL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var response HealthResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&response))
	assert.True(t, response.OK)
}

func TestIntegration_InvokeFlow(t *testing.T) {
	_, cleanup := setupIntegrationTest(t)
	defer cleanup()

	// List tools
	resp := makeRequest(t, http.MethodGet, testBaseURL+"/v1/tools", nil, http.StatusOK)
	defer resp.Body.Close()

	var listResponse struct {
		Items []ToolDescriptor `json:"items"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&listResponse))
	require.Len(t, listResponse.Items, 1)
	assert.Equal(t, "get_trending_tokens", listResponse.Items[0].Name)

	// Invoke with an explicit argument, defaults fill the rest
	payload := map[string]interface{}{"security_score": 90}
	resp = makeRequest(t, http.MethodPost, testBaseURL+"/v1/tools/get_trending_tokens/invoke", payload, http.StatusOK)
	defer resp.Body.Close()

	var invokeResponse InvokeResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&invokeResponse))
	assert.Equal(t, "get_trending_tokens", invokeResponse.Tool)
	assert.Equal(t, "Trending with score 90 cap 100000", invokeResponse.Output)
	assert.GreaterOrEqual(t, invokeResponse.TookMs, float64(0))
}

func TestIntegration_Authentication(t *testing.T) {
	_, cleanup := setupIntegrationTest(t)
	defer cleanup()

	client := &http.Client{Timeout: 5 * time.Second}

	// Missing key is a malformed request to the extractor
	req, err := http.NewRequest(http.MethodGet, testBaseURL+"/v1/tools", nil)
	require.NoError(t, err)

	resp, err := client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// A wrong key is rejected outright
	req, err = http.NewRequest(http.MethodGet, testBaseURL+"/v1/tools", nil)
	require.NoError(t, err)
	req.Header.Set("X-API-Key", "invalid-key")

	resp, err = client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestIntegration_ErrorHandling(t *testing.T) {
	_, cleanup := setupIntegrationTest(t)
	defer cleanup()

	// 404 for non-existent endpoint keeps the JSON envelope
	resp := makeRequest(t, http.MethodGet, testBaseURL+"/v1/nonexistent", nil, http.StatusNotFound)
	defer resp.Body.Close()

	var errorResponse ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&errorResponse))
	assert.Equal(t, "not found", errorResponse.Error)
	assert.Equal(t, http.StatusNotFound, errorResponse.Code)

	// Malformed body
	req, err := http.NewRequest(http.MethodPost, testBaseURL+"/v1/tools/get_trending_tokens/invoke", bytes.NewReader([]byte("not json")))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-Key", testAPIKey)

	client := &http.Client{Timeout: 5 * time.Second}
	rawResp, err := client.Do(req)
	require.NoError(t, err)
	defer rawResp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, rawResp.StatusCode)
	require.NoError(t, json.NewDecoder(rawResp.Body).Decode(&errorResponse))
	assert.Contains(t, errorResponse.Error, "invalid json")
}

func TestIntegration_ConcurrentRequests(t *testing.T) {
	_, cleanup := setupIntegrationTest(t)
	defer cleanup()

	const numGoroutines = 10
	const perGoroutine = 5

	var wg sync.WaitGroup
	codes := make(chan int, numGoroutines*perGoroutine)
	client := &http.Client{Timeout: 5 * time.Second}

	for i := 0; i < numGoroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perGoroutine; j++ {
				resp, err := client.Get(testBaseURL + "/healthz")
				if err != nil {
					codes <- 0
					continue
				}
				resp.Body.Close()
				codes <- resp.StatusCode
			}
		}()
	}
	wg.Wait()
	close(codes)

	for code := range codes {
		assert.Equal(t, http.StatusOK, code)
	}
}

func TestIntegration_GracefulShutdown(t *testing.T) {
	srv, _ := setupIntegrationTest(t)

	resp, err := http.Get(testBaseURL + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	require.NoError(t, srv.Shutdown(ctx))
	require.NoError(t, srv.WaitClosed(ctx))

	_, err = (&http.Client{Timeout: time.Second}).Get(testBaseURL + "/healthz")
	assert.Error(t, err, "server should refuse connections after shutdown")
}
