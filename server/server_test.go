package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	flexdoc "github.com/lvillar/flexdoc"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(New(flexdoc.New(), nil).Handler())
	t.Cleanup(srv.Close)
	return srv
}

func TestRenderEndpoint(t *testing.T) {
	srv := newTestServer(t)

	payload := `{"root": {"type": "page", "children": [{"type": "text", "text": "Hello"}]}}`
	resp, err := http.Post(srv.URL+"/render", "application/json", bytes.NewBufferString(payload))
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body renderResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, 1, body.PageCount)
	assert.NotEmpty(t, body.Primitives)
	assert.Equal(t, "beginPage", string(body.Primitives[0].Op))
	assert.Equal(t, "endPage", string(body.Primitives[len(body.Primitives)-1].Op))
}

func TestRenderEndpointRejectsInvalidNode(t *testing.T) {
	srv := newTestServer(t)

	payload := `{"root": {"type": "blink"}}`
	resp, err := http.Post(srv.URL+"/render", "application/json", bytes.NewBufferString(payload))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var body errorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "root", body.Path)
	assert.Contains(t, body.Error, "unknown node type")
}

func TestRenderEndpointRejectsMalformedJSON(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Post(srv.URL+"/render", "application/json", bytes.NewBufferString(`not json`))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRenderEndpointReportsWarnings(t *testing.T) {
	srv := newTestServer(t)

	payload := `{"root": {"type": "page", "children": [
		{"type": "image", "src": "/missing.png", "style": {"width": 50, "height": 50}}
	]}}`
	resp, err := http.Post(srv.URL+"/render", "application/json", bytes.NewBufferString(payload))
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	var body renderResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.NotEmpty(t, body.Warnings)
	assert.Equal(t, "resource", body.Warnings[0].Code)
}

func TestCORSPreflight(t *testing.T) {
	srv := newTestServer(t)

	req, err := http.NewRequest(http.MethodOptions, srv.URL+"/render", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
