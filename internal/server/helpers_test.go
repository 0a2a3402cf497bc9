package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"momskitchen/internal/config"
	"momskitchen/internal/kvstore"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, seedData bool) *Server {
	t.Helper()
	cfg := &config.Config{
		Env:              "test",
		StorageBackend:   config.BackendMemory,
		SeedSampleData:   seedData,
		DefaultAvatarURL: "https://img.example.com/default.png",
	}
	s, err := NewServerWithDeps(context.Background(), cfg, kvstore.NewMemory())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Shutdown(context.Background()) })
	return s
}

// doJSON sends body as JSON and decodes the response into out when non-nil.
func doJSON(t *testing.T, app *fiber.App, method, path string, body, out any) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	if out != nil {
		defer resp.Body.Close()
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp
}
