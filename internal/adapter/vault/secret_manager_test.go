package vault

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestSecretManager_ReadSecrets(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/secret/data/converse", r.URL.Path)
		assert.Equal(t, "s.test", r.Header.Get("X-Vault-Token"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":{"data":{"recast_token":"tok","google_api_key":"key","retries":3},"metadata":{"version":2}}}`))
	}))
	defer server.Close()

	sm, err := NewSecretManager(server.URL, "s.test", zap.NewNop())
	require.NoError(t, err)

	secrets, err := sm.ReadSecrets(context.Background(), "secret/data/converse")

	require.NoError(t, err)
	assert.Equal(t, map[string]string{"recast_token": "tok", "google_api_key": "key"}, secrets)
}

func TestSecretManager_MissingPath(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"errors":[]}`))
	}))
	defer server.Close()

	sm, err := NewSecretManager(server.URL, "s.test", zap.NewNop())
	require.NoError(t, err)

	_, err = sm.ReadSecrets(context.Background(), "secret/data/missing")

	assert.Error(t, err)
}
