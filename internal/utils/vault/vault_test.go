package vault

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeToken(t *testing.T) string {
	path := filepath.Join(t.TempDir(), "token")
	require.NoError(t, os.WriteFile(path, []byte("k8s-jwt\n"), 0o600))
	return path
}

func newVaultServer(t *testing.T) *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/auth/kubernetes/login", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		if body["jwt"] != "k8s-jwt" || body["role"] != "justthetip" {
			w.WriteHeader(http.StatusForbidden)
			_, _ = w.Write([]byte(`{"errors":["permission denied"]}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"auth":{"client_token":"s.vault"}}`))
	})
	mux.HandleFunc("/v1/secret/data/justthetip", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Vault-Token") != "s.vault" {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":{"data":{"SIGNER_API_TOKEN":"signer-secret","PORT":8080}}}`))
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestGetKV(t *testing.T) {
	srv := newVaultServer(t)

	vc, err := newWithTokenPath(srv.URL, "/secret/data/justthetip", "justthetip", writeToken(t))
	require.NoError(t, err)

	secret, err := vc.GetKV("SIGNER_API_TOKEN")
	require.NoError(t, err)
	assert.Equal(t, "signer-secret", secret)

	_, err = vc.GetKV("MISSING")
	assert.ErrorContains(t, err, "not found")

	_, err = vc.GetKV("PORT")
	assert.ErrorContains(t, err, "not a string")
}

func TestLogin_Rejected(t *testing.T) {
	srv := newVaultServer(t)

	_, err := newWithTokenPath(srv.URL, "secret/data/justthetip", "other-role", writeToken(t))
	assert.ErrorContains(t, err, "status 403")
}

func TestLogin_MissingServiceAccountToken(t *testing.T) {
	_, err := newWithTokenPath("http://127.0.0.1:0", "secret", "role", filepath.Join(t.TempDir(), "absent"))
	assert.ErrorContains(t, err, "read service account token")
}
