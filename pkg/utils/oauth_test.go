package utils

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/jakechorley/binfill/internal/config"
)

func testOAuthClient() *config.OAuthClientConfig {
	return &config.OAuthClientConfig{
		Installed: config.OAuthInstalled{
			ClientID:                "binfill.apps.googleusercontent.com",
			ProjectID:               "binfill-test",
			AuthURI:                 "https://accounts.google.com/o/oauth2/auth",
			TokenURI:                "https://oauth2.googleapis.com/token",
			AuthProviderX509CertURL: "https://www.googleapis.com/oauth2/v1/certs",
			ClientSecret:            "secret",
			RedirectURIs:            []string{"http://localhost"},
		},
	}
}

func TestGetOAuthConfig(t *testing.T) {
	cfg, err := GetOAuthConfig(testOAuthClient())
	require.NoError(t, err)

	assert.Equal(t, "binfill.apps.googleusercontent.com", cfg.ClientID)
	assert.Equal(t, []string{ScopeSheetsReadonly}, cfg.Scopes)
	assert.Equal(t, fmt.Sprintf("http://localhost:%d/oauth/callback", AuthPort), cfg.RedirectURL)
}

func TestTokenFile_RoundTrip(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	token, err := LoadTokenFromFile("test")
	require.NoError(t, err)
	assert.Nil(t, token)

	expiry := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, SaveTokenToFile("test", &oauth2.Token{AccessToken: "access", RefreshToken: "refresh", Expiry: expiry}))

	info, err := os.Stat(filepath.Join(home, ".binfill", "tokens", "token-test.json"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	token, err = LoadTokenFromFile("test")
	require.NoError(t, err)
	require.NotNil(t, token)
	assert.Equal(t, "access", token.AccessToken)
	assert.Equal(t, "refresh", token.RefreshToken)
	assert.True(t, token.Expiry.Equal(expiry))

	require.NoError(t, DeleteTokenFile("test"))
	require.NoError(t, DeleteTokenFile("test"))

	token, err = LoadTokenFromFile("test")
	require.NoError(t, err)
	assert.Nil(t, token)
}

func TestLoadTokenFromFile_Corrupt(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	dir := filepath.Join(home, ".binfill", "tokens")
	require.NoError(t, os.MkdirAll(dir, 0700))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "token-test.json"), []byte("{"), 0600))

	_, err := LoadTokenFromFile("test")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse token file")
}

func withTokenInfo(t *testing.T, handler http.HandlerFunc) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	previous := tokenInfoURL
	tokenInfoURL = server.URL
	t.Cleanup(func() { tokenInfoURL = previous })
}

func TestValidateTokenScopes_Granted(t *testing.T) {
	withTokenInfo(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "access", r.URL.Query().Get("access_token"))
		fmt.Fprintf(w, `{"scope": "openid %s"}`, ScopeSheetsReadonly)
	})

	err := validateTokenScopes(context.Background(), &oauth2.Token{AccessToken: "access"})
	assert.NoError(t, err)
}

func TestValidateTokenScopes_Missing(t *testing.T) {
	withTokenInfo(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"scope": "openid"}`)
	})

	err := validateTokenScopes(context.Background(), &oauth2.Token{AccessToken: "access"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing required scopes")
}

func TestValidateTokenScopes_BadStatus(t *testing.T) {
	withTokenInfo(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "invalid_token", http.StatusBadRequest)
	})

	err := validateTokenScopes(context.Background(), &oauth2.Token{AccessToken: "expired"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 400")
}
