package oauth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func TestGenerateState_Unique(t *testing.T) {
	svc := NewGoogleService("id", "secret", "http://localhost/callback", []string{"email"})

	a, err := svc.GenerateState()
	require.NoError(t, err)
	b, err := svc.GenerateState()
	require.NoError(t, err)

	assert.NotEmpty(t, a)
	assert.NotEqual(t, a, b)
}

func TestRedirectURL_CarriesState(t *testing.T) {
	svc := NewGoogleService("client-id", "secret", "http://localhost/callback", []string{"email"})

	raw := svc.RedirectURL("state-123")
	u, err := url.Parse(raw)
	require.NoError(t, err)

	assert.Equal(t, "state-123", u.Query().Get("state"))
	assert.Equal(t, "client-id", u.Query().Get("client_id"))
}

func TestVerifyUser_DecodesUserInfo(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer access-token", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"g-1","email":"staff@example.com","verified_email":true}`))
	}))
	defer srv.Close()

	svc := NewGoogleService("id", "secret", "http://localhost/callback", nil).(*GoogleServiceImpl)
	svc.userInfoURL = srv.URL

	info, err := svc.VerifyUser(context.Background(), &oauth2.Token{AccessToken: "access-token", TokenType: "Bearer"})
	require.NoError(t, err)
	assert.Equal(t, GoogleInformation{GoogleID: "g-1", Email: "staff@example.com", VerifiedEmail: true}, info)
}
