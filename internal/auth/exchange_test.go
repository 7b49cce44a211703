package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dvcrn/mpesa-go/internal/credentials"
	"github.com/dvcrn/mpesa-go/internal/transport"
)

func TestTokenExchangerSuccess(t *testing.T) {
	var gotAuth, gotGrant, gotMethod string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotAuth = r.Header.Get("Authorization")
		gotGrant = r.URL.Query().Get("grant_type")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token":"c9SQxWWhmdVRlyh0zh8gZDTkubVF","expires_in":"3599"}`))
	}))
	defer srv.Close()

	ex := NewTokenExchanger(transport.NewHTTPClient(5*time.Second), srv.URL+"/oauth/v1/generate", "")
	resp, status, err := ex.Exchange(context.Background(), credentials.Credentials{
		ConsumerKey:    "consumer-key",
		ConsumerSecret: "consumer-secret",
	})
	require.NoError(t, err)

	assert.Equal(t, http.MethodGet, gotMethod)
	assert.Equal(t, "Basic Y29uc3VtZXIta2V5OmNvbnN1bWVyLXNlY3JldA==", gotAuth)
	assert.Equal(t, "client_credentials", gotGrant)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "c9SQxWWhmdVRlyh0zh8gZDTkubVF", resp.AccessToken)
	assert.Equal(t, int64(3599), resp.ExpiresInSeconds())
}

func TestTokenExchangerNumericExpiry(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"access_token":"tok","expires_in":120}`))
	}))
	defer srv.Close()

	ex := NewTokenExchanger(transport.NewHTTPClient(0), srv.URL, "client_credentials")
	resp, _, err := ex.Exchange(context.Background(), credentials.Credentials{ConsumerKey: "k", ConsumerSecret: "s"})
	require.NoError(t, err)
	assert.Equal(t, int64(120), resp.ExpiresInSeconds())
}

func TestTokenExchangerRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"errorCode":"400.008.01","errorMessage":"Invalid Authentication passed"}`))
	}))
	defer srv.Close()

	ex := NewTokenExchanger(transport.NewHTTPClient(0), srv.URL, "")
	resp, status, err := ex.Exchange(context.Background(), credentials.Credentials{ConsumerKey: "k", ConsumerSecret: "bad"})
	require.Error(t, err)
	assert.Nil(t, resp)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, err.Error(), "Invalid Authentication passed")
}

func TestTokenExchangerUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	ex := NewTokenExchanger(transport.NewHTTPClient(time.Second), url, "")
	_, status, err := ex.Exchange(context.Background(), credentials.Credentials{ConsumerKey: "k", ConsumerSecret: "s"})
	require.Error(t, err)
	assert.Equal(t, 0, status)
}

func TestExpiresInSecondsDefaults(t *testing.T) {
	assert.Equal(t, int64(DefaultExpiresIn), (&TokenResponse{}).ExpiresInSeconds())
	assert.Equal(t, int64(DefaultExpiresIn), (&TokenResponse{ExpiresIn: "0"}).ExpiresInSeconds())
	assert.Equal(t, int64(DefaultExpiresIn), (&TokenResponse{ExpiresIn: "soon"}).ExpiresInSeconds())
}
