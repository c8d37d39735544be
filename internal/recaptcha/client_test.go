package recaptcha

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestVerifySuccess(t *testing.T) {
	var gotSecret, gotToken string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		gotSecret = r.Form.Get("secret")
		gotToken = r.Form.Get("response")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"score":0.9,"action":"contact"}`))
	}))
	defer srv.Close()

	c := NewClient("test-secret")
	c.verifyURL = srv.URL

	result, err := c.Verify(context.Background(), "tok-123", "203.0.113.7")
	require.NoError(t, err)
	require.True(t, result.Success)
	require.InDelta(t, 0.9, result.Score, 0.001)
	require.Equal(t, "test-secret", gotSecret)
	require.Equal(t, "tok-123", gotToken)
}

func TestVerifyLowScore(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success":true,"score":0.1}`))
	}))
	defer srv.Close()

	c := NewClient("test-secret")
	c.verifyURL = srv.URL

	result, err := c.Verify(context.Background(), "tok", "")
	require.NoError(t, err)
	require.True(t, result.Success)
	require.Less(t, result.Score, 0.3)
}

func TestVerifyTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient("test-secret")
	c.verifyURL = srv.URL

	_, err := c.Verify(context.Background(), "tok", "")
	require.Error(t, err)
}

func TestVerifyDisabledWithoutSecret(t *testing.T) {
	c := NewClient("")

	result, err := c.Verify(context.Background(), "anything", "")
	require.NoError(t, err)
	require.True(t, result.Success)
	require.Equal(t, 1.0, result.Score)
}
