package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"rates-updater/internal/datastructs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendRates(t *testing.T) {
	var (
		gotMethod string
		gotSecret string
		gotType   string
		gotBody   map[string]float64
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotSecret = r.Header.Get(SecretHeader)
		gotType = r.Header.Get("Content-Type")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}))
	defer srv.Close()

	sender := New(srv.URL, "s3cret", 5*time.Second)
	rates := datastructs.RateMapping{"🇪🇺 EUR Buy": 4.67, "🇺🇸 USD Sell": 1.085}

	status, err := sender.SendRates(context.Background(), rates)
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, status)
	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "s3cret", gotSecret)
	assert.Equal(t, "application/json", gotType)
	assert.Equal(t, map[string]float64{"🇪🇺 EUR Buy": 4.67, "🇺🇸 USD Sell": 1.085}, gotBody)
}

func TestSendRates_EmptyMapping(t *testing.T) {
	var raw []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ = io.ReadAll(r.Body)
	}))
	defer srv.Close()

	status, err := New(srv.URL, "", 0).SendRates(context.Background(), datastructs.RateMapping{})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "{}", string(raw))
}

func TestSendRates_ErrorStatusIsNotAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "forbidden", http.StatusForbidden)
	}))
	defer srv.Close()

	status, err := New(srv.URL, "wrong", time.Second).SendRates(context.Background(), datastructs.RateMapping{})
	assert.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, status)
}

func TestSendRates_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	status, err := New(url, "", time.Second).SendRates(context.Background(), datastructs.RateMapping{})
	assert.Error(t, err)
	assert.Equal(t, 0, status)
}

func TestSendRates_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer srv.Close()
	defer close(release)

	_, err := New(srv.URL, "", 50*time.Millisecond).SendRates(context.Background(), datastructs.RateMapping{})
	assert.Error(t, err)
}
