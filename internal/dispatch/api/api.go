package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"rates-updater/internal/datastructs"
	"rates-updater/internal/dispatch"
)

const SecretHeader = "updater-secret"

type API struct {
	client *http.Client
	url    string
	secret string
}

// New returns a Sender posting rates to url. A zero timeout disables it.
func New(url, secret string, timeout time.Duration) dispatch.Sender {
	return &API{
		client: &http.Client{Timeout: timeout},
		url:    url,
		secret: secret,
	}
}

func (a *API) SendRates(ctx context.Context, rates datastructs.RateMapping) (int, error) {
	body, err := json.Marshal(rates)
	if err != nil {
		return 0, fmt.Errorf("encode rates: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.url, bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "rates-updater")
	req.Header.Set(SecretHeader, a.secret)

	res, err := a.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("post rates: %w", err)
	}
	defer res.Body.Close()

	// The API answers with nothing we use; drain so the connection is reused.
	_, _ = io.Copy(io.Discard, res.Body)
	return res.StatusCode, nil
}
