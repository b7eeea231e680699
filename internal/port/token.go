// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

package port

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"resty.dev/v3"
)

const accessTokenPath = "/v1/auth/access_token"

type tokenRequest struct {
	ClientID     string `json:"clientId"`
	ClientSecret string `json:"clientSecret"`
}

type tokenResponse struct {
	AccessToken string `json:"accessToken"`
	ExpiresIn   int    `json:"expiresIn"`
	TokenType   string `json:"tokenType"`
}

// tokenSource hands out bearer tokens, exchanging the client credentials again once the cached
// token gets within minTTL of its expiry. Safe for concurrent use.
type tokenSource struct {
	mu sync.Mutex

	resty        *resty.Client
	endpoint     string
	clientID     string
	clientSecret string
	minTTL       time.Duration
	now          func() time.Time

	token  string
	expiry time.Time
	static bool
}

func (ts *tokenSource) Token(ctx context.Context) (string, error) {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	if ts.static {
		return ts.token, nil
	}

	if ts.token != "" && ts.expiry.Sub(ts.now()) > ts.minTTL {
		return ts.token, nil
	}

	token, expiry, err := ts.exchange(ctx)
	if err != nil {
		return "", &AuthError{Err: err}
	}
	ts.token = token
	ts.expiry = expiry

	slog.Debug("Obtained access token", "expires", expiry.Format(time.RFC3339))

	return ts.token, nil
}

func (ts *tokenSource) exchange(ctx context.Context) (string, time.Time, error) {
	if ts.clientID == "" || ts.clientSecret == "" {
		return "", time.Time{}, errors.New("client id and secret are required")
	}

	resp, err := ts.resty.R().
		SetContext(ctx).
		SetContentType("application/json").
		SetBody(tokenRequest{ClientID: ts.clientID, ClientSecret: ts.clientSecret}).
		Post(ts.endpoint + accessTokenPath)
	if err != nil {
		return "", time.Time{}, err
	}

	//nolint:errcheck
	defer resp.Body.Close()

	if resp.StatusCode() != http.StatusOK {
		return "", time.Time{}, newAPIError(http.MethodPost, accessTokenPath, resp.StatusCode(), resp.Body)
	}

	var body tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", time.Time{}, fmt.Errorf("failed to decode token response: %w", err)
	}
	if body.AccessToken == "" {
		return "", time.Time{}, errors.New("token response did not contain an access token")
	}

	return body.AccessToken, ts.expiryOf(body), nil
}

// expiryOf prefers the exp claim of the token itself. The signature is not verified: the
// token is only ever sent back to the server that issued it.
func (ts *tokenSource) expiryOf(body tokenResponse) time.Time {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(body.AccessToken, claims); err == nil {
		if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
			return exp.Time
		}
	}

	if body.ExpiresIn > 0 {
		return ts.now().Add(time.Duration(body.ExpiresIn) * time.Second)
	}

	// Unknown lifetime: use it for this call only.
	return ts.now()
}
