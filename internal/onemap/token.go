// README: OneMap auth token manager. Tokens last ~3 days; we cache one and
// refresh it shortly before expiry so search calls never pay the auth cost.
package onemap

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"
)

// Refresh this long before the reported expiry to avoid racing it.
const expirySlack = 5 * time.Minute

type TokenManager struct {
	email    string
	password string
	baseURL  string
	client   *http.Client
	now      func() time.Time

	mu     sync.Mutex
	token  string
	expiry time.Time
}

func NewTokenManager(email, password, baseURL string, client *http.Client) *TokenManager {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &TokenManager{
		email:    email,
		password: password,
		baseURL:  baseURL,
		client:   client,
		now:      time.Now,
	}
}

// Token returns a valid access token, requesting a fresh one only when the
// cached token is missing or about to expire.
func (m *TokenManager) Token(ctx context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.token != "" && m.now().Before(m.expiry.Add(-expirySlack)) {
		return m.token, nil
	}

	token, expiry, err := m.request(ctx)
	if err != nil {
		return "", err
	}
	m.token = token
	m.expiry = expiry
	return token, nil
}

type tokenRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	// Unix seconds, as a string, because that is what the API sends.
	ExpiryTimestamp string `json:"expiry_timestamp"`
}

func (m *TokenManager) request(ctx context.Context) (string, time.Time, error) {
	body, err := json.Marshal(tokenRequest{Email: m.email, Password: m.password})
	if err != nil {
		return "", time.Time{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.baseURL+"/api/auth/post/getToken", bytes.NewReader(body))
	if err != nil {
		return "", time.Time{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.client.Do(req)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("onemap token request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", time.Time{}, fmt.Errorf("onemap token request: status %d", resp.StatusCode)
	}

	var tr tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return "", time.Time{}, fmt.Errorf("onemap token response: %w", err)
	}
	if tr.AccessToken == "" {
		return "", time.Time{}, fmt.Errorf("onemap token response: empty token")
	}

	secs, err := strconv.ParseInt(tr.ExpiryTimestamp, 10, 64)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("onemap token response: bad expiry %q", tr.ExpiryTimestamp)
	}
	return tr.AccessToken, time.Unix(secs, 0), nil
}
