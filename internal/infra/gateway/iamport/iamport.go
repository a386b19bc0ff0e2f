package iamport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"
)

const DefaultBaseURL = "https://api.iamport.kr"

// IPaymentVerifier 查詢金流商付款結果, 用於核對付款金額
type IPaymentVerifier interface {
	GetPayment(ctx context.Context, impUID string) (*Payment, error)
}

// Payment 金流商回傳的付款資訊
type Payment struct {
	ImpUID      string `json:"imp_uid"`
	MerchantUID string `json:"merchant_uid"`
	Status      string `json:"status"` // ready | paid | cancelled | failed
	Amount      int64  `json:"amount"`
	PayMethod   string `json:"pay_method"`
	PGProvider  string `json:"pg_provider"`
	ReceiptURL  string `json:"receipt_url"`
	PaidAt      int64  `json:"paid_at"` // unix seconds
}

// Client 先取access token再查詢付款
// token會在過期前重新取得
type Client struct {
	baseURL    string
	apiKey     string
	apiSecret  string
	httpClient *http.Client

	mu          sync.Mutex
	accessToken string
	expiredAt   time.Time
}

func NewClient(baseURL, apiKey, apiSecret string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:   baseURL,
		apiKey:    apiKey,
		apiSecret: apiSecret,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type envelope struct {
	Code     int             `json:"code"`
	Message  string          `json:"message"`
	Response json.RawMessage `json:"response"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiredAt   int64  `json:"expired_at"`
	Now         int64  `json:"now"`
}

// getToken 取得access token, 尚未過期則沿用
func (c *Client) getToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.accessToken != "" && time.Now().Before(c.expiredAt.Add(-30*time.Second)) {
		return c.accessToken, nil
	}

	body, err := json.Marshal(map[string]string{
		"imp_key":    c.apiKey,
		"imp_secret": c.apiSecret,
	})
	if err != nil {
		return "", fmt.Errorf("marshaling token request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/users/getToken", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("creating token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("sending token request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("token request failed with status %d", resp.StatusCode)
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return "", fmt.Errorf("decoding token response: %w", err)
	}
	if env.Code != 0 {
		return "", fmt.Errorf("token request rejected: %s", env.Message)
	}

	var tok tokenResponse
	if err := json.Unmarshal(env.Response, &tok); err != nil {
		return "", fmt.Errorf("decoding token payload: %w", err)
	}

	c.accessToken = tok.AccessToken
	c.expiredAt = time.Unix(tok.ExpiredAt, 0)
	return c.accessToken, nil
}

// GetPayment 以imp_uid查詢單筆付款
func (c *Client) GetPayment(ctx context.Context, impUID string) (*Payment, error) {
	token, err := c.getToken(ctx)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/payments/"+impUID, nil)
	if err != nil {
		return nil, fmt.Errorf("creating payment request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sending payment request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("payment lookup failed with status %d", resp.StatusCode)
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("decoding payment response: %w", err)
	}
	if env.Code != 0 {
		return nil, fmt.Errorf("payment lookup rejected: %s", env.Message)
	}

	var payment Payment
	if err := json.Unmarshal(env.Response, &payment); err != nil {
		return nil, fmt.Errorf("decoding payment payload: %w", err)
	}

	return &payment, nil
}

var _ IPaymentVerifier = (*Client)(nil)
