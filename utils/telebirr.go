package utils

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"dimple/config"
)

// Normalized gateway result statuses.
const (
	GatewayStatusSuccess = "success"
	GatewayStatusFailed  = "failed"
	GatewayStatusPending = "pending"
)

// NormalizeGatewayStatus maps the raw trade statuses Telebirr reports to the
// three states the rest of the system cares about. Unknown values map to
// pending so an unexpected status never settles a payment.
func NormalizeGatewayStatus(raw string) string {
	switch strings.ToLower(raw) {
	case "completed", "success", "trade_success":
		return GatewayStatusSuccess
	case "failure", "failed", "trade_failed", "cancelled":
		return GatewayStatusFailed
	default:
		return GatewayStatusPending
	}
}

// TelebirrClient calls the Telebirr mobile-money API. Requests carry an
// HMAC-SHA256 signature computed over the sorted request parameters.
type TelebirrClient struct {
	apiKey    string
	apiSecret string
	shortCode string
	baseURL   string
	http      *http.Client
}

// NewTelebirrClient builds a client from the loaded configuration.
func NewTelebirrClient() *TelebirrClient {
	timeout := time.Duration(config.AppConfig.TelebirrTimeoutS) * time.Second
	return &TelebirrClient{
		apiKey:    config.AppConfig.TelebirrAPIKey,
		apiSecret: config.AppConfig.TelebirrAPISecret,
		shortCode: config.AppConfig.TelebirrShortCode,
		baseURL:   strings.TrimRight(config.AppConfig.TelebirrBaseURL, "/"),
		http:      &http.Client{Timeout: timeout},
	}
}

// Sign computes the request signature over the sorted key=value pairs.
func (t *TelebirrClient) Sign(params map[string]string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+params[k])
	}

	mac := hmac.New(sha256.New, []byte(t.apiSecret))
	mac.Write([]byte(strings.Join(pairs, "&")))
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifySignature checks a webhook signature against the payload parameters.
func (t *TelebirrClient) VerifySignature(params map[string]string, signature string) bool {
	return hmac.Equal([]byte(t.Sign(params)), []byte(signature))
}

type telebirrResponse struct {
	Success bool   `json:"success"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

// Initiate begins a transfer for the given amount and payer phone. It returns
// the transaction reference echoed by the gateway.
func (t *TelebirrClient) Initiate(ctx context.Context, amount float64, phone, reference, description string) (string, error) {
	params := map[string]string{
		"apiKey":        t.apiKey,
		"shortCode":     t.shortCode,
		"amount":        strconv.FormatFloat(amount, 'f', 2, 64),
		"phone":         phone,
		"transactionId": reference,
		"description":   description,
		"timestamp":     strconv.FormatInt(time.Now().UnixMilli(), 10),
	}
	params["signature"] = t.Sign(params)

	var resp telebirrResponse
	if err := t.post(ctx, "/payment/initiate", params, &resp); err != nil {
		return "", err
	}
	if !resp.Success {
		return "", fmt.Errorf("telebirr: initiation rejected: %s", resp.Message)
	}
	return reference, nil
}

// Verify polls the gateway for the outcome of a transaction reference.
func (t *TelebirrClient) Verify(ctx context.Context, reference string) (string, error) {
	params := map[string]string{
		"apiKey":        t.apiKey,
		"transactionId": reference,
		"timestamp":     strconv.FormatInt(time.Now().UnixMilli(), 10),
	}
	params["signature"] = t.Sign(params)

	var resp telebirrResponse
	if err := t.post(ctx, "/payment/verify", params, &resp); err != nil {
		return "", err
	}
	if !resp.Success {
		return "", fmt.Errorf("telebirr: verification rejected: %s", resp.Message)
	}
	return NormalizeGatewayStatus(resp.Status), nil
}

func (t *TelebirrClient) post(ctx context.Context, path string, params map[string]string, out *telebirrResponse) error {
	body, err := json.Marshal(params)
	if err != nil {
		return fmt.Errorf("telebirr: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("telebirr: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.http.Do(req)
	if err != nil {
		return fmt.Errorf("telebirr: gateway unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		return fmt.Errorf("telebirr: gateway returned %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("telebirr: decode response: %w", err)
	}
	return nil
}
