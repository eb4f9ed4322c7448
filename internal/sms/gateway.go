// Package sms is a thin client for the transactional SMS gateway used
// for OTP delivery. Delivery itself is the provider's problem; we only
// hand over the code and keep the returned request ID for audits.
package sms

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

type GatewayClient struct {
	baseURL string
	token   string
	sender  string
	http    *http.Client
}

func NewGatewayClient(baseURL, token, sender string) *GatewayClient {
	return &GatewayClient{
		baseURL: baseURL,
		token:   token,
		sender:  sender,
		http: &http.Client{
			Timeout: 8 * time.Second,
		},
	}
}

type sendOTPReq struct {
	Phone    string `json:"phone"`
	Code     string `json:"code,omitempty"`
	TTL      int    `json:"ttl,omitempty"`
	SenderID string `json:"sender_id,omitempty"`
}

type requestStatus struct {
	RequestID string `json:"request_id"`
}

type gatewayResp struct {
	OK     bool          `json:"ok"`
	Result requestStatus `json:"result"`
	Error  string        `json:"error"`
}

// SendOTP asks the gateway to deliver code to phoneE164. The returned
// request ID identifies the delivery on the provider side.
func (c *GatewayClient) SendOTP(ctx context.Context, phoneE164, code string, ttlSeconds int) (requestID string, err error) {
	if c.token == "" {
		return "", fmt.Errorf("sms gateway token is not configured")
	}

	body := sendOTPReq{
		Phone: phoneE164,
		Code:  code,
		TTL:   ttlSeconds,
	}
	if c.sender != "" {
		body.SenderID = c.sender
	}

	b, _ := json.Marshal(body)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/otp/send", bytes.NewReader(b))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", err
	}

	var out gatewayResp
	if err := json.Unmarshal(data, &out); err != nil {
		return "", fmt.Errorf("sms gateway: bad response (%d): %w", resp.StatusCode, err)
	}
	if !out.OK {
		if out.Error != "" {
			return "", fmt.Errorf("sms gateway: %s", out.Error)
		}
		return "", fmt.Errorf("sms gateway: http %d", resp.StatusCode)
	}
	return out.Result.RequestID, nil
}
