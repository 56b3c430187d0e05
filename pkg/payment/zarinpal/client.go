package zarinpal

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	// CodeSuccess indicates a successful request or a verified payment
	CodeSuccess = 100

	// CodeAlreadyVerified indicates the transaction was verified on an earlier call
	CodeAlreadyVerified = 101
)

// Client represents a Zarinpal payment gateway API client
type Client struct {
	config     Config
	httpClient *http.Client
}

// NewClient creates a new Zarinpal client with the given configuration
func NewClient(config Config) (*Client, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	httpClient := &http.Client{
		Timeout: 30 * time.Second,
	}

	return &Client{
		config:     config,
		httpClient: httpClient,
	}, nil
}

// GetConfig returns the client configuration
func (c *Client) GetConfig() Config {
	return c.config
}

// Request initiates a payment and returns the authority token issued by the gateway
func (c *Client) Request(ctx context.Context, req RequestRequest) (*RequestResponse, error) {
	req.MerchantID = c.config.MerchantID
	if req.CallbackURL == "" {
		req.CallbackURL = c.config.CallbackURL
	}

	body, err := c.doRequest(ctx, "request.json", req)
	if err != nil {
		return nil, fmt.Errorf("failed to make payment request: %w", err)
	}

	var requestResp RequestResponse
	if err := body.decodeData(&requestResp); err != nil {
		return nil, fmt.Errorf("failed to decode request response: %w", err)
	}
	if requestResp.Code != CodeSuccess {
		return nil, fmt.Errorf("%w: code=%d message=%s", ErrPaymentFailed, requestResp.Code, requestResp.Message)
	}

	return &requestResp, nil
}

// Verify confirms a payment after the buyer returns from the gateway. The
// amount must equal the amount of the original request or the gateway rejects
// the verification.
func (c *Client) Verify(ctx context.Context, req VerifyRequest) (*VerifyResponse, error) {
	req.MerchantID = c.config.MerchantID

	body, err := c.doRequest(ctx, "verify.json", req)
	if err != nil {
		return nil, fmt.Errorf("failed to make verify request: %w", err)
	}

	var verifyResp VerifyResponse
	if err := body.decodeData(&verifyResp); err != nil {
		return nil, fmt.Errorf("failed to decode verify response: %w", err)
	}
	if verifyResp.Code != CodeSuccess && verifyResp.Code != CodeAlreadyVerified {
		return nil, fmt.Errorf("%w: code=%d message=%s", ErrPaymentNotVerified, verifyResp.Code, verifyResp.Message)
	}

	return &verifyResp, nil
}

// PaymentURL builds the page the buyer must be redirected to for a given authority
func (c *Client) PaymentURL(authority string) string {
	return fmt.Sprintf("%s/%s", c.config.PaymentPageURL, authority)
}

// doRequest performs an HTTP request to the Zarinpal v4 API
func (c *Client) doRequest(ctx context.Context, endpoint string, payload interface{}) (*envelope, error) {
	reqBody, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}

	url := fmt.Sprintf("%s/%s", c.config.BaseURL, endpoint)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(reqBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNetworkError, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("unexpected status code: %d, body: %s", resp.StatusCode, string(body))
	}

	if detail := env.errorDetail(); detail != nil {
		switch detail.Code {
		case -74, -80:
			return nil, fmt.Errorf("%w: %s", ErrUnauthorized, detail.Error())
		case -51, -53, -54:
			return nil, fmt.Errorf("%w: %s", ErrInvalidAuthority, detail.Error())
		case -50:
			return nil, fmt.Errorf("%w: %s", ErrAmountMismatch, detail.Error())
		default:
			return nil, fmt.Errorf("%w: %s", ErrPaymentFailed, detail.Error())
		}
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d, body: %s", resp.StatusCode, string(body))
	}

	return &env, nil
}
