package zarinpal

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// RequestRequest represents the request parameters for the payment request API
type RequestRequest struct {
	MerchantID  string   `json:"merchant_id"`
	Amount      int64    `json:"amount"`
	CallbackURL string   `json:"callback_url"`
	Description string   `json:"description"`
	Metadata    Metadata `json:"metadata,omitempty"`
}

// Metadata carries optional buyer information attached to a payment request
type Metadata struct {
	Mobile string `json:"mobile,omitempty"`
	Email  string `json:"email,omitempty"`
	Order  string `json:"order_id,omitempty"`
}

// RequestResponse represents the response from the payment request API
type RequestResponse struct {
	Code      int    `json:"code"`
	Message   string `json:"message"`
	Authority string `json:"authority"`
	FeeType   string `json:"fee_type"`
	Fee       int64  `json:"fee"`
}

// VerifyRequest represents the request parameters for the payment verify API
type VerifyRequest struct {
	MerchantID string `json:"merchant_id"`
	Amount     int64  `json:"amount"`
	Authority  string `json:"authority"`
}

// VerifyResponse represents the response from the payment verify API
type VerifyResponse struct {
	Code     int    `json:"code"`
	Message  string `json:"message"`
	RefID    int64  `json:"ref_id"`
	CardPan  string `json:"card_pan"`
	CardHash string `json:"card_hash"`
	FeeType  string `json:"fee_type"`
	Fee      int64  `json:"fee"`
}

// ErrorDetail represents the errors object of a failed gateway response
type ErrorDetail struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *ErrorDetail) Error() string {
	return fmt.Sprintf("zarinpal error: code=%d, message=%s", e.Code, e.Message)
}

// envelope is the common response wrapper of the v4 API. Zarinpal encodes the
// unused half of data/errors as an empty JSON array instead of null, so both
// fields are decoded leniently.
type envelope struct {
	Data   json.RawMessage `json:"data"`
	Errors json.RawMessage `json:"errors"`
}

func (e *envelope) decodeData(out interface{}) error {
	if !isObject(e.Data) {
		return fmt.Errorf("response has no data object")
	}
	return json.Unmarshal(e.Data, out)
}

func (e *envelope) errorDetail() *ErrorDetail {
	if !isObject(e.Errors) {
		return nil
	}
	var detail ErrorDetail
	if err := json.Unmarshal(e.Errors, &detail); err != nil {
		return nil
	}
	return &detail
}

func isObject(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '{'
}
