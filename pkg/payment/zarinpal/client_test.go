package zarinpal

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(baseURL string) Config {
	return Config{
		MerchantID:     "test-merchant-id",
		BaseURL:        baseURL,
		PaymentPageURL: "https://sandbox.zarinpal.com/pg/StartPay",
		CallbackURL:    "http://localhost:8080/api/v1/payment/callback",
	}
}

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(testConfig(server.URL))
	require.NoError(t, err)
	return client, server
}

func TestNewClient_InvalidConfig(t *testing.T) {
	_, err := NewClient(Config{})
	assert.Error(t, err)
}

func TestClient_Request_Success(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/request.json", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)

		var req RequestRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "test-merchant-id", req.MerchantID)
		assert.Equal(t, int64(250000), req.Amount)
		// Callback falls back to the configured URL
		assert.Equal(t, "http://localhost:8080/api/v1/payment/callback", req.CallbackURL)

		// The unused errors half comes back as an empty array
		w.Write([]byte(`{"data":{"code":100,"message":"Success","authority":"A00000123","fee_type":"Merchant","fee":1000},"errors":[]}`))
	})

	resp, err := client.Request(context.Background(), RequestRequest{
		Amount:      250000,
		Description: "سفارش تست",
		Metadata:    Metadata{Mobile: "09121234567"},
	})
	require.NoError(t, err)
	assert.Equal(t, CodeSuccess, resp.Code)
	assert.Equal(t, "A00000123", resp.Authority)
}

func TestClient_Request_GatewayError(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"data":[],"errors":{"code":-74,"message":"Invalid merchant ID."}}`))
	})

	_, err := client.Request(context.Background(), RequestRequest{Amount: 1000})
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestClient_Verify_Success(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/verify.json", r.URL.Path)

		var req VerifyRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "A00000123", req.Authority)
		assert.Equal(t, int64(250000), req.Amount)

		w.Write([]byte(`{"data":{"code":100,"message":"Verified","ref_id":201200,"card_pan":"502229******1234"},"errors":[]}`))
	})

	resp, err := client.Verify(context.Background(), VerifyRequest{
		Amount:    250000,
		Authority: "A00000123",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(201200), resp.RefID)
}

func TestClient_Verify_AlreadyVerifiedAccepted(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":{"code":101,"message":"Already verified","ref_id":201200},"errors":[]}`))
	})

	resp, err := client.Verify(context.Background(), VerifyRequest{Amount: 1000, Authority: "A1"})
	require.NoError(t, err)
	assert.Equal(t, CodeAlreadyVerified, resp.Code)
}

func TestClient_Verify_InvalidAuthority(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"data":[],"errors":{"code":-51,"message":"Session is not valid."}}`))
	})

	_, err := client.Verify(context.Background(), VerifyRequest{Amount: 1000, Authority: "A-BAD"})
	assert.ErrorIs(t, err, ErrInvalidAuthority)
}

func TestClient_Verify_AmountMismatch(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"data":[],"errors":{"code":-50,"message":"Amount does not match."}}`))
	})

	_, err := client.Verify(context.Background(), VerifyRequest{Amount: 999, Authority: "A1"})
	assert.ErrorIs(t, err, ErrAmountMismatch)
}

func TestClient_Verify_FailedPayment(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":{"code":-21,"message":"Transaction not found"},"errors":[]}`))
	})

	_, err := client.Verify(context.Background(), VerifyRequest{Amount: 1000, Authority: "A1"})
	assert.ErrorIs(t, err, ErrPaymentNotVerified)
}

func TestClient_PaymentURL(t *testing.T) {
	client, err := NewClient(testConfig("https://sandbox.zarinpal.com/pg/v4/payment"))
	require.NoError(t, err)

	url := client.PaymentURL("A00000123")
	assert.Equal(t, "https://sandbox.zarinpal.com/pg/StartPay/A00000123", url)
}

func TestClient_NetworkError(t *testing.T) {
	client, server := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {})
	server.Close()

	_, err := client.Request(context.Background(), RequestRequest{Amount: 1000})
	assert.ErrorIs(t, err, ErrNetworkError)
}
