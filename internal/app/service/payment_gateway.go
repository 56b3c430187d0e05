package service

import (
	"context"
	"fmt"

	"github.com/shopyar/shopyar-backend/pkg/payment/zarinpal"
)

// PaymentGateway abstracts the payment provider so order flows can be tested
// without hitting the real gateway.
type PaymentGateway interface {
	// RequestPayment registers a payment of amount (in tomans) and returns
	// the authority token plus the URL the buyer must be redirected to.
	RequestPayment(ctx context.Context, amount int64, description, mobile string) (authority, payURL string, err error)
	// VerifyPayment confirms a returned payment against the amount the order
	// was placed with and returns the gateway reference ID.
	VerifyPayment(ctx context.Context, authority string, amount int64) (refID string, err error)
}

type zarinpalGateway struct {
	client *zarinpal.Client
}

// NewZarinpalGateway wraps a Zarinpal client as a PaymentGateway
func NewZarinpalGateway(client *zarinpal.Client) PaymentGateway {
	return &zarinpalGateway{client: client}
}

func (g *zarinpalGateway) RequestPayment(ctx context.Context, amount int64, description, mobile string) (string, string, error) {
	resp, err := g.client.Request(ctx, zarinpal.RequestRequest{
		Amount:      amount,
		Description: description,
		Metadata:    zarinpal.Metadata{Mobile: mobile},
	})
	if err != nil {
		return "", "", err
	}
	return resp.Authority, g.client.PaymentURL(resp.Authority), nil
}

func (g *zarinpalGateway) VerifyPayment(ctx context.Context, authority string, amount int64) (string, error) {
	resp, err := g.client.Verify(ctx, zarinpal.VerifyRequest{
		Amount:    amount,
		Authority: authority,
	})
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%d", resp.RefID), nil
}
