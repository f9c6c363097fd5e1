// Package payment creates payment intents with Stripe. Card handling and
// PCI scope stay entirely on Stripe's side; callers only receive the client
// secret needed to confirm the intent.
package payment

import (
	"context"
	"fmt"

	stripe "github.com/stripe/stripe-go/v72"
	"github.com/stripe/stripe-go/v72/client"
)

type Intent struct {
	ID           string
	ClientSecret string
}

type StripeClient struct {
	api *client.API
}

func NewStripeClient(secretKey string) *StripeClient {
	api := &client.API{}
	api.Init(secretKey, nil)

	return &StripeClient{
		api: api,
	}
}

// CreateIntent registers a payment of amountMinor (smallest currency unit)
// and returns the intent's client secret.
func (c *StripeClient) CreateIntent(ctx context.Context, amountMinor int64, currency string, metadata map[string]string) (Intent, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(amountMinor),
		Currency: stripe.String(currency),
	}
	params.Context = ctx
	for k, v := range metadata {
		params.AddMetadata(k, v)
	}

	intent, err := c.api.PaymentIntents.New(params)
	if err != nil {
		return Intent{}, fmt.Errorf("stripe PaymentIntents.New -> %w", err)
	}

	return Intent{
		ID:           intent.ID,
		ClientSecret: intent.ClientSecret,
	}, nil
}
