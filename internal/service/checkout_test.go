package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Holiuk2005/lotex/internal/config"
	"github.com/Holiuk2005/lotex/internal/domain"
	"github.com/Holiuk2005/lotex/internal/pkg/payment"
	"github.com/Holiuk2005/lotex/internal/pkg/shipping"
)

type fakeAuctionFinder struct {
	auctions map[string]domain.Auction
}

func (f *fakeAuctionFinder) FindByID(_ context.Context, id string) (domain.Auction, error) {
	auction, ok := f.auctions[id]
	if !ok {
		return domain.Auction{}, ErrAuctionNotFound
	}

	return auction, nil
}

type fakeQuoter struct {
	price   float64
	err     error
	lastReq shipping.QuoteRequest
}

func (f *fakeQuoter) Quote(_ context.Context, req shipping.QuoteRequest) (float64, error) {
	f.lastReq = req
	if f.err != nil {
		return 0, f.err
	}

	return f.price, nil
}

type fakePaymentProvider struct {
	lastAmount   int64
	lastCurrency string
	lastMetadata map[string]string
	err          error
}

func (f *fakePaymentProvider) CreateIntent(_ context.Context, amountMinor int64, currency string, metadata map[string]string) (payment.Intent, error) {
	if f.err != nil {
		return payment.Intent{}, f.err
	}
	f.lastAmount = amountMinor
	f.lastCurrency = currency
	f.lastMetadata = metadata

	return payment.Intent{ID: "pi_1", ClientSecret: "pi_1_secret"}, nil
}

func newTestCheckout(auctions map[string]domain.Auction, quoter *fakeQuoter, provider *fakePaymentProvider) *CheckoutService {
	return NewCheckoutService(
		&fakeAuctionFinder{auctions: auctions},
		quoter,
		provider,
		&config.StripeConfig{SecretKey: "sk_test", Currency: "UAH"},
		&config.ShippingConfig{SenderCityRef: "city-default"},
	)
}

func TestCheckoutService_CreateOrderPayment(t *testing.T) {
	ctx := context.Background()

	baseAuction := domain.Auction{
		ID:            "a1",
		Title:         "Old clock",
		SellerID:      "seller",
		SellerCityRef: "city-seller",
		CurrentPrice:  200,
		WeightKg:      1.5,
	}

	t.Run("prices the order and opens a payment intent", func(t *testing.T) {
		quoter := &fakeQuoter{price: 80}
		provider := &fakePaymentProvider{}
		svc := newTestCheckout(map[string]domain.Auction{"a1": baseAuction}, quoter, provider)

		order, err := svc.CreateOrderPayment(ctx, "buyer", "a1", "city-buyer", "wh-1")
		require.NoError(t, err)

		require.Equal(t, "pi_1_secret", order.ClientSecret)
		require.Equal(t, float64(80), order.ShippingPrice)
		require.Equal(t, float64(10), order.Commission) // 5% of 200
		require.Equal(t, float64(290), order.TotalAmount)
		require.Equal(t, "uah", order.Currency)

		require.Equal(t, "city-seller", quoter.lastReq.CitySender)
		require.Equal(t, "city-buyer", quoter.lastReq.CityRecipient)
		require.Equal(t, 1.5, quoter.lastReq.WeightKg)

		require.Equal(t, int64(29000), provider.lastAmount)
		require.Equal(t, "a1", provider.lastMetadata["auction_id"])
		require.Equal(t, "buyer", provider.lastMetadata["buyer_id"])
		require.Equal(t, "city-buyer", provider.lastMetadata["city_ref"])
		require.Equal(t, "wh-1", provider.lastMetadata["warehouse_ref"])
	})

	t.Run("commission is rounded to two decimals", func(t *testing.T) {
		auction := baseAuction
		auction.CurrentPrice = 99.99 // 5% = 4.9995
		quoter := &fakeQuoter{price: 0}
		provider := &fakePaymentProvider{}
		svc := newTestCheckout(map[string]domain.Auction{"a1": auction}, quoter, provider)

		order, err := svc.CreateOrderPayment(ctx, "buyer", "a1", "city-buyer", "wh-1")
		require.NoError(t, err)
		require.Equal(t, 5.0, order.Commission)
		require.Equal(t, 104.99, order.TotalAmount)
	})

	t.Run("unknown auction", func(t *testing.T) {
		svc := newTestCheckout(map[string]domain.Auction{}, &fakeQuoter{}, &fakePaymentProvider{})

		_, err := svc.CreateOrderPayment(ctx, "buyer", "nope", "city-buyer", "wh-1")
		require.ErrorIs(t, err, ErrAuctionNotFound)
	})

	t.Run("non-positive price", func(t *testing.T) {
		auction := baseAuction
		auction.CurrentPrice = 0
		svc := newTestCheckout(map[string]domain.Auction{"a1": auction}, &fakeQuoter{}, &fakePaymentProvider{})

		_, err := svc.CreateOrderPayment(ctx, "buyer", "a1", "city-buyer", "wh-1")
		require.ErrorIs(t, err, ErrInvalidItemPrice)
	})

	t.Run("falls back to the configured sender city", func(t *testing.T) {
		auction := baseAuction
		auction.SellerCityRef = ""
		quoter := &fakeQuoter{price: 10}
		svc := newTestCheckout(map[string]domain.Auction{"a1": auction}, quoter, &fakePaymentProvider{})

		_, err := svc.CreateOrderPayment(ctx, "buyer", "a1", "city-buyer", "wh-1")
		require.NoError(t, err)
		require.Equal(t, "city-default", quoter.lastReq.CitySender)
	})

	t.Run("missing seller city everywhere", func(t *testing.T) {
		auction := baseAuction
		auction.SellerCityRef = ""
		svc := NewCheckoutService(
			&fakeAuctionFinder{auctions: map[string]domain.Auction{"a1": auction}},
			&fakeQuoter{},
			&fakePaymentProvider{},
			&config.StripeConfig{SecretKey: "sk_test", Currency: "uah"},
			&config.ShippingConfig{},
		)

		_, err := svc.CreateOrderPayment(ctx, "buyer", "a1", "city-buyer", "wh-1")
		require.ErrorIs(t, err, ErrMissingSellerCity)
	})

	t.Run("shipping failure", func(t *testing.T) {
		quoter := &fakeQuoter{err: errors.New("carrier timeout")}
		svc := newTestCheckout(map[string]domain.Auction{"a1": baseAuction}, quoter, &fakePaymentProvider{})

		_, err := svc.CreateOrderPayment(ctx, "buyer", "a1", "city-buyer", "wh-1")
		require.ErrorIs(t, err, ErrShippingQuote)
	})

	t.Run("missing payment key", func(t *testing.T) {
		svc := NewCheckoutService(
			&fakeAuctionFinder{auctions: map[string]domain.Auction{"a1": baseAuction}},
			&fakeQuoter{price: 10},
			&fakePaymentProvider{},
			&config.StripeConfig{Currency: "uah"},
			&config.ShippingConfig{},
		)

		_, err := svc.CreateOrderPayment(ctx, "buyer", "a1", "city-buyer", "wh-1")
		require.ErrorIs(t, err, ErrPaymentNotConfigured)
	})

	t.Run("gateway failure", func(t *testing.T) {
		provider := &fakePaymentProvider{err: errors.New("stripe 500")}
		svc := newTestCheckout(map[string]domain.Auction{"a1": baseAuction}, &fakeQuoter{price: 10}, provider)

		_, err := svc.CreateOrderPayment(ctx, "buyer", "a1", "city-buyer", "wh-1")
		require.Error(t, err)
	})
}

func TestToMinorUnits(t *testing.T) {
	tests := []struct {
		name     string
		amount   float64
		currency string
		want     int64
	}{
		{"two-decimal currency", 290.00, "uah", 29000},
		{"two-decimal rounding", 104.999, "usd", 10500},
		{"zero-decimal currency", 290.00, "jpy", 290},
		{"zero-decimal rounding", 290.4, "krw", 290},
		{"zero-decimal uppercase", 100.0, "VND", 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, ToMinorUnits(tt.amount, tt.currency))
		})
	}
}
