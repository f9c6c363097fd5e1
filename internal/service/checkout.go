package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/Holiuk2005/lotex/internal/config"
	"github.com/Holiuk2005/lotex/internal/domain"
	"github.com/Holiuk2005/lotex/internal/pkg/payment"
	"github.com/Holiuk2005/lotex/internal/pkg/shipping"
	"github.com/Holiuk2005/lotex/internal/repository"
)

var (
	ErrAuctionNotFound      = repository.ErrAuctionNotFound
	ErrInvalidItemPrice     = errors.New("auction has no valid price")
	ErrMissingSellerCity    = errors.New("seller location is not set")
	ErrShippingQuote        = errors.New("failed to calculate shipping price")
	ErrPaymentNotConfigured = errors.New("payment secret key is not configured")
	ErrInvalidTotal         = errors.New("computed order total is invalid")
)

// commissionRate is the marketplace cut, of the item price only.
const commissionRate = 0.05

// zeroDecimalCurrencies are charged in whole units rather than cents.
var zeroDecimalCurrencies = map[string]bool{
	"bif": true, "clp": true, "djf": true, "gnf": true, "jpy": true,
	"kmf": true, "krw": true, "mga": true, "pyg": true, "rwf": true,
	"ugx": true, "vnd": true, "vuv": true, "xaf": true, "xof": true,
	"xpf": true,
}

type CheckoutAuctionRepository interface {
	FindByID(ctx context.Context, id string) (domain.Auction, error)
}

type ShippingQuoter interface {
	Quote(ctx context.Context, req shipping.QuoteRequest) (float64, error)
}

type PaymentProvider interface {
	CreateIntent(ctx context.Context, amountMinor int64, currency string, metadata map[string]string) (payment.Intent, error)
}

type Order struct {
	ClientSecret  string
	ShippingPrice float64
	Commission    float64
	TotalAmount   float64
	Currency      string
}

// CheckoutService prices an order (item + shipping + commission) and opens a
// payment intent with the gateway. It performs no transactional writes of
// its own.
type CheckoutService struct {
	auctions CheckoutAuctionRepository
	shipping ShippingQuoter
	payments PaymentProvider

	stripeConf   *config.StripeConfig
	shippingConf *config.ShippingConfig
}

func NewCheckoutService(
	auctions CheckoutAuctionRepository,
	quoter ShippingQuoter,
	payments PaymentProvider,
	stripeConf *config.StripeConfig,
	shippingConf *config.ShippingConfig,
) *CheckoutService {
	return &CheckoutService{
		auctions:     auctions,
		shipping:     quoter,
		payments:     payments,
		stripeConf:   stripeConf,
		shippingConf: shippingConf,
	}
}

func (s *CheckoutService) CreateOrderPayment(ctx context.Context, buyerID, auctionID, cityRef, warehouseRef string) (Order, error) {
	auction, err := s.auctions.FindByID(ctx, auctionID)
	if err != nil {
		return Order{}, err
	}

	price := auction.CurrentPrice
	if price <= 0 || math.IsNaN(price) || math.IsInf(price, 0) {
		return Order{}, ErrInvalidItemPrice
	}

	senderCity := auction.SellerCityRef
	if senderCity == "" {
		senderCity = s.shippingConf.SenderCityRef
	}
	if senderCity == "" {
		return Order{}, ErrMissingSellerCity
	}

	shippingPrice, err := s.shipping.Quote(ctx, shipping.QuoteRequest{
		CitySender:    senderCity,
		CityRecipient: cityRef,
		WarehouseRef:  warehouseRef,
		WeightKg:      auction.WeightKg,
		LengthCm:      auction.LengthCm,
		WidthCm:       auction.WidthCm,
		HeightCm:      auction.HeightCm,
		AssessedValue: price,
	})
	if err != nil {
		return Order{}, fmt.Errorf("%w: %v", ErrShippingQuote, err)
	}

	commission := roundTo2(price * commissionRate)
	total := price + shippingPrice + commission
	if total <= 0 || math.IsNaN(total) || math.IsInf(total, 0) {
		return Order{}, fmt.Errorf("%w: %v", ErrInvalidTotal, total)
	}

	if s.stripeConf.SecretKey == "" {
		return Order{}, ErrPaymentNotConfigured
	}

	currency := strings.ToLower(s.stripeConf.Currency)

	intent, err := s.payments.CreateIntent(ctx, ToMinorUnits(total, currency), currency, map[string]string{
		"auction_id":    auctionID,
		"buyer_id":      buyerID,
		"city_ref":      cityRef,
		"warehouse_ref": warehouseRef,
	})
	if err != nil {
		return Order{}, fmt.Errorf("s.payments.CreateIntent -> %w", err)
	}

	return Order{
		ClientSecret:  intent.ClientSecret,
		ShippingPrice: shippingPrice,
		Commission:    commission,
		TotalAmount:   roundTo2(total),
		Currency:      currency,
	}, nil
}

// ToMinorUnits converts a major-unit amount to what the payment gateway
// expects: cents for two-decimal currencies, whole units for zero-decimal
// ones.
func ToMinorUnits(amount float64, currency string) int64 {
	if zeroDecimalCurrencies[strings.ToLower(currency)] {
		return int64(math.Round(amount))
	}

	return int64(math.Round(amount * 100))
}

func roundTo2(v float64) float64 {
	return math.Round(v*100) / 100
}
