// Package shipping quotes delivery cost through a Nova-Poshta-style JSON
// API. The provider is an external collaborator; this client only shapes
// requests and unwraps responses.
package shipping

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/Holiuk2005/lotex/internal/config"
)

var (
	ErrQuoteFailed = errors.New("shipping provider returned no quote")
)

type QuoteRequest struct {
	CitySender    string
	CityRecipient string
	WarehouseRef  string
	WeightKg      float64
	LengthCm      float64
	WidthCm       float64
	HeightCm      float64
	AssessedValue float64
}

type Client struct {
	httpClient *http.Client
	apiKey     string
	baseURL    string
}

func NewClient(conf *config.ShippingConfig) *Client {
	return &Client{
		httpClient: http.DefaultClient,
		apiKey:     conf.APIKey,
		baseURL:    conf.BaseURL,
	}
}

type apiRequest struct {
	APIKey           string         `json:"apiKey"`
	ModelName        string         `json:"modelName"`
	CalledMethod     string         `json:"calledMethod"`
	MethodProperties map[string]any `json:"methodProperties"`
}

type apiResponse struct {
	Success bool `json:"success"`
	Data    []struct {
		Cost float64 `json:"Cost"`
	} `json:"data"`
	Errors []string `json:"errors"`
}

// Quote returns the delivery price for one parcel between two cities.
func (c *Client) Quote(ctx context.Context, req QuoteRequest) (float64, error) {
	payload := apiRequest{
		APIKey:       c.apiKey,
		ModelName:    "InternetDocument",
		CalledMethod: "getDocumentPrice",
		MethodProperties: map[string]any{
			"CitySender":    req.CitySender,
			"CityRecipient": req.CityRecipient,
			"ServiceType":   "WarehouseWarehouse",
			"CargoType":     "Parcel",
			"SeatsAmount":   "1",
			"Weight":        fmt.Sprintf("%.2f", req.WeightKg),
			"Cost":          fmt.Sprintf("%.2f", req.AssessedValue),
			"OptionsSeat": []map[string]any{
				{
					"weight":           req.WeightKg,
					"volumetricLength": req.LengthCm,
					"volumetricWidth":  req.WidthCm,
					"volumetricHeight": req.HeightCm,
				},
			},
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return 0, fmt.Errorf("json.Marshal -> %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("http.NewRequestWithContext -> %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return 0, fmt.Errorf("c.httpClient.Do -> %w", err)
	}
	defer resp.Body.Close()

	var decoded apiResponse
	if err = json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return 0, fmt.Errorf("json.Decode -> %w", err)
	}

	if !decoded.Success || len(decoded.Data) == 0 {
		if len(decoded.Errors) > 0 {
			return 0, fmt.Errorf("%w: %v", ErrQuoteFailed, strings.Join(decoded.Errors, "; "))
		}
		return 0, ErrQuoteFailed
	}

	return decoded.Data[0].Cost, nil
}
