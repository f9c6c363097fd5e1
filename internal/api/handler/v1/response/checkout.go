package response

type CreateOrderPaymentResponse struct {
	ClientSecret            string  `json:"clientSecret"`
	CalculatedShippingPrice float64 `json:"calculatedShippingPrice"`
	Commission              float64 `json:"commission"`
	TotalAmount             float64 `json:"totalAmount"`
	Currency                string  `json:"currency"`
}
