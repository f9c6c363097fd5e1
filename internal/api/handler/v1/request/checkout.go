package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
)

type CreateOrderPaymentRequest struct {
	AuctionID            string `json:"auctionId"`
	DeliveryCityRef      string `json:"deliveryCityRef"`
	DeliveryWarehouseRef string `json:"deliveryWarehouseRef"`
}

func (req *CreateOrderPaymentRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.AuctionID, validation.Required),
		validation.Field(&req.DeliveryCityRef, validation.Required),
		validation.Field(&req.DeliveryWarehouseRef, validation.Required),
	)
}
