package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
)

type PurchaseTicketsRequest struct {
	Quantity int `json:"quantity"`
}

func (req *PurchaseTicketsRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Quantity, validation.Required, validation.Min(1), validation.Max(10)),
	)
}
