package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
)

type PurchasePassRequest struct {
	BarID         string  `json:"barId"`
	PersonCount   int     `json:"personCount"`
	TotalPrice    float64 `json:"totalPrice"`
	TransactionID string  `json:"transactionId"`
	PaymentMethod string  `json:"paymentMethod"`
}

func (req *PurchasePassRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.BarID, validation.Required),
		validation.Field(&req.PersonCount, validation.Required, validation.Min(1), validation.Max(10)),
		validation.Field(&req.TotalPrice, validation.Required, validation.Min(0.0)),
	)
}
