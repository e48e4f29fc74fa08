package request

import (
	"errors"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

var errMissingCode = errors.New("either qrCode or passId is required")

type BarLoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (req *BarLoginRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Email, validation.Required, is.Email),
		validation.Field(&req.Password, validation.Required),
	)
}

type VerifyPassRequest struct {
	QRCode string `json:"qrCode"`
	PassID string `json:"passId"`
}

func (req *VerifyPassRequest) Validate() error {
	if req.QRCode == "" && req.PassID == "" {
		return errMissingCode
	}

	return nil
}

// Code returns whichever identifier the scanner sent.
func (req *VerifyPassRequest) Code() string {
	if req.QRCode != "" {
		return req.QRCode
	}

	return req.PassID
}

type CollectPassRequest struct {
	PassID string `json:"passId"`
}

func (req *CollectPassRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.PassID, validation.Required),
	)
}
