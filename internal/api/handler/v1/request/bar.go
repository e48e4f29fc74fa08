package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
)

type CreateBarRequest struct {
	Name       string   `json:"name"`
	NameEn     string   `json:"nameEn"`
	DistrictID string   `json:"districtId"`
	Address    string   `json:"address"`
	Image      string   `json:"image"`
	Rating     float64  `json:"rating"`
	Drinks     []string `json:"drinks"`
}

func (req *CreateBarRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Name, validation.Required),
		validation.Field(&req.Rating, validation.Min(0.0), validation.Max(5.0)),
	)
}

type UpdateBarRequest struct {
	Name       *string  `json:"name"`
	NameEn     *string  `json:"nameEn"`
	DistrictID *string  `json:"districtId"`
	Address    *string  `json:"address"`
	Image      *string  `json:"image"`
	Rating     *float64 `json:"rating"`
	Drinks     []string `json:"drinks"`
}

func (req *UpdateBarRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Name, validation.NilOrNotEmpty),
		validation.Field(&req.Rating, validation.Min(0.0), validation.Max(5.0)),
	)
}
