package request

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
)

type CreatePartyRequest struct {
	PassID          string    `json:"passId"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	MaxFemaleGuests int       `json:"maxFemaleGuests"`
	PartyTime       time.Time `json:"partyTime"`
}

func (req *CreatePartyRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.PassID, validation.Required),
		validation.Field(&req.Title, validation.Required, validation.Length(1, 100)),
		validation.Field(&req.Description, validation.Length(0, 500)),
		validation.Field(&req.MaxFemaleGuests, validation.Required, validation.Min(1), validation.Max(10)),
		validation.Field(&req.PartyTime, validation.Required),
	)
}
